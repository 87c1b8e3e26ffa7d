package histogram

import (
	"fmt"
	"math/bits"
	"slices"

	"github.com/aretw0/blink/pkg/domain"
)

// Histogram maps a stone value to the number of stones carrying it.
type Histogram map[uint64]uint64

// FromValues builds a histogram with one count per occurrence in values.
func FromValues(values []uint64) Histogram {
	h := make(Histogram, len(values))
	for _, v := range values {
		h[v]++
	}
	return h
}

// Add adds n stones of value v, failing on overflow.
func (h Histogram) Add(v, n uint64) error {
	sum, carry := bits.Add64(h[v], n, 0)
	if carry != 0 {
		return fmt.Errorf("%w: count of stone %d", domain.ErrOverflow, v)
	}
	h[v] = sum
	return nil
}

// Total returns the number of stones in the histogram.
func (h Histogram) Total() (uint64, error) {
	var total, carry uint64
	for _, n := range h {
		total, carry = bits.Add64(total, n, 0)
		if carry != 0 {
			return 0, fmt.Errorf("%w: total stone count", domain.ErrOverflow)
		}
	}
	return total, nil
}

// Distinct returns the number of distinct stone values.
func (h Histogram) Distinct() int {
	return len(h)
}

// Values returns the distinct stone values in ascending order.
func (h Histogram) Values() []uint64 {
	values := make([]uint64, 0, len(h))
	for v := range h {
		values = append(values, v)
	}
	slices.Sort(values)
	return values
}

// Clone returns an independent copy of h.
func (h Histogram) Clone() Histogram {
	c := make(Histogram, len(h))
	for v, n := range h {
		c[v] = n
	}
	return c
}
