// Package counter counts stones with a memoized recursion on
// (value, blinks remaining). It suits modest blink counts: the memo key space
// grows with depth, but splitting quickly collapses large values and equal
// sub-values at equal depth are computed once.
package counter

import (
	"context"
	"fmt"
	"math/bits"

	"github.com/aretw0/blink/pkg/domain"
	"github.com/aretw0/blink/pkg/stone"
)

// MaxSteps is the deepest recursion Count accepts. Any stone passes 2^64
// descendants long before this many blinks, so deeper runs can only overflow.
const MaxSteps = 1 << 12

type key struct {
	value uint64
	steps uint32
}

// Stats reports memo usage of a Counter.
type Stats struct {
	Hits    uint64
	Misses  uint64
	Entries int
}

// Counter holds the memo for one logical run. It is not safe for concurrent use;
// create one per run.
type Counter struct {
	memo  map[key]uint64
	stats Stats
}

// New creates a Counter with an empty memo.
func New() *Counter {
	return &Counter{memo: make(map[key]uint64)}
}

// Count returns the number of stones v becomes after steps blinks.
// Counts deeper than MaxSteps fail with domain.ErrOverflow without recursing.
func (c *Counter) Count(v uint64, steps uint32) (uint64, error) {
	if steps == 0 {
		return 1, nil
	}
	if steps > MaxSteps {
		return 0, fmt.Errorf("%w: %d blinks exceeds the memo depth limit %d", domain.ErrOverflow, steps, MaxSteps)
	}

	k := key{value: v, steps: steps}
	if n, ok := c.memo[k]; ok {
		c.stats.Hits++
		return n, nil
	}
	c.stats.Misses++

	o, err := stone.ApplyChecked(v)
	if err != nil {
		return 0, err
	}

	n, err := c.Count(o.Left, steps-1)
	if err != nil {
		return 0, err
	}
	if o.Split {
		r, err := c.Count(o.Right, steps-1)
		if err != nil {
			return 0, err
		}
		var carry uint64
		n, carry = bits.Add64(n, r, 0)
		if carry != 0 {
			return 0, fmt.Errorf("%w: stone count of %d after %d blinks", domain.ErrOverflow, v, steps)
		}
	}

	c.memo[k] = n
	return n, nil
}

// Total sums Count(v, steps) over values, duplicates included. The context is
// checked before each initial value.
func (c *Counter) Total(ctx context.Context, values []uint64, steps uint32) (uint64, error) {
	var total uint64
	for _, v := range values {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		n, err := c.Count(v, steps)
		if err != nil {
			return 0, err
		}
		var carry uint64
		total, carry = bits.Add64(total, n, 0)
		if carry != 0 {
			return 0, fmt.Errorf("%w: total stone count", domain.ErrOverflow)
		}
	}
	return total, nil
}

// Stats returns a snapshot of memo usage.
func (c *Counter) Stats() Stats {
	s := c.stats
	s.Entries = len(c.memo)
	return s
}
