package stone

import (
	"fmt"
	"math"

	"github.com/aretw0/blink/pkg/domain"
)

// Multiplier is applied to stones that neither are zero nor split.
const Multiplier = 2024

// maxMultiplicand is the largest value that can be multiplied by Multiplier without wrapping.
const maxMultiplicand = math.MaxUint64 / Multiplier

// Outcome is the result of one rule application: a single stone or a pair.
type Outcome struct {
	Left  uint64
	Right uint64
	// Split is true for Pair outcomes. Right is meaningless otherwise.
	Split bool
}

// Single builds a one-stone outcome.
func Single(v uint64) Outcome {
	return Outcome{Left: v}
}

// Pair builds a two-stone outcome.
func Pair(left, right uint64) Outcome {
	return Outcome{Left: left, Right: right, Split: true}
}

// Len is the number of stones in the outcome.
func (o Outcome) Len() int {
	if o.Split {
		return 2
	}
	return 1
}

// Stones returns the outcome's stones in order.
func (o Outcome) Stones() []uint64 {
	if o.Split {
		return []uint64{o.Left, o.Right}
	}
	return []uint64{o.Left}
}

func (o Outcome) String() string {
	if o.Split {
		return fmt.Sprintf("Pair(%d, %d)", o.Left, o.Right)
	}
	return fmt.Sprintf("Single(%d)", o.Left)
}

// Apply blinks a single stone once. Values above math.MaxUint64/2024 with an
// odd digit count wrap; use ApplyChecked where that matters.
func Apply(v uint64) Outcome {
	if v == 0 {
		return Single(1)
	}
	if d := Digits(v); d%2 == 0 {
		half := pow10[d/2]
		return Pair(v/half, v%half)
	}
	return Single(v * Multiplier)
}

// ApplyChecked is Apply with overflow detection on the multiply branch.
func ApplyChecked(v uint64) (Outcome, error) {
	o := Apply(v)
	if !o.Split && v != 0 && v > maxMultiplicand {
		return Outcome{}, fmt.Errorf("%w: %d * %d", domain.ErrOverflow, v, Multiplier)
	}
	return o, nil
}
