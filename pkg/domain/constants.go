package domain

import "fmt"

// Canonical blink counts of the two puzzle parts.
const (
	PartOneBlinks = 25
	PartTwoBlinks = 75
)

// DefaultMemoThreshold is the largest blink count the automatic strategy
// still hands to the memoized counter.
const DefaultMemoThreshold = PartOneBlinks

// DefaultExpandLimit bounds how many stones an ordered expansion may produce.
const DefaultExpandLimit = 1 << 20

// BlinksForPart maps a puzzle part to its blink count.
func BlinksForPart(part int) (int, error) {
	switch part {
	case 1:
		return PartOneBlinks, nil
	case 2:
		return PartTwoBlinks, nil
	default:
		return 0, fmt.Errorf("%w: %d (expected 1 or 2)", ErrInvalidPart, part)
	}
}
