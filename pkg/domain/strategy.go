package domain

import "fmt"

// Strategy selects the evaluator that computes a stone count.
type Strategy string

const (
	// StrategyAuto uses StrategyMemo up to the memo threshold and StrategyHistogram beyond it.
	StrategyAuto Strategy = "auto"
	// StrategyMemo is the memoized recursion on (value, steps remaining).
	StrategyMemo Strategy = "memo"
	// StrategyHistogram evolves a value -> count histogram in lock-step.
	StrategyHistogram Strategy = "histogram"
)

// ParseStrategy converts a user supplied name into a Strategy.
// The empty string maps to StrategyAuto.
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(name) {
	case "", StrategyAuto:
		return StrategyAuto, nil
	case StrategyMemo, StrategyHistogram:
		return Strategy(name), nil
	default:
		return "", fmt.Errorf("unknown strategy %q (expected auto, memo or histogram)", name)
	}
}

// Resolve returns the concrete strategy used for a run of the given depth.
func (s Strategy) Resolve(iterations, memoThreshold uint32) Strategy {
	if s != StrategyAuto {
		return s
	}
	if iterations <= memoThreshold {
		return StrategyMemo
	}
	return StrategyHistogram
}
