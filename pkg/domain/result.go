package domain

import "time"

// Result is the outcome of a single run.
type Result struct {
	// Key identifies the (multiset of stones, iterations) pair the result belongs to.
	Key string `json:"key"`

	// Total is the number of stones after Iterations blinks.
	Total uint64 `json:"total"`

	Iterations uint32 `json:"iterations"`

	// Stones is the number of initial stones, duplicates included.
	Stones int `json:"stones"`

	// Strategy is the concrete evaluator that produced Total.
	Strategy Strategy `json:"strategy"`

	Elapsed time.Duration `json:"elapsed"`

	// Cached is true when the result was served from a ResultStore.
	Cached bool `json:"cached,omitempty"`

	// MemoHits and MemoMisses report memo lookups of a StrategyMemo run.
	MemoHits   uint64 `json:"memo_hits,omitempty"`
	MemoMisses uint64 `json:"memo_misses,omitempty"`
}
