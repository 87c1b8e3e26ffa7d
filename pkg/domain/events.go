package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRunStart  EventType = "run_start"
	EventIteration EventType = "iteration"
	EventRunFinish EventType = "run_finish"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Key       string    `json:"key"`
}

// RunEvent marks the start or the end of a run.
type RunEvent struct {
	EventBase
	Strategy   Strategy      `json:"strategy"`
	Iterations uint32        `json:"iterations"`
	Stones     int           `json:"stones"`
	Total      uint64        `json:"total,omitempty"`
	Elapsed    time.Duration `json:"elapsed,omitempty"`
	Cached     bool          `json:"cached,omitempty"`
	MemoHits   uint64        `json:"memo_hits,omitempty"`
	MemoMisses uint64        `json:"memo_misses,omitempty"`
	Err        error         `json:"-"`
}

// IterationEvent describes the histogram after one blink.
type IterationEvent struct {
	EventBase
	Iteration uint32 `json:"iteration"`
	// Distinct is the number of distinct stone values.
	Distinct int `json:"distinct"`
	// Total is the number of stones.
	Total uint64 `json:"total"`
	// Splits is the number of stones (weighted by count) that split during this blink.
	Splits uint64 `json:"splits"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnRunStart  func(context.Context, *RunEvent)
	OnIteration func(context.Context, *IterationEvent)
	OnRunFinish func(context.Context, *RunEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnRunStart:  chainRun(h.OnRunStart, other.OnRunStart),
		OnIteration: chainIteration(h.OnIteration, other.OnIteration),
		OnRunFinish: chainRun(h.OnRunFinish, other.OnRunFinish),
	}
}

func chainRun(a, b func(context.Context, *RunEvent)) func(context.Context, *RunEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *RunEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainIteration(a, b func(context.Context, *IterationEvent)) func(context.Context, *IterationEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *IterationEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
