package histogram

import (
	"context"
	"fmt"
	"math/bits"
	"time"

	"github.com/aretw0/blink/pkg/domain"
	"github.com/aretw0/blink/pkg/stone"
)

// Observer receives one event per completed blink.
type Observer func(context.Context, *domain.IterationEvent)

// Evolver blinks histograms. An Evolver with the outcome cache enabled keeps
// a value -> outcome table across calls, so it must not be shared between
// goroutines; create one per run.
type Evolver struct {
	outcomes map[uint64]stone.Outcome
	observer Observer
	key      string
}

// Option configures an Evolver.
type Option func(*Evolver)

// WithOutcomeCache memoizes rule applications by value. The table is never
// invalidated: an outcome depends on nothing but the value.
func WithOutcomeCache(enabled bool) Option {
	return func(e *Evolver) {
		if enabled {
			e.outcomes = make(map[uint64]stone.Outcome)
		} else {
			e.outcomes = nil
		}
	}
}

// WithObserver registers a callback invoked after every blink.
func WithObserver(o Observer) Option {
	return func(e *Evolver) {
		e.observer = o
	}
}

// WithKey sets the correlation key stamped on emitted events.
func WithKey(key string) Option {
	return func(e *Evolver) {
		e.key = key
	}
}

// NewEvolver creates an Evolver. The outcome cache is off by default.
func NewEvolver(opts ...Option) *Evolver {
	e := &Evolver{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Evolver) apply(v uint64) (stone.Outcome, error) {
	if e.outcomes != nil {
		if o, ok := e.outcomes[v]; ok {
			return o, nil
		}
	}
	o, err := stone.ApplyChecked(v)
	if err != nil {
		return stone.Outcome{}, err
	}
	if e.outcomes != nil {
		e.outcomes[v] = o
	}
	return o, nil
}

// Step performs one blink. A split propagates the full predecessor count to
// both halves. The input histogram is left untouched.
func (e *Evolver) Step(h Histogram) (Histogram, error) {
	next, _, err := e.step(h)
	return next, err
}

func (e *Evolver) step(h Histogram) (Histogram, uint64, error) {
	next := make(Histogram, len(h)+len(h)/2)
	var splits uint64
	for v, n := range h {
		o, err := e.apply(v)
		if err != nil {
			return nil, 0, err
		}
		if err := next.Add(o.Left, n); err != nil {
			return nil, 0, err
		}
		if o.Split {
			if err := next.Add(o.Right, n); err != nil {
				return nil, 0, err
			}
			var carry uint64
			splits, carry = bits.Add64(splits, n, 0)
			if carry != 0 {
				return nil, 0, fmt.Errorf("%w: split count", domain.ErrOverflow)
			}
		}
	}
	return next, splits, nil
}

// Evolve blinks h the given number of times. The context is checked at the
// top of every iteration.
func (e *Evolver) Evolve(ctx context.Context, h Histogram, iterations uint32) (Histogram, error) {
	cur := h
	for i := uint32(1); i <= iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, splits, err := e.step(cur)
		if err != nil {
			return nil, fmt.Errorf("blink %d: %w", i, err)
		}
		cur = next

		if e.observer != nil {
			total, err := cur.Total()
			if err != nil {
				return nil, fmt.Errorf("blink %d: %w", i, err)
			}
			e.observer(ctx, &domain.IterationEvent{
				EventBase: domain.EventBase{
					Timestamp: time.Now(),
					Type:      domain.EventIteration,
					Key:       e.key,
				},
				Iteration: i,
				Distinct:  cur.Distinct(),
				Total:     total,
				Splits:    splits,
			})
		}
	}
	if iterations == 0 {
		return h.Clone(), nil
	}
	return cur, nil
}

// Count returns the number of stones values become after the given number of blinks.
func (e *Evolver) Count(ctx context.Context, values []uint64, iterations uint32) (uint64, error) {
	final, err := e.Evolve(ctx, FromValues(values), iterations)
	if err != nil {
		return 0, err
	}
	return final.Total()
}

// CachedOutcomes reports how many distinct values the outcome cache holds.
func (e *Evolver) CachedOutcomes() int {
	return len(e.outcomes)
}
