package blink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/aretw0/blink/pkg/counter"
	"github.com/aretw0/blink/pkg/domain"
	"github.com/aretw0/blink/pkg/histogram"
	"github.com/aretw0/blink/pkg/ports"
	"github.com/aretw0/blink/pkg/stone"
)

// DefaultLockTTL bounds how long a replica may hold the compute lock for a key.
const DefaultLockTTL = 30 * time.Second

// Engine is the high-level entry point for the blink library.
// It holds configuration and injected collaborators only; every run builds its
// own memo and histograms, so an Engine is safe for concurrent use.
type Engine struct {
	strategy      domain.Strategy
	memoThreshold uint32
	outcomeCache  bool
	expandLimit   int
	store         ports.ResultStore
	locker        ports.DistributedLocker
	lockTTL       time.Duration
	hooks         domain.LifecycleHooks
	logger        *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithStrategy forces an evaluator (default: domain.StrategyAuto).
func WithStrategy(s domain.Strategy) Option {
	return func(e *Engine) {
		e.strategy = s
	}
}

// WithMemoThreshold sets the largest blink count the auto strategy hands to
// the memoized counter.
func WithMemoThreshold(n uint32) Option {
	return func(e *Engine) {
		e.memoThreshold = n
	}
}

// WithOutcomeCache toggles the per-run value -> outcome table of the histogram evolver.
func WithOutcomeCache(enabled bool) Option {
	return func(e *Engine) {
		e.outcomeCache = enabled
	}
}

// WithExpandLimit bounds the number of stones Expand may materialize.
func WithExpandLimit(n int) Option {
	return func(e *Engine) {
		e.expandLimit = n
	}
}

// WithStore enables result reuse across runs through an explicit store.
func WithStore(store ports.ResultStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLocker serializes computation of the same key across replicas.
// It only has an effect together with WithStore.
func WithLocker(locker ports.DistributedLocker, ttl time.Duration) Option {
	return func(e *Engine) {
		e.locker = locker
		e.lockTTL = ttl
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes a new Engine.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{
		strategy:      domain.StrategyAuto,
		memoThreshold: domain.DefaultMemoThreshold,
		outcomeCache:  true,
		expandLimit:   domain.DefaultExpandLimit,
		lockTTL:       DefaultLockTTL,
	}

	for _, opt := range opts {
		opt(eng)
	}

	strategy, err := domain.ParseStrategy(string(eng.strategy))
	if err != nil {
		return nil, err
	}
	eng.strategy = strategy
	if eng.lockTTL <= 0 {
		eng.lockTTL = DefaultLockTTL
	}

	// Never keep a nil logger around.
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return eng, nil
}

// Count returns the number of stones values become after iterations blinks.
// It always uses the histogram evolver and keeps no state between calls.
func Count(values []uint64, iterations uint32) (uint64, error) {
	ev := histogram.NewEvolver(histogram.WithOutcomeCache(true))
	return ev.Count(context.Background(), values, iterations)
}

func checkIterations(iterations int) (uint32, error) {
	if iterations < 0 {
		return 0, fmt.Errorf("%w: %d", domain.ErrNegativeIterations, iterations)
	}
	if uint64(iterations) > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %d iterations exceeds %d", domain.ErrInvalidInput, iterations, uint32(math.MaxUint32))
	}
	return uint32(iterations), nil
}

// RunInput parses whitespace separated stones and runs them.
func (e *Engine) RunInput(ctx context.Context, input string, iterations int) (*domain.Result, error) {
	values, err := stone.Parse(input)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, values, iterations)
}

// Run counts the stones values become after iterations blinks.
// A negative iteration count is rejected before any work is done.
func (e *Engine) Run(ctx context.Context, values []uint64, iterations int) (*domain.Result, error) {
	n, err := checkIterations(iterations)
	if err != nil {
		return nil, err
	}

	h := histogram.FromValues(values)
	key := h.Key(n)
	strategy := e.strategy.Resolve(n, e.memoThreshold)
	if strategy == domain.StrategyMemo && n > counter.MaxSteps {
		// The recursion would only reach an overflow; let the histogram report it.
		strategy = domain.StrategyHistogram
	}
	logger := e.logger.With("key", key, "strategy", strategy, "iterations", n, "stones", len(values))

	start := time.Now()
	e.emitRun(ctx, e.hooks.OnRunStart, domain.EventRunStart, key, strategy, n, len(values), nil, nil)

	res, err := e.resolve(ctx, logger, key, strategy, h, values, n)
	if err != nil {
		logger.Debug("run failed", "err", err)
		e.emitRun(ctx, e.hooks.OnRunFinish, domain.EventRunFinish, key, strategy, n, len(values), &domain.Result{Elapsed: time.Since(start)}, err)
		return nil, err
	}

	logger.Debug("run finished", "total", res.Total, "cached", res.Cached, "elapsed", res.Elapsed, "memo_hits", res.MemoHits, "memo_misses", res.MemoMisses)
	e.emitRun(ctx, e.hooks.OnRunFinish, domain.EventRunFinish, key, strategy, n, len(values), res, nil)
	return res, nil
}

// resolve serves the result from the store when possible and computes it otherwise.
func (e *Engine) resolve(ctx context.Context, logger *slog.Logger, key string, strategy domain.Strategy, h histogram.Histogram, values []uint64, n uint32) (*domain.Result, error) {
	if e.store == nil {
		return e.compute(ctx, key, strategy, h, values, n)
	}

	if res, ok := e.lookup(ctx, logger, key); ok {
		return res, nil
	}

	if e.locker != nil {
		unlock, err := e.locker.Lock(ctx, key, e.lockTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to lock %s: %w", key, err)
		}
		defer func() {
			// The run context may already be done; release on a fresh one.
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				logger.Warn("failed to release lock", "err", err)
			}
		}()

		// Another replica may have finished while we waited.
		if res, ok := e.lookup(ctx, logger, key); ok {
			return res, nil
		}
	}

	res, err := e.compute(ctx, key, strategy, h, values, n)
	if err != nil {
		return nil, err
	}
	if err := e.store.Save(ctx, key, res); err != nil {
		logger.Warn("failed to store result", "err", err)
	}
	return res, nil
}

func (e *Engine) lookup(ctx context.Context, logger *slog.Logger, key string) (*domain.Result, bool) {
	res, err := e.store.Load(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrResultNotFound) {
			logger.Warn("result store lookup failed, computing instead", "err", err)
		}
		return nil, false
	}
	res.Cached = true
	return res, true
}

func (e *Engine) compute(ctx context.Context, key string, strategy domain.Strategy, h histogram.Histogram, values []uint64, n uint32) (*domain.Result, error) {
	start := time.Now()

	var (
		total uint64
		stats counter.Stats
		err   error
	)
	switch strategy {
	case domain.StrategyMemo:
		c := counter.New()
		total, err = c.Total(ctx, values, n)
		stats = c.Stats()
	default:
		ev := histogram.NewEvolver(
			histogram.WithOutcomeCache(e.outcomeCache),
			histogram.WithObserver(e.hooks.OnIteration),
			histogram.WithKey(key),
		)
		var final histogram.Histogram
		final, err = ev.Evolve(ctx, h, n)
		if err == nil {
			total, err = final.Total()
		}
	}
	if err != nil {
		return nil, err
	}

	return &domain.Result{
		Key:        key,
		Total:      total,
		Iterations: n,
		Stones:     len(values),
		Strategy:   strategy,
		Elapsed:    time.Since(start),
		MemoHits:   stats.Hits,
		MemoMisses: stats.Misses,
	}, nil
}

// Expand returns the ordered arrangement of stones after iterations blinks.
// It is bounded by the engine's expand limit.
func (e *Engine) Expand(ctx context.Context, values []uint64, iterations int) ([]uint64, error) {
	n, err := checkIterations(iterations)
	if err != nil {
		return nil, err
	}
	return stone.Expand(ctx, values, n, e.expandLimit)
}

func (e *Engine) emitRun(ctx context.Context, hook func(context.Context, *domain.RunEvent), typ domain.EventType, key string, strategy domain.Strategy, n uint32, stones int, res *domain.Result, err error) {
	if hook == nil {
		return
	}
	ev := &domain.RunEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      typ,
			Key:       key,
		},
		Strategy:   strategy,
		Iterations: n,
		Stones:     stones,
	}
	if res != nil {
		ev.Total = res.Total
		ev.Elapsed = res.Elapsed
		ev.Cached = res.Cached
		ev.MemoHits = res.MemoHits
		ev.MemoMisses = res.MemoMisses
	}
	ev.Err = err
	hook(ctx, ev)
}
