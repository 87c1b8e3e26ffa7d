package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/blink"
	"github.com/aretw0/blink/internal/adapters"
	"github.com/aretw0/blink/internal/config"
	"github.com/aretw0/blink/internal/metrics"
	"github.com/aretw0/blink/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/blink/pkg/adapters/redis"
	"github.com/aretw0/blink/pkg/domain"
	"github.com/aretw0/blink/pkg/ports"
)

// Runtime bundles an engine with the collaborators built for it.
type Runtime struct {
	Engine  *blink.Engine
	Metrics *metrics.Metrics
	Logger  *slog.Logger
	Config  config.Config

	closers []func() error
}

// Close releases the store connections opened for the runtime.
func (r *Runtime) Close() error {
	var errs []error
	for _, c := range r.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// NewRuntime initializes an engine from cfg with standard CLI conventions.
// withMetrics registers Prometheus collectors and feeds them from the engine hooks.
func NewRuntime(cfg config.Config, logger *slog.Logger, debug, withMetrics bool) (*Runtime, error) {
	strategy, err := domain.ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}

	rt := &Runtime{Logger: logger, Config: cfg}

	hooks := domain.LifecycleHooks{}
	if debug {
		hooks = createDebugHooks(logger)
	}
	if withMetrics {
		rt.Metrics = metrics.New(true)
		hooks = hooks.Merge(rt.Metrics.Hooks())
	}

	engineOpts := []blink.Option{
		blink.WithLogger(logger),
		blink.WithStrategy(strategy),
		blink.WithMemoThreshold(cfg.MemoThreshold),
		blink.WithOutcomeCache(cfg.OutcomeCache),
		blink.WithExpandLimit(cfg.ExpandLimit),
		blink.WithLifecycleHooks(hooks),
	}

	store, locker, err := rt.createStore(cfg)
	if err != nil {
		return nil, err
	}
	if store != nil {
		engineOpts = append(engineOpts, blink.WithStore(store))
	}
	if locker != nil {
		engineOpts = append(engineOpts, blink.WithLocker(locker, cfg.Redis.LockTTL))
	}

	engine, err := blink.New(engineOpts...)
	if err != nil {
		_ = rt.Close()
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	rt.Engine = engine
	return rt, nil
}

// createStore selects the result store named by the configuration. Local
// stores get an in-process locker so concurrent requests for a key compute once.
func (r *Runtime) createStore(cfg config.Config) (ports.ResultStore, ports.DistributedLocker, error) {
	switch cfg.Store.Kind {
	case config.StoreNone, "":
		return nil, nil, nil
	case config.StoreMemory:
		return memory.NewStore(), memory.NewLocker(), nil
	case config.StoreFile:
		return adapters.NewFileStore(cfg.Store.Path), memory.NewLocker(), nil
	case config.StoreRedis:
		store := redisAdapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redisAdapter.WithPrefix(cfg.Redis.Prefix+"result:"),
			redisAdapter.WithTTL(cfg.Store.TTL),
		)
		r.closers = append(r.closers, store.Close)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := store.Client().Ping(ctx).Err(); err != nil {
			r.Logger.Warn("redis is unreachable, results will be computed every time", "addr", cfg.Redis.Addr, "err", err)
		}

		var locker ports.DistributedLocker
		if cfg.Redis.Lock {
			locker = redisAdapter.NewLocker(store.Client(), cfg.Redis.Prefix)
		}
		return store, locker, nil
	default:
		return nil, nil, fmt.Errorf("unknown store kind %q", cfg.Store.Kind)
	}
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			logger.Debug("Run Start", "key", e.Key, "strategy", e.Strategy, "iterations", e.Iterations, "stones", e.Stones)
		},
		OnIteration: func(ctx context.Context, e *domain.IterationEvent) {
			logger.Debug("Blink", "iteration", e.Iteration, "distinct", e.Distinct, "total", e.Total, "splits", e.Splits)
		},
		OnRunFinish: func(ctx context.Context, e *domain.RunEvent) {
			if e.Err != nil {
				logger.Debug("Run Failed", "key", e.Key, "err", e.Err)
				return
			}
			logger.Debug("Run Finish", "key", e.Key, "total", e.Total, "cached", e.Cached, "elapsed", e.Elapsed, "memo_hits", e.MemoHits, "memo_misses", e.MemoMisses)
		},
	}
}
