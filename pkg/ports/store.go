package ports

import (
	"context"

	"github.com/aretw0/blink/pkg/domain"
)

// ResultStore defines the interface for persisting finished results.
// It lets separate runs, processes or replicas reuse a count instead of
// recomputing it. A store is always injected explicitly; the engine keeps no
// global cache.
type ResultStore interface {
	// Save persists the result under key.
	Save(ctx context.Context, key string, result *domain.Result) error

	// Load retrieves the result for key.
	// Returns domain.ErrResultNotFound if the key does not exist.
	Load(ctx context.Context, key string) (*domain.Result, error)

	// Delete removes the result for key.
	Delete(ctx context.Context, key string) error

	// List returns the stored keys.
	List(ctx context.Context) ([]string, error)
}
