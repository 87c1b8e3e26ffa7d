package ports

import (
	"context"

	"github.com/aretw0/blink/pkg/domain"
)

// Engine is the interface used by adapters (HTTP, MCP) to run counts.
type Engine interface {
	// Run counts the stones values become after iterations blinks.
	Run(ctx context.Context, values []uint64, iterations int) (*domain.Result, error)

	// RunInput parses whitespace separated stones and runs them.
	RunInput(ctx context.Context, input string, iterations int) (*domain.Result, error)

	// Expand returns the ordered arrangement after a small number of blinks.
	Expand(ctx context.Context, values []uint64, iterations int) ([]uint64, error)
}
