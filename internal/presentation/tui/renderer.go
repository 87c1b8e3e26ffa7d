package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/blink/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// An empty style detects light or dark backgrounds automatically.
func NewRenderer(style string) (func(string) (string, error), error) {
	opt := glamour.WithAutoStyle()
	if style != "" {
		opt = glamour.WithStandardStyle(style)
	}

	r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(80))
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}, nil
}

// Report formats a run result as a markdown table.
func Report(input string, res *domain.Result) string {
	var b strings.Builder

	b.WriteString("# Stone count\n\n")
	fmt.Fprintf(&b, "`%s` after **%d** blinks: **%d** stones\n\n", strings.Join(strings.Fields(input), " "), res.Iterations, res.Total)
	b.WriteString("| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Initial stones | %d |\n", res.Stones)
	fmt.Fprintf(&b, "| Strategy | %s |\n", res.Strategy)
	fmt.Fprintf(&b, "| Elapsed | %s |\n", res.Elapsed)
	fmt.Fprintf(&b, "| Cached | %t |\n", res.Cached)
	fmt.Fprintf(&b, "| Key | `%s` |\n", res.Key)

	return b.String()
}
