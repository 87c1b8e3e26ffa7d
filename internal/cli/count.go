package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/blink/internal/presentation/tui"
	"github.com/aretw0/blink/pkg/stone"
)

// GlobalOptions are the persistent flags shared by every command.
type GlobalOptions struct {
	ConfigPath string
	Debug      bool
	Strategy   string
	Store      string
}

// Output selects how a count is printed.
type Output string

const (
	OutputPlain  Output = "plain"
	OutputJSON   Output = "json"
	OutputReport Output = "report"
)

// CountOptions contains the configuration of the count command.
type CountOptions struct {
	Input  string
	Blinks int
	Output Output
	// Style is the glamour style of OutputReport ("" detects the terminal).
	Style string
}

// RunCount counts the stones and prints the result to w.
func RunCount(ctx context.Context, rt *Runtime, opts CountOptions, w io.Writer) error {
	res, err := rt.Engine.RunInput(ctx, opts.Input, opts.Blinks)
	if err != nil {
		return err
	}

	switch opts.Output {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case OutputReport:
		render, err := tui.NewRenderer(opts.Style)
		if err != nil {
			return err
		}
		out, err := render(tui.Report(opts.Input, res))
		if err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
		_, err = fmt.Fprint(w, out)
		return err
	case OutputPlain, "":
		_, err = fmt.Fprintln(w, res.Total)
		return err
	default:
		return fmt.Errorf("unknown output %q (expected plain, json or report)", opts.Output)
	}
}

// RunExpand prints the ordered stones after a small number of blinks.
func RunExpand(ctx context.Context, rt *Runtime, input string, blinks int, w io.Writer) error {
	values, err := stone.Parse(input)
	if err != nil {
		return err
	}
	stones, err := rt.Engine.Expand(ctx, values, blinks)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, stone.Format(stones))
	return err
}
