package main

import (
	"github.com/aretw0/blink/internal/cli"
	"github.com/spf13/cobra"
)

var countCmd = &cobra.Command{
	Use:   "count [stones...]",
	Short: "Count the stones after a number of blinks",
	Long: `Counts the stones after --blinks blinks (or the blinks of --part: 1 = 25, 2 = 75).
Stones come from --file, from the arguments, or from stdin.`,
	Example: `  blink count 125 17
  blink count --part 2 --file input.txt
  echo "0 1 10 99 999" | blink count --blinks 1 --output json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		part, _ := cmd.Flags().GetInt("part")
		blinks, _ := cmd.Flags().GetInt("blinks")
		output, _ := cmd.Flags().GetString("output")
		style, _ := cmd.Flags().GetString("style")

		n, err := cli.ResolveBlinks(part, blinks, cmd.Flags().Changed("blinks"))
		if err != nil {
			return err
		}

		input, err := cli.ReadInput(file, args, cmd.InOrStdin())
		if err != nil {
			return err
		}

		rt, err := newRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		return cli.RunCount(ctx, rt, cli.CountOptions{
			Input:  input,
			Blinks: n,
			Output: cli.Output(output),
			Style:  style,
		}, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(countCmd)

	countCmd.Flags().StringP("file", "f", "", "Read stones from a file")
	countCmd.Flags().IntP("part", "p", 1, "Puzzle part: 1 (25 blinks) or 2 (75 blinks)")
	countCmd.Flags().IntP("blinks", "n", 0, "Number of blinks (overrides --part)")
	countCmd.Flags().StringP("output", "o", string(cli.OutputPlain), "Output: plain, json or report")
	countCmd.Flags().String("style", "", "Glamour style of the report (default: detect terminal)")
}
