package main

import (
	"github.com/aretw0/blink/internal/cli"
	"github.com/spf13/cobra"
)

var expandCmd = &cobra.Command{
	Use:   "expand [stones...]",
	Short: "Print the ordered stones after a few blinks",
	Long: `Prints every stone, in order, after --blinks blinks. The number of stones grows
exponentially, so the run is bounded by expand_limit from the configuration.`,
	Example: `  blink expand --blinks 3 125 17`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		blinks, _ := cmd.Flags().GetInt("blinks")

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

		return cli.RunExpand(ctx, rt, input, blinks, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(expandCmd)

	expandCmd.Flags().StringP("file", "f", "", "Read stones from a file")
	expandCmd.Flags().IntP("blinks", "n", 1, "Number of blinks")
}
