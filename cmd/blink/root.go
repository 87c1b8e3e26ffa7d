package main

import (
	"fmt"
	"os"

	"github.com/aretw0/blink/internal/cli"
	"github.com/aretw0/blink/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "blink",
	Short: "blink counts stones that split every time you blink",
	Long: `blink applies the stone rules (0 becomes 1, an even number of digits splits in two,
anything else is multiplied by 2024) and counts the resulting stones, exactly, even after 75 blinks.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Path to the YAML configuration file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("strategy", "", "Evaluator: auto, memo or histogram (overrides config)")
	rootCmd.PersistentFlags().String("store", "", "Result store: none, memory, file or redis (overrides config)")
}

func globalOptions(cmd *cobra.Command) cli.GlobalOptions {
	configPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")
	strategy, _ := cmd.Flags().GetString("strategy")
	store, _ := cmd.Flags().GetString("store")
	return cli.GlobalOptions{
		ConfigPath: configPath,
		Debug:      debug,
		Strategy:   strategy,
		Store:      store,
	}
}

// newRuntime loads configuration and builds the engine for a command.
func newRuntime(cmd *cobra.Command, withMetrics bool) (*cli.Runtime, error) {
	opts := globalOptions(cmd)

	cfg, err := cli.LoadConfig(opts)
	if err != nil {
		return nil, err
	}

	logger, err := cli.CreateLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	return cli.NewRuntime(cfg, logger, opts.Debug, withMetrics)
}
