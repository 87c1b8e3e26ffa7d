package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/blink"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of blink",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "blink version %s\n", strings.TrimSpace(blink.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
