package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/shopbot"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of shopbot",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "shopbot version %s\n", strings.TrimSpace(shopbot.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
