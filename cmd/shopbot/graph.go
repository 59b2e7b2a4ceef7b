package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/shopbot/internal/cli"
	"github.com/aretw0/shopbot/internal/presentation/graph"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the conversation graph",
	Long: `Outputs a Mermaid diagram (graph TD) of the conversation steps.
With --session the diagram highlights where that session is and the steps it visited.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")

		bot, p, err := cli.NewBot(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer p.Close()

		var overlay *graph.GraphOverlay
		if sessionID != "" {
			state, err := bot.Sessions().Load(cmd.Context(), sessionID)
			if err != nil {
				return fmt.Errorf("loading session '%s': %w", sessionID, err)
			}
			overlay = graph.OverlayFromState(state)
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(bot.Inspect(), overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("session", "s", "", "Highlight the progress of this session")
}
