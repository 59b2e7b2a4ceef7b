package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/shopbot/internal/cli"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the assistant in the terminal",
	Long: `Starts a console conversation. With a persistent store (--store file,
bolt, sqlite or redis) a session can be resumed later with --session.

Type 'exit' or 'quit' (or send EOF) to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")
		userID, _ := cmd.Flags().GetString("user")
		jsonMode, _ := cmd.Flags().GetBool("json")
		headless, _ := cmd.Flags().GetBool("headless")

		return cli.RunChat(cmd.Context(), cfg, logger, cli.ChatOptions{
			SessionID: sessionID,
			UserID:    userID,
			JSON:      jsonMode,
			Headless:  headless,
			Input:     cmd.InOrStdin(),
			Output:    cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringP("session", "s", "", "Session ID to start or resume (default: a new one)")
	chatCmd.Flags().String("user", "", "User ID of the console user")
	chatCmd.Flags().Bool("json", false, "Exchange JSON lines instead of text")
	chatCmd.Flags().Bool("headless", false, "Print only bot output, no banner or session notices")
}
