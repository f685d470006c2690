package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var askSession string

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Answer a single message and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		a, err := newApp(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer a.close()

		sessionID := askSession
		if sessionID == "" {
			sessionID = "cli:" + uuid.NewString()
		}

		reply := a.engine.Chat(cmd.Context(), sessionID, strings.Join(args, " "))

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, reply.Text)
		fmt.Fprintf(out, "\ninterest score: %d\n", reply.InterestScore)
		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&askSession, "session", "", "session id to remember earlier messages under")
}
