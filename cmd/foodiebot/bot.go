package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/xaenox/foodie-bot/internal/bot"
	"go.uber.org/zap"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if cfg.Telegram.Token == "" {
			return errors.New("telegram token is required (set TELEGRAM_TOKEN or telegram.token)")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer a.close()

		b, err := bot.New(cfg.Telegram.Token, a.engine, cfg.Telegram.Debug, logger)
		if err != nil {
			return fmt.Errorf("error creating bot: %w", err)
		}

		if err := b.Start(ctx); err != nil {
			return fmt.Errorf("bot error: %w", err)
		}

		logger.Info("Bot stopped", zap.Error(ctx.Err()))
		return nil
	},
}
