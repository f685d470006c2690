package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xaenox/foodie-bot/pkg/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "foodiebot",
	Short: "Conversational menu recommendations",
	Long: `foodiebot reads free-form chat messages, works out what the customer is after
(category, dietary needs, budget, spice) and answers with matching items from the menu.
It runs as a Telegram bot, as an HTTP API, or answers a single question from the command line.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	rootCmd.AddCommand(botCmd, serveCmd, askCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the configuration and builds the logger shared by every command.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading config: %w", err)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating logger: %w", err)
	}

	return cfg, logger, nil
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	zapConfig := zap.NewProductionConfig()
	if cfg.Development {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	return zapConfig.Build()
}
