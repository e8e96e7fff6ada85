package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/podsmith/internal/config"
	"github.com/okian/podsmith/pkg/logger"
)

var (
	cfgPath   string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:           "podsmith",
	Short:         "Pod assignment service for card-game sessions",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr()), logger.WithFormat(logFormat)); err != nil {
			return fmt.Errorf("init logging: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "YAML config file (overrides "+config.EnvConfigFile+")")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log output format: text or json")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// loadConfig layers defaults, the config file and env vars, then applies the
// configured log level.
func loadConfig(ctx context.Context) (*config.Config, error) {
	if cfgPath != "" {
		if err := os.Setenv(config.EnvConfigFile, cfgPath); err != nil {
			return nil, fmt.Errorf("set config path: %w", err)
		}
	}
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return cfg, nil
}
