package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/l1jgo/combatstats/internal/config"
	"github.com/l1jgo/combatstats/internal/logging"
)

var (
	configPath string
	envFile    string
)

var rootCmd = &cobra.Command{
	Use:   "statsctl",
	Short: "Combat statistics tool",
	Long: `statsctl replays recorded combat traffic through the statistics engine
and inspects the resulting statistics store.

Configuration is read from --config (TOML), an optional .env file, then
COMBATSTATS_* environment variables.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config/combatstats.toml", "config file (empty for defaults)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before env overrides")
}

// loadConfig reads configuration and builds the logger for a command.
func loadConfig() (*config.Config, *zap.Logger, error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	log, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
