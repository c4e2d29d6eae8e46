package cli

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"risk-profile-service/internal/config"
	"risk-profile-service/internal/logging"
)

var (
	port       string
	configPath string
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envPort := os.Getenv("PORT")
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	cmd := &cobra.Command{
		Use:          "risk-profile",
		Short:        "Investor risk-profile questionnaire service",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&port, "port", envPort, "port to listen on (overrides config)")
	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.AddCommand(NewStartCmd(&configPath, &port))
	cmd.AddCommand(NewMigrateCmd(&configPath))
	cmd.AddCommand(NewImportCmd(&configPath))
	cmd.AddCommand(NewValidateCmd())
	cmd.AddCommand(NewTakeCmd())
	return cmd
}

func newLogger(cfg config.Config) *zap.Logger {
	return logging.New(logging.Options{
		Level: cfg.Log.Level,
		File:  cfg.Log.File,
	})
}
