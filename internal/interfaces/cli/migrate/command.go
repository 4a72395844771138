package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"coursegate/internal/infrastructure/config"
	"coursegate/internal/infrastructure/database"
	"coursegate/internal/interfaces/cli/bootstrap"
	"coursegate/internal/shared/logger"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		Long:  `Bring subscriptions, provider credentials, webhook events and the catalog tables up to date.`,
		RunE:  run,
	}
	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	env = bootstrap.Env(env)

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&cfg.Logger, bootstrap.MapEnvToGinMode(env)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	if err := database.AutoMigrate(database.Get()); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Info("migration completed", "environment", env)
	return nil
}
