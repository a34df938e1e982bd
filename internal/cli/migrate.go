package cli

import (
	"fmt"

	"github.com/flashquiz/backend/internal/config"
	"github.com/flashquiz/backend/internal/logger"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := logger.Init(cfg.Logging.Level); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer logger.Sync()

			db, err := connectDB(cfg.DSN())
			if err != nil {
				return err
			}
			defer db.Close()

			if err := runMigrations(db); err != nil {
				return err
			}
			logger.Logger.Info("migrations applied")
			return nil
		},
	}
}
