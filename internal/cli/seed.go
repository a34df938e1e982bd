package cli

import (
	"fmt"

	"github.com/flashquiz/backend/internal/config"
	"github.com/flashquiz/backend/internal/logger"
	"github.com/flashquiz/backend/internal/repositories"
	"github.com/flashquiz/backend/internal/seed"
	"github.com/flashquiz/backend/internal/services"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSeedCmd() *cobra.Command {
	var parentEmail string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the preloaded science decks into a parent account",
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

			decks, err := seed.LoadDecks()
			if err != nil {
				return err
			}

			userRepo := repositories.NewUserRepository(db, logger.Logger)
			quizRepo := repositories.NewQuizRepository(db, logger.Logger)
			quizService := services.NewQuizService(quizRepo, quizRepo, nil, userRepo, logger.Logger)

			created, err := seed.NewSeeder(userRepo, quizService, logger.Logger).Run(cmd.Context(), parentEmail, decks)
			if err != nil {
				return err
			}
			logger.Logger.Info("seed completed", zap.Int("created", created), zap.Int("decks", len(decks)))
			return nil
		},
	}

	cmd.Flags().StringVar(&parentEmail, "parent-email", "", "email of the parent account that receives the decks")
	_ = cmd.MarkFlagRequired("parent-email")
	return cmd
}
