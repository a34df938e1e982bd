package services

import (
	"context"
	"time"

	"github.com/flashquiz/backend/internal/achievements"
	"github.com/flashquiz/backend/internal/models"
	"go.uber.org/zap"
)

// AttemptHistoryRepository reads the attempt history of a user
type AttemptHistoryRepository interface {
	// Method ListByUser retrieves all attempts of "userID" ordered most recent first.
	ListByUser(ctx context.Context, userID int) ([]models.QuizAttempt, error)
}

// UserAchievementRepository is the interface that wraps methods for UserAchievements table data access
type UserAchievementRepository interface {
	// Method ListByUser retrieves the unlock records of "userID", most recent first.
	ListByUser(ctx context.Context, userID int) ([]models.UnlockedAchievement, error)
	// Method Unlock records that "userID" earned "achievementID" at "unlockedAt".
	//
	// The operation is idempotent: writing an existing pair keeps the original record and returns "false".
	Unlock(ctx context.Context, userID int, achievementID string, unlockedAt time.Time) (bool, error)
}

type achievementService struct {
	catalog      *achievements.Catalog
	attemptRepo  AttemptHistoryRepository
	unlockedRepo UserAchievementRepository
	now          func() time.Time
	logger       *zap.Logger
}

// NewAchievementService creates a new achievement service over "catalog"
func NewAchievementService(catalog *achievements.Catalog, attemptRepo AttemptHistoryRepository, unlockedRepo UserAchievementRepository, logger *zap.Logger) *achievementService {
	return &achievementService{
		catalog:      catalog,
		attemptRepo:  attemptRepo,
		unlockedRepo: unlockedRepo,
		now:          time.Now,
		logger:       logger,
	}
}

// Evaluate unlocks every achievement "userID" has newly earned and returns their definitions in catalog order.
//
// Evaluate never fails. Errors reading the history or the unlocked set yield an empty result,
// and an achievement whose write fails is left out so it can be earned on a later attempt.
func (s *achievementService) Evaluate(ctx context.Context, userID int) []models.AchievementDefinition {
	history, err := s.attemptRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load attempt history for achievements", zap.Error(err), zap.Int("userId", userID))
		return []models.AchievementDefinition{}
	}
	records, err := s.unlockedRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load unlocked achievements", zap.Error(err), zap.Int("userId", userID))
		return []models.AchievementDefinition{}
	}

	candidates := achievements.Evaluate(s.catalog, history, achievements.UnlockedSet(records))
	unlocked := make([]models.AchievementDefinition, 0, len(candidates))
	now := s.now().UTC()
	for _, def := range candidates {
		inserted, err := s.unlockedRepo.Unlock(ctx, userID, def.ID, now)
		if err != nil {
			s.logger.Error("failed to unlock achievement", zap.Error(err), zap.Int("userId", userID), zap.String("achievementId", def.ID))
			continue
		}
		if !inserted {
			s.logger.Debug("achievement was already unlocked", zap.Int("userId", userID), zap.String("achievementId", def.ID))
			continue
		}
		unlocked = append(unlocked, def)
	}

	if len(unlocked) > 0 {
		s.logger.Info("achievements unlocked", zap.Int("userId", userID), zap.Int("count", len(unlocked)))
	}
	return unlocked
}

// List returns the achievements earned by "userID" joined with their catalog definitions
func (s *achievementService) List(ctx context.Context, userID int) ([]models.EarnedAchievement, error) {
	records, err := s.unlockedRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	earned := make([]models.EarnedAchievement, 0, len(records))
	for _, r := range records {
		def, ok := s.catalog.Lookup(r.AchievementID)
		if !ok {
			s.logger.Warn("unlocked achievement is not in the catalog", zap.String("achievementId", r.AchievementID))
			continue
		}
		earned = append(earned, models.EarnedAchievement{AchievementDefinition: def, UnlockedAt: r.UnlockedAt})
	}
	return earned, nil
}

// Catalog returns every achievement that can be earned
func (s *achievementService) Catalog() []models.AchievementDefinition {
	return s.catalog.Definitions()
}
