package services

import (
	"context"
	"fmt"

	"github.com/flashquiz/backend/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DashboardUserRepository reads the family of a user
type DashboardUserRepository interface {
	GetByID(ctx context.Context, userID int) (*models.User, error)
	ListChildren(ctx context.Context, parentID int) ([]models.User, error)
}

// QuizLister lists quiz summaries of an owner
type QuizLister interface {
	ListByOwner(ctx context.Context, ownerID int) ([]models.QuizSummary, error)
}

// AchievementLister lists what a user has earned
type AchievementLister interface {
	List(ctx context.Context, userID int) ([]models.EarnedAchievement, error)
}

// childFetchLimit bounds how many child histories are read at once
const childFetchLimit = 4

type dashboardService struct {
	users        DashboardUserRepository
	quizzes      QuizLister
	attempts     AttemptHistoryRepository
	achievements AchievementLister
	logger       *zap.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(users DashboardUserRepository, quizzes QuizLister, attempts AttemptHistoryRepository, achievements AchievementLister, logger *zap.Logger) *dashboardService {
	return &dashboardService{
		users:        users,
		quizzes:      quizzes,
		attempts:     attempts,
		achievements: achievements,
		logger:       logger,
	}
}

// ParentDashboard returns the parent's children with their attempts and the parent's own quizzes
func (s *dashboardService) ParentDashboard(ctx context.Context, parentID int) (*models.ParentDashboard, error) {
	var children []models.User
	dashboard := &models.ParentDashboard{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		children, err = s.users.ListChildren(gctx, parentID)
		if err != nil {
			return fmt.Errorf("failed to list children: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		dashboard.Quizzes, err = s.quizzes.ListByOwner(gctx, parentID)
		if err != nil {
			return fmt.Errorf("failed to list quizzes: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("failed to load parent dashboard", zap.Error(err), zap.Int("userId", parentID))
		return nil, err
	}

	if dashboard.Quizzes == nil {
		dashboard.Quizzes = []models.QuizSummary{}
	}
	dashboard.Children = make([]models.ChildProgress, len(children))
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(childFetchLimit)
	for i, child := range children {
		g.Go(func() error {
			attempts, err := s.attempts.ListByUser(gctx, child.ID)
			if err != nil {
				return fmt.Errorf("failed to list attempts of child %d: %w", child.ID, err)
			}
			dashboard.Children[i] = models.ChildProgress{User: child, Attempts: attempts}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error("failed to load parent dashboard", zap.Error(err), zap.Int("userId", parentID))
		return nil, err
	}

	return dashboard, nil
}

// ChildDashboard returns the quizzes of the child's parent, the child's attempts and achievements.
// An unlinked child sees no quizzes.
func (s *dashboardService) ChildDashboard(ctx context.Context, childID int) (*models.ChildDashboard, error) {
	child, err := s.users.GetByID(ctx, childID)
	if err != nil {
		return nil, err
	}

	dashboard := &models.ChildDashboard{Quizzes: []models.QuizSummary{}}

	g, gctx := errgroup.WithContext(ctx)
	if child.ParentID != nil {
		parentID := *child.ParentID
		g.Go(func() error {
			var err error
			dashboard.Quizzes, err = s.quizzes.ListByOwner(gctx, parentID)
			if err != nil {
				return fmt.Errorf("failed to list quizzes: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		var err error
		dashboard.Attempts, err = s.attempts.ListByUser(gctx, childID)
		if err != nil {
			return fmt.Errorf("failed to list attempts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		dashboard.Achievements, err = s.achievements.List(gctx, childID)
		if err != nil {
			return fmt.Errorf("failed to list achievements: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("failed to load child dashboard", zap.Error(err), zap.Int("userId", childID))
		return nil, err
	}
	if dashboard.Quizzes == nil {
		dashboard.Quizzes = []models.QuizSummary{}
	}
	if dashboard.Attempts == nil {
		dashboard.Attempts = []models.QuizAttempt{}
	}
	if dashboard.Achievements == nil {
		dashboard.Achievements = []models.EarnedAchievement{}
	}

	return dashboard, nil
}
