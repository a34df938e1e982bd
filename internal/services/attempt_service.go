package services

import (
	"context"
	"fmt"
	"time"

	"github.com/flashquiz/backend/internal/models"
	"github.com/flashquiz/backend/internal/study"
	"go.uber.org/zap"
)

// AttemptRepository is the interface that wraps methods for QuizAttempts table data access
type AttemptRepository interface {
	// Method Create inserts a new attempt. On success the ID field of "attempt" is set.
	//
	// If the quiz was deleted meanwhile, the error wrapping models.ErrNotFound will be returned.
	Create(ctx context.Context, attempt *models.QuizAttempt) error
	// Method ListByUser retrieves all attempts of "userID" ordered most recent first.
	ListByUser(ctx context.Context, userID int) ([]models.QuizAttempt, error)
}

// QuizViewer returns a quiz if the viewer may see it
type QuizViewer interface {
	Get(ctx context.Context, viewer Viewer, id int) (*models.Quiz, error)
}

// AchievementEvaluator unlocks newly earned achievements. It never fails.
type AchievementEvaluator interface {
	Evaluate(ctx context.Context, userID int) []models.AchievementDefinition
}

type attemptService struct {
	repo      AttemptRepository
	quizzes   QuizViewer
	evaluator AchievementEvaluator
	rng       study.Rand
	now       func() time.Time
	logger    *zap.Logger
}

// NewAttemptService creates a new attempt service
func NewAttemptService(repo AttemptRepository, quizzes QuizViewer, evaluator AchievementEvaluator, logger *zap.Logger) *attemptService {
	return &attemptService{
		repo:      repo,
		quizzes:   quizzes,
		evaluator: evaluator,
		rng:       study.DefaultRand,
		now:       time.Now,
		logger:    logger,
	}
}

// Submit stores a finished attempt of quiz "quizID" and evaluates achievements.
//
// Score and total are derived from the answered flashcards, the completion time is taken from the server clock.
// Achievement bookkeeping never fails the save.
func (s *attemptService) Submit(ctx context.Context, viewer Viewer, quizID int, req *models.SubmitAttemptRequest) (*models.AttemptResult, error) {
	if len(req.AnsweredFlashcards) == 0 {
		return nil, models.NewError(models.ErrInvalidInput, "an attempt needs at least one answered flashcard")
	}

	quiz, err := s.quizzes.Get(ctx, viewer, quizID)
	if err != nil {
		return nil, err
	}

	score := 0
	for _, a := range req.AnsweredFlashcards {
		if a.IsCorrect {
			score++
		}
	}

	attempt := &models.QuizAttempt{
		UserID:             viewer.UserID,
		QuizID:             quiz.ID,
		QuizTitle:          quiz.Title,
		Score:              score,
		TotalQuestions:     len(req.AnsweredFlashcards),
		AnsweredFlashcards: req.AnsweredFlashcards,
		CompletedAt:        s.now().UTC(),
	}
	if err := s.repo.Create(ctx, attempt); err != nil {
		s.logger.Error("failed to save quiz attempt", zap.Error(err), zap.Int("userId", viewer.UserID), zap.Int("quizId", quizID))
		return nil, fmt.Errorf("failed to save quiz attempt: %w", err)
	}

	return &models.AttemptResult{
		AttemptID:       attempt.ID,
		Score:           attempt.Score,
		TotalQuestions:  attempt.TotalQuestions,
		NewAchievements: s.evaluator.Evaluate(context.WithoutCancel(ctx), viewer.UserID),
		Encouragement:   study.Encouragement(attempt.Score, attempt.TotalQuestions, s.rng),
	}, nil
}

// List returns the attempt history of "userID", most recent first
func (s *attemptService) List(ctx context.Context, userID int) ([]models.QuizAttempt, error) {
	attempts, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list attempts", zap.Error(err), zap.Int("userId", userID))
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	return attempts, nil
}
