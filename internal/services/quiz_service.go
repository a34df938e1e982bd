package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/flashquiz/backend/internal/models"
	"github.com/flashquiz/backend/internal/study"
	"go.uber.org/zap"
)

// QuizRepository is the interface that wraps methods for Quizzes table data access
type QuizRepository interface {
	// Method Create inserts a new quiz. On success ID and CreatedAt of "quiz" are set.
	Create(ctx context.Context, quiz *models.Quiz) error
	// Method ListByOwner retrieves summaries of the quizzes of "ownerID", newest first.
	ListByOwner(ctx context.Context, ownerID int) ([]models.QuizSummary, error)
	// Method Delete removes a quiz.
	//
	// If quiz with such ID does not exist, the error wrapping models.ErrNotFound will be returned.
	Delete(ctx context.Context, id int) error
}

// QuizReader loads a single quiz, either from the database or through the quiz cache
type QuizReader interface {
	// Method GetByID retrieves a quiz with its flashcards.
	//
	// If quiz with such ID does not exist, the error wrapping models.ErrNotFound will be returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.Quiz, error)
}

// QuizCacheInvalidator drops a cached quiz
type QuizCacheInvalidator interface {
	Invalidate(ctx context.Context, id int) error
}

// UserLookup retrieves a user by ID
type UserLookup interface {
	GetByID(ctx context.Context, userID int) (*models.User, error)
}

const (
	maxTitleLength = 255
	maxFlashcards  = 200
)

type quizService struct {
	repo        QuizRepository
	reader      QuizReader
	invalidator QuizCacheInvalidator
	users       UserLookup
	rng         study.Rand
	logger      *zap.Logger
}

// NewQuizService creates a new quiz service.
//
// "invalidator" may be nil when the quiz cache is disabled.
func NewQuizService(repo QuizRepository, reader QuizReader, invalidator QuizCacheInvalidator, users UserLookup, logger *zap.Logger) *quizService {
	return &quizService{
		repo:        repo,
		reader:      reader,
		invalidator: invalidator,
		users:       users,
		rng:         study.DefaultRand,
		logger:      logger,
	}
}

// Create validates and saves a quiz owned by "ownerID"
func (s *quizService) Create(ctx context.Context, ownerID int, req *models.CreateQuizRequest) (*models.Quiz, error) {
	quiz, err := normalizeQuiz(req)
	if err != nil {
		return nil, err
	}
	quiz.OwnerID = ownerID

	if err := s.repo.Create(ctx, quiz); err != nil {
		s.logger.Error("failed to save quiz", zap.Error(err), zap.Int("ownerId", ownerID))
		return nil, fmt.Errorf("failed to save quiz: %w", err)
	}

	s.logger.Info("quiz created", zap.Int("quizId", quiz.ID), zap.Int("ownerId", ownerID), zap.Int("cards", len(quiz.Flashcards)))
	return quiz, nil
}

// normalizeQuiz trims every text field, removes repeated options and checks the quiz can be played
func normalizeQuiz(req *models.CreateQuizRequest) (*models.Quiz, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, models.NewError(models.ErrInvalidInput, "title cannot be empty")
	}
	if len(title) > maxTitleLength {
		return nil, models.NewError(models.ErrInvalidInput, fmt.Sprintf("title cannot be longer than %d characters", maxTitleLength))
	}

	quizType := req.QuizType
	if quizType == "" {
		quizType = models.QuizTypeStandard
	}
	if !quizType.Valid() {
		return nil, models.NewError(models.ErrInvalidInput, "quiz type must be either vocabulary or standard")
	}

	if len(req.Flashcards) == 0 {
		return nil, models.NewError(models.ErrInvalidInput, "a quiz needs at least one flashcard")
	}
	if len(req.Flashcards) > maxFlashcards {
		return nil, models.NewError(models.ErrInvalidInput, fmt.Sprintf("a quiz cannot have more than %d flashcards", maxFlashcards))
	}

	cards := make([]models.Flashcard, 0, len(req.Flashcards))
	for i, c := range req.Flashcards {
		card := models.Flashcard{
			Question: strings.TrimSpace(c.Question),
			Answer:   strings.TrimSpace(c.Answer),
			Options:  uniqueTrimmed(c.Options),
			Hint:     strings.TrimSpace(c.Hint),
		}
		if card.Question == "" || card.Answer == "" {
			return nil, models.NewError(models.ErrInvalidInput, fmt.Sprintf("flashcard %d needs a question and an answer", i+1))
		}
		if quizType == models.QuizTypeStandard && !slices.Contains(card.Options, card.Answer) {
			return nil, models.NewError(models.ErrInvalidInput, fmt.Sprintf("flashcard %d must list its answer among the options", i+1))
		}
		cards = append(cards, card)
	}

	return &models.Quiz{
		Title:      title,
		QuizType:   quizType,
		Flashcards: cards,
	}, nil
}

// List returns the quizzes of "ownerID", newest first
func (s *quizService) List(ctx context.Context, ownerID int) ([]models.QuizSummary, error) {
	quizzes, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list quizzes", zap.Error(err), zap.Int("ownerId", ownerID))
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	return quizzes, nil
}

// Get returns a quiz the viewer is allowed to see: the owner, the owner's children and admins
func (s *quizService) Get(ctx context.Context, viewer Viewer, id int) (*models.Quiz, error) {
	if id <= 0 {
		return nil, models.NewError(models.ErrInvalidInput, "invalid quiz id")
	}

	quiz, err := s.reader.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if quiz.OwnerID == viewer.UserID || viewer.IsAdmin() {
		return quiz, nil
	}
	if viewer.Role == models.RoleChild {
		user, err := s.users.GetByID(ctx, viewer.UserID)
		if err != nil {
			return nil, err
		}
		if user.IsChildOf(quiz.OwnerID) {
			return quiz, nil
		}
	}

	return nil, models.NewError(models.ErrForbidden, "you do not have access to this quiz")
}

// Play returns the quiz with prompts and option sets for the given study direction.
//
// Direction only affects vocabulary quizzes, standard quizzes are always played question first.
func (s *quizService) Play(ctx context.Context, viewer Viewer, id int, rawDirection string) (*models.QuizPlay, error) {
	direction, err := study.ParseDirection(rawDirection)
	if err != nil {
		return nil, models.NewError(models.ErrInvalidInput, "direction must be either definition-first or term-first")
	}

	quiz, err := s.Get(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	if quiz.QuizType == models.QuizTypeStandard {
		direction = study.DefinitionFirst
	}

	cards := make([]models.PlayCard, len(quiz.Flashcards))
	for i, card := range quiz.Flashcards {
		prompt, expected := study.PresentCard(card, direction)
		cards[i] = models.PlayCard{
			Index:          i,
			Prompt:         prompt,
			ExpectedAnswer: expected,
			Options:        study.BuildOptions(card, quiz.Flashcards, quiz.QuizType, direction, s.rng),
			Hint:           card.Hint,
		}
	}

	return &models.QuizPlay{
		QuizID:    quiz.ID,
		Title:     quiz.Title,
		QuizType:  quiz.QuizType,
		Direction: string(direction),
		Cards:     cards,
	}, nil
}

// Delete removes a quiz owned by the viewer. Admins may delete any quiz.
func (s *quizService) Delete(ctx context.Context, viewer Viewer, id int) error {
	quiz, err := s.reader.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if quiz.OwnerID != viewer.UserID && !viewer.IsAdmin() {
		return models.NewError(models.ErrForbidden, "only the owner can delete this quiz")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.invalidator != nil {
		if err := s.invalidator.Invalidate(ctx, id); err != nil {
			s.logger.Warn("failed to invalidate cached quiz", zap.Error(err), zap.Int("quizId", id))
		}
	}

	s.logger.Info("quiz deleted", zap.Int("quizId", id), zap.Int("userId", viewer.UserID))
	return nil
}

func uniqueTrimmed(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
