// Package seed loads the preloaded vocabulary decks into a parent's account
package seed

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/flashquiz/backend/internal/models"
	"github.com/flashquiz/backend/internal/study"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed decks.yaml
var decksYAML []byte

// Term is one vocabulary entry of a deck
type Term struct {
	Term       string `yaml:"term"`
	Definition string `yaml:"definition"`
}

// Deck is a chapter of preloaded vocabulary
type Deck struct {
	Title string `yaml:"title"`
	Terms []Term `yaml:"terms"`
}

// LoadDecks parses the embedded decks
func LoadDecks() ([]Deck, error) {
	return parseDecks(decksYAML)
}

func parseDecks(raw []byte) ([]Deck, error) {
	var doc struct {
		Decks []Deck `yaml:"decks"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse decks: %w", err)
	}
	for i, d := range doc.Decks {
		if d.Title == "" || len(d.Terms) == 0 {
			return nil, fmt.Errorf("deck %d needs a title and at least one term", i)
		}
	}
	return doc.Decks, nil
}

// QuizRequest turns a deck into a vocabulary quiz. Options are drawn from the other
// terms of the deck and padded with "Option N" placeholders when the deck is short.
func (d Deck) QuizRequest(rng study.Rand) *models.CreateQuizRequest {
	cards := make([]models.Flashcard, len(d.Terms))
	for i, t := range d.Terms {
		cards[i] = models.Flashcard{Question: t.Definition, Answer: t.Term}
	}

	for i := range cards {
		options := study.BuildOptions(cards[i], cards, models.QuizTypeVocabulary, study.DefinitionFirst, rng)
		for n := len(options); len(options) < study.MaxOptions; n++ {
			options = append(options, fmt.Sprintf("Option %d", n))
		}
		cards[i].Options = options
	}

	return &models.CreateQuizRequest{
		Title:      d.Title,
		QuizType:   models.QuizTypeVocabulary,
		Flashcards: cards,
	}
}

// UserFinder looks up the account that receives the decks
type UserFinder interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// QuizCreator saves quizzes and lists the ones a parent already owns
type QuizCreator interface {
	Create(ctx context.Context, ownerID int, req *models.CreateQuizRequest) (*models.Quiz, error)
	List(ctx context.Context, ownerID int) ([]models.QuizSummary, error)
}

// Seeder creates one quiz per deck for a parent
type Seeder struct {
	users   UserFinder
	quizzes QuizCreator
	rng     study.Rand
	logger  *zap.Logger
}

// NewSeeder creates a new seeder
func NewSeeder(users UserFinder, quizzes QuizCreator, logger *zap.Logger) *Seeder {
	return &Seeder{
		users:   users,
		quizzes: quizzes,
		rng:     study.DefaultRand,
		logger:  logger,
	}
}

// Run loads the decks into the account with the given email and returns how many quizzes were created.
// Decks whose title the parent already owns are skipped, so running it twice is harmless.
func (s *Seeder) Run(ctx context.Context, parentEmail string, decks []Deck) (int, error) {
	parent, err := s.users.GetByEmail(ctx, parentEmail)
	if err != nil {
		return 0, fmt.Errorf("failed to find parent %q: %w", parentEmail, err)
	}
	if parent.Role < models.RoleParent {
		return 0, fmt.Errorf("%w: %s is not a parent account", models.ErrInvalidInput, parentEmail)
	}

	existing, err := s.quizzes.List(ctx, parent.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to list existing quizzes: %w", err)
	}
	owned := make(map[string]struct{}, len(existing))
	for _, q := range existing {
		owned[q.Title] = struct{}{}
	}

	created := 0
	for _, deck := range decks {
		if _, ok := owned[deck.Title]; ok {
			s.logger.Debug("deck already loaded", zap.String("title", deck.Title))
			continue
		}
		quiz, err := s.quizzes.Create(ctx, parent.ID, deck.QuizRequest(s.rng))
		if err != nil {
			return created, fmt.Errorf("failed to create quiz %q: %w", deck.Title, err)
		}
		s.logger.Info("deck loaded", zap.Int("quizId", quiz.ID), zap.String("title", quiz.Title))
		created++
	}

	return created, nil
}
