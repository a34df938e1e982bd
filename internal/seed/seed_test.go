package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/flashquiz/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockUserFinder struct {
	user *models.User
}

func (m *mockUserFinder) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.user == nil {
		return nil, fmt.Errorf("user not found: %w", models.ErrNotFound)
	}
	return m.user, nil
}

type mockQuizCreator struct {
	existing  []models.QuizSummary
	createErr error
	created   []*models.CreateQuizRequest
}

func (m *mockQuizCreator) Create(ctx context.Context, ownerID int, req *models.CreateQuizRequest) (*models.Quiz, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.created = append(m.created, req)
	return &models.Quiz{ID: len(m.created), Title: req.Title, OwnerID: ownerID}, nil
}

func (m *mockQuizCreator) List(ctx context.Context, ownerID int) ([]models.QuizSummary, error) {
	return m.existing, nil
}

func TestLoadDecks(t *testing.T) {
	decks, err := LoadDecks()
	require.NoError(t, err)

	require.Len(t, decks, 10)
	assert.Equal(t, "Chapter 0: Scientific and Engineering Practices", decks[0].Title)
	assert.Equal(t, "observation", decks[0].Terms[0].Term)
	total := 0
	for _, d := range decks {
		total += len(d.Terms)
	}
	assert.Equal(t, 173, total)
}

func TestParseDecks_Invalid(t *testing.T) {
	_, err := parseDecks([]byte("decks:\n  - title: Empty\n    terms: []\n"))
	assert.ErrorContains(t, err, "needs a title and at least one term")

	_, err = parseDecks([]byte("decks: ["))
	assert.ErrorContains(t, err, "failed to parse decks")
}

func TestDeck_QuizRequest(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))

	t.Run("full deck", func(t *testing.T) {
		decks, err := LoadDecks()
		require.NoError(t, err)

		req := decks[3].QuizRequest(rng)

		assert.Equal(t, models.QuizTypeVocabulary, req.QuizType)
		require.Len(t, req.Flashcards, len(decks[3].Terms))
		for _, card := range req.Flashcards {
			assert.Len(t, card.Options, 4)
			assert.Equal(t, 1, countOf(card.Options, card.Answer))
		}
	})

	t.Run("short deck is padded", func(t *testing.T) {
		deck := Deck{Title: "Tiny", Terms: []Term{{Term: "atom", Definition: "building block"}, {Term: "cell", Definition: "unit of life"}}}

		req := deck.QuizRequest(rng)

		for _, card := range req.Flashcards {
			require.Len(t, card.Options, 4)
			assert.Contains(t, card.Options, card.Answer)
			assert.Equal(t, []string{"Option 2", "Option 3"}, card.Options[2:])
		}
	})
}

func countOf(values []string, v string) int {
	n := 0
	for _, x := range values {
		if x == v {
			n++
		}
	}
	return n
}

func TestSeeder_Run(t *testing.T) {
	decks := []Deck{
		{Title: "A", Terms: []Term{{Term: "a", Definition: "first"}}},
		{Title: "B", Terms: []Term{{Term: "b", Definition: "second"}}},
	}

	t.Run("creates missing decks", func(t *testing.T) {
		quizzes := &mockQuizCreator{existing: []models.QuizSummary{{Title: "A"}}}
		s := NewSeeder(&mockUserFinder{user: &models.User{ID: 1, Role: models.RoleParent}}, quizzes, zap.NewNop())

		created, err := s.Run(context.Background(), "mum@example.com", decks)

		require.NoError(t, err)
		assert.Equal(t, 1, created)
		require.Len(t, quizzes.created, 1)
		assert.Equal(t, "B", quizzes.created[0].Title)
		assert.True(t, slices.Contains(quizzes.created[0].Flashcards[0].Options, "b"))
	})

	t.Run("child account", func(t *testing.T) {
		s := NewSeeder(&mockUserFinder{user: &models.User{ID: 2, Role: models.RoleChild}}, &mockQuizCreator{}, zap.NewNop())

		_, err := s.Run(context.Background(), "kid@example.com", decks)

		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})

	t.Run("unknown account", func(t *testing.T) {
		s := NewSeeder(&mockUserFinder{}, &mockQuizCreator{}, zap.NewNop())

		_, err := s.Run(context.Background(), "nobody@example.com", decks)

		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("create failure", func(t *testing.T) {
		s := NewSeeder(&mockUserFinder{user: &models.User{ID: 1, Role: models.RoleAdmin}}, &mockQuizCreator{createErr: errors.New("db down")}, zap.NewNop())

		created, err := s.Run(context.Background(), "admin@example.com", decks)

		assert.Zero(t, created)
		assert.ErrorContains(t, err, `failed to create quiz "A"`)
	})
}
