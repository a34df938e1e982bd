package services

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/flashquiz/backend/internal/models"
	"github.com/flashquiz/backend/internal/study"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func vocabularyQuiz() *models.Quiz {
	return &models.Quiz{
		ID:       3,
		Title:    "Cells",
		OwnerID:  1,
		QuizType: models.QuizTypeVocabulary,
		Flashcards: []models.Flashcard{
			{Question: "Basic unit of life", Answer: "Cell"},
			{Question: "Control center of the cell", Answer: "Nucleus"},
			{Question: "Powerhouse of the cell", Answer: "Mitochondria"},
			{Question: "Outer layer of a plant cell", Answer: "Cell wall"},
			{Question: "Green pigment", Answer: "Chlorophyll"},
		},
	}
}

func newQuizServiceForTest(repo *mockQuizRepository, reader *mockQuizReader, invalidator QuizCacheInvalidator, users *mockUserRepository) *quizService {
	svc := NewQuizService(repo, reader, invalidator, users, zap.NewNop())
	svc.rng = rand.New(rand.NewPCG(1, 2))
	return svc
}

func TestQuizService_Create(t *testing.T) {
	tests := []struct {
		name          string
		req           models.CreateQuizRequest
		errorContains string
	}{
		{
			name: "standard quiz",
			req: models.CreateQuizRequest{
				Title:    "  Planets ",
				QuizType: models.QuizTypeStandard,
				Flashcards: []models.Flashcard{
					{Question: "Largest planet?", Answer: "Jupiter", Options: []string{"Mars", "Jupiter", " Mars ", ""}},
				},
			},
		},
		{
			name: "vocabulary quiz without options",
			req: models.CreateQuizRequest{
				Title:      "Words",
				QuizType:   models.QuizTypeVocabulary,
				Flashcards: []models.Flashcard{{Question: "A young dog", Answer: "Puppy"}},
			},
		},
		{
			name:          "empty title",
			req:           models.CreateQuizRequest{Title: " ", Flashcards: []models.Flashcard{{Question: "Q", Answer: "A", Options: []string{"A"}}}},
			errorContains: "title cannot be empty",
		},
		{
			name:          "unknown type",
			req:           models.CreateQuizRequest{Title: "T", QuizType: "essay", Flashcards: []models.Flashcard{{Question: "Q", Answer: "A"}}},
			errorContains: "quiz type must be",
		},
		{
			name:          "no cards",
			req:           models.CreateQuizRequest{Title: "T", QuizType: models.QuizTypeVocabulary},
			errorContains: "at least one flashcard",
		},
		{
			name:          "card without answer",
			req:           models.CreateQuizRequest{Title: "T", QuizType: models.QuizTypeVocabulary, Flashcards: []models.Flashcard{{Question: "Q"}}},
			errorContains: "flashcard 1 needs a question and an answer",
		},
		{
			name: "standard answer missing from options",
			req: models.CreateQuizRequest{Title: "T", QuizType: models.QuizTypeStandard, Flashcards: []models.Flashcard{
				{Question: "Q1", Answer: "A", Options: []string{"A", "B"}},
				{Question: "Q2", Answer: "C", Options: []string{"A", "B"}},
			}},
			errorContains: "flashcard 2 must list its answer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockQuizRepository{}
			svc := newQuizServiceForTest(repo, &mockQuizReader{}, nil, &mockUserRepository{})

			quiz, err := svc.Create(context.Background(), 1, &tt.req)

			if tt.errorContains != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, models.ErrInvalidInput)
				assert.Contains(t, err.Error(), tt.errorContains)
				assert.Nil(t, repo.created)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 7, quiz.ID)
			assert.Equal(t, 1, quiz.OwnerID)
			assert.NotContains(t, quiz.Title, " ")
			for _, card := range quiz.Flashcards {
				assert.NotContains(t, card.Options, "")
			}
		})
	}
}

func TestQuizService_Create_DeduplicatesOptions(t *testing.T) {
	repo := &mockQuizRepository{}
	svc := newQuizServiceForTest(repo, &mockQuizReader{}, nil, &mockUserRepository{})

	quiz, err := svc.Create(context.Background(), 1, &models.CreateQuizRequest{
		Title:      "Planets",
		Flashcards: []models.Flashcard{{Question: "Largest?", Answer: "Jupiter", Options: []string{"Mars", "Jupiter", " Mars "}}},
	})

	require.NoError(t, err)
	assert.Equal(t, models.QuizTypeStandard, quiz.QuizType)
	assert.Equal(t, []string{"Mars", "Jupiter"}, quiz.Flashcards[0].Options)
}

func TestQuizService_Create_RepositoryError(t *testing.T) {
	repo := &mockQuizRepository{createErr: errors.New("db down")}
	svc := newQuizServiceForTest(repo, &mockQuizReader{}, nil, &mockUserRepository{})

	_, err := svc.Create(context.Background(), 1, &models.CreateQuizRequest{
		Title:      "Words",
		QuizType:   models.QuizTypeVocabulary,
		Flashcards: []models.Flashcard{{Question: "Q", Answer: "A"}},
	})

	assert.ErrorContains(t, err, "failed to save quiz")
}

func TestQuizService_Get(t *testing.T) {
	tests := []struct {
		name         string
		viewer       Viewer
		viewerUser   *models.User
		readerErr    error
		expectedKind error
	}{
		{name: "owner", viewer: Viewer{UserID: 1, Role: models.RoleParent}},
		{name: "admin", viewer: Viewer{UserID: 9, Role: models.RoleAdmin}},
		{
			name:       "child of owner",
			viewer:     Viewer{UserID: 2, Role: models.RoleChild},
			viewerUser: &models.User{ID: 2, Role: models.RoleChild, ParentID: intPtr(1)},
		},
		{
			name:         "child of another parent",
			viewer:       Viewer{UserID: 2, Role: models.RoleChild},
			viewerUser:   &models.User{ID: 2, Role: models.RoleChild, ParentID: intPtr(5)},
			expectedKind: models.ErrForbidden,
		},
		{
			name:         "unlinked child",
			viewer:       Viewer{UserID: 2, Role: models.RoleChild},
			viewerUser:   &models.User{ID: 2, Role: models.RoleChild},
			expectedKind: models.ErrForbidden,
		},
		{name: "other parent", viewer: Viewer{UserID: 5, Role: models.RoleParent}, expectedKind: models.ErrForbidden},
		{name: "missing quiz", viewer: Viewer{UserID: 1, Role: models.RoleParent}, readerErr: models.ErrNotFound, expectedKind: models.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := &mockQuizReader{quiz: vocabularyQuiz(), err: tt.readerErr}
			svc := newQuizServiceForTest(&mockQuizRepository{}, reader, nil, &mockUserRepository{user: tt.viewerUser})

			quiz, err := svc.Get(context.Background(), tt.viewer, 3)

			if tt.expectedKind != nil {
				assert.ErrorIs(t, err, tt.expectedKind)
				assert.Nil(t, quiz)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Cells", quiz.Title)
		})
	}
}

func TestQuizService_Play(t *testing.T) {
	owner := Viewer{UserID: 1, Role: models.RoleParent}

	t.Run("vocabulary term first", func(t *testing.T) {
		svc := newQuizServiceForTest(&mockQuizRepository{}, &mockQuizReader{quiz: vocabularyQuiz()}, nil, &mockUserRepository{})

		play, err := svc.Play(context.Background(), owner, 3, "term-first")

		require.NoError(t, err)
		assert.Equal(t, string(study.TermFirst), play.Direction)
		require.Len(t, play.Cards, 5)
		for i, card := range play.Cards {
			assert.Equal(t, i, card.Index)
			assert.Equal(t, vocabularyQuiz().Flashcards[i].Answer, card.Prompt)
			assert.Equal(t, vocabularyQuiz().Flashcards[i].Question, card.ExpectedAnswer)
			assert.Len(t, card.Options, study.MaxOptions)
			assert.Contains(t, card.Options, card.ExpectedAnswer)
		}
	})

	t.Run("default direction", func(t *testing.T) {
		svc := newQuizServiceForTest(&mockQuizRepository{}, &mockQuizReader{quiz: vocabularyQuiz()}, nil, &mockUserRepository{})

		play, err := svc.Play(context.Background(), owner, 3, "")

		require.NoError(t, err)
		assert.Equal(t, string(study.DefinitionFirst), play.Direction)
		assert.Equal(t, "Basic unit of life", play.Cards[0].Prompt)
		assert.Equal(t, "Cell", play.Cards[0].ExpectedAnswer)
	})

	t.Run("standard ignores direction", func(t *testing.T) {
		quiz := &models.Quiz{ID: 4, OwnerID: 1, QuizType: models.QuizTypeStandard, Flashcards: []models.Flashcard{
			{Question: "2+2?", Answer: "4", Options: []string{"3", "4", "5"}},
		}}
		svc := newQuizServiceForTest(&mockQuizRepository{}, &mockQuizReader{quiz: quiz}, nil, &mockUserRepository{})

		play, err := svc.Play(context.Background(), owner, 4, "term-first")

		require.NoError(t, err)
		assert.Equal(t, string(study.DefinitionFirst), play.Direction)
		assert.Equal(t, "2+2?", play.Cards[0].Prompt)
		assert.ElementsMatch(t, []string{"3", "4", "5"}, play.Cards[0].Options)
	})

	t.Run("invalid direction", func(t *testing.T) {
		svc := newQuizServiceForTest(&mockQuizRepository{}, &mockQuizReader{quiz: vocabularyQuiz()}, nil, &mockUserRepository{})

		_, err := svc.Play(context.Background(), owner, 3, "sideways")

		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})
}

func TestQuizService_Delete(t *testing.T) {
	t.Run("owner deletes and invalidates", func(t *testing.T) {
		repo := &mockQuizRepository{}
		invalidator := &mockInvalidator{}
		svc := newQuizServiceForTest(repo, &mockQuizReader{quiz: vocabularyQuiz()}, invalidator, &mockUserRepository{})

		require.NoError(t, svc.Delete(context.Background(), Viewer{UserID: 1, Role: models.RoleParent}, 3))
		assert.Equal(t, 3, repo.deletedID)
		assert.Equal(t, []int{3}, invalidator.ids)
	})

	t.Run("invalidation failure is not an error", func(t *testing.T) {
		invalidator := &mockInvalidator{err: errors.New("redis down")}
		svc := newQuizServiceForTest(&mockQuizRepository{}, &mockQuizReader{quiz: vocabularyQuiz()}, invalidator, &mockUserRepository{})

		assert.NoError(t, svc.Delete(context.Background(), Viewer{UserID: 1, Role: models.RoleParent}, 3))
	})

	t.Run("without cache", func(t *testing.T) {
		repo := &mockQuizRepository{}
		svc := newQuizServiceForTest(repo, &mockQuizReader{quiz: vocabularyQuiz()}, nil, &mockUserRepository{})

		require.NoError(t, svc.Delete(context.Background(), Viewer{UserID: 9, Role: models.RoleAdmin}, 3))
		assert.Equal(t, 3, repo.deletedID)
	})

	t.Run("not the owner", func(t *testing.T) {
		repo := &mockQuizRepository{}
		svc := newQuizServiceForTest(repo, &mockQuizReader{quiz: vocabularyQuiz()}, nil, &mockUserRepository{})

		err := svc.Delete(context.Background(), Viewer{UserID: 2, Role: models.RoleParent}, 3)

		assert.ErrorIs(t, err, models.ErrForbidden)
		assert.Zero(t, repo.deletedID)
	})
}

func TestQuizService_List(t *testing.T) {
	repo := &mockQuizRepository{summaries: []models.QuizSummary{{ID: 1}, {ID: 2}}}
	svc := newQuizServiceForTest(repo, &mockQuizReader{}, nil, &mockUserRepository{})

	quizzes, err := svc.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, quizzes, 2)

	repo.listErr = errors.New("db down")
	_, err = svc.List(context.Background(), 1)
	assert.ErrorContains(t, err, "failed to list quizzes")
}
