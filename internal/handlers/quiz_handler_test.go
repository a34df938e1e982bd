package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/flashquiz/backend/internal/models"
	"github.com/flashquiz/backend/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newQuizRouter(svc *mockQuizService) http.Handler {
	r := chi.NewRouter()
	NewQuizHandler(svc, zap.NewNop()).RegisterRoutes(r, passthrough, passthrough)
	return r
}

func TestQuizHandler_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &mockQuizService{quiz: &models.Quiz{ID: 3, Title: "Cells"}}
		rec := httptest.NewRecorder()
		newQuizRouter(svc).ServeHTTP(rec, newRequest(http.MethodPost, "/quizzes", `{"title":"Cells","quizType":"vocabulary","flashcards":[{"question":"q","answer":"a"}]}`, 1, models.RoleParent))

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("validation error", func(t *testing.T) {
		svc := &mockQuizService{err: models.NewError(models.ErrInvalidInput, "a quiz needs at least one flashcard")}
		rec := httptest.NewRecorder()
		newQuizRouter(svc).ServeHTTP(rec, newRequest(http.MethodPost, "/quizzes", `{"title":"Cells"}`, 1, models.RoleParent))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "a quiz needs at least one flashcard", decodeError(t, rec))
	})
}

func TestQuizHandler_Get(t *testing.T) {
	tests := []struct {
		name           string
		svc            *mockQuizService
		expectedStatus int
	}{
		{name: "visible", svc: &mockQuizService{quiz: &models.Quiz{ID: 3}}, expectedStatus: http.StatusOK},
		{name: "forbidden", svc: &mockQuizService{err: models.NewError(models.ErrForbidden, "you do not have access to this quiz")}, expectedStatus: http.StatusForbidden},
		{name: "missing", svc: &mockQuizService{err: fmt.Errorf("quiz not found: %w", models.ErrNotFound)}, expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newQuizRouter(tt.svc).ServeHTTP(rec, newRequest(http.MethodGet, "/quizzes/3", "", 2, models.RoleChild))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, services.Viewer{UserID: 2, Role: models.RoleChild}, tt.svc.viewer)
			assert.Equal(t, 3, tt.svc.id)
		})
	}
}

func TestQuizHandler_Play(t *testing.T) {
	svc := &mockQuizService{play: &models.QuizPlay{QuizID: 3, Direction: "term-first"}}
	rec := httptest.NewRecorder()

	newQuizRouter(svc).ServeHTTP(rec, newRequest(http.MethodGet, "/quizzes/3/play?direction=term-first", "", 2, models.RoleChild))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "term-first", svc.direction)
	assert.Equal(t, 3, svc.id)
}

func TestQuizHandler_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &mockQuizService{}
		rec := httptest.NewRecorder()
		newQuizRouter(svc).ServeHTTP(rec, newRequest(http.MethodDelete, "/quizzes/3", "", 1, models.RoleParent))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 3, svc.deleted)
	})

	t.Run("invalid id", func(t *testing.T) {
		svc := &mockQuizService{}
		rec := httptest.NewRecorder()
		newQuizRouter(svc).ServeHTTP(rec, newRequest(http.MethodDelete, "/quizzes/0", "", 1, models.RoleParent))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Zero(t, svc.deleted)
	})
}
