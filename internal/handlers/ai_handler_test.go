package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/flashquiz/backend/internal/models"
	"github.com/flashquiz/backend/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestAIHandler(t *testing.T) {
	cards := &models.GeneratedFlashcards{Flashcards: []models.Flashcard{{Question: "q", Answer: "a", Options: []string{"a", "b"}}}}

	tests := []struct {
		name           string
		target         string
		body           string
		svc            *mockAIService
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "topic",
			target:         "/ai/flashcards/topic",
			body:           `{"topic":"Volcanoes","numFlashcards":5}`,
			svc:            &mockAIService{cards: cards},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "topic invalid",
			target:         "/ai/flashcards/topic",
			body:           `{"topic":"Volcanoes","numFlashcards":60}`,
			svc:            &mockAIService{err: models.NewError(models.ErrInvalidInput, "number of flashcards must be between 1 and 50")},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "number of flashcards must be between 1 and 50",
		},
		{
			name:           "text upstream failure",
			target:         "/ai/flashcards/text",
			body:           `{"text":"Plants make food."}`,
			svc:            &mockAIService{err: models.NewError(models.ErrUpstream, "failed to generate flashcards, please try again")},
			expectedStatus: http.StatusBadGateway,
			expectedError:  "failed to generate flashcards, please try again",
		},
		{
			name:           "hint",
			target:         "/ai/hints",
			body:           `{"question":"Where do plants get energy?","subject":"Science"}`,
			svc:            &mockAIService{hint: &models.HintResponse{Hint: "Look up."}},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "hint failure",
			target:         "/ai/hints",
			body:           `{"question":"Where do plants get energy?"}`,
			svc:            &mockAIService{err: models.NewError(models.ErrUpstream, services.HintFailureMessage)},
			expectedStatus: http.StatusBadGateway,
			expectedError:  "Sorry, I could not think of a hint right now.",
		},
		{
			name:           "invalid body",
			target:         "/ai/hints",
			body:           `nope`,
			svc:            &mockAIService{},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := chi.NewRouter()
			NewAIHandler(tt.svc, zap.NewNop()).RegisterRoutes(r, passthrough, passthrough, passthrough)
			rec := httptest.NewRecorder()

			r.ServeHTTP(rec, newRequest(http.MethodPost, tt.target, tt.body, 1, models.RoleParent))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, decodeError(t, rec))
			}
		})
	}
}

func TestAIHandler_LimiterApplies(t *testing.T) {
	blocked := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})
	}
	r := chi.NewRouter()
	NewAIHandler(&mockAIService{}, zap.NewNop()).RegisterRoutes(r, passthrough, passthrough, blocked)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, newRequest(http.MethodPost, "/ai/hints", `{"question":"q"}`, 1, models.RoleParent))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
