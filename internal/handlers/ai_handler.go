package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/flashquiz/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AIService is the interface that wraps methods for generative authoring
type AIService interface {
	// GenerateFromTopic generates flashcards about a topic tailored to a grade level or age
	GenerateFromTopic(ctx context.Context, req *models.GenerateFromTopicRequest) (*models.GeneratedFlashcards, error)
	// GenerateFromText generates flashcards from a block of study material
	GenerateFromText(ctx context.Context, req *models.GenerateFromTextRequest) (*models.GeneratedFlashcards, error)
	// Hint generates a short hint for a flashcard question
	Hint(ctx context.Context, req *models.HintRequest) (*models.HintResponse, error)
}

// AIHandler handles generative authoring HTTP requests
type AIHandler struct {
	BaseHandler
	aiService AIService
}

// NewAIHandler creates a new AI handler
func NewAIHandler(aiService AIService, logger *zap.Logger) *AIHandler {
	return &AIHandler{
		BaseHandler: BaseHandler{Logger: logger},
		aiService:   aiService,
	}
}

// RegisterRoutes registers AI handler routes.
// "limiter" is applied to every route on top of the auth middlewares.
func (h *AIHandler) RegisterRoutes(r chi.Router, authMiddleware, parentMiddleware, limiter func(http.Handler) http.Handler) {
	r.Route("/ai", func(r chi.Router) {
		r.Use(limiter)
		r.With(parentMiddleware).Post("/flashcards/topic", h.GenerateFromTopic)
		r.With(parentMiddleware).Post("/flashcards/text", h.GenerateFromText)
		r.With(authMiddleware).Post("/hints", h.Hint)
	})
}

// GenerateFromTopic handles POST /ai/flashcards/topic
// @Summary Generate flashcards from a topic
// @Description Generate between 1 and 50 flashcards about a topic. Requires parent role.
// @Tags ai
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.GenerateFromTopicRequest true "Topic request"
// @Success 200 {object} models.GeneratedFlashcards
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 502 {object} map[string]string "Generation failed"
// @Router /ai/flashcards/topic [post]
func (h *AIHandler) GenerateFromTopic(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateFromTopicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cards, err := h.aiService.GenerateFromTopic(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, err, "failed to generate flashcards from topic")
		return
	}

	h.RespondJSON(w, http.StatusOK, cards)
}

// GenerateFromText handles POST /ai/flashcards/text
// @Summary Generate flashcards from text
// @Description Generate flashcards from study material. Requires parent role.
// @Tags ai
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.GenerateFromTextRequest true "Text request"
// @Success 200 {object} models.GeneratedFlashcards
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 502 {object} map[string]string "Generation failed"
// @Router /ai/flashcards/text [post]
func (h *AIHandler) GenerateFromText(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateFromTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cards, err := h.aiService.GenerateFromText(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, err, "failed to generate flashcards from text")
		return
	}

	h.RespondJSON(w, http.StatusOK, cards)
}

// Hint handles POST /ai/hints
// @Summary Generate a hint
// @Description Short hint for a flashcard question, explained for an 11-year-old
// @Tags ai
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.HintRequest true "Hint request"
// @Success 200 {object} models.HintResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 502 {object} map[string]string "Sorry, I could not think of a hint right now."
// @Router /ai/hints [post]
func (h *AIHandler) Hint(w http.ResponseWriter, r *http.Request) {
	var req models.HintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	hint, err := h.aiService.Hint(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, err, "failed to generate hint")
		return
	}

	h.RespondJSON(w, http.StatusOK, hint)
}
