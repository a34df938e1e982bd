package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/flashquiz/backend/internal/models"
	"github.com/flashquiz/backend/internal/services"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AttemptService is the interface that wraps methods for saving and listing quiz attempts
type AttemptService interface {
	// Submit scores and stores a completed quiz, then evaluates achievements.
	//
	// "viewer" parameter identifies the quiz taker.
	// "quizID" parameter is the quiz that was played.
	// "req" parameter contains the answered flashcards.
	//
	// Achievement bookkeeping never fails the submission.
	Submit(ctx context.Context, viewer services.Viewer, quizID int, req *models.SubmitAttemptRequest) (*models.AttemptResult, error)
	// List returns the attempts of a user, newest first
	List(ctx context.Context, userID int) ([]models.QuizAttempt, error)
}

// AttemptHandler handles quiz attempt HTTP requests
type AttemptHandler struct {
	BaseHandler
	attemptService AttemptService
}

// NewAttemptHandler creates a new attempt handler
func NewAttemptHandler(attemptService AttemptService, logger *zap.Logger) *AttemptHandler {
	return &AttemptHandler{
		BaseHandler:    BaseHandler{Logger: logger},
		attemptService: attemptService,
	}
}

// RegisterRoutes registers all attempt handler routes
func (h *AttemptHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/quizzes/{id}/attempts", h.Submit)
		r.Get("/attempts", h.List)
	})
}

// Submit handles POST /quizzes/{id}/attempts
// @Summary Submit a quiz attempt
// @Description Store the answered flashcards of a completed quiz. Returns the score, newly unlocked achievements and an encouragement message.
// @Tags attempts
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Quiz ID"
// @Param request body models.SubmitAttemptRequest true "Answered flashcards"
// @Success 201 {object} models.AttemptResult
// @Failure 400 {object} map[string]string "Invalid attempt"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Quiz not found"
// @Router /quizzes/{id}/attempts [post]
func (h *AttemptHandler) Submit(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.viewer(w, r)
	if !ok {
		return
	}
	quizID, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req models.SubmitAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.attemptService.Submit(r.Context(), viewer, quizID, &req)
	if err != nil {
		h.RespondServiceError(w, err, "failed to submit attempt")
		return
	}

	h.RespondJSON(w, http.StatusCreated, result)
}

// List handles GET /attempts
// @Summary List own attempts
// @Description Attempt history of the authenticated user, newest first
// @Tags attempts
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.QuizAttempt
// @Router /attempts [get]
func (h *AttemptHandler) List(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.viewer(w, r)
	if !ok {
		return
	}

	attempts, err := h.attemptService.List(r.Context(), viewer.UserID)
	if err != nil {
		h.RespondServiceError(w, err, "failed to list attempts")
		return
	}

	h.RespondJSON(w, http.StatusOK, attempts)
}
