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

// QuizService is the interface that wraps methods for quiz authoring and play
type QuizService interface {
	// Create validates and saves a quiz owned by "ownerID"
	Create(ctx context.Context, ownerID int, req *models.CreateQuizRequest) (*models.Quiz, error)
	// List returns the quizzes of "ownerID", newest first
	List(ctx context.Context, ownerID int) ([]models.QuizSummary, error)
	// Get returns a quiz if the viewer may see it
	//
	// If the quiz does not exist, or the viewer is neither its owner, a child of its owner nor an admin, the error will be returned together with "nil" value.
	Get(ctx context.Context, viewer services.Viewer, id int) (*models.Quiz, error)
	// Play returns the cards of a quiz as prompts with option sets
	//
	// "direction" parameter is the study direction. An empty value selects the default one.
	Play(ctx context.Context, viewer services.Viewer, id int, direction string) (*models.QuizPlay, error)
	// Delete removes a quiz. Only its owner or an admin may delete it.
	Delete(ctx context.Context, viewer services.Viewer, id int) error
}

// QuizHandler handles quiz HTTP requests
type QuizHandler struct {
	BaseHandler
	quizService QuizService
}

// NewQuizHandler creates a new quiz handler
func NewQuizHandler(quizService QuizService, logger *zap.Logger) *QuizHandler {
	return &QuizHandler{
		BaseHandler: BaseHandler{Logger: logger},
		quizService: quizService,
	}
}

// RegisterRoutes registers all quiz handler routes
func (h *QuizHandler) RegisterRoutes(r chi.Router, authMiddleware, parentMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(parentMiddleware)
		r.Post("/quizzes", h.Create)
		r.Get("/quizzes", h.List)
		r.Delete("/quizzes/{id}", h.Delete)
	})
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/quizzes/{id}", h.Get)
		r.Get("/quizzes/{id}/play", h.Play)
	})
}

// Create handles POST /quizzes
// @Summary Create a quiz
// @Description Save a quiz with at least one flashcard. Requires parent role.
// @Tags quizzes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.CreateQuizRequest true "Quiz"
// @Success 201 {object} models.Quiz
// @Failure 400 {object} map[string]string "Invalid quiz"
// @Router /quizzes [post]
func (h *QuizHandler) Create(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.viewer(w, r)
	if !ok {
		return
	}

	var req models.CreateQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	quiz, err := h.quizService.Create(r.Context(), viewer.UserID, &req)
	if err != nil {
		h.RespondServiceError(w, err, "failed to create quiz")
		return
	}

	h.RespondJSON(w, http.StatusCreated, quiz)
}

// List handles GET /quizzes
// @Summary List own quizzes
// @Description Quizzes of the authenticated parent, newest first. Requires parent role.
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.QuizSummary
// @Router /quizzes [get]
func (h *QuizHandler) List(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.viewer(w, r)
	if !ok {
		return
	}

	quizzes, err := h.quizService.List(r.Context(), viewer.UserID)
	if err != nil {
		h.RespondServiceError(w, err, "failed to list quizzes")
		return
	}

	h.RespondJSON(w, http.StatusOK, quizzes)
}

// Get handles GET /quizzes/{id}
// @Summary Get a quiz
// @Description Get a quiz with its flashcards. Visible to the owner, the owner's children and admins.
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Quiz ID"
// @Success 200 {object} models.Quiz
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Quiz not found"
// @Router /quizzes/{id} [get]
func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.viewer(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	quiz, err := h.quizService.Get(r.Context(), viewer, id)
	if err != nil {
		h.RespondServiceError(w, err, "failed to get quiz")
		return
	}

	h.RespondJSON(w, http.StatusOK, quiz)
}

// Play handles GET /quizzes/{id}/play
// @Summary Play a quiz
// @Description Cards of a quiz as prompts with multiple-choice options
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Quiz ID"
// @Param direction query string false "Study direction: definition-first or term-first"
// @Success 200 {object} models.QuizPlay
// @Failure 400 {object} map[string]string "Invalid direction"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Quiz not found"
// @Router /quizzes/{id}/play [get]
func (h *QuizHandler) Play(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.viewer(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	play, err := h.quizService.Play(r.Context(), viewer, id, r.URL.Query().Get("direction"))
	if err != nil {
		h.RespondServiceError(w, err, "failed to play quiz")
		return
	}

	h.RespondJSON(w, http.StatusOK, play)
}

// Delete handles DELETE /quizzes/{id}
// @Summary Delete a quiz
// @Description Delete an own quiz. Requires parent role.
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Quiz ID"
// @Success 200 {object} map[string]string "Quiz deleted"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Quiz not found"
// @Router /quizzes/{id} [delete]
func (h *QuizHandler) Delete(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.viewer(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.quizService.Delete(r.Context(), viewer, id); err != nil {
		h.RespondServiceError(w, err, "failed to delete quiz")
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "quiz deleted successfully"})
}
