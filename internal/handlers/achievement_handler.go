package handlers

import (
	"context"
	"net/http"

	"github.com/flashquiz/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AchievementService is the interface that wraps methods for reading achievements
type AchievementService interface {
	// Catalog returns every achievement that can be earned
	Catalog() []models.AchievementDefinition
	// List returns the achievements unlocked by a user
	List(ctx context.Context, userID int) ([]models.EarnedAchievement, error)
}

// AchievementHandler handles achievement HTTP requests
type AchievementHandler struct {
	BaseHandler
	achievementService AchievementService
}

// NewAchievementHandler creates a new achievement handler
func NewAchievementHandler(achievementService AchievementService, logger *zap.Logger) *AchievementHandler {
	return &AchievementHandler{
		BaseHandler:        BaseHandler{Logger: logger},
		achievementService: achievementService,
	}
}

// RegisterRoutes registers achievement handler routes
func (h *AchievementHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/achievements", h.Catalog)
		r.Get("/achievements/earned", h.Earned)
	})
}

// Catalog handles GET /achievements
// @Summary Achievement catalog
// @Description Every achievement that can be earned
// @Tags achievements
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.AchievementDefinition
// @Router /achievements [get]
func (h *AchievementHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	h.RespondJSON(w, http.StatusOK, h.achievementService.Catalog())
}

// Earned handles GET /achievements/earned
// @Summary Earned achievements
// @Description Achievements unlocked by the authenticated user
// @Tags achievements
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.EarnedAchievement
// @Router /achievements/earned [get]
func (h *AchievementHandler) Earned(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.viewer(w, r)
	if !ok {
		return
	}

	earned, err := h.achievementService.List(r.Context(), viewer.UserID)
	if err != nil {
		h.RespondServiceError(w, err, "failed to list achievements")
		return
	}

	h.RespondJSON(w, http.StatusOK, earned)
}
