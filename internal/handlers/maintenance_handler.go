package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TokenCleaner removes refresh tokens older than the refresh token lifetime
type TokenCleaner interface {
	// CleanExpiredTokens deletes expired refresh tokens and returns how many were removed
	CleanExpiredTokens(ctx context.Context) (int, error)
}

// TokenCleaningHandler handles token cleaning requests
type TokenCleaningHandler struct {
	BaseHandler
	cleaner TokenCleaner
}

// NewTokenCleaningHandler creates a new token cleaning handler
func NewTokenCleaningHandler(cleaner TokenCleaner, logger *zap.Logger) *TokenCleaningHandler {
	return &TokenCleaningHandler{
		BaseHandler: BaseHandler{Logger: logger},
		cleaner:     cleaner,
	}
}

// RegisterRoutes registers token cleaning handler routes
func (h *TokenCleaningHandler) RegisterRoutes(r chi.Router) {
	r.Get("/tokens/clean", h.CleanTokens)
}

// CleanTokens handles GET /tokens/clean
// @Summary Clean expired tokens
// @Description Removes all refresh tokens created before the refresh token lifetime
// @Tags tokens
// @Produce json
// @Security InternalKeyAuth
// @Success 200 {object} map[string]any "Token cleaning completed successfully"
// @Failure 401 {object} map[string]string "Invalid or missing API key"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /tokens/clean [get]
func (h *TokenCleaningHandler) CleanTokens(w http.ResponseWriter, r *http.Request) {
	deletedCount, err := h.cleaner.CleanExpiredTokens(r.Context())
	if err != nil {
		h.RespondServiceError(w, err, "failed to delete expired tokens")
		return
	}

	// 0 deleted rows is not an error
	h.Logger.Info("token cleaning completed successfully", zap.Int("deletedCount", deletedCount))
	h.RespondJSON(w, http.StatusOK, map[string]any{
		"message":      "token cleaning completed successfully",
		"deletedCount": deletedCount,
	})
}
