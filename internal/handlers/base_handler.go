package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/flashquiz/backend/internal/middleware"
	"github.com/flashquiz/backend/internal/models"
	"github.com/flashquiz/backend/internal/services"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BaseHandler provides common handler functionality
type BaseHandler struct {
	Logger *zap.Logger
}

// RespondJSON sends a JSON response
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// RespondError sends an error JSON response
func (h *BaseHandler) RespondError(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, map[string]string{"error": message})
}

// RespondServiceError maps a service error to a status code and sends it.
// Only messages of models.Error reach the client; anything else is reported as an internal error.
func (h *BaseHandler) RespondServiceError(w http.ResponseWriter, err error, logMessage string) {
	status := statusFor(err)
	message := "internal server error"
	var clientErr *models.Error
	if errors.As(err, &clientErr) {
		message = clientErr.Message
	} else if status != http.StatusInternalServerError {
		message = err.Error()
	}

	if status >= http.StatusInternalServerError {
		h.Logger.Error(logMessage, zap.Error(err))
	} else {
		h.Logger.Debug(logMessage, zap.Error(err))
	}
	h.RespondError(w, status, message)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthorized), errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, models.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// viewer builds the caller identity from the auth middleware context
func (h *BaseHandler) viewer(w http.ResponseWriter, r *http.Request) (services.Viewer, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.Logger.Error("user ID not found in context")
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
		return services.Viewer{}, false
	}
	role, _ := middleware.GetRole(r.Context())
	return services.Viewer{UserID: userID, Role: models.Role(role)}, true
}

// pathID parses the {id} URL parameter
func (h *BaseHandler) pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		h.RespondError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
