package handlers

import (
	"context"
	"net/http"

	"github.com/flashquiz/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DashboardService is the interface that wraps methods for building dashboards
type DashboardService interface {
	// ParentDashboard returns the parent's children with their attempts and the parent's quizzes
	ParentDashboard(ctx context.Context, parentID int) (*models.ParentDashboard, error)
	// ChildDashboard returns the quizzes of the child's parent, the child's attempts and achievements
	ChildDashboard(ctx context.Context, childID int) (*models.ChildDashboard, error)
}

// DashboardHandler handles dashboard HTTP requests
type DashboardHandler struct {
	BaseHandler
	dashboardService DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler:      BaseHandler{Logger: logger},
		dashboardService: dashboardService,
	}
}

// RegisterRoutes registers dashboard handler routes
func (h *DashboardHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.With(authMiddleware).Get("/dashboard", h.Dashboard)
}

// Dashboard handles GET /dashboard
// @Summary Dashboard
// @Description Parents and admins get their children with attempts and their quizzes. Children get their parent's quizzes, their attempts and achievements.
// @Tags dashboard
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.ParentDashboard "Parent dashboard"
// @Success 200 {object} models.ChildDashboard "Child dashboard"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /dashboard [get]
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.viewer(w, r)
	if !ok {
		return
	}

	if viewer.Role == models.RoleChild {
		dashboard, err := h.dashboardService.ChildDashboard(r.Context(), viewer.UserID)
		if err != nil {
			h.RespondServiceError(w, err, "failed to load child dashboard")
			return
		}
		h.RespondJSON(w, http.StatusOK, dashboard)
		return
	}

	dashboard, err := h.dashboardService.ParentDashboard(r.Context(), viewer.UserID)
	if err != nil {
		h.RespondServiceError(w, err, "failed to load parent dashboard")
		return
	}
	h.RespondJSON(w, http.StatusOK, dashboard)
}
