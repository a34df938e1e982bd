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

// UserService is the interface that wraps methods for family management business logic
type UserService interface {
	// AddChild links an existing unassigned child to the parent, or creates a new child account
	//
	// "parentID" parameter is the ID of the acting parent.
	// "req" parameter contains the child's email, name, password, grade level and date of birth.
	//
	// If the email belongs to the parent, to another parent, or to a child of another parent, the error will be returned together with "nil" value.
	AddChild(ctx context.Context, parentID int, req *models.AddChildRequest) (*models.User, error)
	// AddParent creates another parent account
	//
	// "actorID" parameter is the ID of the acting parent.
	// "req" parameter contains email, name and password of the new parent.
	//
	// If the email is taken, the error will be returned together with "nil" value.
	AddParent(ctx context.Context, actorID int, req *models.AddParentRequest) (*models.User, error)
	// ManagedUsers returns the parent's children and all other parents
	ManagedUsers(ctx context.Context, parentID int) (*models.ManagedUsers, error)
	// UpdateProfile updates grade level, date of birth or avatar of the actor or the actor's child
	//
	// "actor" parameter identifies the caller.
	// "targetID" parameter is the ID of the user to update.
	// "req" parameter contains the fields to change. Nil fields are left unchanged.
	//
	// If the actor may not edit the target, the error will be returned together with "nil" value.
	UpdateProfile(ctx context.Context, actor services.Viewer, targetID int, req *models.UpdateProfileRequest) (*models.User, error)
	// SetRole changes the role of a user
	//
	// "actorID" parameter is the ID of the acting admin.
	// "targetID" parameter is the ID of the user to change.
	// "role" parameter is the new role.
	SetRole(ctx context.Context, actorID, targetID int, role models.Role) error
}

// UserHandler handles family management HTTP requests
type UserHandler struct {
	BaseHandler
	userService UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: BaseHandler{Logger: logger},
		userService: userService,
	}
}

// RegisterRoutes registers all user handler routes
func (h *UserHandler) RegisterRoutes(r chi.Router, parentMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(parentMiddleware)
		r.Post("/children", h.AddChild)
		r.Post("/parents", h.AddParent)
		r.Get("/managed-users", h.ManagedUsers)
		r.Patch("/users/{id}/profile", h.UpdateProfile)
	})
	r.With(adminMiddleware).Put("/users/{id}/role", h.SetRole)
}

// AddChild handles POST /children
// @Summary Add a child
// @Description Link an existing unassigned child by email or create a new child account. Requires parent role.
// @Tags users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.AddChildRequest true "Child data"
// @Success 201 {object} models.User
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 409 {object} map[string]string "Child already linked"
// @Router /children [post]
func (h *UserHandler) AddChild(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.viewer(w, r)
	if !ok {
		return
	}

	var req models.AddChildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	child, err := h.userService.AddChild(r.Context(), viewer.UserID, &req)
	if err != nil {
		h.RespondServiceError(w, err, "failed to add child")
		return
	}

	h.RespondJSON(w, http.StatusCreated, child)
}

// AddParent handles POST /parents
// @Summary Add a parent
// @Description Create another parent account. Requires parent role.
// @Tags users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.AddParentRequest true "Parent data"
// @Success 201 {object} models.User
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 409 {object} map[string]string "Email already exists"
// @Router /parents [post]
func (h *UserHandler) AddParent(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.viewer(w, r)
	if !ok {
		return
	}

	var req models.AddParentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	parent, err := h.userService.AddParent(r.Context(), viewer.UserID, &req)
	if err != nil {
		h.RespondServiceError(w, err, "failed to add parent")
		return
	}

	h.RespondJSON(w, http.StatusCreated, parent)
}

// ManagedUsers handles GET /managed-users
// @Summary Managed users
// @Description Own children and all other parents. Requires parent role.
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.ManagedUsers
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /managed-users [get]
func (h *UserHandler) ManagedUsers(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.viewer(w, r)
	if !ok {
		return
	}

	users, err := h.userService.ManagedUsers(r.Context(), viewer.UserID)
	if err != nil {
		h.RespondServiceError(w, err, "failed to list managed users")
		return
	}

	h.RespondJSON(w, http.StatusOK, users)
}

// UpdateProfile handles PATCH /users/{id}/profile
// @Summary Update profile
// @Description Update grade level, date of birth or avatar of yourself or your child. Requires parent role.
// @Tags users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "User ID"
// @Param request body models.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} models.User
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/{id}/profile [patch]
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.viewer(w, r)
	if !ok {
		return
	}
	targetID, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), viewer, targetID, &req)
	if err != nil {
		h.RespondServiceError(w, err, "failed to update profile")
		return
	}

	h.RespondJSON(w, http.StatusOK, user)
}

// SetRole handles PUT /users/{id}/role
// @Summary Change role
// @Description Change the role of a user. Switching to parent or admin unlinks the user from their parent. Requires admin role.
// @Tags users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "User ID"
// @Param request body models.SetRoleRequest true "New role"
// @Success 200 {object} map[string]string "Role updated"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/{id}/role [put]
func (h *UserHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.viewer(w, r)
	if !ok {
		return
	}
	targetID, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req models.SetRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.userService.SetRole(r.Context(), viewer.UserID, targetID, req.Role); err != nil {
		h.RespondServiceError(w, err, "failed to set role")
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "role updated successfully"})
}
