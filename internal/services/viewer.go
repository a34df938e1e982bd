package services

import "github.com/flashquiz/backend/internal/models"

// Viewer is the authenticated caller of a service method
type Viewer struct {
	UserID int
	Role   models.Role
}

// IsAdmin reports whether the viewer has the admin role
func (v Viewer) IsAdmin() bool {
	return v.Role == models.RoleAdmin
}
