package models

import "slices"

// Role is the ordered permission level of a user
type Role int

// UserRole constants
const (
	RoleChild  Role = 1
	RoleParent Role = 2
	RoleAdmin  Role = 3
)

// String returns the lower-case role name
func (r Role) String() string {
	switch r {
	case RoleChild:
		return "child"
	case RoleParent:
		return "parent"
	case RoleAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	return r >= RoleChild && r <= RoleAdmin
}

// User represents a user in the system
type User struct {
	ID           int    `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`    // Never serialize password hash
	Role         Role   `json:"role"` // 1=Child, 2=Parent, 3=Admin
	ParentID     *int   `json:"parentId,omitempty"`
	GradeLevel   string `json:"gradeLevel,omitempty"`
	DateOfBirth  string `json:"dateOfBirth,omitempty"`
	AvatarID     string `json:"avatarId,omitempty"`
}

// IsChildOf reports whether the user is linked to the given parent
func (u *User) IsChildOf(parentID int) bool {
	return u.ParentID != nil && *u.ParentID == parentID
}

// Avatars lists the avatar ids a profile may use
var Avatars = []string{
	"avatar-1", "avatar-2", "avatar-3", "avatar-4", "avatar-5", "avatar-6",
	"avatar-7", "avatar-8", "avatar-9", "avatar-10", "avatar-11", "avatar-12",
}

// IsValidAvatar reports whether id is a known avatar
func IsValidAvatar(id string) bool {
	return slices.Contains(Avatars, id)
}

// RegisterRequest represents a parent sign-up request
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AddChildRequest links an existing child or creates a new child account.
// Password is required only when no account exists for Email.
type AddChildRequest struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	Password    string `json:"password,omitempty"`
	GradeLevel  string `json:"gradeLevel"`
	DateOfBirth string `json:"dateOfBirth"`
}

// AddParentRequest creates another parent account
type AddParentRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// UpdateProfileRequest carries the editable profile fields. Nil fields are left unchanged.
type UpdateProfileRequest struct {
	GradeLevel  *string `json:"gradeLevel,omitempty"`
	DateOfBirth *string `json:"dateOfBirth,omitempty"`
	AvatarID    *string `json:"avatarId,omitempty"`
}

// SetRoleRequest changes a user's role
type SetRoleRequest struct {
	Role Role `json:"role"`
}

// ManagedUsers is the family view of a parent: own children and the other parents
type ManagedUsers struct {
	Children []User `json:"children"`
	Parents  []User `json:"parents"`
}
