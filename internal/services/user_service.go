package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/flashquiz/backend/internal/models"
	"go.uber.org/zap"
)

// FamilyRepository is the interface that wraps methods for User table data access used by family management
type FamilyRepository interface {
	// Method Create inserts a new user into the database.
	//
	// Please reference UserRepository.Create for more information.
	Create(ctx context.Context, user *models.User) error
	// Method GetByID retrieves a user by ID.
	//
	// If user with such ID does not exist, the error wrapping models.ErrNotFound will be returned together with "nil" value.
	GetByID(ctx context.Context, userID int) (*models.User, error)
	// Method GetByEmail retrieves a user by email.
	//
	// If user with such email does not exist, the error wrapping models.ErrNotFound will be returned together with "nil" value.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Method ExistsByEmail checks if a user with such email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Method ListChildren retrieves the children linked to "parentID" ordered by name.
	ListChildren(ctx context.Context, parentID int) ([]models.User, error)
	// Method ListParents retrieves all parent accounts except "excludeID" ordered by name.
	ListParents(ctx context.Context, excludeID int) ([]models.User, error)
	// Method LinkToParent sets the parent, grade level and date of birth of an unlinked child in one write.
	//
	// If the child is already linked, the error wrapping models.ErrAlreadyExists will be returned.
	LinkToParent(ctx context.Context, childID, parentID int, gradeLevel, dateOfBirth string) error
	// Method UpdateProfile updates the non-nil fields of "req" for user "userID".
	UpdateProfile(ctx context.Context, userID int, req *models.UpdateProfileRequest) error
	// Method UpdateRole changes the role of user "userID". Roles above child clear the parent link.
	//
	// If user with such ID does not exist, the error wrapping models.ErrNotFound will be returned.
	UpdateRole(ctx context.Context, userID int, role models.Role) error
}

type userService struct {
	repo   FamilyRepository
	logger *zap.Logger
}

// NewUserService creates a new family management service
func NewUserService(repo FamilyRepository, logger *zap.Logger) *userService {
	return &userService{
		repo:   repo,
		logger: logger,
	}
}

// AddChild links an existing unassigned child account to the parent or creates a new one.
//
// Linking an existing child also overwrites its grade level and date of birth with the values of "req".
func (s *userService) AddChild(ctx context.Context, parentID int, req *models.AddChildRequest) (*models.User, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	gradeLevel := strings.TrimSpace(req.GradeLevel)
	if err := validateDate(req.DateOfBirth); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up child: %w", err)
	}

	if existing == nil {
		return s.createChild(ctx, parentID, email, gradeLevel, req)
	}

	switch {
	case existing.ID == parentID:
		return nil, models.NewError(models.ErrInvalidInput, "You cannot add yourself as a child.")
	case existing.Role != models.RoleChild:
		return nil, models.NewError(models.ErrInvalidInput, "This user is a parent and cannot be added as a child.")
	case existing.ParentID != nil:
		return nil, models.NewError(models.ErrAlreadyExists, "This child is already assigned to a parent.")
	}

	if err := s.repo.LinkToParent(ctx, existing.ID, parentID, gradeLevel, req.DateOfBirth); err != nil {
		if errors.Is(err, models.ErrAlreadyExists) {
			return nil, models.NewError(models.ErrAlreadyExists, "This child is already assigned to a parent.")
		}
		return nil, err
	}

	existing.ParentID = &parentID
	existing.GradeLevel = gradeLevel
	existing.DateOfBirth = req.DateOfBirth
	s.logger.Info("child linked", zap.Int("parentId", parentID), zap.Int("childId", existing.ID))
	return existing, nil
}

func (s *userService) createChild(ctx context.Context, parentID int, email, gradeLevel string, req *models.AddChildRequest) (*models.User, error) {
	name, err := validateName(req.Name)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}
	passwordHash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	child := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Role:         models.RoleChild,
		ParentID:     &parentID,
		GradeLevel:   gradeLevel,
		DateOfBirth:  req.DateOfBirth,
	}
	if err := s.repo.Create(ctx, child); err != nil {
		return nil, err
	}

	s.logger.Info("child account created", zap.Int("parentId", parentID), zap.Int("childId", child.ID))
	return child, nil
}

// AddParent creates another parent account on behalf of "actorID"
func (s *userService) AddParent(ctx context.Context, actorID int, req *models.AddParentRequest) (*models.User, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}

	actor, err := s.repo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.Email == email {
		return nil, models.NewError(models.ErrInvalidInput, "You cannot add yourself as a parent again.")
	}

	name, err := validateName(req.Name)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, models.NewError(models.ErrAlreadyExists, "A user with this email already exists.")
	}

	passwordHash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	parent := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Role:         models.RoleParent,
	}
	if err := s.repo.Create(ctx, parent); err != nil {
		return nil, err
	}

	s.logger.Info("parent account created", zap.Int("actorId", actorID), zap.Int("parentId", parent.ID))
	return parent, nil
}

// ManagedUsers returns the parent's children and all the other parents
func (s *userService) ManagedUsers(ctx context.Context, parentID int) (*models.ManagedUsers, error) {
	children, err := s.repo.ListChildren(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list children: %w", err)
	}
	parents, err := s.repo.ListParents(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list parents: %w", err)
	}

	return &models.ManagedUsers{Children: children, Parents: parents}, nil
}

// UpdateProfile edits the profile of the actor or of one of the actor's children.
// Admins may edit any profile.
func (s *userService) UpdateProfile(ctx context.Context, actor Viewer, targetID int, req *models.UpdateProfileRequest) (*models.User, error) {
	if req.AvatarID != nil && !models.IsValidAvatar(*req.AvatarID) {
		return nil, models.NewError(models.ErrInvalidInput, "unknown avatar")
	}
	if req.DateOfBirth != nil {
		if err := validateDate(*req.DateOfBirth); err != nil {
			return nil, err
		}
	}
	if req.GradeLevel != nil {
		trimmed := strings.TrimSpace(*req.GradeLevel)
		req.GradeLevel = &trimmed
	}

	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.ID != actor.UserID && !target.IsChildOf(actor.UserID) && !actor.IsAdmin() {
		return nil, models.NewError(models.ErrForbidden, "you can only edit your own profile or the profile of your child")
	}

	if err := s.repo.UpdateProfile(ctx, targetID, req); err != nil {
		return nil, err
	}

	if req.GradeLevel != nil {
		target.GradeLevel = *req.GradeLevel
	}
	if req.DateOfBirth != nil {
		target.DateOfBirth = *req.DateOfBirth
	}
	if req.AvatarID != nil {
		target.AvatarID = *req.AvatarID
	}
	return target, nil
}

// SetRole changes the role of another user
func (s *userService) SetRole(ctx context.Context, actorID, targetID int, role models.Role) error {
	if !role.Valid() {
		return models.NewError(models.ErrInvalidInput, "unknown role")
	}
	if actorID == targetID {
		return models.NewError(models.ErrInvalidInput, "you cannot change your own role")
	}

	if err := s.repo.UpdateRole(ctx, targetID, role); err != nil {
		return err
	}

	s.logger.Info("user role changed", zap.Int("actorId", actorID), zap.Int("userId", targetID), zap.Stringer("role", role))
	return nil
}
