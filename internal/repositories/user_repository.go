package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/flashquiz/backend/internal/models"
	"go.uber.org/zap"
)

const userColumns = `id, email, name, password_hash, role, parent_id, grade_level, date_of_birth, avatar_id`

// userRepository implements UserRepository
type userRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) *userRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	var parentID sql.NullInt64
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.Role,
		&parentID,
		&user.GradeLevel,
		&user.DateOfBirth,
		&user.AvatarID,
	); err != nil {
		return nil, err
	}
	if parentID.Valid {
		id := int(parentID.Int64)
		user.ParentID = &id
	}
	return user, nil
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, name, password_hash, role, parent_id, grade_level, date_of_birth, avatar_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	var parentID any
	if user.ParentID != nil {
		parentID = *user.ParentID
	}

	result, err := r.db.ExecContext(ctx, query,
		user.Email, user.Name, user.PasswordHash, user.Role, parentID,
		user.GradeLevel, user.DateOfBirth, user.AvatarID,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return fmt.Errorf("email already registered: %w", models.ErrAlreadyExists)
		}
		r.logger.Error("failed to create user", zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	user.ID = int(id)
	return nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, userID int) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ? LIMIT 1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user not found: %w", models.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get user by id", zap.Error(err), zap.Int("userId", userID))
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// GetByEmail retrieves a user by email (case-insensitive)
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ? LIMIT 1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, strings.ToLower(email)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user not found: %w", models.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get user by email", zap.Error(err))
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// ExistsByEmail checks if a user exists with the given email
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT * FROM users WHERE email = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, strings.ToLower(email)).Scan(&exists); err != nil {
		r.logger.Error("failed to check email existence", zap.Error(err))
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return exists, nil
}

// ListChildren retrieves the children linked to a parent ordered by name
func (r *userRepository) ListChildren(ctx context.Context, parentID int) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE parent_id = ? AND role = ? ORDER BY name, id`

	return r.list(ctx, query, parentID, models.RoleChild)
}

// ListParents retrieves all parent accounts except excludeID ordered by name
func (r *userRepository) ListParents(ctx context.Context, excludeID int) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = ? AND id <> ? ORDER BY name, id`

	return r.list(ctx, query, models.RoleParent, excludeID)
}

func (r *userRepository) list(ctx context.Context, query string, args ...any) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to query users", zap.Error(err))
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}

// LinkToParent sets parent_id of an unlinked child together with the profile the parent entered.
// Returns ErrAlreadyExists when the child got a parent in the meantime.
func (r *userRepository) LinkToParent(ctx context.Context, childID, parentID int, gradeLevel, dateOfBirth string) error {
	query := `
		UPDATE users SET parent_id = ?, grade_level = ?, date_of_birth = ?
		WHERE id = ? AND role = ? AND parent_id IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, parentID, gradeLevel, dateOfBirth, childID, models.RoleChild)
	if err != nil {
		r.logger.Error("failed to link child", zap.Error(err), zap.Int("childId", childID))
		return fmt.Errorf("failed to link child: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("child is already assigned to a parent: %w", models.ErrAlreadyExists)
	}

	return nil
}

// UpdateProfile updates the non-nil profile fields of a user
func (r *userRepository) UpdateProfile(ctx context.Context, userID int, req *models.UpdateProfileRequest) error {
	var setParts []string
	var args []any

	if req.GradeLevel != nil {
		setParts = append(setParts, "grade_level = ?")
		args = append(args, *req.GradeLevel)
	}
	if req.DateOfBirth != nil {
		setParts = append(setParts, "date_of_birth = ?")
		args = append(args, *req.DateOfBirth)
	}
	if req.AvatarID != nil {
		setParts = append(setParts, "avatar_id = ?")
		args = append(args, *req.AvatarID)
	}

	if len(setParts) == 0 {
		return nil
	}

	query := fmt.Sprintf("UPDATE users SET %s WHERE id = ?", strings.Join(setParts, ", "))
	args = append(args, userID)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.Error("failed to update profile", zap.Error(err), zap.Int("userId", userID))
		return fmt.Errorf("failed to update profile: %w", err)
	}

	return nil
}

// UpdateRole changes the role of a user. Roles above child drop the parent link.
func (r *userRepository) UpdateRole(ctx context.Context, userID int, role models.Role) error {
	query := `UPDATE users SET role = ? WHERE id = ?`
	if role != models.RoleChild {
		query = `UPDATE users SET role = ?, parent_id = NULL WHERE id = ?`
	}

	result, err := r.db.ExecContext(ctx, query, role, userID)
	if err != nil {
		r.logger.Error("failed to update role", zap.Error(err), zap.Int("userId", userID))
		return fmt.Errorf("failed to update role: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		// MySQL reports 0 for an unchanged row too, so check existence
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT * FROM users WHERE id = ?)`, userID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check user existence: %w", err)
		}
		if !exists {
			return fmt.Errorf("user not found: %w", models.ErrNotFound)
		}
	}

	return nil
}
