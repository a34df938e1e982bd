package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/flashquiz/backend/internal/models"
)

// userAchievementRepository implements UserAchievementRepository
type userAchievementRepository struct {
	db *sql.DB
}

// NewUserAchievementRepository creates a new user achievement repository
func NewUserAchievementRepository(db *sql.DB) *userAchievementRepository {
	return &userAchievementRepository{
		db: db,
	}
}

// ListByUser retrieves the unlock records of a user, most recent first
func (r *userAchievementRepository) ListByUser(ctx context.Context, userID int) ([]models.UnlockedAchievement, error) {
	query := `
		SELECT user_id, achievement_id, unlocked_at
		FROM user_achievements
		WHERE user_id = ?
		ORDER BY unlocked_at DESC, achievement_id
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user achievements: %w", err)
	}
	defer rows.Close()

	unlocked := make([]models.UnlockedAchievement, 0)
	for rows.Next() {
		var u models.UnlockedAchievement
		if err := rows.Scan(&u.UserID, &u.AchievementID, &u.UnlockedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user achievement: %w", err)
		}
		unlocked = append(unlocked, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return unlocked, nil
}

// Unlock records an achievement for a user. An existing record is kept
// untouched, so repeated calls are harmless. The returned bool reports whether
// a new record was written. Errors other than the duplicate key still surface.
func (r *userAchievementRepository) Unlock(ctx context.Context, userID int, achievementID string, unlockedAt time.Time) (bool, error) {
	query := `
		INSERT INTO user_achievements (user_id, achievement_id, unlocked_at)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE user_id = user_id
	`

	result, err := r.db.ExecContext(ctx, query, userID, achievementID, unlockedAt)
	if err != nil {
		if isMissingReference(err) {
			return false, fmt.Errorf("user %d not found: %w", userID, models.ErrNotFound)
		}
		return false, fmt.Errorf("failed to unlock achievement: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}
