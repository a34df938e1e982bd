package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/flashquiz/backend/internal/models"
)

// quizAttemptRepository implements QuizAttemptRepository. Attempts are append-only.
type quizAttemptRepository struct {
	db *sql.DB
}

// NewQuizAttemptRepository creates a new quiz attempt repository
func NewQuizAttemptRepository(db *sql.DB) *quizAttemptRepository {
	return &quizAttemptRepository{
		db: db,
	}
}

// Create inserts a new attempt and fills its ID. CompletedAt is stored as given.
func (r *quizAttemptRepository) Create(ctx context.Context, attempt *models.QuizAttempt) error {
	answers, err := json.Marshal(attempt.AnsweredFlashcards)
	if err != nil {
		return fmt.Errorf("failed to encode answered flashcards: %w", err)
	}

	query := `
		INSERT INTO quiz_attempts (user_id, quiz_id, quiz_title, score, total_questions, answered_flashcards, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		attempt.UserID, attempt.QuizID, attempt.QuizTitle, attempt.Score,
		attempt.TotalQuestions, answers, attempt.CompletedAt,
	)
	if err != nil {
		if isMissingReference(err) {
			return fmt.Errorf("quiz or user no longer exists: %w", models.ErrNotFound)
		}
		return fmt.Errorf("failed to create quiz attempt: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	attempt.ID = int(id)
	return nil
}

// ListByUser retrieves all attempts of a user ordered most recent first
func (r *quizAttemptRepository) ListByUser(ctx context.Context, userID int) ([]models.QuizAttempt, error) {
	query := `
		SELECT id, user_id, quiz_id, quiz_title, score, total_questions, answered_flashcards, completed_at
		FROM quiz_attempts
		WHERE user_id = ?
		ORDER BY completed_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query quiz attempts: %w", err)
	}
	defer rows.Close()

	attempts := make([]models.QuizAttempt, 0)
	for rows.Next() {
		var a models.QuizAttempt
		var quizID sql.NullInt64
		var answers []byte
		if err := rows.Scan(&a.ID, &a.UserID, &quizID, &a.QuizTitle, &a.Score, &a.TotalQuestions, &answers, &a.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan quiz attempt: %w", err)
		}
		// quiz_id is NULL once the quiz has been deleted
		a.QuizID = int(quizID.Int64)
		if err := json.Unmarshal(answers, &a.AnsweredFlashcards); err != nil {
			return nil, fmt.Errorf("failed to decode answered flashcards: %w", err)
		}
		attempts = append(attempts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return attempts, nil
}
