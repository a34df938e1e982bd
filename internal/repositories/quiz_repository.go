package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/flashquiz/backend/internal/models"
	"go.uber.org/zap"
)

// quizRepository implements QuizRepository on MySQL.
// Flashcards are stored as one JSON document per quiz.
type quizRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewQuizRepository creates a new quiz repository
func NewQuizRepository(db *sql.DB, logger *zap.Logger) *quizRepository {
	return &quizRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new quiz and fills its ID and CreatedAt
func (r *quizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	cards, err := json.Marshal(quiz.Flashcards)
	if err != nil {
		return fmt.Errorf("failed to encode flashcards: %w", err)
	}

	query := `
		INSERT INTO quizzes (owner_id, title, quiz_type, flashcards, card_count)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, quiz.OwnerID, quiz.Title, quiz.QuizType, cards, len(quiz.Flashcards))
	if err != nil {
		r.logger.Error("failed to create quiz", zap.Error(err), zap.Int("ownerId", quiz.OwnerID))
		return fmt.Errorf("failed to create quiz: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	quiz.ID = int(id)

	// created_at is set by the server
	if err := r.db.QueryRowContext(ctx, `SELECT created_at FROM quizzes WHERE id = ?`, quiz.ID).Scan(&quiz.CreatedAt); err != nil {
		return fmt.Errorf("failed to read quiz creation time: %w", err)
	}

	return nil
}

// GetByID retrieves a quiz with its flashcards
func (r *quizRepository) GetByID(ctx context.Context, id int) (*models.Quiz, error) {
	query := `
		SELECT id, owner_id, title, quiz_type, flashcards, created_at
		FROM quizzes
		WHERE id = ?
	`

	quiz := &models.Quiz{}
	var cards []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&quiz.ID,
		&quiz.OwnerID,
		&quiz.Title,
		&quiz.QuizType,
		&cards,
		&quiz.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("quiz not found: %w", models.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get quiz", zap.Error(err), zap.Int("quizId", id))
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	if err := json.Unmarshal(cards, &quiz.Flashcards); err != nil {
		return nil, fmt.Errorf("failed to decode flashcards: %w", err)
	}

	return quiz, nil
}

// ListByOwner retrieves quiz summaries of an owner, newest first
func (r *quizRepository) ListByOwner(ctx context.Context, ownerID int) ([]models.QuizSummary, error) {
	query := `
		SELECT id, owner_id, title, quiz_type, card_count, created_at
		FROM quizzes
		WHERE owner_id = ?
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		r.logger.Error("failed to query quizzes", zap.Error(err), zap.Int("ownerId", ownerID))
		return nil, fmt.Errorf("failed to query quizzes: %w", err)
	}
	defer rows.Close()

	quizzes := make([]models.QuizSummary, 0)
	for rows.Next() {
		var q models.QuizSummary
		if err := rows.Scan(&q.ID, &q.OwnerID, &q.Title, &q.QuizType, &q.CardCount, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan quiz: %w", err)
		}
		quizzes = append(quizzes, q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return quizzes, nil
}

// Delete removes a quiz. Returns ErrNotFound if it does not exist.
func (r *quizRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM quizzes WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("failed to delete quiz", zap.Error(err), zap.Int("quizId", id))
		return fmt.Errorf("failed to delete quiz: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("quiz not found: %w", models.ErrNotFound)
	}

	return nil
}
