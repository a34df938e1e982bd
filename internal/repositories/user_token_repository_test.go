package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/flashquiz/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupUserTokenTestRepository creates a user token repository with a mock database
func setupUserTokenTestRepository(t *testing.T) (*userTokenRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, _, cleanup := setupTestDB(t)
	return NewUserTokenRepository(db), mock, cleanup
}

func TestUserTokenRepository_Create(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO user_tokens \(user_id, token\) VALUES \(\?, \?\)`).
					WithArgs(1, "refresh").
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO user_tokens`).WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupUserTokenTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			err := repo.Create(context.Background(), &models.UserToken{UserID: 1, Token: "refresh"})

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserTokenRepository_GetByToken(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError error
		expected      *models.UserToken
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, user_id, token, created_at FROM user_tokens WHERE token = \? LIMIT 1`).
					WithArgs("refresh").
					WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token", "created_at"}).AddRow(7, 1, "refresh", created))
			},
			expected: &models.UserToken{ID: 7, UserID: 1, Token: "refresh", CreatedAt: created},
		},
		{
			name: "not found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .* FROM user_tokens`).WillReturnError(sql.ErrNoRows)
			},
			expectedError: models.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupUserTokenTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			token, err := repo.GetByToken(context.Background(), "refresh")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, token)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, token)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserTokenRepository_UpdateToken(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError error
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE user_tokens SET token = \?, created_at = CURRENT_TIMESTAMP WHERE token = \? AND user_id = \?`).
					WithArgs("new", "old", 1).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "token missing",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE user_tokens`).WillReturnResult(sqlmock.NewResult(0, 0))
			},
			expectedError: models.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupUserTokenTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			err := repo.UpdateToken(context.Background(), "old", "new", 1)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserTokenRepository_DeleteByToken(t *testing.T) {
	repo, mock, cleanup := setupUserTokenTestRepository(t)
	defer cleanup()

	mock.ExpectExec(`DELETE FROM user_tokens WHERE token = \?`).
		WithArgs("refresh").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.DeleteByToken(context.Background(), "refresh"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserTokenRepository_DeleteExpiredTokens(t *testing.T) {
	repo, mock, cleanup := setupUserTokenTestRepository(t)
	defer cleanup()

	cutoff := time.Now().Add(-120 * time.Hour)
	mock.ExpectExec(`DELETE FROM user_tokens WHERE created_at <= \?`).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 4))

	count, err := repo.DeleteExpiredTokens(context.Background(), cutoff)

	require.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
