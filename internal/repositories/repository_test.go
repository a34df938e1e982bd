package repositories

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupTestDB creates a mock database shared by the repository tests
func setupTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *zap.Logger, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	logger, _ := zap.NewDevelopment()

	cleanup := func() {
		db.Close()
	}

	return db, mock, logger, cleanup
}
