package cli

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/flashquiz/backend/migrations"
	_ "github.com/go-sql-driver/mysql"
)

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// runMigrations applies the embedded migrations
func runMigrations(db *sql.DB) error {
	return migrations.Up(db)
}
