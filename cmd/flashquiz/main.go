package main

import (
	"os"

	"github.com/flashquiz/backend/internal/cli"
)

// @title FlashQuiz API
// @version 1.0
// @description API for parent-authored flashcard quizzes, child progress and achievements
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
// @securityDefinitions.apikey InternalKeyAuth
// @in header
// @name X-API-Key
func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
