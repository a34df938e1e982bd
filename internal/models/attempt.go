package models

import "time"

// AnsweredFlashcard records the answer given for one card
type AnsweredFlashcard struct {
	Question       string `json:"question"`
	SelectedAnswer string `json:"selectedAnswer"`
	CorrectAnswer  string `json:"correctAnswer"`
	IsCorrect      bool   `json:"isCorrect"`
}

// QuizAttempt is an immutable record of a completed quiz
type QuizAttempt struct {
	ID                 int                 `json:"id"`
	UserID             int                 `json:"userId"`
	QuizID             int                 `json:"quizId"`
	QuizTitle          string              `json:"quizTitle"`
	Score              int                 `json:"score"`
	TotalQuestions     int                 `json:"totalQuestions"`
	AnsweredFlashcards []AnsweredFlashcard `json:"answeredFlashcards"`
	CompletedAt        time.Time           `json:"completedAt"`
}

// IsPerfect reports whether every question was answered correctly
func (a *QuizAttempt) IsPerfect() bool {
	return a.Score == a.TotalQuestions
}

// SubmitAttemptRequest carries the answers of a finished quiz
type SubmitAttemptRequest struct {
	AnsweredFlashcards []AnsweredFlashcard `json:"answeredFlashcards"`
}

// AttemptResult is returned after an attempt is saved
type AttemptResult struct {
	AttemptID       int                     `json:"attemptId"`
	Score           int                     `json:"score"`
	TotalQuestions  int                     `json:"totalQuestions"`
	NewAchievements []AchievementDefinition `json:"newAchievements"`
	Encouragement   string                  `json:"encouragement"`
}
