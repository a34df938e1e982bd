package models

// ChildProgress is a child with their attempt history
type ChildProgress struct {
	User
	Attempts []QuizAttempt `json:"attempts"`
}

// ParentDashboard is the dashboard of a parent or admin
type ParentDashboard struct {
	Children []ChildProgress `json:"children"`
	Quizzes  []QuizSummary   `json:"quizzes"`
}

// ChildDashboard is the dashboard of a child
type ChildDashboard struct {
	Quizzes      []QuizSummary       `json:"quizzes"`
	Attempts     []QuizAttempt       `json:"attempts"`
	Achievements []EarnedAchievement `json:"achievements"`
}
