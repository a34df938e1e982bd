package models

import "time"

// AchievementDefinition describes a badge from the fixed catalog
type AchievementDefinition struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// UnlockedAchievement records that a user earned an achievement
type UnlockedAchievement struct {
	UserID        int       `json:"userId"`
	AchievementID string    `json:"achievementId"`
	UnlockedAt    time.Time `json:"unlockedAt"`
}

// EarnedAchievement is an unlocked achievement joined with its definition
type EarnedAchievement struct {
	AchievementDefinition
	UnlockedAt time.Time `json:"unlockedAt"`
}
