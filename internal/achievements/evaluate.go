package achievements

import "github.com/flashquiz/backend/internal/models"

// Stats are the aggregates of a quiz history that rules look at
type Stats struct {
	TotalAttempts     int
	TotalCardsStudied int
	// Latest is the most recent attempt. Zero value when TotalAttempts is 0.
	Latest models.QuizAttempt
}

// Summarize aggregates a history ordered most recent first
func Summarize(history []models.QuizAttempt) Stats {
	s := Stats{TotalAttempts: len(history)}
	if len(history) == 0 {
		return s
	}

	s.Latest = history[0]
	for _, a := range history {
		s.TotalCardsStudied += a.TotalQuestions
	}
	return s
}

// Evaluate returns, in catalog order, the achievements whose rule holds for
// history and whose id is not in unlocked. history must be ordered most
// recent first. Evaluate has no side effects.
func Evaluate(c *Catalog, history []models.QuizAttempt, unlocked map[string]struct{}) []models.AchievementDefinition {
	if len(history) == 0 {
		return []models.AchievementDefinition{}
	}

	stats := Summarize(history)
	earned := make([]models.AchievementDefinition, 0, len(c.entries))
	for _, e := range c.entries {
		if _, done := unlocked[e.Definition.ID]; done {
			continue
		}
		if e.Rule.Holds(stats) {
			earned = append(earned, e.Definition)
		}
	}
	return earned
}

// UnlockedSet builds the id set Evaluate expects from stored unlock records
func UnlockedSet(records []models.UnlockedAchievement) map[string]struct{} {
	set := make(map[string]struct{}, len(records))
	for _, r := range records {
		set[r.AchievementID] = struct{}{}
	}
	return set
}
