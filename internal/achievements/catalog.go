// Package achievements holds the badge catalog and the rules that decide
// which badges a quiz history has earned.
package achievements

import (
	"fmt"

	"github.com/flashquiz/backend/internal/models"
)

// Achievement ids of the default catalog
const (
	FirstQuiz         = "first-quiz"
	FiveQuizzes       = "five-quizzes"
	PerfectScore      = "perfect-score"
	ApprenticeScholar = "apprentice-scholar"
	JourneymanScholar = "journeyman-scholar"
	MasterScholar     = "master-scholar"
)

// Kind selects which aggregate of the history a rule inspects
type Kind int

const (
	// KindAttemptCount holds when the number of attempts reaches Threshold
	KindAttemptCount Kind = iota + 1
	// KindPerfectLatest holds when the most recent attempt has no wrong answers
	KindPerfectLatest
	// KindCardsStudied holds when the summed totalQuestions reaches Threshold
	KindCardsStudied
)

// Rule is the unlock condition of an achievement
type Rule struct {
	Kind      Kind
	Threshold int
}

// Holds reports whether the rule is satisfied by the given aggregates
func (r Rule) Holds(s Stats) bool {
	switch r.Kind {
	case KindAttemptCount:
		return s.TotalAttempts >= r.Threshold
	case KindPerfectLatest:
		return s.TotalAttempts > 0 && s.Latest.IsPerfect()
	case KindCardsStudied:
		return s.TotalCardsStudied >= r.Threshold
	default:
		return false
	}
}

// Entry pairs a definition with its unlock rule
type Entry struct {
	Definition models.AchievementDefinition
	Rule       Rule
}

// Catalog is an immutable, ordered table of achievements.
// Build it once and pass it by reference.
type Catalog struct {
	entries []Entry
	index   map[string]int
}

// NewCatalog builds a catalog from entries, keeping their order.
// Ids must be unique and non-empty.
func NewCatalog(entries []Entry) (*Catalog, error) {
	c := &Catalog{
		entries: make([]Entry, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	copy(c.entries, entries)

	for i, e := range c.entries {
		if e.Definition.ID == "" {
			return nil, fmt.Errorf("achievement at position %d has no id", i)
		}
		if _, dup := c.index[e.Definition.ID]; dup {
			return nil, fmt.Errorf("duplicate achievement id %q", e.Definition.ID)
		}
		c.index[e.Definition.ID] = i
	}

	return c, nil
}

// DefaultCatalog returns the six built-in achievements
func DefaultCatalog() *Catalog {
	c, err := NewCatalog([]Entry{
		{
			Definition: models.AchievementDefinition{ID: FirstQuiz, Name: "First Step", Description: "Completed your first quiz.", Icon: "star"},
			Rule:       Rule{Kind: KindAttemptCount, Threshold: 1},
		},
		{
			Definition: models.AchievementDefinition{ID: FiveQuizzes, Name: "Quiz Regular", Description: "Completed 5 quizzes.", Icon: "target"},
			Rule:       Rule{Kind: KindAttemptCount, Threshold: 5},
		},
		{
			Definition: models.AchievementDefinition{ID: PerfectScore, Name: "Perfectionist", Description: "Achieved a perfect score on a quiz.", Icon: "award"},
			Rule:       Rule{Kind: KindPerfectLatest},
		},
		{
			Definition: models.AchievementDefinition{ID: ApprenticeScholar, Name: "Apprentice Scholar", Description: "Studied over 25 flashcards.", Icon: "book-copy"},
			Rule:       Rule{Kind: KindCardsStudied, Threshold: 25},
		},
		{
			Definition: models.AchievementDefinition{ID: JourneymanScholar, Name: "Journeyman Scholar", Description: "Studied over 100 flashcards.", Icon: "book-copy"},
			Rule:       Rule{Kind: KindCardsStudied, Threshold: 100},
		},
		{
			Definition: models.AchievementDefinition{ID: MasterScholar, Name: "Master Scholar", Description: "Studied over 500 flashcards.", Icon: "zap"},
			Rule:       Rule{Kind: KindCardsStudied, Threshold: 500},
		},
	})
	if err != nil {
		// the built-in table is static
		panic(err)
	}
	return c
}

// Definitions returns a copy of all definitions in catalog order
func (c *Catalog) Definitions() []models.AchievementDefinition {
	defs := make([]models.AchievementDefinition, len(c.entries))
	for i, e := range c.entries {
		defs[i] = e.Definition
	}
	return defs
}

// Lookup returns the definition with the given id
func (c *Catalog) Lookup(id string) (models.AchievementDefinition, bool) {
	i, ok := c.index[id]
	if !ok {
		return models.AchievementDefinition{}, false
	}
	return c.entries[i].Definition, true
}

// Len returns the number of achievements in the catalog
func (c *Catalog) Len() int {
	return len(c.entries)
}
