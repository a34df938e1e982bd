package study

import (
	"math/rand/v2"

	"github.com/flashquiz/backend/internal/models"
)

// MaxOptions is the size of a full multiple-choice set
const MaxOptions = 4

// Rand is the randomness BuildOptions and Encouragement draw from.
// *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// globalRand uses the process-wide generator of math/rand/v2
type globalRand struct{}

func (globalRand) IntN(n int) int                     { return rand.IntN(n) }
func (globalRand) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// DefaultRand is the unseeded generator used in production
var DefaultRand Rand = globalRand{}

// BuildOptions returns the shuffled option set for target, one of the cards of deck.
//
// Standard quizzes use the card's authored options. Vocabulary quizzes draw up
// to three distractors from the same field of the other cards, then top up from
// the fallback pool. Sparse decks yield fewer than MaxOptions options.
// The correct answer is always present exactly once.
func BuildOptions(target models.Flashcard, deck []models.Flashcard, quizType models.QuizType, direction Direction, rng Rand) []string {
	if rng == nil {
		rng = DefaultRand
	}

	if quizType == models.QuizTypeStandard {
		options := append([]string(nil), target.Options...)
		rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
		return options
	}

	_, correct := PresentCard(target, direction)

	field := func(c models.Flashcard) string { return c.Answer }
	if direction == TermFirst {
		field = func(c models.Flashcard) string { return c.Question }
	}

	pool := make([]string, 0, len(deck))
	for _, c := range deck {
		if v := field(c); v != correct {
			pool = append(pool, v)
		}
	}

	set := newOrderedSet(MaxOptions)
	set.add(correct)
	for set.len() < MaxOptions && len(pool) > 0 {
		i := rng.IntN(len(pool))
		set.add(pool[i])
		pool[i] = pool[len(pool)-1]
		pool = pool[:len(pool)-1]
	}

	if set.len() < MaxOptions {
		var fallback []string
		if direction == TermFirst {
			fallback = make([]string, len(deck))
			for i, c := range deck {
				fallback[i] = c.Question
			}
		} else {
			fallback = append([]string(nil), target.Options...)
		}

		// each fallback value is visited at most once
		rng.Shuffle(len(fallback), func(i, j int) { fallback[i], fallback[j] = fallback[j], fallback[i] })
		for _, v := range fallback {
			if set.len() >= MaxOptions {
				break
			}
			if v != correct {
				set.add(v)
			}
		}
	}

	options := set.values
	rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
	return options
}

// orderedSet keeps insertion order so results only depend on rng
type orderedSet struct {
	values []string
	seen   map[string]struct{}
}

func newOrderedSet(capacity int) *orderedSet {
	return &orderedSet{
		values: make([]string, 0, capacity),
		seen:   make(map[string]struct{}, capacity),
	}
}

func (s *orderedSet) add(v string) {
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.values = append(s.values, v)
}

func (s *orderedSet) len() int {
	return len(s.values)
}
