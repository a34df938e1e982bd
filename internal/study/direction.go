// Package study builds what a quiz taker sees: prompts, option sets and feedback.
package study

import (
	"fmt"

	"github.com/flashquiz/backend/internal/models"
)

// Direction tells which side of a vocabulary card is shown
type Direction string

const (
	// DefinitionFirst shows the definition (card question) and asks for the term (card answer)
	DefinitionFirst Direction = "definition-first"
	// TermFirst shows the term and asks for the definition
	TermFirst Direction = "term-first"
)

// ParseDirection validates a direction. Empty input means DefinitionFirst.
func ParseDirection(raw string) (Direction, error) {
	switch Direction(raw) {
	case "", DefinitionFirst:
		return DefinitionFirst, nil
	case TermFirst:
		return TermFirst, nil
	default:
		return "", fmt.Errorf("%w: unknown study direction %q", models.ErrInvalidInput, raw)
	}
}

// PresentCard returns the prompt shown for card and the answer expected back
func PresentCard(card models.Flashcard, direction Direction) (prompt, expected string) {
	if direction == TermFirst {
		return card.Answer, card.Question
	}
	return card.Question, card.Answer
}
