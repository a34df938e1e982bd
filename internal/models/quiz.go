package models

import "time"

// QuizType tells how multiple-choice options are produced for a quiz
type QuizType string

const (
	// QuizTypeVocabulary cards hold a definition as question and a term as answer.
	// Options are generated from the rest of the deck.
	QuizTypeVocabulary QuizType = "vocabulary"
	// QuizTypeStandard cards carry their own authored options
	QuizTypeStandard QuizType = "standard"
)

// Valid reports whether t is a known quiz type
func (t QuizType) Valid() bool {
	return t == QuizTypeVocabulary || t == QuizTypeStandard
}

// Flashcard is a question/answer/options triple
type Flashcard struct {
	Question string   `json:"question" yaml:"question"`
	Answer   string   `json:"answer" yaml:"answer"`
	Options  []string `json:"options" yaml:"options"`
	Hint     string   `json:"hint,omitempty" yaml:"hint,omitempty"`
}

// Quiz represents a quiz owned by a parent
type Quiz struct {
	ID         int         `json:"id"`
	Title      string      `json:"title"`
	OwnerID    int         `json:"ownerId"`
	QuizType   QuizType    `json:"quizType"`
	Flashcards []Flashcard `json:"flashcards"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// QuizSummary is a quiz without its cards, used by list views
type QuizSummary struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	OwnerID   int       `json:"ownerId"`
	QuizType  QuizType  `json:"quizType"`
	CardCount int       `json:"cardCount"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateQuizRequest represents a request to save a quiz
type CreateQuizRequest struct {
	Title      string      `json:"title"`
	QuizType   QuizType    `json:"quizType"`
	Flashcards []Flashcard `json:"flashcards"`
}

// PlayCard is one card as presented to the quiz taker
type PlayCard struct {
	Index          int      `json:"index"`
	Prompt         string   `json:"prompt"`
	ExpectedAnswer string   `json:"expectedAnswer"`
	Options        []string `json:"options"`
	Hint           string   `json:"hint,omitempty"`
}

// QuizPlay is a quiz ready to be played in a given study direction
type QuizPlay struct {
	QuizID    int        `json:"quizId"`
	Title     string     `json:"title"`
	QuizType  QuizType   `json:"quizType"`
	Direction string     `json:"direction"`
	Cards     []PlayCard `json:"cards"`
}
