package models

// GenerateFromTopicRequest asks for new flashcards about a topic
type GenerateFromTopicRequest struct {
	Topic         string `json:"topic"`
	NumFlashcards int    `json:"numFlashcards"`
	GradeLevel    string `json:"gradeLevel,omitempty"`
	Age           int    `json:"age,omitempty"`
}

// GenerateFromTextRequest asks for flashcards built from study material
type GenerateFromTextRequest struct {
	Text          string `json:"text"`
	NumFlashcards int    `json:"numFlashcards,omitempty"`
}

// GeneratedFlashcards is the result of a generation request
type GeneratedFlashcards struct {
	Flashcards []Flashcard `json:"flashcards"`
}

// HintRequest asks for a hint on a question
type HintRequest struct {
	Question string `json:"question"`
	Subject  string `json:"subject"`
}

// HintResponse carries a generated hint
type HintResponse struct {
	Hint string `json:"hint"`
}
