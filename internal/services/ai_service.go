package services

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/flashquiz/backend/internal/llm"
	"github.com/flashquiz/backend/internal/models"
	"go.uber.org/zap"
)

// HintFailureMessage is returned to the client when no hint could be generated
const HintFailureMessage = "Sorry, I could not think of a hint right now."

const (
	maxGeneratedFlashcards     = 50
	defaultGeneratedFlashcards = 10
	maxSourceTextLength        = 20000
	flashcardMaxTokens         = 4096
	hintMaxTokens              = 512
)

const flashcardSystemPrompt = "You are an AI assistant designed to generate educational flashcards."

var flashcardsSchema = &llm.Schema{
	Name:        "flashcards",
	Description: "A set of multiple-choice flashcards",
	Definition: map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"flashcards": map[string]any{
				"type":        "array",
				"description": "An array of generated flashcards.",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties": map[string]any{
						"question": map[string]any{"type": "string", "description": "The question to display on the flashcard."},
						"answer":   map[string]any{"type": "string", "description": "The correct answer to the question."},
						"options": map[string]any{
							"type":        "array",
							"description": "Possible answers, including the correct answer and distractors.",
							"items":       map[string]any{"type": "string"},
						},
						"hint": map[string]any{"type": "string", "description": "A hint to help the user answer the question. Empty when not needed."},
					},
					"required": []string{"question", "answer", "options", "hint"},
				},
			},
		},
		"required": []string{"flashcards"},
	},
}

var hintSchema = &llm.Schema{
	Name:        "hint",
	Description: "A hint for a flashcard question",
	Definition: map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"hint": map[string]any{"type": "string", "description": "A hint at a level of detail appropriate for an 11-year-old."},
		},
		"required": []string{"hint"},
	},
}

type aiService struct {
	provider llm.Provider
	logger   *zap.Logger
}

// NewAIService creates a new generative authoring service
func NewAIService(provider llm.Provider, logger *zap.Logger) *aiService {
	return &aiService{
		provider: provider,
		logger:   logger,
	}
}

// GenerateFromTopic generates flashcards about a topic tailored to the child's grade or age
func (s *aiService) GenerateFromTopic(ctx context.Context, req *models.GenerateFromTopicRequest) (*models.GeneratedFlashcards, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, models.NewError(models.ErrInvalidInput, "topic cannot be empty")
	}
	if req.NumFlashcards < 1 || req.NumFlashcards > maxGeneratedFlashcards {
		return nil, models.NewError(models.ErrInvalidInput, fmt.Sprintf("number of flashcards must be between 1 and %d", maxGeneratedFlashcards))
	}
	if req.Age < 0 {
		return nil, models.NewError(models.ErrInvalidInput, "age cannot be negative")
	}

	return s.generateFlashcards(ctx, topicPrompt(topic, req.NumFlashcards, strings.TrimSpace(req.GradeLevel), req.Age))
}

// GenerateFromText generates flashcards from a block of study material
func (s *aiService) GenerateFromText(ctx context.Context, req *models.GenerateFromTextRequest) (*models.GeneratedFlashcards, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, models.NewError(models.ErrInvalidInput, "text cannot be empty")
	}
	if len(text) > maxSourceTextLength {
		return nil, models.NewError(models.ErrInvalidInput, fmt.Sprintf("text cannot be longer than %d characters", maxSourceTextLength))
	}
	num := req.NumFlashcards
	if num == 0 {
		num = defaultGeneratedFlashcards
	}
	if num < 1 || num > maxGeneratedFlashcards {
		return nil, models.NewError(models.ErrInvalidInput, fmt.Sprintf("number of flashcards must be between 1 and %d", maxGeneratedFlashcards))
	}

	return s.generateFlashcards(ctx, textPrompt(text, num))
}

// Hint generates a short hint for a question. Any failure is reported as HintFailureMessage.
func (s *aiService) Hint(ctx context.Context, req *models.HintRequest) (*models.HintResponse, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, models.NewError(models.ErrInvalidInput, "question cannot be empty")
	}
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		subject = "General knowledge"
	}

	resp, err := s.provider.Generate(ctx, llm.UserPrompt("", hintPrompt(question, subject), hintSchema, hintMaxTokens))
	if err != nil {
		s.logger.Warn("failed to generate hint", zap.Error(err))
		return nil, models.NewError(models.ErrUpstream, HintFailureMessage)
	}

	var out models.HintResponse
	if err := json.Unmarshal(resp.Content, &out); err != nil || strings.TrimSpace(out.Hint) == "" {
		s.logger.Warn("model returned an unusable hint", zap.Error(err))
		return nil, models.NewError(models.ErrUpstream, HintFailureMessage)
	}
	out.Hint = strings.TrimSpace(out.Hint)
	return &out, nil
}

func (s *aiService) generateFlashcards(ctx context.Context, prompt string) (*models.GeneratedFlashcards, error) {
	resp, err := s.provider.Generate(ctx, llm.UserPrompt(flashcardSystemPrompt, prompt, flashcardsSchema, flashcardMaxTokens))
	if err != nil {
		s.logger.Error("failed to generate flashcards", zap.Error(err))
		return nil, models.NewError(models.ErrUpstream, "failed to generate flashcards, please try again")
	}

	var out models.GeneratedFlashcards
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		s.logger.Error("failed to decode generated flashcards", zap.Error(err))
		return nil, models.NewError(models.ErrUpstream, "failed to generate flashcards, please try again")
	}

	cards := cleanGeneratedFlashcards(out.Flashcards)
	if len(cards) == 0 {
		return nil, models.NewError(models.ErrUpstream, "no usable flashcards were generated, please try again")
	}
	return &models.GeneratedFlashcards{Flashcards: cards}, nil
}

// cleanGeneratedFlashcards drops cards without question or answer and makes sure the answer is one of the options
func cleanGeneratedFlashcards(cards []models.Flashcard) []models.Flashcard {
	out := make([]models.Flashcard, 0, len(cards))
	for _, c := range cards {
		card := models.Flashcard{
			Question: strings.TrimSpace(c.Question),
			Answer:   strings.TrimSpace(c.Answer),
			Options:  uniqueTrimmed(c.Options),
			Hint:     strings.TrimSpace(c.Hint),
		}
		if card.Question == "" || card.Answer == "" {
			continue
		}
		if !slices.Contains(card.Options, card.Answer) {
			card.Options = append(card.Options, card.Answer)
		}
		out = append(out, card)
	}
	return out
}

func topicPrompt(topic string, num int, gradeLevel string, age int) string {
	var b strings.Builder
	if gradeLevel != "" {
		fmt.Fprintf(&b, "The target audience is a child in %s.\n", gradeLevel)
	}
	if age > 0 {
		fmt.Fprintf(&b, "The child is %d years old.\n", age)
	}
	if gradeLevel != "" {
		fmt.Fprintf(&b, "Please tailor the complexity and vocabulary of the questions and answers to be appropriate for a %s student.\n", gradeLevel)
	} else {
		b.WriteString("The target audience is an 11-year-old.\n")
	}
	fmt.Fprintf(&b, "Generate %d flashcards on the topic of %q. ", num, topic)
	b.WriteString("Each flashcard should have a question, the correct answer, a list of options including the correct answer and distractors, and a hint only if it is necessary.\n")
	b.WriteString("Make sure the correct answer is included in the options.")
	return b.String()
}

func textPrompt(text string, num int) string {
	var b strings.Builder
	b.WriteString("Analyze the following text and create a set of flashcards. ")
	b.WriteString("Each flashcard should have a question, the correct answer, and a list of plausible options including the correct answer and several distractors. ")
	b.WriteString("The questions should be based on the key information, concepts and facts presented in the text.\n")
	fmt.Fprintf(&b, "Generate %d flashcards.\n\n", num)
	b.WriteString("Provided Text:\n\"\"\"\n")
	b.WriteString(text)
	b.WriteString("\n\"\"\"\n")
	b.WriteString("Make sure the correct answer is included in the options. Leave the hint empty when it is not necessary.")
	return b.String()
}

func hintPrompt(question, subject string) string {
	return fmt.Sprintf("You are an AI assistant helping an 11-year-old student understand a flashcard question.\n"+
		"The question is about the subject: %s.\n"+
		"Provide a helpful hint that incorporates facts from external knowledge, explained in a way that is easy for an 11-year-old to understand. "+
		"Do not give away the answer.\n"+
		"Question: %s", subject, question)
}
