// Package aicontent generates supplemental finance questions, hints and
// feedback with an LLM. Everything except question generation degrades to a
// canned response when the API is unavailable, so quizzes keep working
// offline.
package aicontent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"finquest-service/internal/models"
)

const systemPrompt = "You are an expert personal finance educator for K-8 students. " +
	"Keep language age-appropriate, concrete, and encouraging."

type Generator struct {
	client *openai.Client
	model  string
}

func NewGenerator(apiKey, model string) *Generator {
	if apiKey == "" {
		return &Generator{model: model}
	}
	return &Generator{client: openai.NewClient(apiKey), model: model}
}

// Enabled reports whether an API key was configured.
func (g *Generator) Enabled() bool {
	return g.client != nil
}

// generatedQuestion is the JSON shape the model is asked to produce.
type generatedQuestion struct {
	QuestionText  string            `json:"question_text"`
	Options       map[string]string `json:"options"`
	CorrectAnswer string            `json:"correct_answer"`
	Explanation   string            `json:"explanation"`
	Hints         []string          `json:"hints"`
	EstimatedTime int               `json:"estimated_time"`
}

// GenerateQuestion asks the model for one multiple-choice question on the
// topic at the given difficulty. Unlike hints and feedback there is no
// sensible canned fallback, so failures surface as errors.
func (g *Generator) GenerateQuestion(ctx context.Context, topic models.Topic, gradeLevel int, difficulty float64) (*models.Question, error) {
	if g.client == nil {
		return nil, fmt.Errorf("ai content generation is not configured")
	}

	prompt := fmt.Sprintf(
		"Create one multiple-choice personal finance question about %q for a grade %d student. "+
			"Difficulty: %s (%.1f on a 0-1 scale). "+
			"Respond with JSON only: {\"question_text\", \"options\" (keys a-d), \"correct_answer\" (the key), \"explanation\", \"hints\" (2 strings), \"estimated_time\" (seconds)}.",
		topic.Name, gradeLevel, difficultyLabel(difficulty), difficulty,
	)

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.7,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("generate question: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("generate question: empty completion")
	}

	var parsed generatedQuestion
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &parsed); err != nil {
		return nil, fmt.Errorf("parse generated question: %w", err)
	}
	if parsed.QuestionText == "" || parsed.CorrectAnswer == "" {
		return nil, fmt.Errorf("generated question is incomplete")
	}
	if parsed.EstimatedTime <= 0 {
		parsed.EstimatedTime = 30
	}

	return &models.Question{
		TopicID:         topic.ID,
		QuestionText:    parsed.QuestionText,
		QuestionType:    models.QuestionTypeMultipleChoice,
		Options:         parsed.Options,
		CorrectAnswer:   models.Answer{Answer: parsed.CorrectAnswer},
		Explanation:     parsed.Explanation,
		DifficultyLevel: difficulty,
		Hints:           parsed.Hints,
		EstimatedTime:   parsed.EstimatedTime,
		IsActive:        true,
		AIGenerated:     true,
	}, nil
}

// GenerateHint returns a short nudge for the question. On any failure it
// falls back to a generic hint.
func (g *Generator) GenerateHint(ctx context.Context, question models.Question, hintsUsed int) string {
	fallback := "Think about what you already know about this topic, and rule out the options that don't fit."
	if g.client == nil {
		return fallback
	}

	prompt := fmt.Sprintf(
		"A student is stuck on this question and has already used %d hint(s):\n%s\n"+
			"Give one short hint (max 2 sentences) that guides without revealing the answer.",
		hintsUsed, question.QuestionText,
	)

	content, err := g.complete(ctx, prompt, 0.5)
	if err != nil {
		log.Printf("ai hint generation failed: %v", err)
		return fallback
	}
	return content
}

// GenerateFeedback explains the outcome of an answer in an encouraging tone,
// with a canned fallback on failure.
func (g *Generator) GenerateFeedback(ctx context.Context, question models.Question, correct bool) string {
	fallback := "Keep trying! Review the explanation and give a similar question another shot."
	if correct {
		fallback = "Great job! You're building solid money skills."
	}
	if g.client == nil {
		return fallback
	}

	outcome := "answered incorrectly"
	if correct {
		outcome = "answered correctly"
	}
	prompt := fmt.Sprintf(
		"A student %s:\n%s\nCorrect answer: %s\n"+
			"Write 1-2 encouraging sentences of feedback for a child.",
		outcome, question.QuestionText, question.CorrectAnswer.Answer,
	)

	content, err := g.complete(ctx, prompt, 0.6)
	if err != nil {
		log.Printf("ai feedback generation failed: %v", err)
		return fallback
	}
	return content
}

// LearningPathStep is one suggested activity in a generated study plan.
type LearningPathStep struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Activity    string `json:"activity"`
}

// GenerateLearningPath drafts a short study plan for the student's weak
// topics, falling back to a generic plan when the API call fails.
func (g *Generator) GenerateLearningPath(ctx context.Context, gradeLevel int, weakTopics []string) []LearningPathStep {
	fallback := []LearningPathStep{
		{Title: "Review the basics", Description: "Revisit the core ideas of your weakest topic.", Activity: "practice_quiz"},
		{Title: "Practice daily", Description: "Answer a few questions every day to build your streak.", Activity: "daily_practice"},
		{Title: "Challenge yourself", Description: "Try a slightly harder quiz once you feel confident.", Activity: "challenge_quiz"},
	}
	if g.client == nil || len(weakTopics) == 0 {
		return fallback
	}

	prompt := fmt.Sprintf(
		"Design a 3-step personal finance study plan for a grade %d student struggling with: %s. "+
			"Respond with a JSON array of {\"title\", \"description\", \"activity\"}.",
		gradeLevel, strings.Join(weakTopics, ", "),
	)

	content, err := g.complete(ctx, prompt, 0.7)
	if err != nil {
		log.Printf("ai learning path generation failed: %v", err)
		return fallback
	}

	var steps []LearningPathStep
	if err := json.Unmarshal([]byte(content), &steps); err != nil || len(steps) == 0 {
		log.Printf("ai learning path parse failed: %v", err)
		return fallback
	}
	return steps
}

func (g *Generator) complete(ctx context.Context, prompt string, temperature float32) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func difficultyLabel(d float64) string {
	switch {
	case d <= 0.2:
		return "very easy"
	case d <= 0.4:
		return "easy"
	case d <= 0.6:
		return "medium"
	case d <= 0.8:
		return "hard"
	default:
		return "very hard"
	}
}
