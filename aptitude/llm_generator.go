package aptitude

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// LLMGenerator asks an OpenAI-compatible chat model for questions and
// normalises the reply to the Generator contract.
type LLMGenerator struct {
	client *openai.Client
	model  string
	Now    func() time.Time
}

func NewLLMGenerator(apiKey, baseURL, model string) *LLMGenerator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &LLMGenerator{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		Now:    time.Now,
	}
}

type llmQuestionSet struct {
	Questions []json.RawMessage `json:"questions"`
}

func (g *LLMGenerator) Generate(ctx context.Context, req GenerateRequest) ([]Question, error) {
	if req.QuestionCount <= 0 {
		return []Question{}, nil
	}
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = DifficultyMedium
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: llmSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildGenerationPrompt(req, difficulty)},
		},
		Temperature:    0.4,
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get LLM response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("LLM returned no choices")
	}

	var set llmQuestionSet
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &set); err != nil {
		return nil, fmt.Errorf("failed to parse LLM questions: %w", err)
	}

	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	seed := fmt.Sprintf("%d.%d", now().UnixMilli(), idSeq.Add(1))

	questions := make([]Question, 0, len(set.Questions))
	for i, raw := range set.Questions {
		var w questionWire
		if err := json.Unmarshal(raw, &w); err != nil {
			log.Printf("⚠️ Skipping malformed generated question %d: %v", i, err)
			continue
		}
		w.ID = fmt.Sprintf("q%s-%d", seed, len(questions)+1)
		if !w.Difficulty.Valid() {
			w.Difficulty = difficulty
		}
		q, err := w.toQuestion()
		if err != nil {
			log.Printf("⚠️ Skipping invalid generated question %d: %v", i, err)
			continue
		}
		questions = append(questions, q)
	}
	if len(questions) == 0 {
		return nil, errors.New("LLM produced no usable questions")
	}
	return truncate(questions, req.QuestionCount), nil
}

const llmSystemPrompt = `You write aptitude test questions for job candidates. Reply with a JSON object ` +
	`{"questions": [...]} only. Each question has: "type" (multiple_choice or scenario or short_answer), ` +
	`"question", "difficulty" (easy, medium or hard), "skill", "timeLimit" (minutes). multiple_choice ` +
	`questions also have "options" (exactly 4 strings) and "correctAnswer" (index of the correct option).`

func buildGenerationPrompt(req GenerateRequest, difficulty Difficulty) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Job title: %s\n", req.JobTitle))
	sb.WriteString(fmt.Sprintf("Job description: %s\n", req.JobDescription))
	if len(req.Skills) > 0 {
		sb.WriteString("Skills, in priority order:\n")
		for _, s := range req.Skills {
			sb.WriteString(fmt.Sprintf("- %s\n", s))
		}
	}
	sb.WriteString(fmt.Sprintf("Difficulty: %s\n", difficulty))
	sb.WriteString(fmt.Sprintf("Write %d questions. Cover the skills in the order given, one multiple_choice "+
		"question followed by one scenario question per skill.\n", req.QuestionCount))
	return sb.String()
}
