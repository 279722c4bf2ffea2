package aptitude

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

const (
	DefaultQuestionCount = 10
	generalSkill         = "General Programming"
)

type GenerateRequest struct {
	JobTitle       string
	JobDescription string
	Skills         []string
	Difficulty     Difficulty
	QuestionCount  int
}

// Generator produces at most QuestionCount questions for a job. Skill-derived
// questions come first, in skill order.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) ([]Question, error)
}

// TemplateGenerator builds questions from fixed templates without any external
// call.
type TemplateGenerator struct {
	Now func() time.Time
}

var idSeq atomic.Uint64

func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{Now: time.Now}
}

func (g *TemplateGenerator) Generate(ctx context.Context, req GenerateRequest) ([]Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = DifficultyMedium
	}
	limit := req.QuestionCount
	if limit < 0 {
		limit = 0
	}

	seed := fmt.Sprintf("%d.%d", now().UnixMilli(), idSeq.Add(1))
	questions := make([]Question, 0, limit+1)
	n := 0
	nextID := func() string {
		n++
		return fmt.Sprintf("q%s-%d", seed, n)
	}

	for _, skill := range req.Skills {
		if len(questions) < limit {
			questions = append(questions, Question{
				ID:         nextID(),
				Prompt:     fmt.Sprintf("What is the primary advantage of using %s in modern web development?", skill),
				Difficulty: difficulty,
				Skill:      skill,
				TimeLimit:  3,
				Body: MultipleChoice{
					Options: []string{
						fmt.Sprintf("%s provides better performance optimization", skill),
						fmt.Sprintf("%s has a smaller learning curve", skill),
						fmt.Sprintf("%s is only suitable for small projects", skill),
						fmt.Sprintf("%s doesn't require any configuration", skill),
					},
					CorrectAnswer: 0,
				},
			})
		}
		if len(questions) < limit {
			questions = append(questions, Question{
				ID: nextID(),
				Prompt: fmt.Sprintf("You're working on a project that requires %s. Describe how you would approach "+
					"implementing a complex feature that needs to scale for 100,000+ users.", skill),
				Difficulty: difficulty,
				Skill:      skill,
				TimeLimit:  10,
				Body:       Scenario{},
			})
		}
	}

	if wantsGeneralQuestion(req.JobTitle) {
		questions = append(questions, Question{
			ID:         fmt.Sprintf("general-%s-1", seed),
			Prompt:     "What is the most important principle in software development?",
			Difficulty: DifficultyEasy,
			Skill:      generalSkill,
			TimeLimit:  2,
			Body: MultipleChoice{
				Options: []string{
					"Creating maintainable and readable code",
					"Writing code as fast as possible",
					"Using the latest technologies",
					"Working alone without team input",
				},
				CorrectAnswer: 0,
			},
		})
	}

	return truncate(questions, limit), nil
}

func wantsGeneralQuestion(jobTitle string) bool {
	title := strings.ToLower(jobTitle)
	return strings.Contains(title, "developer") || strings.Contains(title, "engineer")
}

func truncate(questions []Question, limit int) []Question {
	if limit < 0 {
		limit = 0
	}
	if len(questions) > limit {
		return questions[:limit]
	}
	return questions
}
