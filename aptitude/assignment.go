package aptitude

import (
	"fmt"
	"strings"
	"time"
)

const defaultAssignmentMinutes = 60

type AssignmentInput struct {
	Title              string
	Description        string
	Skill              string
	Difficulty         Difficulty
	TimeLimit          int
	Requirements       []string
	Deliverables       []string
	Resources          []string
	EvaluationCriteria []string
}

// NewCustomAssignment builds a recruiter-authored assignment question. When
// no skill is given, fallbackSkill is used, then "General".
func NewCustomAssignment(in AssignmentInput, fallbackSkill string, now time.Time) (Question, error) {
	if strings.TrimSpace(in.Title) == "" {
		return Question{}, ErrAssignmentTitleRequired
	}
	if strings.TrimSpace(in.Description) == "" {
		return Question{}, ErrAssignmentDescriptionRequired
	}

	skill := in.Skill
	if skill == "" {
		skill = fallbackSkill
	}
	if skill == "" {
		skill = "General"
	}
	difficulty := in.Difficulty
	if difficulty == "" {
		difficulty = DifficultyMedium
	}
	timeLimit := in.TimeLimit
	if timeLimit == 0 {
		timeLimit = defaultAssignmentMinutes
	}

	return Question{
		ID:         fmt.Sprintf("assignment_%d_%d", now.UnixMilli(), idSeq.Add(1)),
		Prompt:     in.Title,
		Difficulty: difficulty,
		Skill:      skill,
		TimeLimit:  timeLimit,
		Body: Assignment{
			Title:              in.Title,
			Description:        in.Description,
			Requirements:       nonBlank(in.Requirements),
			Deliverables:       nonBlank(in.Deliverables),
			Resources:          nonBlank(in.Resources),
			EvaluationCriteria: nonBlank(in.EvaluationCriteria),
		},
	}, nil
}

func nonBlank(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			out = append(out, item)
		}
	}
	return out
}
