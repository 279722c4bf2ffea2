package aptitude

import "math"

type BreakdownItem struct {
	QuestionID    string       `json:"questionId" yaml:"questionId"`
	Question      string       `json:"question" yaml:"question"`
	Type          QuestionType `json:"type" yaml:"type"`
	UserAnswer    *AnswerValue `json:"userAnswer,omitempty" yaml:"userAnswer,omitempty"`
	CorrectAnswer *AnswerValue `json:"correctAnswer,omitempty" yaml:"correctAnswer,omitempty"`
	IsCorrect     bool         `json:"isCorrect" yaml:"isCorrect"`
	NeedsReview   bool         `json:"needsReview" yaml:"needsReview"`
	Skill         string       `json:"skill" yaml:"skill"`
}

type Result struct {
	Score         int             `json:"score" yaml:"score"`
	Total         int             `json:"total" yaml:"total"`
	Percentage    int             `json:"percentage" yaml:"percentage"`
	Passed        bool            `json:"passed" yaml:"passed"`
	PendingReview int             `json:"pendingReview" yaml:"pendingReview"`
	Breakdown     []BreakdownItem `json:"breakdown" yaml:"breakdown"`
}

// Score grades multiple-choice answers by strict equality with the correct
// option. Every other question type needs a human reviewer and is counted as
// correct whether or not it was answered; NeedsReview marks those items.
// Ungraded questions stay in the denominator.
func Score(test *AptitudeTest, answers AnswerSheet) Result {
	res := Result{
		Total:     len(test.Questions),
		Breakdown: make([]BreakdownItem, 0, len(test.Questions)),
	}

	for _, q := range test.Questions {
		item := BreakdownItem{
			QuestionID: q.ID,
			Question:   q.Prompt,
			Type:       q.Type(),
			Skill:      q.Skill,
		}
		answer, answered := answers.Lookup(q.ID)
		if answered {
			a := answer
			item.UserAnswer = &a
		}

		switch b := q.Body.(type) {
		case MultipleChoice:
			correct := ChoiceAnswer(b.CorrectAnswer)
			item.CorrectAnswer = &correct
			item.IsCorrect = answered && answer.Equal(correct)
		case ShortAnswer:
			if b.ExpectedAnswer != "" {
				expected := TextAnswer(b.ExpectedAnswer)
				item.CorrectAnswer = &expected
			}
			item.IsCorrect = true
			item.NeedsReview = true
		default:
			item.IsCorrect = true
			item.NeedsReview = true
		}

		if item.IsCorrect {
			res.Score++
		}
		if item.NeedsReview {
			res.PendingReview++
		}
		res.Breakdown = append(res.Breakdown, item)
	}

	if res.Total > 0 {
		res.Percentage = int(math.Round(100 * float64(res.Score) / float64(res.Total)))
	}
	res.Passed = res.Total > 0 && res.Percentage >= test.PassingScore
	return res
}
