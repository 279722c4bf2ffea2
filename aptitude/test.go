package aptitude

import "time"

// AptitudeTest is immutable once assembled. Questions are presented in slice
// order.
type AptitudeTest struct {
	ID             string     `json:"id" yaml:"id"`
	JobID          string     `json:"jobId" yaml:"jobId"`
	JobTitle       string     `json:"jobTitle" yaml:"jobTitle"`
	JobDescription string     `json:"jobDescription" yaml:"jobDescription"`
	Questions      []Question `json:"questions" yaml:"questions"`
	Duration       int        `json:"duration" yaml:"duration"`
	PassingScore   int        `json:"passingScore" yaml:"passingScore"`
	CreatedAt      time.Time  `json:"createdAt" yaml:"createdAt"`
	CreatedBy      string     `json:"createdBy" yaml:"createdBy"`
}

// DurationSeconds is the countdown budget for the whole test.
func (t *AptitudeTest) DurationSeconds() int {
	return t.Duration * 60
}

func (t *AptitudeTest) Question(id string) (Question, bool) {
	for _, q := range t.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// Preview returns up to n questions from the front of the test.
func (t *AptitudeTest) Preview(n int) []Question {
	if n > len(t.Questions) {
		n = len(t.Questions)
	}
	if n < 0 {
		n = 0
	}
	return t.Questions[:n]
}

// CandidateQuestion is what a candidate sees: no correct answers.
type CandidateQuestion struct {
	ID                 string       `json:"id"`
	Type               QuestionType `json:"type"`
	Question           string       `json:"question"`
	Options            []string     `json:"options,omitempty"`
	Difficulty         Difficulty   `json:"difficulty"`
	Skill              string       `json:"skill"`
	TimeLimit          int          `json:"timeLimit,omitempty"`
	Description        string       `json:"assignmentDescription,omitempty"`
	Requirements       []string     `json:"assignmentRequirements,omitempty"`
	Deliverables       []string     `json:"deliverables,omitempty"`
	Resources          []string     `json:"resources,omitempty"`
	EvaluationCriteria []string     `json:"evaluationCriteria,omitempty"`
}

type CandidateTest struct {
	ID           string              `json:"id"`
	JobTitle     string              `json:"jobTitle"`
	Duration     int                 `json:"duration"`
	PassingScore int                 `json:"passingScore"`
	Questions    []CandidateQuestion `json:"questions"`
}

func (t *AptitudeTest) CandidateView() CandidateTest {
	view := CandidateTest{
		ID:           t.ID,
		JobTitle:     t.JobTitle,
		Duration:     t.Duration,
		PassingScore: t.PassingScore,
		Questions:    make([]CandidateQuestion, 0, len(t.Questions)),
	}
	for _, q := range t.Questions {
		cq := CandidateQuestion{
			ID:         q.ID,
			Type:       q.Type(),
			Question:   q.Prompt,
			Difficulty: q.Difficulty,
			Skill:      q.Skill,
			TimeLimit:  q.TimeLimit,
		}
		switch b := q.Body.(type) {
		case MultipleChoice:
			cq.Options = b.Options
		case Assignment:
			cq.Description = b.Description
			cq.Requirements = b.Requirements
			cq.Deliverables = b.Deliverables
			cq.Resources = b.Resources
			cq.EvaluationCriteria = b.EvaluationCriteria
		}
		view.Questions = append(view.Questions, cq)
	}
	return view
}
