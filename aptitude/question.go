// Package aptitude holds the aptitude-test lifecycle: question generation,
// custom assignments, test assembly, the timed exam state machine and scoring.
package aptitude

import (
	"encoding/json"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeShortAnswer    QuestionType = "short_answer"
	TypeCoding         QuestionType = "coding"
	TypeScenario       QuestionType = "scenario"
	TypeAssignment     QuestionType = "assignment"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Body is the type-specific part of a Question. Only the variants in this
// package implement it.
type Body interface {
	questionType() QuestionType
}

type MultipleChoice struct {
	Options       []string
	CorrectAnswer int
}

// ShortAnswer may carry a reference answer for reviewers. It is never graded
// automatically.
type ShortAnswer struct {
	ExpectedAnswer string
}

type Coding struct{}

type Scenario struct{}

type Assignment struct {
	Title              string
	Description        string
	Requirements       []string
	Deliverables       []string
	Resources          []string
	EvaluationCriteria []string
}

func (MultipleChoice) questionType() QuestionType { return TypeMultipleChoice }
func (ShortAnswer) questionType() QuestionType    { return TypeShortAnswer }
func (Coding) questionType() QuestionType         { return TypeCoding }
func (Scenario) questionType() QuestionType       { return TypeScenario }
func (Assignment) questionType() QuestionType     { return TypeAssignment }

// Question is one test item. TimeLimit is advisory minutes per question.
type Question struct {
	ID         string
	Prompt     string
	Difficulty Difficulty
	Skill      string
	TimeLimit  int
	Body       Body
}

func (q Question) Type() QuestionType {
	if q.Body == nil {
		return ""
	}
	return q.Body.questionType()
}

// Graded reports whether the question has an automatic correctness check.
func (q Question) Graded() bool {
	return q.Type() == TypeMultipleChoice
}

// Validate checks the per-type invariants of a question.
func (q Question) Validate() error {
	if q.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidQuestion)
	}
	switch b := q.Body.(type) {
	case MultipleChoice:
		if len(b.Options) == 0 {
			return fmt.Errorf("%w: %s has no options", ErrInvalidQuestion, q.ID)
		}
		if b.CorrectAnswer < 0 || b.CorrectAnswer >= len(b.Options) {
			return fmt.Errorf("%w: %s correct answer %d out of range", ErrInvalidQuestion, q.ID, b.CorrectAnswer)
		}
	case ShortAnswer, Coding, Scenario, Assignment:
	default:
		return fmt.Errorf("%w: %s has unknown type", ErrInvalidQuestion, q.ID)
	}
	return nil
}

// questionWire is the flat JSON/YAML shape shared with the dashboard.
type questionWire struct {
	ID                     string       `json:"id" yaml:"id"`
	Type                   QuestionType `json:"type" yaml:"type"`
	Question               string       `json:"question" yaml:"question"`
	Options                []string     `json:"options,omitempty" yaml:"options,omitempty"`
	CorrectAnswer          any          `json:"correctAnswer,omitempty" yaml:"correctAnswer,omitempty"`
	Difficulty             Difficulty   `json:"difficulty" yaml:"difficulty"`
	Skill                  string       `json:"skill" yaml:"skill"`
	TimeLimit              int          `json:"timeLimit,omitempty" yaml:"timeLimit,omitempty"`
	AssignmentTitle        string       `json:"assignmentTitle,omitempty" yaml:"assignmentTitle,omitempty"`
	AssignmentDescription  string       `json:"assignmentDescription,omitempty" yaml:"assignmentDescription,omitempty"`
	AssignmentRequirements []string     `json:"assignmentRequirements,omitempty" yaml:"assignmentRequirements,omitempty"`
	Deliverables           []string     `json:"deliverables,omitempty" yaml:"deliverables,omitempty"`
	Resources              []string     `json:"resources,omitempty" yaml:"resources,omitempty"`
	EvaluationCriteria     []string     `json:"evaluationCriteria,omitempty" yaml:"evaluationCriteria,omitempty"`
}

func (q Question) toWire() questionWire {
	w := questionWire{
		ID:         q.ID,
		Type:       q.Type(),
		Question:   q.Prompt,
		Difficulty: q.Difficulty,
		Skill:      q.Skill,
		TimeLimit:  q.TimeLimit,
	}
	switch b := q.Body.(type) {
	case MultipleChoice:
		w.Options = b.Options
		w.CorrectAnswer = b.CorrectAnswer
	case ShortAnswer:
		if b.ExpectedAnswer != "" {
			w.CorrectAnswer = b.ExpectedAnswer
		}
	case Assignment:
		w.AssignmentTitle = b.Title
		w.AssignmentDescription = b.Description
		w.AssignmentRequirements = b.Requirements
		w.Deliverables = b.Deliverables
		w.Resources = b.Resources
		w.EvaluationCriteria = b.EvaluationCriteria
	}
	return w
}

func (w questionWire) toQuestion() (Question, error) {
	q := Question{
		ID:         w.ID,
		Prompt:     w.Question,
		Difficulty: w.Difficulty,
		Skill:      w.Skill,
		TimeLimit:  w.TimeLimit,
	}
	switch w.Type {
	case TypeMultipleChoice:
		idx, ok := optionIndex(w.CorrectAnswer)
		if !ok {
			return Question{}, fmt.Errorf("%w: %s correctAnswer must be an option index", ErrInvalidQuestion, w.ID)
		}
		q.Body = MultipleChoice{Options: w.Options, CorrectAnswer: idx}
	case TypeShortAnswer:
		expected, _ := w.CorrectAnswer.(string)
		q.Body = ShortAnswer{ExpectedAnswer: expected}
	case TypeCoding:
		q.Body = Coding{}
	case TypeScenario:
		q.Body = Scenario{}
	case TypeAssignment:
		q.Body = Assignment{
			Title:              w.AssignmentTitle,
			Description:        w.AssignmentDescription,
			Requirements:       w.AssignmentRequirements,
			Deliverables:       w.Deliverables,
			Resources:          w.Resources,
			EvaluationCriteria: w.EvaluationCriteria,
		}
	default:
		return Question{}, fmt.Errorf("%w: unknown type %q", ErrInvalidQuestion, w.Type)
	}
	if err := q.Validate(); err != nil {
		return Question{}, err
	}
	return q, nil
}

// optionIndex accepts the numeric forms produced by the JSON and YAML decoders.
func optionIndex(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

func (q Question) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.toWire())
}

func (q *Question) UnmarshalJSON(data []byte) error {
	var w questionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	parsed, err := w.toQuestion()
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

func (q Question) MarshalYAML() (interface{}, error) {
	return q.toWire(), nil
}

func (q *Question) UnmarshalYAML(value *yaml.Node) error {
	var w questionWire
	if err := value.Decode(&w); err != nil {
		return err
	}
	parsed, err := w.toQuestion()
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}
