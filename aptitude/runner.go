package aptitude

import (
	"strings"
	"time"
)

type Status string

const (
	StatusLoading    Status = "loading"
	StatusReady      Status = "ready"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

type SubmitReason string

const (
	SubmitManual  SubmitReason = "submit"
	SubmitTimeout SubmitReason = "timeout"
)

// Session is the complete state of one candidate's exam. Step never mutates
// the Session it is given.
type Session struct {
	Status         Status
	Test           *AptitudeTest
	CandidateEmail string
	CandidateName  string
	CurrentIndex   int
	Answers        AnswerSheet
	TimeRemaining  int // seconds
	StartedAt      time.Time
	CompletedAt    time.Time
	SubmitReason   SubmitReason
	Result         *Result
	Error          string
}

func NewSession(candidateEmail string) Session {
	return Session{Status: StatusLoading, CandidateEmail: candidateEmail}
}

func (s Session) CurrentQuestion() (Question, bool) {
	if s.Test == nil || s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Test.Questions) {
		return Question{}, false
	}
	return s.Test.Questions[s.CurrentIndex], true
}

func (s Session) TimeSpent() time.Duration {
	if s.StartedAt.IsZero() || s.CompletedAt.IsZero() {
		return 0
	}
	return s.CompletedAt.Sub(s.StartedAt)
}

// Event is an input to the exam state machine.
type Event interface {
	apply(s Session) (Session, error)
}

// Step applies ev to s. On error the returned Session equals s.
func Step(s Session, ev Event) (Session, error) {
	next, err := ev.apply(s)
	if err != nil {
		return s, err
	}
	return next, nil
}

type Loaded struct {
	Test *AptitudeTest
}

type LoadFailed struct {
	Err error
}

type Start struct {
	Name string
	At   time.Time
}

type Answered struct {
	QuestionID string
	Value      AnswerValue
}

type Advance struct {
	At time.Time
}

type Tick struct {
	At time.Time
}

type Submit struct {
	At time.Time
}

func (e Loaded) apply(s Session) (Session, error) {
	if s.Status != StatusLoading {
		return s, ErrInvalidTransition
	}
	if e.Test == nil {
		return LoadFailed{Err: ErrTestUnavailable}.apply(s)
	}
	if len(e.Test.Questions) == 0 {
		return LoadFailed{Err: ErrEmptyTest}.apply(s)
	}
	s.Test = e.Test
	s.TimeRemaining = e.Test.DurationSeconds()
	s.Status = StatusReady
	return s, nil
}

func (e LoadFailed) apply(s Session) (Session, error) {
	if s.Status != StatusLoading {
		return s, ErrInvalidTransition
	}
	err := e.Err
	if err == nil {
		err = ErrTestUnavailable
	}
	s.Status = StatusError
	s.Error = err.Error()
	return s, nil
}

func (e Start) apply(s Session) (Session, error) {
	if s.Status != StatusReady {
		return s, ErrInvalidTransition
	}
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return s, ErrCandidateNameRequired
	}
	s.CandidateName = name
	s.StartedAt = e.At
	s.Status = StatusInProgress
	return s, nil
}

func (e Answered) apply(s Session) (Session, error) {
	if s.Status != StatusInProgress {
		return s, ErrInvalidTransition
	}
	if _, ok := s.Test.Question(e.QuestionID); !ok {
		return s, ErrUnknownQuestion
	}
	current, _ := s.CurrentQuestion()
	if current.ID != e.QuestionID {
		return s, ErrNotCurrentQuestion
	}
	s.Answers = s.Answers.Upsert(e.QuestionID, e.Value)
	return s, nil
}

// Advancing past the last question submits.
func (e Advance) apply(s Session) (Session, error) {
	if s.Status != StatusInProgress {
		return s, ErrInvalidTransition
	}
	if s.CurrentIndex < len(s.Test.Questions)-1 {
		s.CurrentIndex++
		return s, nil
	}
	return complete(s, SubmitManual, e.At), nil
}

// Ticks outside in_progress are ignored so a late tick can never submit twice.
func (e Tick) apply(s Session) (Session, error) {
	if s.Status != StatusInProgress {
		return s, nil
	}
	s.TimeRemaining--
	if s.TimeRemaining <= 0 {
		s.TimeRemaining = 0
		return complete(s, SubmitTimeout, e.At), nil
	}
	return s, nil
}

func (e Submit) apply(s Session) (Session, error) {
	switch s.Status {
	case StatusInProgress:
		return complete(s, SubmitManual, e.At), nil
	case StatusCompleted:
		return s, ErrAlreadyCompleted
	}
	return s, ErrInvalidTransition
}

func complete(s Session, reason SubmitReason, at time.Time) Session {
	result := Score(s.Test, s.Answers)
	s.Status = StatusCompleted
	s.SubmitReason = reason
	s.CompletedAt = at
	s.Result = &result
	return s
}
