package models

import (
	"time"

	"github.com/anjiri1684/hireloom/aptitude"
	"github.com/google/uuid"
)

const (
	ResponsePending   = "pending"
	ResponseCompleted = "completed"
	ResponseExpired   = "expired"
)

// TestResponse is one candidate's invitation to a test and, once taken, the
// graded result. There is at most one row per (test, candidate email).
type TestResponse struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TestID         string    `gorm:"size:64;not null;uniqueIndex:idx_test_candidate" json:"test_id"`
	CandidateEmail string    `gorm:"size:255;not null;uniqueIndex:idx_test_candidate" json:"candidate_email"`
	CandidateName  string    `gorm:"size:255" json:"candidate_name"`
	Status         string    `gorm:"size:20;not null;default:'pending';index" json:"status"`

	SentAt         time.Time  `gorm:"not null" json:"sent_at"`
	ExpiresAt      time.Time  `gorm:"not null;index" json:"expires_at"`
	ReminderSentAt *time.Time `json:"reminder_sent_at"`
	StartedAt      *time.Time `json:"started_at"`
	CompletedAt    *time.Time `json:"completed_at"`

	Answers          aptitude.AnswerSheet     `gorm:"serializer:json;type:jsonb" json:"answers"`
	Breakdown        []aptitude.BreakdownItem `gorm:"serializer:json;type:jsonb" json:"breakdown"`
	Score            int                      `json:"score"`
	Total            int                      `json:"total"`
	Percentage       int                      `json:"percentage"`
	Passed           bool                     `json:"passed"`
	PendingReview    int                      `json:"pending_review"`
	TimeSpentSeconds int                      `json:"time_spent_seconds"`
	SubmitReason     string                   `gorm:"size:20" json:"submit_reason"`
	ReportURL        *string                  `gorm:"type:text" json:"report_url"`

	Test AptitudeTest `gorm:"foreignkey:TestID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Record copies a completed session's outcome onto the response.
func (r *TestResponse) Record(s aptitude.Session) {
	r.Status = ResponseCompleted
	r.CandidateName = s.CandidateName
	r.Answers = s.Answers
	r.SubmitReason = string(s.SubmitReason)
	r.TimeSpentSeconds = int(s.TimeSpent().Seconds())
	if !s.StartedAt.IsZero() {
		started := s.StartedAt
		r.StartedAt = &started
	}
	if !s.CompletedAt.IsZero() {
		completed := s.CompletedAt
		r.CompletedAt = &completed
	}
	if s.Result != nil {
		r.Breakdown = s.Result.Breakdown
		r.Score = s.Result.Score
		r.Total = s.Result.Total
		r.Percentage = s.Result.Percentage
		r.Passed = s.Result.Passed
		r.PendingReview = s.Result.PendingReview
	}
}
