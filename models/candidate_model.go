package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	CandidateApplied   = "applied"
	CandidateScreening = "screening"
	CandidateInterview = "interview"
	CandidateOffer     = "offer"
	CandidateHired     = "hired"
	CandidateRejected  = "rejected"
)

type Candidate struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	RecruiterID uuid.UUID  `gorm:"type:uuid;not null;index" json:"recruiter_id"`
	JobID       *uuid.UUID `gorm:"type:uuid;index" json:"job_id"`
	FullName    string     `gorm:"size:255;not null" json:"full_name"`
	Email       string     `gorm:"size:255;not null;index" json:"email"`
	Phone       *string    `gorm:"size:50" json:"phone"`
	ResumeURL   *string    `gorm:"type:text" json:"resume_url"`
	Skills      []string   `gorm:"serializer:json;type:jsonb" json:"skills"`
	Status      string     `gorm:"size:20;not null;default:'applied'" json:"status"`
	Notes       string     `gorm:"type:text" json:"notes"`

	Job *Job `gorm:"foreignkey:JobID" json:"job,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
