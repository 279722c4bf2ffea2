package models

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is a thread between one recruiter and one candidate.
type Conversation struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	RecruiterID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recruiter_candidate" json:"recruiter_id"`
	CandidateID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recruiter_candidate" json:"candidate_id"`
	Subject     string    `gorm:"size:255" json:"subject"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Recruiter User      `gorm:"foreignkey:RecruiterID" json:"-"`
	Candidate Candidate `gorm:"foreignkey:CandidateID" json:"candidate"`
	Messages  []Message `json:"messages,omitempty"`
}
