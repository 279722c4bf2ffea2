package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	JobStatusDraft  = "draft"
	JobStatusOpen   = "open"
	JobStatusClosed = "closed"
)

type Job struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	RecruiterID uuid.UUID `gorm:"type:uuid;not null;index" json:"recruiter_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Location    string    `gorm:"size:255" json:"location"`
	Salary      string    `gorm:"size:100" json:"salary"`
	Type        string    `gorm:"size:50" json:"type"`
	Skills      []string  `gorm:"serializer:json;type:jsonb" json:"skills"`
	Portals     []string  `gorm:"serializer:json;type:jsonb" json:"portals"`
	Status      string    `gorm:"size:20;not null;default:'open'" json:"status"`

	Recruiter  User        `gorm:"foreignkey:RecruiterID" json:"-"`
	Candidates []Candidate `gorm:"foreignkey:JobID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
