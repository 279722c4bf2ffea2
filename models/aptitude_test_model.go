package models

import (
	"fmt"
	"time"

	"github.com/anjiri1684/hireloom/aptitude"
	"github.com/google/uuid"
)

type AptitudeTest struct {
	ID              string              `gorm:"size:64;primary_key" json:"id"`
	JobID           uuid.UUID           `gorm:"type:uuid;not null;index" json:"job_id"`
	JobTitle        string              `gorm:"size:255;not null" json:"job_title"`
	JobDescription  string              `gorm:"type:text" json:"job_description"`
	Questions       []aptitude.Question `gorm:"serializer:json;type:jsonb;not null" json:"questions"`
	DurationMinutes int                 `gorm:"not null" json:"duration"`
	PassingScore    int                 `gorm:"not null" json:"passing_score"`
	CreatedByID     uuid.UUID           `gorm:"type:uuid;not null" json:"created_by"`

	Job       Job            `gorm:"foreignkey:JobID" json:"-"`
	Responses []TestResponse `gorm:"foreignkey:TestID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *AptitudeTest) ToDomain() *aptitude.AptitudeTest {
	return &aptitude.AptitudeTest{
		ID:             t.ID,
		JobID:          t.JobID.String(),
		JobTitle:       t.JobTitle,
		JobDescription: t.JobDescription,
		Questions:      t.Questions,
		Duration:       t.DurationMinutes,
		PassingScore:   t.PassingScore,
		CreatedAt:      t.CreatedAt,
		CreatedBy:      t.CreatedByID.String(),
	}
}

func AptitudeTestFromDomain(t *aptitude.AptitudeTest) (AptitudeTest, error) {
	jobID, err := uuid.Parse(t.JobID)
	if err != nil {
		return AptitudeTest{}, fmt.Errorf("invalid job id %q: %w", t.JobID, err)
	}
	createdBy, err := uuid.Parse(t.CreatedBy)
	if err != nil {
		return AptitudeTest{}, fmt.Errorf("invalid creator id %q: %w", t.CreatedBy, err)
	}
	return AptitudeTest{
		ID:              t.ID,
		JobID:           jobID,
		JobTitle:        t.JobTitle,
		JobDescription:  t.JobDescription,
		Questions:       t.Questions,
		DurationMinutes: t.Duration,
		PassingScore:    t.PassingScore,
		CreatedByID:     createdBy,
		CreatedAt:       t.CreatedAt,
	}, nil
}
