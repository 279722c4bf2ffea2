package services

import (
	"context"
	"testing"
	"time"

	"github.com/anjiri1684/hireloom/aptitude"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAptitudeService_GenerateAndCreate(t *testing.T) {
	store := newMemStore()
	recruiter := uuid.New()
	seeded := seedTest(store, recruiter)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	svc := NewAptitudeService(store, &aptitude.TemplateGenerator{Now: func() time.Time { return now }}, "template")
	svc.Now = func() time.Time { return now }

	questions, err := svc.GenerateQuestions(context.Background(), GenerateInput{
		JobID:         seeded.JobID,
		Difficulty:    aptitude.DifficultyMedium,
		QuestionCount: 10,
	})
	require.NoError(t, err)
	require.Len(t, questions, 5)

	test, err := svc.CreateTest(context.Background(), recruiter, CreateTestInput{
		JobID:     seeded.JobID,
		Generated: questions,
		Assignments: []aptitude.AssignmentInput{
			{Title: "Build a widget", Description: "Ship it", Requirements: []string{"tests", ""}},
		},
		Config: aptitude.TestConfig{Duration: 45, PassingScore: 60},
	})
	require.NoError(t, err)

	assert.Equal(t, "test_a", test.ID)
	assert.Equal(t, recruiter.String(), test.CreatedBy)
	require.Len(t, test.Questions, 6)
	last := test.Questions[5]
	assert.Equal(t, aptitude.TypeAssignment, last.Type())
	assert.Equal(t, "React", last.Skill)

	stored, err := svc.GetTest(context.Background(), test.ID)
	require.NoError(t, err)
	assert.Equal(t, test.Questions, stored.Questions)
	assert.Equal(t, 45, stored.Duration)
}

func TestAptitudeService_Errors(t *testing.T) {
	store := newMemStore()
	recruiter := uuid.New()
	seeded := seedTest(store, recruiter)
	svc := NewAptitudeService(store, aptitude.NewTemplateGenerator(), "template")

	_, err := svc.GenerateQuestions(context.Background(), GenerateInput{JobID: uuid.New(), QuestionCount: 3})
	assert.ErrorIs(t, err, ErrJobNotFound)

	_, err = svc.CreateTest(context.Background(), recruiter, CreateTestInput{JobID: seeded.JobID, Config: aptitude.DefaultTestConfig()})
	assert.ErrorIs(t, err, aptitude.ErrEmptyTest)

	_, err = svc.CreateTest(context.Background(), recruiter, CreateTestInput{
		JobID:       seeded.JobID,
		Assignments: []aptitude.AssignmentInput{{Title: "x", Description: " "}},
		Config:      aptitude.DefaultTestConfig(),
	})
	assert.ErrorIs(t, err, aptitude.ErrAssignmentDescriptionRequired)

	_, err = svc.GetTest(context.Background(), "test_nope")
	assert.ErrorIs(t, err, ErrTestNotFound)

	_, err = svc.GetResponse(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrResponseNotFound)
}
