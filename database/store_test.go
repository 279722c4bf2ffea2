package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/anjiri1684/hireloom/aptitude"
	"github.com/anjiri1684/hireloom/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()
	dsn := os.Getenv("HIRELOOM_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("HIRELOOM_TEST_DATABASE_URL not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.AptitudeTest{}, &models.TestResponse{}))

	wipe := func() { db.Exec("TRUNCATE aptitude_tests, test_responses") }
	wipe()
	t.Cleanup(func() {
		wipe()
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewStore(db), db
}

func seedInvitation(t *testing.T, store *Store, now time.Time) *models.TestResponse {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.CreateTest(ctx, &models.AptitudeTest{
		ID:       "test_store",
		JobID:    uuid.New(),
		JobTitle: "Data Analyst",
		Questions: []aptitude.Question{
			{ID: "q1", Prompt: "Pick A", Difficulty: aptitude.DifficultyEasy, Skill: "SQL",
				Body: aptitude.MultipleChoice{Options: []string{"A", "B"}, CorrectAnswer: 0}},
		},
		DurationMinutes: 30,
		PassingScore:    70,
		CreatedByID:     uuid.New(),
	}))
	inv, err := store.UpsertInvitation(ctx, &models.TestResponse{
		TestID:         "test_store",
		CandidateEmail: "sam@example.com",
		Status:         models.ResponsePending,
		SentAt:         now,
		ExpiresAt:      now.Add(time.Hour),
	})
	require.NoError(t, err)
	return inv
}

func TestStore_ExpirySkipsStartedExam(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	inv := seedInvitation(t, store, now)

	require.NoError(t, store.MarkStarted(ctx, inv.ID, now.Add(59*time.Minute)))

	expired, err := store.ExpireInvitations(ctx, now.Add(61*time.Minute))
	require.NoError(t, err)
	assert.Zero(t, expired)

	done := *inv
	done.Status = models.ResponseCompleted
	done.Percentage = 100
	saved, err := store.CompleteResponse(ctx, &done)
	require.NoError(t, err)
	assert.True(t, saved)

	saved, err = store.CompleteResponse(ctx, &done)
	require.NoError(t, err)
	assert.False(t, saved, "a result is stored once")

	stored, err := store.FindInvitation(ctx, "test_store", "sam@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.ResponseCompleted, stored.Status)
	assert.Equal(t, 100, stored.Percentage)
}

func TestStore_ResultRecordedAfterExpiryWhenStarted(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	inv := seedInvitation(t, store, now)

	require.NoError(t, store.MarkStarted(ctx, inv.ID, now))
	require.NoError(t, db.Model(&models.TestResponse{}).Where("id = ?", inv.ID).
		Update("status", models.ResponseExpired).Error)

	done := *inv
	done.Status = models.ResponseCompleted
	saved, err := store.CompleteResponse(ctx, &done)
	require.NoError(t, err)
	assert.True(t, saved)
}

func TestStore_UnstartedInvitationExpires(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	inv := seedInvitation(t, store, now)

	expired, err := store.ExpireInvitations(ctx, now.Add(61*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)

	done := *inv
	done.Status = models.ResponseCompleted
	saved, err := store.CompleteResponse(ctx, &done)
	require.NoError(t, err)
	assert.False(t, saved, "an expired link that was never started takes no result")
}

func TestStore_AbandonedExamExpires(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	inv := seedInvitation(t, store, now)
	require.NoError(t, store.MarkStarted(ctx, inv.ID, now))

	expired, err := store.ExpireInvitations(ctx, now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, expired)

	expired, err = store.ExpireInvitations(ctx, now.Add(AbandonedAfter+time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)
}

func TestStore_ResendClearsStart(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	inv := seedInvitation(t, store, now)
	require.NoError(t, store.MarkStarted(ctx, inv.ID, now))

	resent, err := store.UpsertInvitation(ctx, &models.TestResponse{
		TestID:         "test_store",
		CandidateEmail: "sam@example.com",
		SentAt:         now.Add(time.Hour),
		ExpiresAt:      now.Add(3 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, inv.ID, resent.ID)
	assert.Nil(t, resent.StartedAt)
	assert.Equal(t, models.ResponsePending, resent.Status)
}
