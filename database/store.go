package database

import (
	"context"
	"errors"
	"time"

	"github.com/anjiri1684/hireloom/models"
	"github.com/anjiri1684/hireloom/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the GORM-backed persistence for aptitude tests and their
// responses. Lookups return gorm.ErrRecordNotFound when nothing matches.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) NewTestID(ctx context.Context) (string, error) {
	return utils.GenerateUniqueTestID(s.db.WithContext(ctx))
}

func (s *Store) FindJob(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	if err := s.db.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *Store) CreateTest(ctx context.Context, test *models.AptitudeTest) error {
	return s.db.WithContext(ctx).Create(test).Error
}

func (s *Store) FindTest(ctx context.Context, id string) (*models.AptitudeTest, error) {
	var test models.AptitudeTest
	if err := s.db.WithContext(ctx).First(&test, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &test, nil
}

func (s *Store) ListTestsForJob(ctx context.Context, jobID uuid.UUID) ([]models.AptitudeTest, error) {
	var tests []models.AptitudeTest
	err := s.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at desc").
		Find(&tests).Error
	return tests, err
}

// UpsertInvitation creates the pending response for (testID, email) or, when
// one exists and is not completed, reopens it with fresh send and expiry
// times. A completed response is returned untouched.
func (s *Store) UpsertInvitation(ctx context.Context, inv *models.TestResponse) (*models.TestResponse, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.TestResponse
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("test_id = ? AND candidate_email = ?", inv.TestID, inv.CandidateEmail).
			First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(inv).Error
		}
		if err != nil {
			return err
		}
		if existing.Status == models.ResponseCompleted {
			*inv = existing
			return nil
		}

		existing.Status = models.ResponsePending
		existing.SentAt = inv.SentAt
		existing.ExpiresAt = inv.ExpiresAt
		existing.ReminderSentAt = nil
		existing.StartedAt = nil
		if inv.CandidateName != "" {
			existing.CandidateName = inv.CandidateName
		}
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		*inv = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Store) FindInvitation(ctx context.Context, testID, email string) (*models.TestResponse, error) {
	var resp models.TestResponse
	err := s.db.WithContext(ctx).
		Where("test_id = ? AND candidate_email = ?", testID, email).
		First(&resp).Error
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// MarkStarted stamps the moment a candidate began the exam. A started
// invitation is no longer swept by ExpireInvitations.
func (s *Store) MarkStarted(ctx context.Context, id uuid.UUID, at time.Time) error {
	return s.db.WithContext(ctx).
		Model(&models.TestResponse{}).
		Where("id = ? AND status <> ? AND started_at IS NULL", id, models.ResponseCompleted).
		Update("started_at", at).Error
}

// CompleteResponse writes a graded response. It succeeds while the row is
// pending, or expired after the exam had already started, so a response is
// recorded at most once.
func (s *Store) CompleteResponse(ctx context.Context, resp *models.TestResponse) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&models.TestResponse{}).
		Where("id = ? AND (status = ? OR (status = ? AND started_at IS NOT NULL))",
			resp.ID, models.ResponsePending, models.ResponseExpired).
		Select("status", "candidate_name", "started_at", "completed_at", "answers", "breakdown", "score", "total",
			"percentage", "passed", "pending_review", "time_spent_seconds", "submit_reason").
		Updates(resp)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (s *Store) SetReportURL(ctx context.Context, id uuid.UUID, url string) error {
	return s.db.WithContext(ctx).
		Model(&models.TestResponse{}).
		Where("id = ?", id).
		Update("report_url", url).Error
}

func (s *Store) ListResponses(ctx context.Context, testID string) ([]models.TestResponse, error) {
	var responses []models.TestResponse
	err := s.db.WithContext(ctx).
		Where("test_id = ?", testID).
		Order("sent_at desc").
		Find(&responses).Error
	return responses, err
}

func (s *Store) FindResponse(ctx context.Context, id uuid.UUID) (*models.TestResponse, error) {
	var resp models.TestResponse
	if err := s.db.WithContext(ctx).Preload("Test").First(&resp, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &resp, nil
}

// AbandonedAfter is how long a started exam may go without a result before
// its invitation can expire.
const AbandonedAfter = 24 * time.Hour

// ExpireInvitations flips overdue pending invitations to expired. Exams in
// progress are left alone unless they were abandoned.
func (s *Store) ExpireInvitations(ctx context.Context, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&models.TestResponse{}).
		Where("status = ? AND expires_at < ? AND (started_at IS NULL OR started_at < ?)",
			models.ResponsePending, now, now.Add(-AbandonedAfter)).
		Update("status", models.ResponseExpired)
	return result.RowsAffected, result.Error
}

// DueReminders lists pending invitations expiring within window that have not
// been reminded since they were last sent.
func (s *Store) DueReminders(ctx context.Context, now time.Time, window time.Duration) ([]models.TestResponse, error) {
	var due []models.TestResponse
	err := s.db.WithContext(ctx).
		Preload("Test").
		Where("status = ? AND started_at IS NULL AND reminder_sent_at IS NULL AND expires_at BETWEEN ? AND ?",
			models.ResponsePending, now, now.Add(window)).
		Find(&due).Error
	return due, err
}

func (s *Store) MarkReminded(ctx context.Context, id uuid.UUID, at time.Time) error {
	return s.db.WithContext(ctx).
		Model(&models.TestResponse{}).
		Where("id = ?", id).
		Update("reminder_sent_at", at).Error
}
