package services

import (
	"context"
	"sync"
	"time"

	"github.com/anjiri1684/hireloom/aptitude"
	"github.com/anjiri1684/hireloom/database"
	"github.com/anjiri1684/hireloom/models"
	"github.com/anjiri1684/hireloom/notifications"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// memStore is an in-memory stand-in for database.Store.
type memStore struct {
	mu        sync.Mutex
	jobs      map[uuid.UUID]*models.Job
	tests     map[string]*models.AptitudeTest
	responses map[uuid.UUID]*models.TestResponse
	completes int
	nextID    int
	findDelay time.Duration
}

func newMemStore() *memStore {
	return &memStore{
		jobs:      make(map[uuid.UUID]*models.Job),
		tests:     make(map[string]*models.AptitudeTest),
		responses: make(map[uuid.UUID]*models.TestResponse),
	}
}

func (m *memStore) NewTestID(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	return "test_" + string(rune('a'+m.nextID-1)), nil
}

func (m *memStore) FindJob(_ context.Context, id uuid.UUID) (*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return job, nil
}

func (m *memStore) CreateTest(_ context.Context, test *models.AptitudeTest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tests[test.ID] = test
	return nil
}

func (m *memStore) FindTest(_ context.Context, id string) (*models.AptitudeTest, error) {
	time.Sleep(m.findDelay)
	m.mu.Lock()
	defer m.mu.Unlock()
	test, ok := m.tests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return test, nil
}

func (m *memStore) ListTestsForJob(_ context.Context, jobID uuid.UUID) ([]models.AptitudeTest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.AptitudeTest
	for _, t := range m.tests {
		if t.JobID == jobID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *memStore) UpsertInvitation(_ context.Context, inv *models.TestResponse) (*models.TestResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.responses {
		if r.TestID == inv.TestID && r.CandidateEmail == inv.CandidateEmail {
			if r.Status != models.ResponseCompleted {
				r.Status = models.ResponsePending
				r.SentAt = inv.SentAt
				r.ExpiresAt = inv.ExpiresAt
				r.ReminderSentAt = nil
				r.StartedAt = nil
			}
			cp := *r
			return &cp, nil
		}
	}
	inv.ID = uuid.New()
	inv.Test = *m.tests[inv.TestID]
	cp := *inv
	m.responses[inv.ID] = &cp
	return inv, nil
}

func (m *memStore) FindInvitation(_ context.Context, testID, email string) (*models.TestResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.responses {
		if r.TestID == testID && r.CandidateEmail == email {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memStore) MarkStarted(_ context.Context, id uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.responses[id]; ok && r.Status != models.ResponseCompleted && r.StartedAt == nil {
		r.StartedAt = &at
	}
	return nil
}

func (m *memStore) CompleteResponse(_ context.Context, resp *models.TestResponse) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completes++
	r, ok := m.responses[resp.ID]
	if !ok {
		return false, nil
	}
	open := r.Status == models.ResponsePending || (r.Status == models.ResponseExpired && r.StartedAt != nil)
	if !open {
		return false, nil
	}
	cp := *resp
	m.responses[resp.ID] = &cp
	return true, nil
}

func (m *memStore) SetReportURL(_ context.Context, id uuid.UUID, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.responses[id]; ok {
		r.ReportURL = &url
	}
	return nil
}

func (m *memStore) ListResponses(_ context.Context, testID string) ([]models.TestResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.TestResponse
	for _, r := range m.responses {
		if r.TestID == testID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memStore) FindResponse(_ context.Context, id uuid.UUID) (*models.TestResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.responses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memStore) ExpireInvitations(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.responses {
		abandoned := r.StartedAt == nil || r.StartedAt.Before(now.Add(-database.AbandonedAfter))
		if r.Status == models.ResponsePending && r.ExpiresAt.Before(now) && abandoned {
			r.Status = models.ResponseExpired
			n++
		}
	}
	return n, nil
}

func (m *memStore) DueReminders(_ context.Context, now time.Time, window time.Duration) ([]models.TestResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.TestResponse
	for _, r := range m.responses {
		if r.Status == models.ResponsePending && r.StartedAt == nil && r.ReminderSentAt == nil &&
			!r.ExpiresAt.Before(now) && !r.ExpiresAt.After(now.Add(window)) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memStore) MarkReminded(_ context.Context, id uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.responses[id]; ok {
		r.ReminderSentAt = &at
	}
	return nil
}

func (m *memStore) response(testID, email string) models.TestResponse {
	r, _ := m.FindInvitation(context.Background(), testID, email)
	return *r
}

func (m *memStore) completeCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.completes
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []notifications.Email
	err  error
}

func (r *recordingMailer) Send(_ context.Context, msg notifications.Email) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}

func (r *recordingMailer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func seedTest(m *memStore, recruiterID uuid.UUID) *models.AptitudeTest {
	jobID := uuid.New()
	m.jobs[jobID] = &models.Job{ID: jobID, RecruiterID: recruiterID, Title: "Frontend Developer", Skills: []string{"React", "TypeScript"}}
	test := &models.AptitudeTest{
		ID:       "test_seeded",
		JobID:    jobID,
		JobTitle: "Frontend Developer",
		Questions: []aptitude.Question{
			{ID: "q1", Prompt: "Pick A", Difficulty: aptitude.DifficultyEasy, Skill: "React", TimeLimit: 3,
				Body: aptitude.MultipleChoice{Options: []string{"A", "B", "C", "D"}, CorrectAnswer: 0}},
			{ID: "q2", Prompt: "Pick B", Difficulty: aptitude.DifficultyEasy, Skill: "React", TimeLimit: 3,
				Body: aptitude.MultipleChoice{Options: []string{"A", "B", "C", "D"}, CorrectAnswer: 1}},
			{ID: "q3", Prompt: "Scale it", Difficulty: aptitude.DifficultyMedium, Skill: "React", TimeLimit: 10,
				Body: aptitude.Scenario{}},
			{ID: "q4", Prompt: "Explain hooks", Difficulty: aptitude.DifficultyMedium, Skill: "React",
				Body: aptitude.ShortAnswer{}},
		},
		DurationMinutes: 1,
		PassingScore:    70,
		CreatedByID:     recruiterID,
	}
	m.tests[test.ID] = test
	return test
}
