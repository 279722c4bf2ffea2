package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/anjiri1684/hireloom/aptitude"
	"github.com/anjiri1684/hireloom/metrics"
	"github.com/anjiri1684/hireloom/models"
	"github.com/anjiri1684/hireloom/notifications"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const previewQuestions = 3

type InvitationStore interface {
	FindTest(ctx context.Context, id string) (*models.AptitudeTest, error)
	FindInvitation(ctx context.Context, testID, email string) (*models.TestResponse, error)
	UpsertInvitation(ctx context.Context, inv *models.TestResponse) (*models.TestResponse, error)
	DueReminders(ctx context.Context, now time.Time, window time.Duration) ([]models.TestResponse, error)
	MarkReminded(ctx context.Context, id uuid.UUID, at time.Time) error
	ExpireInvitations(ctx context.Context, now time.Time) (int64, error)
}

// TestLink is the candidate-specific address of a test.
func TestLink(origin, testID, candidateEmail string) string {
	return fmt.Sprintf("%s/take-test/%s?candidate=%s",
		strings.TrimRight(origin, "/"), url.PathEscape(testID), url.QueryEscape(candidateEmail))
}

type DeliveryService struct {
	store  InvitationStore
	mailer notifications.Mailer
	origin string
	ttl    time.Duration
	Now    func() time.Time
}

func NewDeliveryService(store InvitationStore, mailer notifications.Mailer, origin string, ttl time.Duration) *DeliveryService {
	return &DeliveryService{store: store, mailer: mailer, origin: origin, ttl: ttl, Now: time.Now}
}

type invitationView struct {
	CandidateName string
	JobTitle      string
	QuestionCount int
	Duration      int
	PassingScore  int
	ExpiresAt     string
	Preview       []aptitude.Question
	Remaining     int
	Link          string
}

// RenderInvitation builds the HTML body of an invitation email.
func RenderInvitation(test *aptitude.AptitudeTest, candidateName, link string, expiresAt time.Time) (string, error) {
	if candidateName == "" {
		candidateName = "Candidate"
	}
	view := invitationView{
		CandidateName: candidateName,
		JobTitle:      test.JobTitle,
		QuestionCount: len(test.Questions),
		Duration:      test.Duration,
		PassingScore:  test.PassingScore,
		Preview:       test.Preview(previewQuestions),
		Link:          link,
	}
	view.Remaining = len(test.Questions) - len(view.Preview)
	if !expiresAt.IsZero() {
		view.ExpiresAt = expiresAt.UTC().Format("January 2, 2006 15:04 MST")
	}
	return render("invitation.html", view)
}

func invitationSubject(jobTitle string) string {
	return fmt.Sprintf("Aptitude Test Invitation - %s Position", jobTitle)
}

type SendResult struct {
	Link       string               `json:"link"`
	Invitation *models.TestResponse `json:"invitation"`
}

// Send emails one candidate a link to the test and records the pending
// invitation. A repeat send to the same candidate reuses the link and
// pushes the expiry forward. A candidate who already took the test is not
// emailed again. Nothing is recorded when the email fails.
func (s *DeliveryService) Send(ctx context.Context, testID, candidateEmail, candidateName string) (*SendResult, error) {
	record, err := s.store.FindTest(ctx, testID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load aptitude test: %w", err)
	}
	test := record.ToDomain()
	if len(test.Questions) == 0 {
		return nil, aptitude.ErrEmptyTest
	}

	existing, err := s.store.FindInvitation(ctx, test.ID, candidateEmail)
	switch {
	case err == nil && existing.Status == models.ResponseCompleted:
		return nil, ErrInvitationCompleted
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("failed to load invitation: %w", err)
	}

	now := s.Now()
	expiresAt := now.Add(s.ttl)
	link := TestLink(s.origin, test.ID, candidateEmail)
	body, err := RenderInvitation(test, candidateName, link, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to render invitation: %w", err)
	}

	err = s.mailer.Send(ctx, notifications.Email{
		To:      candidateEmail,
		ToName:  candidateName,
		Subject: invitationSubject(test.JobTitle),
		HTML:    body,
	})
	if err != nil {
		metrics.InvitationsSent.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("%w to %s: %w", ErrDeliveryFailed, candidateEmail, err)
	}
	metrics.InvitationsSent.WithLabelValues("sent").Inc()

	inv, err := s.store.UpsertInvitation(ctx, &models.TestResponse{
		TestID:         test.ID,
		CandidateEmail: candidateEmail,
		CandidateName:  candidateName,
		Status:         models.ResponsePending,
		SentAt:         now,
		ExpiresAt:      expiresAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record invitation: %w", err)
	}

	log.Printf("✅ Sent test %s to %s", test.ID, candidateEmail)
	return &SendResult{Link: link, Invitation: inv}, nil
}

// ExpireStale flips pending invitations past their expiry to expired.
func (s *DeliveryService) ExpireStale(ctx context.Context) (int64, error) {
	return s.store.ExpireInvitations(ctx, s.Now())
}

// SendReminders emails one reminder for every pending invitation that
// expires within window.
func (s *DeliveryService) SendReminders(ctx context.Context, window time.Duration) (int, error) {
	now := s.Now()
	due, err := s.store.DueReminders(ctx, now, window)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, inv := range due {
		test := inv.Test.ToDomain()
		link := TestLink(s.origin, inv.TestID, inv.CandidateEmail)
		body, err := RenderInvitation(test, inv.CandidateName, link, inv.ExpiresAt)
		if err != nil {
			log.Printf("🔥 Failed to render reminder for %s: %v", inv.CandidateEmail, err)
			continue
		}
		err = s.mailer.Send(ctx, notifications.Email{
			To:      inv.CandidateEmail,
			ToName:  inv.CandidateName,
			Subject: "Reminder: " + invitationSubject(test.JobTitle),
			HTML:    body,
		})
		if err != nil {
			log.Printf("🔥 Failed to send reminder to %s: %v", inv.CandidateEmail, err)
			continue
		}
		if err := s.store.MarkReminded(ctx, inv.ID, now); err != nil {
			log.Printf("🔥 Failed to mark reminder for %s: %v", inv.CandidateEmail, err)
			continue
		}
		sent++
	}
	return sent, nil
}
