package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/anjiri1684/hireloom/aptitude"
	"github.com/anjiri1684/hireloom/metrics"
	"github.com/anjiri1684/hireloom/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExamStore interface {
	FindTest(ctx context.Context, id string) (*models.AptitudeTest, error)
	FindInvitation(ctx context.Context, testID, email string) (*models.TestResponse, error)
	MarkStarted(ctx context.Context, id uuid.UUID, at time.Time) error
	CompleteResponse(ctx context.Context, resp *models.TestResponse) (bool, error)
}

// Reporter turns a completed response into a stored report and returns its URL.
type Reporter interface {
	Publish(ctx context.Context, resp *models.TestResponse, test *aptitude.AptitudeTest) (string, error)
}

// CandidateResult is the part of a result a candidate may see.
type CandidateResult struct {
	Score         int  `json:"score"`
	Total         int  `json:"total"`
	Percentage    int  `json:"percentage"`
	Passed        bool `json:"passed"`
	PendingReview int  `json:"pendingReview"`
}

type SessionView struct {
	SessionID       string                      `json:"sessionId,omitempty"`
	Status          aptitude.Status             `json:"status"`
	CandidateEmail  string                      `json:"candidateEmail"`
	CandidateName   string                      `json:"candidateName,omitempty"`
	Test            *aptitude.CandidateTest     `json:"test,omitempty"`
	CurrentIndex    int                         `json:"currentIndex"`
	CurrentQuestion *aptitude.CandidateQuestion `json:"currentQuestion,omitempty"`
	Answers         aptitude.AnswerSheet        `json:"answers"`
	TimeRemaining   int                         `json:"timeRemaining"`
	SubmitReason    aptitude.SubmitReason       `json:"submitReason,omitempty"`
	TimeSpent       int                         `json:"timeSpentSeconds,omitempty"`
	Result          *CandidateResult            `json:"result,omitempty"`
	Error           string                      `json:"error,omitempty"`
}

func newSessionView(id string, s aptitude.Session) SessionView {
	view := SessionView{
		SessionID:      id,
		Status:         s.Status,
		CandidateEmail: s.CandidateEmail,
		CandidateName:  s.CandidateName,
		CurrentIndex:   s.CurrentIndex,
		Answers:        s.Answers,
		TimeRemaining:  s.TimeRemaining,
		SubmitReason:   s.SubmitReason,
		TimeSpent:      int(s.TimeSpent().Seconds()),
		Error:          s.Error,
	}
	if view.Answers == nil {
		view.Answers = aptitude.AnswerSheet{}
	}
	if s.Test != nil {
		ct := s.Test.CandidateView()
		view.Test = &ct
		if s.Status == aptitude.StatusInProgress && s.CurrentIndex < len(ct.Questions) {
			cq := ct.Questions[s.CurrentIndex]
			view.CurrentQuestion = &cq
		}
	}
	if s.Result != nil {
		view.Result = &CandidateResult{
			Score:         s.Result.Score,
			Total:         s.Result.Total,
			Percentage:    s.Result.Percentage,
			Passed:        s.Result.Passed,
			PendingReview: s.Result.PendingReview,
		}
	}
	return view
}

type liveSession struct {
	id         string
	key        string
	exam       *aptitude.Exam
	invitation *models.TestResponse
	openedAt   time.Time

	// guarded by ExamSessionService.mu
	finishedAt time.Time
}

// ExamSessionService runs candidate exams server side. Each live session owns
// one aptitude.Exam; its result is written to the candidate's invitation row
// exactly once when the exam completes.
type ExamSessionService struct {
	mu       sync.Mutex
	sessions map[string]*liveSession
	byKey    map[string]string

	store    ExamStore
	reporter Reporter

	ExamOptions    []aptitude.ExamOption
	Now            func() time.Time
	PersistTimeout time.Duration
	// OnRecorded runs after a result is stored for the first time.
	OnRecorded func(resp *models.TestResponse, test *aptitude.AptitudeTest)
}

func NewExamSessionService(store ExamStore, reporter Reporter) *ExamSessionService {
	return &ExamSessionService{
		sessions:       make(map[string]*liveSession),
		byKey:          make(map[string]string),
		store:          store,
		reporter:       reporter,
		Now:            time.Now,
		PersistTimeout: 10 * time.Second,
	}
}

func sessionKey(testID, email string) string {
	return testID + "|" + strings.ToLower(email)
}

// Open resolves a test link. A link that cannot be resolved yields an error
// state view together with the reason. Reopening a link whose exam is still
// live returns that exam rather than starting a new countdown.
func (s *ExamSessionService) Open(ctx context.Context, testID, candidateEmail string) (SessionView, error) {
	key := sessionKey(testID, candidateEmail)
	s.mu.Lock()
	view, ok := s.liveLocked(key)
	s.mu.Unlock()
	if ok {
		return view, nil
	}

	test, inv, resolveErr := s.resolve(ctx, testID, candidateEmail)
	if resolveErr != nil {
		state, err := s.newLiveSession(key, candidateEmail, nil).exam.Load(nil, resolveErr)
		if err != nil {
			return SessionView{}, err
		}
		return newSessionView("", state), resolveErr
	}

	// A concurrent Open of the same link may have won while we resolved.
	s.mu.Lock()
	defer s.mu.Unlock()
	if view, ok := s.liveLocked(key); ok {
		return view, nil
	}

	ls := s.newLiveSession(key, candidateEmail, inv)
	state, err := ls.exam.Load(test, nil)
	if err != nil {
		return SessionView{}, err
	}
	s.sessions[ls.id] = ls
	s.byKey[key] = ls.id
	metrics.ActiveExams.Inc()

	return newSessionView(ls.id, state), nil
}

func (s *ExamSessionService) liveLocked(key string) (SessionView, bool) {
	id, ok := s.byKey[key]
	if !ok {
		return SessionView{}, false
	}
	ls := s.sessions[id]
	if !ls.finishedAt.IsZero() {
		return SessionView{}, false
	}
	return newSessionView(id, ls.exam.Snapshot()), true
}

func (s *ExamSessionService) newLiveSession(key, candidateEmail string, inv *models.TestResponse) *liveSession {
	ls := &liveSession{
		id:         uuid.NewString(),
		key:        key,
		invitation: inv,
		openedAt:   s.Now(),
	}
	opts := append([]aptitude.ExamOption{
		aptitude.WithClock(s.Now),
		aptitude.WithCompletionHook(func(sess aptitude.Session) { s.persist(ls, sess) }),
	}, s.ExamOptions...)
	ls.exam = aptitude.NewExam(candidateEmail, opts...)
	return ls
}

func (s *ExamSessionService) resolve(ctx context.Context, testID, email string) (*aptitude.AptitudeTest, *models.TestResponse, error) {
	record, err := s.store.FindTest(ctx, testID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrTestNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load aptitude test: %w", err)
	}

	inv, err := s.store.FindInvitation(ctx, testID, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrInvitationNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load invitation: %w", err)
	}
	switch {
	case inv.Status == models.ResponseCompleted:
		return nil, nil, ErrInvitationCompleted
	case inv.Status == models.ResponseExpired || s.Now().After(inv.ExpiresAt):
		return nil, nil, ErrInvitationExpired
	}
	return record.ToDomain(), inv, nil
}

func (s *ExamSessionService) lookup(id string) (*liveSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ls, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return ls, nil
}

func (s *ExamSessionService) do(id string, fn func(*aptitude.Exam) (aptitude.Session, error)) (SessionView, error) {
	ls, err := s.lookup(id)
	if err != nil {
		return SessionView{}, err
	}
	state, err := fn(ls.exam)
	return newSessionView(id, state), err
}

func (s *ExamSessionService) Get(id string) (SessionView, error) {
	return s.do(id, func(e *aptitude.Exam) (aptitude.Session, error) { return e.Snapshot(), nil })
}

// Start begins the countdown and stamps the invitation as started, which keeps
// the expiry sweep away from an exam in progress.
func (s *ExamSessionService) Start(ctx context.Context, id, candidateName string) (SessionView, error) {
	ls, err := s.lookup(id)
	if err != nil {
		return SessionView{}, err
	}
	state, err := ls.exam.Start(candidateName)
	if err != nil {
		return newSessionView(id, state), err
	}
	if err := s.store.MarkStarted(ctx, ls.invitation.ID, state.StartedAt); err != nil {
		log.Printf("🔥 Failed to mark %s started on test %s: %v", ls.invitation.CandidateEmail, ls.invitation.TestID, err)
	}
	return newSessionView(id, state), nil
}

func (s *ExamSessionService) Answer(id, questionID string, value aptitude.AnswerValue) (SessionView, error) {
	return s.do(id, func(e *aptitude.Exam) (aptitude.Session, error) { return e.Answer(questionID, value) })
}

func (s *ExamSessionService) Next(id string) (SessionView, error) {
	return s.do(id, func(e *aptitude.Exam) (aptitude.Session, error) { return e.Next() })
}

func (s *ExamSessionService) Submit(id string) (SessionView, error) {
	return s.do(id, func(e *aptitude.Exam) (aptitude.Session, error) { return e.Submit() })
}

// persist runs once per exam, from whichever goroutine completed it.
func (s *ExamSessionService) persist(ls *liveSession, sess aptitude.Session) {
	s.mu.Lock()
	ls.finishedAt = s.Now()
	s.mu.Unlock()
	metrics.ActiveExams.Dec()

	resp := *ls.invitation
	resp.Record(sess)

	ctx, cancel := context.WithTimeout(context.Background(), s.PersistTimeout)
	defer cancel()

	saved, err := s.store.CompleteResponse(ctx, &resp)
	if err != nil {
		log.Printf("🔥 Failed to save result for %s on test %s: %v", resp.CandidateEmail, resp.TestID, err)
		return
	}
	if !saved {
		log.Printf("⚠️ Result for %s on test %s was already recorded", resp.CandidateEmail, resp.TestID)
		return
	}

	metrics.ExamsCompleted.WithLabelValues(string(sess.SubmitReason)).Inc()
	metrics.ScorePercentage.Observe(float64(resp.Percentage))
	log.Printf("✅ Recorded %d%% for %s on test %s (%s)", resp.Percentage, resp.CandidateEmail, resp.TestID, sess.SubmitReason)

	if s.OnRecorded != nil {
		s.OnRecorded(&resp, sess.Test)
	}

	if s.reporter != nil {
		go s.publishReport(&resp, sess.Test)
	}
}

func (s *ExamSessionService) publishReport(resp *models.TestResponse, test *aptitude.AptitudeTest) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := s.reporter.Publish(ctx, resp, test); err != nil {
		log.Printf("🔥 Failed to publish report for response %s: %v", resp.ID, err)
	}
}

// Purge drops finished sessions older than retention and abandons sessions
// that were opened but never started within retention.
func (s *ExamSessionService) Purge(retention time.Duration) int {
	cutoff := s.Now().Add(-retention)

	s.mu.Lock()
	var stale []*liveSession
	for id, ls := range s.sessions {
		switch {
		case !ls.finishedAt.IsZero():
			if ls.finishedAt.Before(cutoff) {
				stale = append(stale, ls)
			}
		case ls.openedAt.Before(cutoff) && ls.exam.Snapshot().Status == aptitude.StatusReady:
			stale = append(stale, ls)
			metrics.ActiveExams.Dec()
		default:
			continue
		}
		delete(s.sessions, id)
		if s.byKey[ls.key] == id {
			delete(s.byKey, ls.key)
		}
	}
	s.mu.Unlock()

	for _, ls := range stale {
		ls.exam.Close()
	}
	return len(stale)
}

// Len reports how many sessions are held in memory.
func (s *ExamSessionService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
