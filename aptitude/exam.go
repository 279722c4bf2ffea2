package aptitude

import (
	"context"
	"sync"
	"time"
)

// Ticker is the countdown clock source. *time.Ticker satisfies it through
// realTicker.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type realTicker struct {
	t *time.Ticker
}

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

func newRealTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

type ExamOption func(*Exam)

func WithTicker(f func(time.Duration) Ticker) ExamOption {
	return func(e *Exam) { e.newTicker = f }
}

func WithClock(now func() time.Time) ExamOption {
	return func(e *Exam) { e.now = now }
}

// WithCompletionHook registers fn to run once, outside the exam lock, when the
// exam reaches completed.
func WithCompletionHook(fn func(Session)) ExamOption {
	return func(e *Exam) { e.onComplete = fn }
}

// Exam drives one Session in real time. It owns at most one countdown, which
// is cancelled on every path out of in_progress and by Close.
type Exam struct {
	mu         sync.Mutex
	state      Session
	cancel     context.CancelFunc
	newTicker  func(time.Duration) Ticker
	now        func() time.Time
	onComplete func(Session)
}

func NewExam(candidateEmail string, opts ...ExamOption) *Exam {
	e := &Exam{
		state:     NewSession(candidateEmail),
		newTicker: newRealTicker,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load resolves the exam to ready, or to error when err is set or test is nil.
func (e *Exam) Load(test *AptitudeTest, err error) (Session, error) {
	if err != nil {
		return e.apply(LoadFailed{Err: err})
	}
	return e.apply(Loaded{Test: test})
}

func (e *Exam) Start(name string) (Session, error) {
	return e.apply(Start{Name: name, At: e.now()})
}

func (e *Exam) Answer(questionID string, value AnswerValue) (Session, error) {
	return e.apply(Answered{QuestionID: questionID, Value: value})
}

func (e *Exam) Next() (Session, error) {
	return e.apply(Advance{At: e.now()})
}

func (e *Exam) Submit() (Session, error) {
	return e.apply(Submit{At: e.now()})
}

func (e *Exam) Snapshot() Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Close stops the countdown without submitting. Progress is abandoned.
func (e *Exam) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopCountdownLocked()
}

func (e *Exam) CountdownRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cancel != nil
}

func (e *Exam) apply(ev Event) (Session, error) {
	return e.applyIf(context.Background(), ev)
}

// applyIf applies ev unless ctx, checked under the lock, is already done.
func (e *Exam) applyIf(ctx context.Context, ev Event) (Session, error) {
	e.mu.Lock()
	prev := e.state
	if ctx.Err() != nil {
		e.mu.Unlock()
		return prev, ctx.Err()
	}
	next, err := Step(prev, ev)
	if err != nil {
		e.mu.Unlock()
		return prev, err
	}
	e.state = next

	var hook func(Session)
	if prev.Status == StatusReady && next.Status == StatusInProgress {
		e.startCountdownLocked()
	}
	if prev.Status != StatusCompleted && next.Status == StatusCompleted {
		e.stopCountdownLocked()
		hook = e.onComplete
	}
	e.mu.Unlock()

	if hook != nil {
		hook(next)
	}
	return next, nil
}

func (e *Exam) startCountdownLocked() {
	e.stopCountdownLocked()
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	ticker := e.newTicker(time.Second)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C():
				s, err := e.applyIf(ctx, Tick{At: e.now()})
				if err != nil || s.Status != StatusInProgress {
					return
				}
			}
		}
	}()
}

func (e *Exam) stopCountdownLocked() {
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}
