package aptitude

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func (m *manualTicker) C() <-chan time.Time { return m.ch }
func (m *manualTicker) Stop()               { m.stopped.Store(true) }

type tickerFactory struct {
	made atomic.Int32
	last atomic.Pointer[manualTicker]
}

func (f *tickerFactory) New(time.Duration) Ticker {
	m := &manualTicker{ch: make(chan time.Time)}
	f.made.Add(1)
	f.last.Store(m)
	return m
}

func newTestExam(t *testing.T, completions *atomic.Int32) (*Exam, *tickerFactory) {
	t.Helper()
	f := &tickerFactory{}
	e := NewExam("jane@example.com",
		WithTicker(f.New),
		WithCompletionHook(func(Session) { completions.Add(1) }),
	)
	_, err := e.Load(sampleTest(), nil)
	require.NoError(t, err)
	return e, f
}

func TestExam_CountdownStartsOnlyWhenStarted(t *testing.T) {
	var completions atomic.Int32
	e, f := newTestExam(t, &completions)

	assert.False(t, e.CountdownRunning())
	assert.Equal(t, int32(0), f.made.Load())

	_, err := e.Start("")
	assert.ErrorIs(t, err, ErrCandidateNameRequired)
	assert.False(t, e.CountdownRunning())

	_, err = e.Start("Jane")
	require.NoError(t, err)
	assert.True(t, e.CountdownRunning())
	assert.Equal(t, int32(1), f.made.Load())
}

func TestExam_TimeoutSubmitsExactlyOnce(t *testing.T) {
	var completions atomic.Int32
	e, f := newTestExam(t, &completions)
	_, err := e.Start("Jane")
	require.NoError(t, err)
	ticker := f.last.Load()

	for i := 0; i < 60; i++ {
		ticker.ch <- time.Now()
	}

	require.Eventually(t, func() bool {
		return e.Snapshot().Status == StatusCompleted
	}, time.Second, 5*time.Millisecond)

	s := e.Snapshot()
	assert.Equal(t, SubmitTimeout, s.SubmitReason)
	assert.Equal(t, 0, s.TimeRemaining)
	assert.False(t, e.CountdownRunning())
	require.Eventually(t, ticker.stopped.Load, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), completions.Load())

	_, err = e.Submit()
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
	assert.Equal(t, int32(1), completions.Load())
}

func TestExam_ManualSubmitStopsCountdown(t *testing.T) {
	var completions atomic.Int32
	e, f := newTestExam(t, &completions)
	_, err := e.Start("Jane")
	require.NoError(t, err)
	ticker := f.last.Load()

	ticker.ch <- time.Now()
	require.Eventually(t, func() bool { return e.Snapshot().TimeRemaining == 59 }, time.Second, 5*time.Millisecond)

	_, err = e.Answer("q1", ChoiceAnswer(0))
	require.NoError(t, err)
	s, err := e.Submit()
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, s.Status)
	assert.Equal(t, SubmitManual, s.SubmitReason)
	assert.False(t, e.CountdownRunning())
	require.Eventually(t, ticker.stopped.Load, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), completions.Load())
}

func TestExam_NextWalksForwardThenSubmits(t *testing.T) {
	var completions atomic.Int32
	e, _ := newTestExam(t, &completions)
	_, err := e.Start("Jane")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		s, err := e.Next()
		require.NoError(t, err)
		assert.Equal(t, i+1, s.CurrentIndex)
	}
	s, err := e.Next()
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, s.Status)
	assert.Equal(t, 2, s.CurrentIndex)
	assert.Equal(t, int32(1), completions.Load())
}

func TestExam_CloseAbandonsWithoutSubmitting(t *testing.T) {
	var completions atomic.Int32
	e, f := newTestExam(t, &completions)
	_, err := e.Start("Jane")
	require.NoError(t, err)

	e.Close()
	assert.False(t, e.CountdownRunning())
	require.Eventually(t, f.last.Load().stopped.Load, time.Second, 5*time.Millisecond)
	assert.Equal(t, StatusInProgress, e.Snapshot().Status)
	assert.Equal(t, int32(0), completions.Load())
}

func TestExam_LoadError(t *testing.T) {
	e := NewExam("jane@example.com")
	s, err := e.Load(nil, errors.New("not found"))
	require.NoError(t, err)
	assert.Equal(t, StatusError, s.Status)
	assert.Equal(t, "not found", s.Error)
}
