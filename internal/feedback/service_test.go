package feedback_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roaringfork/irondash/internal/fault"
	"github.com/roaringfork/irondash/internal/feedback"
)

// mockCreator counts calls and returns a configurable error. An optional
// gate blocks the call until released, for in-flight assertions.
type mockCreator struct {
	err       error
	callCount atomic.Int32
	lastIssue feedback.Issue
	gate      chan struct{}
}

func (m *mockCreator) CreateIssue(_ context.Context, issue feedback.Issue) error {
	m.callCount.Add(1)
	m.lastIssue = issue
	if m.gate != nil {
		<-m.gate
	}
	return m.err
}

func newSubmitter(creator feedback.IssueCreator) *feedback.Submitter {
	return feedback.NewSubmitter(feedback.SubmitterConfig{
		Creator: creator,
		Logger:  zerolog.Nop(),
		Clock:   clockwork.NewFakeClock(),
	})
}

func TestSubmitter_InitialState(t *testing.T) {
	s := newSubmitter(&mockCreator{})
	assert.Equal(t, feedback.StatusIdle, s.Current().Status)
	assert.False(t, s.Busy())
}

func TestSubmitter_Submit_Success(t *testing.T) {
	creator := &mockCreator{}
	s := newSubmitter(creator)

	sub, err := s.Submit(context.Background(), "the chart looks wrong")
	require.NoError(t, err)

	assert.Equal(t, feedback.StatusSucceeded, sub.Status)
	assert.Equal(t, "Thank you! Your feedback has been submitted.", sub.Message)
	assert.Equal(t, int32(1), creator.callCount.Load())
	assert.Equal(t, "User Feedback from Dashboard", creator.lastIssue.Title)
	assert.Equal(t, "the chart looks wrong", creator.lastIssue.Body)
	assert.False(t, s.Busy())
}

func TestSubmitter_Submit_WhitespaceOnly(t *testing.T) {
	creator := &mockCreator{}
	s := newSubmitter(creator)

	for _, text := range []string{"", "   ", "\n\t  \n"} {
		sub, err := s.Submit(context.Background(), text)
		require.NoError(t, err)
		assert.Equal(t, feedback.StatusEmpty, sub.Status)
		assert.Equal(t, "Feedback is empty. Please type something first.", sub.Message)
	}

	// Empty attempts never reach the tracker.
	assert.Equal(t, int32(0), creator.callCount.Load())
}

func TestSubmitter_Submit_HTTPFailure(t *testing.T) {
	creator := &mockCreator{err: &fault.HTTPStatus{StatusCode: 422, Body: `{"message":"Validation Failed"}`}}
	s := newSubmitter(creator)

	sub, err := s.Submit(context.Background(), "something broke")
	require.NoError(t, err)

	assert.Equal(t, feedback.StatusFailed, sub.Status)
	assert.Equal(t, "Error creating issue: 422\n{\"message\":\"Validation Failed\"}", sub.Message)
}

func TestSubmitter_Submit_TransportFailure(t *testing.T) {
	creator := &mockCreator{err: &fault.Network{Err: errors.New("connection reset")}}
	s := newSubmitter(creator)

	sub, err := s.Submit(context.Background(), "something broke")
	require.NoError(t, err)

	assert.Equal(t, feedback.StatusFailed, sub.Status)
	assert.Contains(t, sub.Message, "Error: ")
	assert.Contains(t, sub.Message, "connection reset")
}

func TestSubmitter_Submit_ReenabledAfterFailure(t *testing.T) {
	creator := &mockCreator{err: &fault.HTTPStatus{StatusCode: 500, Body: "boom"}}
	s := newSubmitter(creator)

	_, err := s.Submit(context.Background(), "first")
	require.NoError(t, err)
	require.Equal(t, feedback.StatusFailed, s.Current().Status)

	creator.err = nil
	sub, err := s.Submit(context.Background(), "second")
	require.NoError(t, err)
	assert.Equal(t, feedback.StatusSucceeded, sub.Status)
	assert.Equal(t, int32(2), creator.callCount.Load())
}

func TestSubmitter_Submit_BusyRejectsConcurrent(t *testing.T) {
	creator := &mockCreator{gate: make(chan struct{})}
	s := newSubmitter(creator)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = s.Submit(context.Background(), "slow submission")
	}()

	// Wait until the first submission is inside the remote call.
	require.Eventually(t, s.Busy, 2*time.Second, 10*time.Millisecond)

	_, err := s.Submit(context.Background(), "second submission")
	assert.ErrorIs(t, err, feedback.ErrBusy)
	assert.Equal(t, int32(1), creator.callCount.Load())

	close(creator.gate)
	wg.Wait()

	assert.Equal(t, feedback.StatusSucceeded, s.Current().Status)
	assert.False(t, s.Busy())
}

func TestSubmitter_Submit_EmptyWhileInFlightRejected(t *testing.T) {
	creator := &mockCreator{gate: make(chan struct{})}
	s := newSubmitter(creator)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = s.Submit(context.Background(), "slow submission")
	}()

	require.Eventually(t, s.Busy, 2*time.Second, 10*time.Millisecond)

	// A whitespace attempt must not overwrite Submitting; otherwise the
	// control re-enables mid-flight and a second call slips past begin.
	sub, err := s.Submit(context.Background(), "   ")
	assert.ErrorIs(t, err, feedback.ErrBusy)
	assert.Equal(t, feedback.StatusSubmitting, sub.Status)
	assert.True(t, s.Busy())

	_, err = s.Submit(context.Background(), "second concurrent")
	assert.ErrorIs(t, err, feedback.ErrBusy)
	assert.Equal(t, int32(1), creator.callCount.Load())

	close(creator.gate)
	wg.Wait()

	assert.Equal(t, feedback.StatusSucceeded, s.Current().Status)
}

func TestSubmitter_Submit_ReturnsStampedState(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := feedback.NewSubmitter(feedback.SubmitterConfig{
		Creator: &mockCreator{},
		Logger:  zerolog.Nop(),
		Clock:   clock,
	})

	sub, err := s.Submit(context.Background(), "works great")
	require.NoError(t, err)

	// The returned submission is the stored one, timestamp included.
	assert.Equal(t, clock.Now(), sub.UpdatedAt)
	assert.Equal(t, s.Current(), sub)

	sub, err = s.Submit(context.Background(), "   ")
	require.NoError(t, err)
	assert.Equal(t, clock.Now(), sub.UpdatedAt)
	assert.Equal(t, s.Current(), sub)
}

func TestStatus_Terminal(t *testing.T) {
	assert.True(t, feedback.StatusIdle.Terminal())
	assert.True(t, feedback.StatusEmpty.Terminal())
	assert.True(t, feedback.StatusSucceeded.Terminal())
	assert.True(t, feedback.StatusFailed.Terminal())
	assert.False(t, feedback.StatusSubmitting.Terminal())
}
