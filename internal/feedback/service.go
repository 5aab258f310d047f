package feedback

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/roaringfork/irondash/internal/fault"
	"github.com/roaringfork/irondash/internal/observability"
)

// ErrBusy is returned when a submission is attempted while another is in
// flight. The disabled-control rule is enforced here structurally, not with
// a UI-side lock.
var ErrBusy = errors.New("a feedback submission is already in flight")

// Status messages shown to the user.
const (
	msgEmpty     = "Feedback is empty. Please type something first."
	msgSucceeded = "Thank you! Your feedback has been submitted."
)

// SubmitterConfig holds configuration for the submitter.
type SubmitterConfig struct {
	// Creator files the issue against the tracker (required).
	Creator IssueCreator

	// Logger for submitter operations.
	Logger zerolog.Logger

	// Metrics records submission outcomes (optional).
	Metrics *observability.Metrics

	// Clock is the time source (optional, real clock by default).
	Clock clockwork.Clock
}

// Submitter drives feedback submissions through the state machine
// Idle -> {Empty | Submitting -> Succeeded | Failed}. One submission runs
// at a time; every terminal state accepts a new Submit. Reaching any
// terminal state re-enables the control, including when the remote call
// fails in an unanticipated way.
type Submitter struct {
	creator IssueCreator
	logger  zerolog.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock

	mu    sync.Mutex
	state Submission
}

// NewSubmitter creates a feedback submitter.
func NewSubmitter(cfg SubmitterConfig) *Submitter {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Submitter{
		creator: cfg.Creator,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
		clock:   clock,
		state:   Submission{Status: StatusIdle},
	}
}

// Submit runs one submission attempt. Whitespace-only text transitions to
// Empty without any network call. Otherwise the submitter enters Submitting,
// files exactly one issue, and lands in Succeeded on 201 or Failed on any
// error. Returns ErrBusy when called while a submission is in flight; an
// empty submit during an in-flight one is rejected the same way and leaves
// the Submitting state untouched.
func (s *Submitter) Submit(ctx context.Context, text string) (sub Submission, err error) {
	if strings.TrimSpace(text) == "" {
		sub, err := s.emptyAttempt()
		if err != nil {
			return sub, err
		}
		s.count("empty")
		return sub, nil
	}

	if err := s.begin(); err != nil {
		return s.Current(), err
	}

	// Whatever happens during the remote call, the control ends up in a
	// terminal state and is re-enabled. The deferred transition also stamps
	// UpdatedAt, so the caller sees the same state Current() reports.
	outcome := Submission{Status: StatusFailed, Message: "Error: submission aborted"}
	defer func() { sub = s.transition(outcome) }()

	if cerr := s.creator.CreateIssue(ctx, Issue{Title: IssueTitle, Body: text}); cerr != nil {
		outcome = Submission{Status: StatusFailed, Message: failureMessage(cerr)}
		s.count("failed")
		s.logger.Warn().Err(cerr).Msg("feedback submission failed")
		return sub, nil
	}

	outcome = Submission{Status: StatusSucceeded, Message: msgSucceeded}
	s.count("succeeded")
	s.logger.Info().Msg("feedback submitted")
	return sub, nil
}

// Current returns the control's current state.
func (s *Submitter) Current() Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Busy reports whether a submission is in flight, i.e. whether the submit
// control is disabled.
func (s *Submitter) Busy() bool {
	return s.Current().Status == StatusSubmitting
}

// emptyAttempt records the Empty outcome. Like begin, it rejects the
// attempt while a submission is in flight, so an empty submit can never
// overwrite Submitting and drop the mutual-exclusion guard.
func (s *Submitter) emptyAttempt() (Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Status.Terminal() {
		return s.state, ErrBusy
	}
	s.state = Submission{Status: StatusEmpty, Message: msgEmpty, UpdatedAt: s.clock.Now()}
	return s.state, nil
}

// begin moves Idle/terminal -> Submitting, rejecting concurrent attempts.
func (s *Submitter) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Status.Terminal() {
		return ErrBusy
	}
	s.state = Submission{Status: StatusSubmitting, UpdatedAt: s.clock.Now()}
	return nil
}

func (s *Submitter) transition(next Submission) Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	next.UpdatedAt = s.clock.Now()
	s.state = next
	return next
}

func (s *Submitter) count(outcome string) {
	if s.metrics != nil {
		s.metrics.FeedbackSubmissions.WithLabelValues(outcome).Inc()
	}
}

// failureMessage renders the user-facing reason, keeping the status code
// and body for tracker rejections.
func failureMessage(err error) string {
	var status *fault.HTTPStatus
	if errors.As(err, &status) {
		return fmt.Sprintf("Error creating issue: %d\n%s", status.StatusCode, status.Body)
	}
	return fmt.Sprintf("Error: %v", err)
}
