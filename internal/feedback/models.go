// Package feedback implements the feedback submission flow: a small state
// machine around a remote issue-creation call. It is independent of the
// observation pipeline and of the selected parameters.
package feedback

import (
	"context"
	"time"
)

// IssueTitle is the fixed title every feedback issue is filed under.
const IssueTitle = "User Feedback from Dashboard"

// Status is the submission control's state.
type Status string

const (
	// StatusIdle means no submission has been attempted yet.
	StatusIdle Status = "IDLE"

	// StatusEmpty means the last attempt carried only whitespace and was
	// rejected without a network call.
	StatusEmpty Status = "EMPTY"

	// StatusSubmitting means a submission is in flight and the control is
	// disabled.
	StatusSubmitting Status = "SUBMITTING"

	// StatusSucceeded means the tracker accepted the issue (HTTP 201).
	StatusSucceeded Status = "SUCCEEDED"

	// StatusFailed means the call failed; the reason is retained.
	StatusFailed Status = "FAILED"
)

// Terminal reports whether a new submission may be started from this state.
func (s Status) Terminal() bool {
	return s != StatusSubmitting
}

// Issue is the payload filed against the tracker.
type Issue struct {
	Title string
	Body  string
}

// IssueCreator files an issue against a remote tracker. Implementations
// issue exactly one call per invocation.
type IssueCreator interface {
	CreateIssue(ctx context.Context, issue Issue) error
}

// Submission describes the current state of the feedback control.
type Submission struct {
	Status    Status
	Message   string
	UpdatedAt time.Time
}
