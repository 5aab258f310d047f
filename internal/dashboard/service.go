package dashboard

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/roaringfork/irondash/internal/feedback"
)

// ServiceConfig holds configuration for the dashboard service.
type ServiceConfig struct {
	Registry *Registry
	Logger   zerolog.Logger
}

// Service exposes the dashboard operations against a session: update the
// selection, pull the chart or table (lazily recomputing through the
// session's engine), and drive the feedback control.
type Service struct {
	registry *Registry
	logger   zerolog.Logger
}

// NewService creates a dashboard service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{registry: cfg.Registry, logger: cfg.Logger}
}

// Session resolves (or creates) the session for the given id.
func (s *Service) Session(id string) *Session {
	return s.registry.Get(id)
}

// UpdateParams replaces the session's selection. Nothing recomputes here;
// derived values are pulled lazily by Chart and Table.
func (s *Service) UpdateParams(sess *Session, station string, vars []string, start, end time.Time) {
	sess.Params.SetStation(station)
	sess.Params.SetVariables(vars...)
	sess.Params.SetRange(start, end)
}

// Table pulls the merged table for the session's current selection. Any
// pipeline failure renders the single-row diagnostic table instead; stale
// data is never mixed in.
func (s *Service) Table(ctx context.Context, sess *Session) TableView {
	c := sess.Engine.Evaluate(ctx, sess.Params.Snapshot())
	if c.Err != nil {
		return diagnosticTable(c.Err.Error())
	}
	return tableView(c.Table)
}

// Chart pulls the axis plan and plotted series for the session's current
// selection. Failures yield an empty chart carrying the reason.
func (s *Service) Chart(ctx context.Context, sess *Session) ChartView {
	c := sess.Engine.Evaluate(ctx, sess.Params.Snapshot())
	if c.Err != nil {
		return ChartView{Message: c.Err.Error()}
	}
	return chartView(c)
}

// SubmitFeedback runs one submission attempt on the session's control.
func (s *Service) SubmitFeedback(ctx context.Context, sess *Session, text string) (feedback.Submission, error) {
	return sess.Feedback.Submit(ctx, text)
}

// FeedbackStatus returns the control's current state.
func (s *Service) FeedbackStatus(sess *Session) feedback.Submission {
	return sess.Feedback.Current()
}
