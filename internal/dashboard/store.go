// Package dashboard is the session/UI layer: it owns the parameter store,
// wires one pipeline engine and one feedback submitter per session, and
// turns pipeline computations into renderable view models.
package dashboard

import (
	"sync"
	"time"

	"github.com/roaringfork/irondash/internal/pipeline"
)

// ParameterStore is the single source of truth for the user's selection. It
// holds values unchanged and performs no validation; the request builder
// applies the rules. The variables input is canonicalized into one ordered
// string sequence at this boundary, so nothing downstream branches on input
// shape.
type ParameterStore struct {
	mu     sync.Mutex
	params pipeline.Parameters
}

// NewParameterStore creates an empty store.
func NewParameterStore() *ParameterStore {
	return &ParameterStore{}
}

// Snapshot returns a copy of the current parameters.
func (s *ParameterStore) Snapshot() pipeline.Parameters {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.params
	p.Variables = append([]string{}, s.params.Variables...)
	return p
}

// SetStation replaces the selected station.
func (s *ParameterStore) SetStation(station string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params.Station = station
}

// SetVariables replaces the selection with the given variables, preserving
// order. A single value and a list are the same thing here; duplicates are
// kept (the selection widget is expected to prevent them).
func (s *ParameterStore) SetVariables(vars ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params.Variables = append([]string{}, vars...)
}

// SetRange replaces the date range. Zero values stand for "not set".
func (s *ParameterStore) SetRange(start, end time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params.Start = start
	s.params.End = end
}
