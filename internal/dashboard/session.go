package dashboard

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/roaringfork/irondash/internal/feedback"
	"github.com/roaringfork/irondash/internal/observability"
	"github.com/roaringfork/irondash/internal/pipeline"
)

// defaultSessionTTL is how long an idle session is kept before expiry.
const defaultSessionTTL = 30 * time.Minute

// Session ties together one user's parameter store, pipeline engine, and
// feedback submitter. Fetched data is never shared across sessions; each
// engine memoizes only its own current parameter set.
type Session struct {
	ID        string
	Params    *ParameterStore
	Engine    *pipeline.Engine
	Feedback  *feedback.Submitter
	touchedAt time.Time
}

// RegistryConfig holds configuration for the session registry.
type RegistryConfig struct {
	// Builder is shared by all sessions (pure, stateless).
	Builder *pipeline.Builder

	// Fetcher is shared by all sessions.
	Fetcher pipeline.Fetcher

	// NewIssueCreator builds the tracker client a session's submitter uses.
	IssueCreator feedback.IssueCreator

	// Logger for registry and per-session components.
	Logger zerolog.Logger

	// Metrics (optional).
	Metrics *observability.Metrics

	// TTL is the idle lifetime of a session (optional, default 30m).
	TTL time.Duration

	// Clock is the time source (optional, real clock by default).
	Clock clockwork.Clock
}

// Registry creates sessions on demand and expires idle ones.
type Registry struct {
	builder      *pipeline.Builder
	fetcher      pipeline.Fetcher
	issueCreator feedback.IssueCreator
	logger       zerolog.Logger
	metrics      *observability.Metrics
	ttl          time.Duration
	clock        clockwork.Clock

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates a session registry.
func NewRegistry(cfg RegistryConfig) *Registry {
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = defaultSessionTTL
	}

	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Registry{
		builder:      cfg.Builder,
		fetcher:      cfg.Fetcher,
		issueCreator: cfg.IssueCreator,
		logger:       cfg.Logger,
		metrics:      cfg.Metrics,
		ttl:          ttl,
		clock:        clock,
		sessions:     make(map[string]*Session),
	}
}

// Get returns the session with the given id, creating a fresh one when the
// id is unknown, empty, or expired. The returned session's id is
// authoritative: callers echo it back to the client.
func (r *Registry) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	r.expireLocked(now)

	if id != "" {
		if s, ok := r.sessions[id]; ok {
			s.touchedAt = now
			return s
		}
	}

	s := r.newSessionLocked(now)
	return s
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) newSessionLocked(now time.Time) *Session {
	s := &Session{
		ID:     "sess_" + uuid.New().String()[:22],
		Params: NewParameterStore(),
		Engine: pipeline.NewEngine(pipeline.EngineConfig{
			Builder: r.builder,
			Fetcher: r.fetcher,
			Logger:  r.logger,
			Metrics: r.metrics,
		}),
		Feedback: feedback.NewSubmitter(feedback.SubmitterConfig{
			Creator: r.issueCreator,
			Logger:  r.logger,
			Metrics: r.metrics,
			Clock:   r.clock,
		}),
		touchedAt: now,
	}
	r.sessions[s.ID] = s

	if r.metrics != nil {
		r.metrics.ActiveSessions.Set(float64(len(r.sessions)))
	}
	r.logger.Debug().Str("session_id", s.ID).Msg("session created")
	return s
}

// expireLocked drops sessions idle past the TTL.
func (r *Registry) expireLocked(now time.Time) {
	expired := 0
	for id, s := range r.sessions {
		if now.Sub(s.touchedAt) > r.ttl {
			delete(r.sessions, id)
			expired++
		}
	}

	if expired > 0 {
		if r.metrics != nil {
			r.metrics.ActiveSessions.Set(float64(len(r.sessions)))
		}
		r.logger.Debug().Int("expired", expired).Msg("expired idle sessions")
	}
}
