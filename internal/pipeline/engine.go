package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/roaringfork/irondash/internal/fault"
	"github.com/roaringfork/irondash/internal/observability"
)

// EngineConfig holds the collaborators for an Engine.
type EngineConfig struct {
	// Builder validates parameters into request descriptors.
	Builder *Builder

	// Fetcher is the network boundary.
	Fetcher Fetcher

	// Logger for engine operations.
	Logger zerolog.Logger

	// Metrics records recomputation and fetch activity (optional).
	Metrics *observability.Metrics
}

// Engine is the pipeline's reactive substrate. Each stage's result is
// memoized against the dependency values it was computed from and is only
// recomputed when those values change, so unrelated parameter sequences do
// not trigger redundant network calls. Evaluation is lazy and pull-based:
// nothing recomputes until a caller asks for a result.
//
// One computation runs at a time per engine. An in-flight fetch is never
// cancelled when parameters change again; the newer pull waits for the old
// computation to return and then recomputes.
type Engine struct {
	builder *Builder
	fetcher Fetcher
	logger  zerolog.Logger
	metrics *observability.Metrics

	mu sync.Mutex

	// request cell: descriptor (or validation failure) per snapshot.
	reqValid bool
	reqFor   Parameters
	reqDesc  RequestDescriptor
	reqErr   error

	// fetch cell: raw document (or fetch failure) per descriptor.
	fetchValid bool
	fetchFor   RequestDescriptor
	fetchDoc   RawDocument
	fetchErr   error
	fetchGen   uint64

	// table cell: normalized+merged result per (fetch generation, vars).
	tableValid bool
	tableGen   uint64
	tableVars  []string
	tableOut   Computation
}

// NewEngine creates an engine around the given builder and fetcher.
func NewEngine(cfg EngineConfig) *Engine {
	return &Engine{
		builder: cfg.Builder,
		fetcher: cfg.Fetcher,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}
}

// Evaluate pulls a full computation for the given parameter snapshot,
// recomputing only the stages whose declared inputs changed since the last
// pull. A failure at any stage short-circuits the downstream stages; the
// returned Computation then carries only the error.
func (e *Engine) Evaluate(ctx context.Context, p Parameters) Computation {
	e.mu.Lock()
	defer e.mu.Unlock()

	desc, err := e.request(p)
	if err != nil {
		return Computation{Err: err}
	}

	doc, err := e.fetch(ctx, desc)
	if err != nil {
		return Computation{Err: err}
	}

	return e.table(doc, effectiveVariables(p.Variables))
}

// request resolves the request stage, reusing the memoized descriptor when
// the snapshot is unchanged.
func (e *Engine) request(p Parameters) (RequestDescriptor, error) {
	if e.reqValid && e.reqFor.Equal(p) {
		e.hit("request")
		return e.reqDesc, e.reqErr
	}

	e.recompute("request")
	e.reqDesc, e.reqErr = e.builder.Build(p)
	e.reqFor = p
	e.reqValid = true

	if e.reqErr != nil {
		e.logger.Debug().Err(e.reqErr).Msg("request validation failed")
	}
	return e.reqDesc, e.reqErr
}

// fetch resolves the fetch stage, reusing the memoized document when the
// descriptor is unchanged. Fetch failures are memoized like results: the
// same descriptor yields the same failure without another network call
// until the parameters change.
func (e *Engine) fetch(ctx context.Context, desc RequestDescriptor) (RawDocument, error) {
	if e.fetchValid && e.fetchFor == desc {
		e.hit("fetch")
		return e.fetchDoc, e.fetchErr
	}

	e.recompute("fetch")
	start := time.Now()
	doc, err := e.fetcher.FetchTimeseries(ctx, desc)
	elapsed := time.Since(start)

	if e.metrics != nil {
		e.metrics.FetchDuration.Observe(elapsed.Seconds())
		if err != nil {
			e.metrics.FetchErrors.Inc()
		}
	}

	if err != nil {
		e.logger.Warn().Err(err).Str("station", desc.Station).Dur("elapsed", elapsed).Msg("timeseries fetch failed")
	} else {
		e.logger.Debug().Str("station", desc.Station).Str("vars", desc.Vars).Dur("elapsed", elapsed).Msg("timeseries fetched")
	}

	e.fetchFor = desc
	e.fetchDoc = doc
	e.fetchErr = err
	e.fetchValid = true
	e.fetchGen++

	return doc, err
}

// table resolves the normalize+merge+plan stages against the current fetch
// generation and variable list.
func (e *Engine) table(doc RawDocument, vars []string) Computation {
	if e.tableValid && e.tableGen == e.fetchGen && equalStrings(e.tableVars, vars) {
		e.hit("table")
		return e.tableOut
	}

	e.recompute("table")
	out := compute(doc, vars)

	e.tableGen = e.fetchGen
	e.tableVars = append([]string{}, vars...)
	e.tableOut = out
	e.tableValid = true

	return out
}

// compute runs the pure stages: normalize, merge, select axes. A requested
// variable absent from the response aborts the whole computation rather
// than rendering the remaining variables.
func compute(doc RawDocument, vars []string) Computation {
	series, missing, err := Normalize(doc, vars)
	if err != nil {
		return Computation{Err: err}
	}
	if len(missing) > 0 {
		return Computation{Err: &fault.MissingVariables{Variables: missing}}
	}

	table := Merge(series)
	return Computation{Table: table, Plan: SelectAxes(table.Columns)}
}

func (e *Engine) hit(stage string) {
	if e.metrics != nil {
		e.metrics.MemoHits.WithLabelValues(stage).Inc()
	}
}

func (e *Engine) recompute(stage string) {
	if e.metrics != nil {
		e.metrics.StageRecomputes.WithLabelValues(stage).Inc()
	}
}

// effectiveVariables applies the empty-selection default, mirroring the
// variable string the request carries.
func effectiveVariables(vars []string) []string {
	if len(vars) == 0 {
		return []string{DefaultVariable}
	}
	return vars
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
