// Package pipeline implements the reactive observation pipeline: parameter
// validation, remote fetch, normalization into per-variable time series,
// outer-join merging, and axis selection for the chart. Stages are pure
// functions; the Engine memoizes them against their declared inputs.
package pipeline

import (
	"context"
	"encoding/json"
	"net/url"
	"time"
)

// DefaultVariable is substituted when the caller selects no variables.
const DefaultVariable = "air_temp"

// Parameters is a snapshot of the user's selection: one station, an ordered
// variable list and an inclusive date range. The store supplies it
// unvalidated; Builder.Build applies the validation rules.
type Parameters struct {
	Station   string
	Variables []string
	Start     time.Time
	End       time.Time
}

// Equal reports whether two snapshots would produce the same request.
func (p Parameters) Equal(o Parameters) bool {
	if p.Station != o.Station || !p.Start.Equal(o.Start) || !p.End.Equal(o.End) {
		return false
	}
	if len(p.Variables) != len(o.Variables) {
		return false
	}
	for i, v := range p.Variables {
		if o.Variables[i] != v {
			return false
		}
	}
	return true
}

// RequestDescriptor is an immutable, comparable description of one
// timeseries request: base URL plus the ordered query fields.
type RequestDescriptor struct {
	BaseURL string
	Station string
	Start   string // YYYYMMDDhhmm
	End     string // YYYYMMDDhhmm
	Vars    string // comma-separated, order preserved
	Token   string
}

// URL renders the descriptor as the full request URL. All query values are
// escaped; the token in particular is operator-supplied and may carry
// reserved characters.
func (d RequestDescriptor) URL() string {
	q := url.Values{}
	q.Set("stid", d.Station)
	q.Set("start", d.Start)
	q.Set("end", d.End)
	q.Set("vars", d.Vars)
	q.Set("token", d.Token)
	return d.BaseURL + "?" + q.Encode()
}

// RawDocument is the parsed JSON body of a timeseries response. The fetcher
// guarantees only that JSON decoding succeeded; the contracted shape of the
// STATION field is the Normalizer's concern.
type RawDocument map[string]json.RawMessage

// Fetcher is the pipeline's single network boundary. Implementations issue
// exactly one GET per invocation with a fixed timeout and never retry.
type Fetcher interface {
	FetchTimeseries(ctx context.Context, desc RequestDescriptor) (RawDocument, error)
}

// Point is one observation: a timestamp and a value that may be missing.
// A zero Time marks a source timestamp that failed to parse.
type Point struct {
	Time  time.Time
	Value *float64
}

// TimeSeries holds the observations for one variable, in the order the API
// returned them (not re-sorted).
type TimeSeries struct {
	Variable string
	Points   []Point
}

// Row is one merged record: a timestamp plus one cell per table column,
// aligned with MergedTable.Columns. A nil cell means the variable had no
// observation at that timestamp.
type Row struct {
	Time   time.Time
	Values []*float64
}

// MergedTable is the wide, time-indexed table produced by outer-joining the
// per-variable series. Rows are sorted ascending by Time.
type MergedTable struct {
	Columns []string
	Rows    []Row
}

// AxisPlan maps table columns to chart axes. Chosen purely from the column
// count: zero columns plot nothing, one plots a single axis, two or more
// plot the first two dual-axis and ignore the rest (the ignored variables
// stay in the table).
type AxisPlan struct {
	Primary   string
	Secondary string
	Ignored   []string
}

// Empty reports whether there is nothing to plot.
func (p AxisPlan) Empty() bool {
	return p.Primary == ""
}

// Computation is the outcome of one full pipeline evaluation. When Err is
// non-nil the table and plan are zero values; downstream rendering shows a
// diagnostic instead of partial data.
type Computation struct {
	Table MergedTable
	Plan  AxisPlan
	Err   error
}
