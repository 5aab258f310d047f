package pipeline

import (
	"strings"
	"time"

	"github.com/roaringfork/irondash/internal/fault"
)

// timestampFormat is the UTC-naive layout the observation API expects.
// The stored wall-clock fields are formatted as-is, with no zone conversion.
const timestampFormat = "200601021504"

// Builder turns a Parameters snapshot into a request descriptor. It is a
// pure function of its input plus the configuration it was constructed
// with; it performs no network or state side effects.
type Builder struct {
	baseURL string
	token   string
}

// NewBuilder creates a request builder for the given API base URL and token.
func NewBuilder(baseURL, token string) *Builder {
	return &Builder{baseURL: baseURL, token: token}
}

// Build validates the snapshot and produces a descriptor. Failures are
// *fault.Validation with one of the three reasons: a blank station is
// MissingStation, a zero range endpoint is MissingDateRange, and an endpoint
// that cannot be expressed in the YYYYMMDDhhmm format (or an inverted range)
// is MalformedDate.
func (b *Builder) Build(p Parameters) (RequestDescriptor, error) {
	if p.Station == "" {
		return RequestDescriptor{}, &fault.Validation{Reason: fault.MissingStation}
	}
	if p.Start.IsZero() || p.End.IsZero() {
		return RequestDescriptor{}, &fault.Validation{Reason: fault.MissingDateRange}
	}

	start, err := formatTimestamp(p.Start)
	if err != nil {
		return RequestDescriptor{}, err
	}
	end, err := formatTimestamp(p.End)
	if err != nil {
		return RequestDescriptor{}, err
	}
	if p.Start.After(p.End) {
		return RequestDescriptor{}, &fault.Validation{Reason: fault.MalformedDate}
	}

	return RequestDescriptor{
		BaseURL: b.baseURL,
		Station: p.Station,
		Start:   start,
		End:     end,
		Vars:    FormatVariables(p.Variables),
		Token:   b.token,
	}, nil
}

// FormatVariables joins the selection into a single comma-separated string,
// preserving order. An empty selection collapses to the default variable.
func FormatVariables(vars []string) string {
	if len(vars) == 0 {
		return DefaultVariable
	}
	return strings.Join(vars, ",")
}

// formatTimestamp renders t in the API's layout. Years outside [1, 9999]
// have no fixed-width representation and are reported as MalformedDate.
func formatTimestamp(t time.Time) (string, error) {
	if y := t.Year(); y < 1 || y > 9999 {
		return "", &fault.Validation{Reason: fault.MalformedDate}
	}
	return t.Format(timestampFormat), nil
}
