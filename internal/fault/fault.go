// Package fault defines the error taxonomy shared by the observation
// pipeline and the feedback submitter. Every failure a stage can produce is
// one of these types, so callers pattern-match with errors.As instead of
// probing payloads for sentinel keys.
package fault

import (
	"fmt"
	"strings"
)

// ValidationReason identifies why a parameter snapshot could not be turned
// into a request.
type ValidationReason string

const (
	MissingStation   ValidationReason = "missing_station"
	MissingDateRange ValidationReason = "missing_date_range"
	MalformedDate    ValidationReason = "malformed_date"
)

// Validation reports bad or missing parameters, detected before any network
// call is made.
type Validation struct {
	Reason ValidationReason
}

func (e *Validation) Error() string {
	switch e.Reason {
	case MissingStation:
		return "invalid parameters: station missing"
	case MissingDateRange:
		return "invalid parameters: date range missing"
	case MalformedDate:
		return "invalid parameters: date could not be formatted"
	default:
		return "invalid parameters"
	}
}

// Network reports a transport-level failure (DNS, connection reset, timeout).
type Network struct {
	Err error
}

func (e *Network) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *Network) Unwrap() error {
	return e.Err
}

// HTTPStatus reports a non-success response from a remote API. The status
// code and response body are retained for diagnostics.
type HTTPStatus struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatus) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// UnexpectedShape reports a response that decoded as JSON but lacks the
// fields the pipeline contractually consumes.
type UnexpectedShape struct {
	Detail string
}

func (e *UnexpectedShape) Error() string {
	return "unexpected response shape: " + e.Detail
}

// MissingVariables reports requested variables absent from an otherwise
// well-formed response. Per the rendering policy, any missing variable
// aborts the whole computation rather than degrading to a partial table.
type MissingVariables struct {
	Variables []string
}

func (e *MissingVariables) Error() string {
	return fmt.Sprintf("variable '%s' not found in API response", strings.Join(e.Variables, ", "))
}
