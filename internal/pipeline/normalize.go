package pipeline

import (
	"encoding/json"
	"time"

	"github.com/roaringfork/irondash/internal/fault"
)

// observationSetSuffix is appended to a variable name to form its key in
// the OBSERVATIONS block.
const observationSetSuffix = "_set_1"

// stationBlock is the contractually consumed slice of a station object.
type stationBlock struct {
	Observations map[string]json.RawMessage `json:"OBSERVATIONS"`
}

// Normalize extracts the observation block from a raw document and builds
// one TimeSeries per requested variable present in the response. Requested
// variables absent from the block are returned in the missing list, in
// request order, and emit no series. The returned series preserve the
// caller's variable order filtered to present variables.
//
// The document shape is validated here, not in the fetcher: a missing,
// non-list or empty STATION field, or a first station without an
// OBSERVATIONS block, yields *fault.UnexpectedShape.
func Normalize(doc RawDocument, vars []string) ([]TimeSeries, []string, error) {
	raw, ok := doc["STATION"]
	if !ok {
		return nil, nil, &fault.UnexpectedShape{Detail: "STATION field missing"}
	}

	var stations []stationBlock
	if err := json.Unmarshal(raw, &stations); err != nil {
		return nil, nil, &fault.UnexpectedShape{Detail: "STATION is not a list"}
	}
	if len(stations) == 0 {
		return nil, nil, &fault.UnexpectedShape{Detail: "STATION list is empty"}
	}

	// Only the first station is consumed.
	obs := stations[0].Observations
	if obs == nil {
		return nil, nil, &fault.UnexpectedShape{Detail: "station has no OBSERVATIONS block"}
	}

	times := parseTimes(obs["date_time"])

	var (
		series  []TimeSeries
		missing []string
	)
	for _, v := range vars {
		raw, ok := obs[v+observationSetSuffix]
		if !ok {
			missing = append(missing, v)
			continue
		}

		var values []*float64
		if err := json.Unmarshal(raw, &values); err != nil {
			return nil, nil, &fault.UnexpectedShape{Detail: "observation set for " + v + " is not a numeric array"}
		}

		series = append(series, TimeSeries{Variable: v, Points: zip(times, values)})
	}

	return series, missing, nil
}

// parseTimes decodes the date_time array. Entries that are not valid
// ISO-8601 timestamps coerce to the zero-time marker rather than failing
// the whole normalization.
func parseTimes(raw json.RawMessage) []time.Time {
	if raw == nil {
		return nil
	}

	var stamps []string
	if err := json.Unmarshal(raw, &stamps); err != nil {
		return nil
	}

	times := make([]time.Time, len(stamps))
	for i, s := range stamps {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			continue // zero value marks the unparseable entry
		}
		times[i] = t
	}
	return times
}

// zip pairs timestamps with values index-by-index, stopping at the shorter
// array. Order is kept exactly as the API returned it.
func zip(times []time.Time, values []*float64) []Point {
	n := len(times)
	if len(values) < n {
		n = len(values)
	}

	points := make([]Point, n)
	for i := 0; i < n; i++ {
		points[i] = Point{Time: times[i], Value: values[i]}
	}
	return points
}
