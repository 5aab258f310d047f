package pipeline

import (
	"sort"
	"time"
)

// Merge outer-joins the given series on Time into one wide table. The first
// series seeds the accumulator; each subsequent series joins onto it. The
// result's row set is the union of all timestamps seen across variables,
// sorted ascending, and a row carries a nil cell for any variable without an
// observation at that timestamp. Joining A then B and B then A produce the
// same cells up to column order.
//
// An empty input yields a table with zero rows and no value columns.
func Merge(series []TimeSeries) MergedTable {
	var table MergedTable
	for i, s := range series {
		if i == 0 {
			table = seed(s)
			continue
		}
		table = outerJoin(table, s)
	}
	return table
}

// seed builds a one-column table from a single series.
func seed(s TimeSeries) MergedTable {
	byTime, times := collapse(s)

	rows := make([]Row, 0, len(times))
	for _, t := range times {
		rows = append(rows, Row{Time: t, Values: []*float64{byTime[t.UnixNano()]}})
	}
	sortRows(rows)

	return MergedTable{Columns: []string{s.Variable}, Rows: rows}
}

// outerJoin joins one series onto the accumulated table.
func outerJoin(table MergedTable, s TimeSeries) MergedTable {
	byTime, times := collapse(s)
	width := len(table.Columns)

	rows := make([]Row, 0, len(table.Rows)+len(times))
	leftKeys := make(map[int64]bool, len(table.Rows))

	// Rows present on the left: extend with the right side's value, nil
	// when the right side has no observation at that timestamp.
	for _, r := range table.Rows {
		key := r.Time.UnixNano()
		values := append(append(make([]*float64, 0, width+1), r.Values...), byTime[key])
		rows = append(rows, Row{Time: r.Time, Values: values})
		leftKeys[key] = true
	}

	// Rows only on the right: nil for every left column.
	for _, t := range times {
		if leftKeys[t.UnixNano()] {
			continue
		}
		values := make([]*float64, width+1)
		values[width] = byTime[t.UnixNano()]
		rows = append(rows, Row{Time: t, Values: values})
	}
	sortRows(rows)

	return MergedTable{Columns: append(append([]string{}, table.Columns...), s.Variable), Rows: rows}
}

// collapse indexes a series by timestamp, returning the index and the
// distinct timestamps in first-seen order. A duplicated timestamp keeps the
// last observation.
func collapse(s TimeSeries) (map[int64]*float64, []time.Time) {
	byTime := make(map[int64]*float64, len(s.Points))
	times := make([]time.Time, 0, len(s.Points))
	for _, p := range s.Points {
		key := p.Time.UnixNano()
		if _, ok := byTime[key]; !ok {
			times = append(times, p.Time)
		}
		byTime[key] = p.Value
	}
	return byTime, times
}

func sortRows(rows []Row) {
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Time.Before(rows[j].Time)
	})
}
