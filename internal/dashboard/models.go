package dashboard

import (
	"time"

	"github.com/roaringfork/irondash/internal/pipeline"
)

// diagnosticColumn is the single column of the table rendered when a
// computation fails.
const diagnosticColumn = "Error"

// TableView is the merged table in renderable form. On a failed computation
// it degrades to a single-row diagnostic carrying the human-readable
// reason; it never mixes stale values with new ones.
type TableView struct {
	Columns []string   `json:"columns"`
	Rows    []TableRow `json:"rows"`

	// Diagnostic is set when the view is an error rendering.
	Diagnostic string `json:"diagnostic,omitempty"`
}

// TableRow is one record: the timestamp plus one cell per value column,
// null where the variable had no observation.
type TableRow struct {
	Time   time.Time  `json:"time"`
	Values []*float64 `json:"values"`
}

// ChartView is the axis plan plus the per-axis series data needed to draw
// the chart. On a failed computation the series are empty and Message
// carries the reason.
type ChartView struct {
	Plan      pipeline.AxisPlan `json:"plan"`
	Times     []time.Time       `json:"times"`
	Primary   []*float64        `json:"primary,omitempty"`
	Secondary []*float64        `json:"secondary,omitempty"`

	Message string `json:"message,omitempty"`
}

// diagnosticTable renders the single-row error table.
func diagnosticTable(reason string) TableView {
	return TableView{
		Columns:    []string{diagnosticColumn},
		Rows:       nil,
		Diagnostic: reason,
	}
}

// tableView renders a successful computation.
func tableView(t pipeline.MergedTable) TableView {
	rows := make([]TableRow, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = TableRow{Time: r.Time, Values: r.Values}
	}
	return TableView{Columns: append([]string{"Time"}, t.Columns...), Rows: rows}
}

// chartView projects the plotted columns out of the merged table.
func chartView(c pipeline.Computation) ChartView {
	view := ChartView{Plan: c.Plan}
	if c.Plan.Empty() {
		view.Message = "No variables selected"
		return view
	}

	view.Times = make([]time.Time, len(c.Table.Rows))
	for i, r := range c.Table.Rows {
		view.Times[i] = r.Time
	}

	view.Primary = column(c.Table, c.Plan.Primary)
	if c.Plan.Secondary != "" {
		view.Secondary = column(c.Table, c.Plan.Secondary)
	}
	return view
}

func column(t pipeline.MergedTable, name string) []*float64 {
	idx := -1
	for i, col := range t.Columns {
		if col == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	values := make([]*float64, len(t.Rows))
	for i, r := range t.Rows {
		values[i] = r.Values[idx]
	}
	return values
}
