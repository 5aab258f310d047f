package pipeline

// SelectAxes chooses the axis assignment for the chart from the merged
// table's value columns, in order. The policy depends only on the count:
// no columns means nothing to plot, one column takes the single primary
// axis, and with two or more the first two share the time axis on
// independent vertical axes while the rest are ignored for the chart.
func SelectAxes(columns []string) AxisPlan {
	switch len(columns) {
	case 0:
		return AxisPlan{}
	case 1:
		return AxisPlan{Primary: columns[0]}
	default:
		plan := AxisPlan{Primary: columns[0], Secondary: columns[1]}
		if len(columns) > 2 {
			plan.Ignored = append([]string{}, columns[2:]...)
		}
		return plan
	}
}
