package semantic

import (
	"fmt"

	"github.com/grimbano/ucm-tfm-grupo-4/pkg/adapter"
)

// Current-period filters are evaluated against the real current date on the
// shifted data: the temporal offset is chosen so the newest order lands in
// the current year, which is what makes these predicates non-empty.

// CurrentYearFilter keeps rows whose date falls in the current year.
func CurrentYearFilter(d *adapter.Dialect, col string) string {
	return fmt.Sprintf("EXTRACT(YEAR FROM %s) = EXTRACT(YEAR FROM %s)", col, d.CurrentDate)
}

// LastYearFilter keeps rows whose date falls in the previous year.
func LastYearFilter(d *adapter.Dialect, col string) string {
	return fmt.Sprintf("EXTRACT(YEAR FROM %s) = EXTRACT(YEAR FROM %s) - 1", col, d.CurrentDate)
}

// YearToDateFilter keeps rows from the start of the current year up to
// today inclusive.
func YearToDateFilter(d *adapter.Dialect, col string) string {
	return fmt.Sprintf("%s AND %s <= %s", CurrentYearFilter(d, col), col, d.CurrentDate)
}

// CurrentQuarterFilter keeps rows in the current calendar quarter.
func CurrentQuarterFilter(d *adapter.Dialect, col string) string {
	return fmt.Sprintf("%s AND EXTRACT(QUARTER FROM %s) = EXTRACT(QUARTER FROM %s)",
		CurrentYearFilter(d, col), col, d.CurrentDate)
}

// CurrentSemesterFilter keeps rows in the current half-year.
func CurrentSemesterFilter(d *adapter.Dialect, col string) string {
	return fmt.Sprintf("%s AND FLOOR((EXTRACT(QUARTER FROM %s) - 1) / 2) = FLOOR((EXTRACT(QUARTER FROM %s) - 1) / 2)",
		CurrentYearFilter(d, col), col, d.CurrentDate)
}
