package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPeriodFilters(t *testing.T) {
	d := testDialect

	tests := []struct {
		name string
		got  string
		want string
	}{
		{
			name: "current year",
			got:  CurrentYearFilter(d, "order_date"),
			want: "EXTRACT(YEAR FROM order_date) = EXTRACT(YEAR FROM current_date)",
		},
		{
			name: "last year",
			got:  LastYearFilter(d, "order_date"),
			want: "EXTRACT(YEAR FROM order_date) = EXTRACT(YEAR FROM current_date) - 1",
		},
		{
			name: "year to date",
			got:  YearToDateFilter(d, "order_date"),
			want: "EXTRACT(YEAR FROM order_date) = EXTRACT(YEAR FROM current_date) AND order_date <= current_date",
		},
		{
			name: "current quarter",
			got:  CurrentQuarterFilter(d, "order_date"),
			want: "EXTRACT(YEAR FROM order_date) = EXTRACT(YEAR FROM current_date) AND EXTRACT(QUARTER FROM order_date) = EXTRACT(QUARTER FROM current_date)",
		},
		{
			name: "current semester",
			got:  CurrentSemesterFilter(d, "order_date"),
			want: "EXTRACT(YEAR FROM order_date) = EXTRACT(YEAR FROM current_date) AND FLOOR((EXTRACT(QUARTER FROM order_date) - 1) / 2) = FLOOR((EXTRACT(QUARTER FROM current_date) - 1) / 2)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}
