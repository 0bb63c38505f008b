// Package semantic compiles the warehouse's semantic layer: localized
// dimension views, reusable metric expressions, and the denormalized flat
// sales table the NL2SQL agent queries.
package semantic

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/grimbano/ucm-tfm-grupo-4/internal/warehouse"
	"github.com/grimbano/ucm-tfm-grupo-4/pkg/adapter"
)

// Clock supplies the current time. Injected so tests can pin the year the
// temporal baseline is computed against.
type Clock func() time.Time

// TemporalBaselineError reports that the temporal offset could not be
// derived because no fact source contains any order dates. It is fatal for
// the whole normalization pass: shifting with an undefined offset would
// NULL every date in the warehouse.
type TemporalBaselineError struct {
	Sources []string
}

func (e *TemporalBaselineError) Error() string {
	return fmt.Sprintf("cannot derive temporal baseline: fact sources %v contain no order dates", e.Sources)
}

// TemporalContext is the precomputed offset every date-shifting expression
// of one materialization pass shares. It is computed exactly once per pass
// and passed explicitly into every view builder; re-deriving it mid-pass
// could desynchronize shifted dates across views.
type TemporalContext struct {
	// YearsDifference is (current year − max order year) + 1, so the most
	// recent order always lands in the current year after shifting.
	YearsDifference int

	// MaxOrderYear is the newest order year observed across fact sources.
	MaxOrderYear int

	// CurrentYear is the calendar year the offset was computed against.
	CurrentYear int
}

// YearsDifference computes the shift applied to every date column.
func YearsDifference(currentYear, maxOrderYear int) int {
	return currentYear - maxOrderYear + 1
}

// ShiftDate applies the context's offset to a concrete date. Shifting every
// date of a row by the same amount preserves all same-row deltas.
func (tc *TemporalContext) ShiftDate(d time.Time) time.Time {
	return d.AddDate(tc.YearsDifference, 0, 0)
}

// ShiftExpr renders the dialect-specific SQL that shifts a date-valued
// expression by the context's offset.
func (tc *TemporalContext) ShiftExpr(d *adapter.Dialect, expr string) string {
	return d.ShiftYears(expr, tc.YearsDifference)
}

// ComputeTemporalContext scans the union of order dates across all fact
// sources and fixes the offset for the rest of the pass.
func ComputeTemporalContext(ctx context.Context, db adapter.Adapter, clock Clock, sources []string) (*TemporalContext, error) {
	if clock == nil {
		clock = time.Now
	}
	if len(sources) == 0 {
		return nil, &TemporalBaselineError{Sources: sources}
	}

	scans := make([]string, 0, len(sources))
	for _, source := range sources {
		scans = append(scans, fmt.Sprintf(
			"SELECT CAST(EXTRACT(YEAR FROM %s) AS INTEGER) AS order_year FROM %s",
			warehouse.OrderDateColumn, source,
		))
	}
	query := fmt.Sprintf(
		"SELECT MAX(order_year) FROM (%s) AS order_years",
		strings.Join(scans, " UNION ALL "),
	)

	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to scan fact order dates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var maxYear sql.NullInt64
	if rows.Next() {
		if err := rows.Scan(&maxYear); err != nil {
			return nil, fmt.Errorf("failed to scan max order year: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading max order year: %w", err)
	}

	if !maxYear.Valid {
		return nil, &TemporalBaselineError{Sources: sources}
	}

	currentYear := clock().Year()
	return &TemporalContext{
		YearsDifference: YearsDifference(currentYear, int(maxYear.Int64)),
		MaxOrderYear:    int(maxYear.Int64),
		CurrentYear:     currentYear,
	}, nil
}
