package semantic

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/grimbano/ucm-tfm-grupo-4/pkg/adapter"
)

// MetricDefinition is a named aggregate expression over the flat fact
// grain. The definition fixes the expression, not the aggregation boundary:
// callers group by whatever dimensions they need and apply the expression
// as-is.
type MetricDefinition struct {
	Name        string
	Description string
	// Expression is the aggregate SQL over flat fact columns. Every ratio
	// guards its divisor so a zero denominator yields NULL, never an error.
	Expression string
}

// safeDivide renders a division whose zero denominator yields NULL.
func safeDivide(numerator, denominator string) string {
	return fmt.Sprintf("%s / NULLIF(%s, 0)", numerator, denominator)
}

// Metrics returns the business measure definitions, in catalog order.
func Metrics() []MetricDefinition {
	return []MetricDefinition{
		{
			Name:        "net_sales",
			Description: "Total sales amount",
			Expression:  "SUM(sales_amount)",
		},
		{
			Name:        "units_sold",
			Description: "Total quantity ordered",
			Expression:  "SUM(order_quantity)",
		},
		{
			Name:        "avg_unit_price",
			Description: "Average effective unit price",
			Expression:  safeDivide("SUM(sales_amount)", "SUM(order_quantity)"),
		},
		{
			Name:        "cogs",
			Description: "Cost of goods sold",
			Expression:  "SUM(total_product_cost)",
		},
		{
			Name:        "gross_margin",
			Description: "Sales amount minus product cost",
			Expression:  "SUM(sales_amount - total_product_cost)",
		},
		{
			Name:        "gross_margin_pct",
			Description: "Gross margin as a percentage of sales",
			Expression:  safeDivide("SUM(sales_amount - total_product_cost)", "SUM(sales_amount)") + " * 100",
		},
		{
			Name:        "avg_order_value",
			Description: "Sales amount per distinct order",
			Expression:  safeDivide("SUM(sales_amount)", "COUNT(DISTINCT sales_order_number)"),
		},
		{
			Name:        "avg_discount_rate_pct",
			Description: "Discount amount as a percentage of extended amount",
			Expression:  safeDivide("SUM(discount_amount)", "SUM(extended_amount)") + " * 100",
		},
	}
}

// MetricByName looks up a metric definition.
func MetricByName(name string) (MetricDefinition, bool) {
	for _, m := range Metrics() {
		if m.Name == name {
			return m, true
		}
	}
	return MetricDefinition{}, false
}

// EvaluateMetric applies a metric expression over a relation at the
// caller's aggregation boundary (the whole relation when where is empty).
// Money results are scanned as exact decimals; a NULL result (guarded
// division by zero) comes back as an invalid NullDecimal.
func EvaluateMetric(ctx context.Context, db adapter.Adapter, m MetricDefinition, from, where string) (decimal.NullDecimal, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", m.Expression, from)
	if where != "" {
		query += " WHERE " + where
	}

	rows, err := db.Query(ctx, query)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("failed to evaluate metric %s: %w", m.Name, err)
	}
	defer func() { _ = rows.Close() }()

	var result decimal.NullDecimal
	if rows.Next() {
		if err := rows.Scan(&result); err != nil {
			return decimal.NullDecimal{}, fmt.Errorf("failed to scan metric %s: %w", m.Name, err)
		}
	}
	if err := rows.Err(); err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("error reading metric %s: %w", m.Name, err)
	}
	return result, nil
}
