package semantic

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RatiosGuardDivisors(t *testing.T) {
	ratios := map[string]string{
		"avg_unit_price":        "SUM(order_quantity)",
		"gross_margin_pct":      "SUM(sales_amount)",
		"avg_order_value":       "COUNT(DISTINCT sales_order_number)",
		"avg_discount_rate_pct": "SUM(extended_amount)",
	}

	for name, divisor := range ratios {
		t.Run(name, func(t *testing.T) {
			m, ok := MetricByName(name)
			require.True(t, ok)
			assert.Contains(t, m.Expression, "NULLIF("+divisor+", 0)")
		})
	}
}

func TestMetrics_Expressions(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"net_sales", "SUM(sales_amount)"},
		{"units_sold", "SUM(order_quantity)"},
		{"cogs", "SUM(total_product_cost)"},
		{"gross_margin", "SUM(sales_amount - total_product_cost)"},
		{"gross_margin_pct", "SUM(sales_amount - total_product_cost) / NULLIF(SUM(sales_amount), 0) * 100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := MetricByName(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.want, m.Expression)
		})
	}
}

func TestMetricByName_Unknown(t *testing.T) {
	_, ok := MetricByName("no_such_metric")
	assert.False(t, ok)
}

func TestMetrics_UniqueNames(t *testing.T) {
	seen := make(map[string]bool)
	for _, m := range Metrics() {
		assert.False(t, seen[m.Name], "duplicate metric %s", m.Name)
		assert.NotEmpty(t, m.Description)
		seen[m.Name] = true
	}
	assert.Len(t, seen, 8)
}

func TestEvaluateMetric(t *testing.T) {
	db, mock := newStubAdapter(t)

	m, ok := MetricByName("gross_margin_pct")
	require.True(t, ok)

	mock.ExpectQuery(`SELECT SUM\(sales_amount - total_product_cost\)`).
		WillReturnRows(sqlmock.NewRows([]string{"v"}).AddRow("60.0"))

	got, err := EvaluateMetric(context.Background(), db, m, "semantic.sales_flat", "")
	require.NoError(t, err)
	require.True(t, got.Valid)
	assert.True(t, got.Decimal.Equal(decimal.RequireFromString("60.0")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEvaluateMetric_NullFromGuardedDivision(t *testing.T) {
	db, mock := newStubAdapter(t)

	m, ok := MetricByName("avg_unit_price")
	require.True(t, ok)

	mock.ExpectQuery(`SELECT SUM\(sales_amount\)`).
		WillReturnRows(sqlmock.NewRows([]string{"v"}).AddRow(nil))

	got, err := EvaluateMetric(context.Background(), db, m, "semantic.sales_flat", "")
	require.NoError(t, err)
	assert.False(t, got.Valid)
}

func TestEvaluateMetric_AppendsWhere(t *testing.T) {
	db, mock := newStubAdapter(t)

	m, ok := MetricByName("net_sales")
	require.True(t, ok)

	mock.ExpectQuery(`WHERE sale_source = 'internet_sales'`).
		WillReturnRows(sqlmock.NewRows([]string{"v"}).AddRow("100"))

	_, err := EvaluateMetric(context.Background(), db, m, "semantic.sales_flat", "sale_source = 'internet_sales'")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSafeDivide(t *testing.T) {
	assert.Equal(t, "a / NULLIF(b, 0)", safeDivide("a", "b"))
}
