package semantic

import (
	"fmt"
	"strings"

	"github.com/grimbano/ucm-tfm-grupo-4/internal/warehouse"
	"github.com/grimbano/ucm-tfm-grupo-4/pkg/adapter"
)

// BuildContext carries everything a view builder needs for one
// materialization pass. The temporal context inside it is fixed for the
// whole pass.
type BuildContext struct {
	Dialect   *adapter.Dialect
	Temporal  *TemporalContext
	Localizer *Localizer
	// Schema is the schema the compiled semantic objects are created in.
	Schema string
}

// shift renders the pass-wide year shift for a date column.
func (b *BuildContext) shift(col string) string {
	return b.Temporal.ShiftExpr(b.Dialect, col)
}

// BuildUnifiedFactSQL renders the flat-table SELECT: the union of the B2C
// and B2B fact sources, padded to a common shape, tagged with their source,
// and enriched with dimension attributes.
//
// Geography resolves through whichever of customer or reseller the row
// carries; the inner joins on geography and territory make an unresolvable
// row fail the materialization instead of silently dropping.
func BuildUnifiedFactSQL(b *BuildContext) string {
	measures := "order_quantity, unit_price, extended_amount, discount_amount, total_product_cost, sales_amount, tax_amt, freight"

	internet := fmt.Sprintf(`	SELECT
		s.sales_order_number,
		s.sales_order_line_number,
		'%s' AS sale_source,
		s.product_key,
		s.customer_key,
		CAST(NULL AS INTEGER) AS reseller_key,
		CAST(NULL AS INTEGER) AS employee_key,
		s.promotion_key,
		s.sales_territory_key,
		s.order_date,
		s.ship_date,
		s.due_date,
		%s
	FROM %s s`,
		warehouse.SourceInternetSales,
		prefixColumns("s", measures),
		warehouse.FactInternetSales,
	)

	reseller := fmt.Sprintf(`	SELECT
		r.sales_order_number,
		r.sales_order_line_number,
		'%s' AS sale_source,
		r.product_key,
		CAST(NULL AS INTEGER) AS customer_key,
		r.reseller_key,
		r.employee_key,
		r.promotion_key,
		r.sales_territory_key,
		r.order_date,
		r.ship_date,
		r.due_date,
		%s
	FROM %s r`,
		warehouse.SourceResellerSales,
		prefixColumns("r", measures),
		warehouse.FactResellerSales,
	)

	loc := b.Localizer

	return fmt.Sprintf(`WITH unified AS (
%s
	UNION ALL
%s
)
SELECT
	u.sales_order_number,
	u.sales_order_line_number,
	u.sale_source,
	%s AS order_date,
	%s AS ship_date,
	%s AS due_date,
	u.ship_date - u.order_date AS shipping_days,
	u.due_date - u.ship_date AS delivery_days,
	u.due_date - u.order_date AS total_processing_days,
	u.product_key,
	%s AS product_name,
	%s AS product_subcategory,
	%s AS product_category,
	%s AS product_line,
	%s AS product_class,
	%s AS product_style,
	%s AS price_tier,
	u.customer_key,
	c.first_name || ' ' || c.last_name AS customer_name,
	%s AS customer_income_band,
	%s AS customer_lifestyle,
	u.reseller_key,
	rs.reseller_name,
	rs.business_type AS reseller_business_type,
	u.employee_key,
	e.first_name || ' ' || e.last_name AS employee_name,
	%s AS promotion_name,
	g.city,
	g.state_province_name,
	%s AS country,
	t.sales_territory_region,
	t.sales_territory_country,
	t.sales_territory_group,
	%s
FROM unified u
LEFT JOIN %s c ON u.customer_key = c.customer_key
LEFT JOIN %s rs ON u.reseller_key = rs.reseller_key
LEFT JOIN %s e ON u.employee_key = e.employee_key
LEFT JOIN %s pr ON u.promotion_key = pr.promotion_key
JOIN %s p ON u.product_key = p.product_key
LEFT JOIN %s sc ON p.product_subcategory_key = sc.product_subcategory_key
LEFT JOIN %s pc ON sc.product_category_key = pc.product_category_key
JOIN %s g ON g.geography_key = COALESCE(c.geography_key, rs.geography_key)
JOIN %s t ON t.sales_territory_key = u.sales_territory_key`,
		internet,
		reseller,
		b.shift("u.order_date"),
		b.shift("u.ship_date"),
		b.shift("u.due_date"),
		loc.FallbackExpr("p.spanish_product_name", "p.english_product_name"),
		loc.FallbackExpr("sc.spanish_product_subcategory_name", "sc.english_product_subcategory_name"),
		loc.FallbackExpr("pc.spanish_product_category_name", "pc.english_product_category_name"),
		loc.FallbackOrSentinelExpr("p.product_line"),
		loc.FallbackOrSentinelExpr("p.class"),
		loc.FallbackOrSentinelExpr("p.style"),
		PriceTiers.CaseExpr("p.list_price"),
		customerOnly("u.customer_key", IncomeBands.CaseExpr("c.yearly_income")),
		customerOnly("u.customer_key", LifestyleCaseExpr("c.house_owner_flag", "c.number_children_at_home")),
		loc.FallbackExpr("pr.spanish_promotion_name", "pr.english_promotion_name"),
		loc.FallbackExpr("g.spanish_country_region_name", "g.english_country_region_name"),
		prefixColumns("u", measures),
		warehouse.DimCustomer,
		warehouse.DimReseller,
		warehouse.DimEmployee,
		warehouse.DimPromotion,
		warehouse.DimProduct,
		warehouse.DimProductSubcategory,
		warehouse.DimProductCategory,
		warehouse.DimGeography,
		warehouse.DimSalesTerritory,
	)
}

// CreateTableAs wraps a query in a CREATE TABLE ... AS statement.
func CreateTableAs(schema, table, query string) string {
	return fmt.Sprintf("CREATE TABLE %s.%s AS (\n%s\n)", schema, table, query)
}

// customerOnly guards a customer-derived expression so rows without a
// customer (the B2B side of the union) stay NULL instead of falling through
// to the segment ladder's ELSE branch.
func customerOnly(keyCol, expr string) string {
	return fmt.Sprintf("CASE WHEN %s IS NULL THEN NULL ELSE %s END", keyCol, expr)
}

// prefixColumns qualifies a comma-separated column list with an alias.
func prefixColumns(alias, cols string) string {
	parts := strings.Split(cols, ", ")
	for i, p := range parts {
		parts[i] = alias + "." + p
	}
	return strings.Join(parts, ", ")
}
