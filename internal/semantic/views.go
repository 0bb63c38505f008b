package semantic

import (
	"fmt"
	"strings"

	"github.com/grimbano/ucm-tfm-grupo-4/internal/warehouse"
)

// ViewDefinition is one compiled semantic object: a named, reusable query
// the agent addresses by name instead of re-deriving SQL.
type ViewDefinition struct {
	Name        string
	Description string
	Build       func(b *BuildContext) string
}

// FlatTableView is the view the flat table materializes from.
const FlatTableView = "fact_sales_unified"

// Views returns the compiled view definitions in creation order. Dimension
// views are independent of each other; the unified fact view is what the
// flat table materializes from.
func Views() []ViewDefinition {
	return []ViewDefinition{
		{
			Name:        "dim_product_enriched",
			Description: "Products with localized labels, sentinel-filled free-text attributes, and price tier",
			Build:       buildDimProductEnriched,
		},
		{
			Name:        "dim_customer_enriched",
			Description: "Customers with income band, lifestyle segment, and geography",
			Build:       buildDimCustomerEnriched,
		},
		{
			Name:        "dim_reseller_enriched",
			Description: "Resellers with their geography",
			Build:       buildDimResellerEnriched,
		},
		{
			Name:        FlatTableView,
			Description: "Unified B2C/B2B sales at order-line grain with resolved dimensions and normalized dates",
			Build:       BuildUnifiedFactSQL,
		},
		{
			Name:        "metrics_catalog",
			Description: "Business measure definitions exposed to the agent",
			Build:       buildMetricsCatalog,
		},
	}
}

func buildDimProductEnriched(b *BuildContext) string {
	loc := b.Localizer
	return fmt.Sprintf(`SELECT
	p.product_key,
	%s AS product_name,
	%s AS product_subcategory,
	%s AS product_category,
	%s AS product_line,
	%s AS product_class,
	%s AS product_style,
	p.color,
	p.list_price,
	%s AS price_tier
FROM %s p
LEFT JOIN %s sc ON p.product_subcategory_key = sc.product_subcategory_key
LEFT JOIN %s pc ON sc.product_category_key = pc.product_category_key`,
		loc.FallbackExpr("p.spanish_product_name", "p.english_product_name"),
		loc.FallbackExpr("sc.spanish_product_subcategory_name", "sc.english_product_subcategory_name"),
		loc.FallbackExpr("pc.spanish_product_category_name", "pc.english_product_category_name"),
		loc.FallbackOrSentinelExpr("p.product_line"),
		loc.FallbackOrSentinelExpr("p.class"),
		loc.FallbackOrSentinelExpr("p.style"),
		PriceTiers.CaseExpr("p.list_price"),
		warehouse.DimProduct,
		warehouse.DimProductSubcategory,
		warehouse.DimProductCategory,
	)
}

func buildDimCustomerEnriched(b *BuildContext) string {
	loc := b.Localizer
	return fmt.Sprintf(`SELECT
	c.customer_key,
	c.first_name || ' ' || c.last_name AS customer_name,
	c.yearly_income,
	%s AS income_band,
	%s AS lifestyle,
	%s AS education,
	%s AS occupation,
	g.city,
	g.state_province_name,
	%s AS country
FROM %s c
JOIN %s g ON c.geography_key = g.geography_key`,
		IncomeBands.CaseExpr("c.yearly_income"),
		LifestyleCaseExpr("c.house_owner_flag", "c.number_children_at_home"),
		loc.FallbackExpr("c.spanish_education", "c.english_education"),
		loc.FallbackExpr("c.spanish_occupation", "c.english_occupation"),
		loc.FallbackExpr("g.spanish_country_region_name", "g.english_country_region_name"),
		warehouse.DimCustomer,
		warehouse.DimGeography,
	)
}

func buildDimResellerEnriched(b *BuildContext) string {
	loc := b.Localizer
	return fmt.Sprintf(`SELECT
	r.reseller_key,
	r.reseller_name,
	r.business_type,
	g.city,
	g.state_province_name,
	%s AS country
FROM %s r
JOIN %s g ON r.geography_key = g.geography_key`,
		loc.FallbackExpr("g.spanish_country_region_name", "g.english_country_region_name"),
		warehouse.DimReseller,
		warehouse.DimGeography,
	)
}

// buildMetricsCatalog exposes the metric definitions as queryable rows so
// the agent can retrieve measure semantics by name.
func buildMetricsCatalog(_ *BuildContext) string {
	var selects []string
	for _, m := range Metrics() {
		selects = append(selects, fmt.Sprintf("SELECT %s AS metric_name, %s AS expression, %s AS description",
			sqlStringLiteral(m.Name), sqlStringLiteral(m.Expression), sqlStringLiteral(m.Description)))
	}
	return strings.Join(selects, "\nUNION ALL\n")
}
