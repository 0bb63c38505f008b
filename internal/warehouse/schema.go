// Package warehouse binds the semantic layer to the physical star schema.
// It centralizes the table names the view builders reference so a renamed
// warehouse only needs changes here.
package warehouse

// Fact tables. One row per sales order line.
const (
	FactInternetSales = "fact_internet_sales"
	FactResellerSales = "fact_reseller_sales"
)

// Dimension tables.
const (
	DimProduct            = "dim_product"
	DimProductSubcategory = "dim_product_subcategory"
	DimProductCategory    = "dim_product_category"
	DimCustomer           = "dim_customer"
	DimReseller           = "dim_reseller"
	DimGeography          = "dim_geography"
	DimSalesTerritory     = "dim_sales_territory"
	DimEmployee           = "dim_employee"
	DimPromotion          = "dim_promotion"
)

// SaleSource values tagged onto every flat fact row.
const (
	SourceInternetSales = "internet_sales"
	SourceResellerSales = "reseller_sales"
)

// OrderDateColumn is the fact-grain column the temporal baseline scans.
const OrderDateColumn = "order_date"

// FactSources lists every fact table whose order dates feed the temporal
// baseline. The baseline must scan the union of all of them.
func FactSources() []string {
	return []string{FactInternetSales, FactResellerSales}
}
