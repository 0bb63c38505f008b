package semantic

import (
	"fmt"
	"strings"
)

// Band is one rung of a threshold ladder. A value belongs to the band when
// it is greater than or equal to the threshold (inclusive lower bound).
type Band struct {
	Threshold float64
	Label     string
}

// Ladder is a deterministic, ordered threshold classification: bands are
// evaluated high-to-low and the first match wins. Ties at a boundary belong
// to the higher band.
type Ladder struct {
	Name    string
	Bands   []Band
	Default string
}

// Classify returns the label of the first band the value reaches.
func (l Ladder) Classify(v float64) string {
	for _, b := range l.Bands {
		if v >= b.Threshold {
			return b.Label
		}
	}
	return l.Default
}

// CaseExpr renders the ladder as a SQL CASE expression over a column.
func (l Ladder) CaseExpr(col string) string {
	var sb strings.Builder
	sb.WriteString("CASE")
	for _, b := range l.Bands {
		fmt.Fprintf(&sb, " WHEN %s >= %s THEN %s", col, formatThreshold(b.Threshold), sqlStringLiteral(b.Label))
	}
	fmt.Fprintf(&sb, " ELSE %s END", sqlStringLiteral(l.Default))
	return sb.String()
}

func formatThreshold(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}

// IncomeBands segments customers by yearly income.
var IncomeBands = Ladder{
	Name: "income_band",
	Bands: []Band{
		{Threshold: 100000, Label: "high"},
		{Threshold: 50000, Label: "medium"},
	},
	Default: "basic",
}

// PriceTiers segments products by list price.
var PriceTiers = Ladder{
	Name: "price_tier",
	Bands: []Band{
		{Threshold: 1000, Label: "premium"},
		{Threshold: 200, Label: "standard"},
	},
	Default: "economy",
}

// LifestyleSegment crosses home ownership with children at home into the
// four lifestyle quadrants.
func LifestyleSegment(ownsHome, childrenAtHome bool) string {
	switch {
	case ownsHome && childrenAtHome:
		return "homeowner with children"
	case ownsHome:
		return "homeowner without children"
	case childrenAtHome:
		return "non-homeowner with children"
	default:
		return "non-homeowner without children"
	}
}

// LifestyleCaseExpr renders the lifestyle cross as SQL. ownerCol is a
// flag-valued column (1 = owns home) and childrenCol a count of children at
// home, matching the warehouse encoding.
func LifestyleCaseExpr(ownerCol, childrenCol string) string {
	return fmt.Sprintf(
		"CASE WHEN %[1]s = 1 AND %[2]s > 0 THEN 'homeowner with children'"+
			" WHEN %[1]s = 1 THEN 'homeowner without children'"+
			" WHEN %[2]s > 0 THEN 'non-homeowner with children'"+
			" ELSE 'non-homeowner without children' END",
		ownerCol, childrenCol,
	)
}
