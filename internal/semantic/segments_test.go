package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIncomeBands_Classify(t *testing.T) {
	tests := []struct {
		income float64
		want   string
	}{
		{150000, "high"},
		{100000, "high"}, // boundary belongs to the higher band
		{99999.99, "medium"},
		{50000, "medium"},
		{49999.99, "basic"},
		{0, "basic"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IncomeBands.Classify(tt.income), "income %v", tt.income)
	}
}

func TestPriceTiers_Classify(t *testing.T) {
	tests := []struct {
		price float64
		want  string
	}{
		{3578.27, "premium"},
		{1000, "premium"},
		{999.99, "standard"},
		{200, "standard"},
		{199.99, "economy"},
		{4.99, "economy"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PriceTiers.Classify(tt.price), "price %v", tt.price)
	}
}

func TestLadder_CaseExpr(t *testing.T) {
	assert.Equal(t,
		"CASE WHEN c.yearly_income >= 100000 THEN 'high'"+
			" WHEN c.yearly_income >= 50000 THEN 'medium'"+
			" ELSE 'basic' END",
		IncomeBands.CaseExpr("c.yearly_income"))

	assert.Equal(t,
		"CASE WHEN p.list_price >= 1000 THEN 'premium'"+
			" WHEN p.list_price >= 200 THEN 'standard'"+
			" ELSE 'economy' END",
		PriceTiers.CaseExpr("p.list_price"))
}

func TestLifestyleSegment(t *testing.T) {
	tests := []struct {
		ownsHome       bool
		childrenAtHome bool
		want           string
	}{
		{true, true, "homeowner with children"},
		{true, false, "homeowner without children"},
		{false, true, "non-homeowner with children"},
		{false, false, "non-homeowner without children"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LifestyleSegment(tt.ownsHome, tt.childrenAtHome))
	}
}

func TestLifestyleCaseExpr(t *testing.T) {
	got := LifestyleCaseExpr("c.house_owner_flag", "c.number_children_at_home")

	assert.Contains(t, got, "c.house_owner_flag = 1 AND c.number_children_at_home > 0 THEN 'homeowner with children'")
	assert.Contains(t, got, "WHEN c.house_owner_flag = 1 THEN 'homeowner without children'")
	assert.Contains(t, got, "WHEN c.number_children_at_home > 0 THEN 'non-homeowner with children'")
	assert.Contains(t, got, "ELSE 'non-homeowner without children' END")
}
