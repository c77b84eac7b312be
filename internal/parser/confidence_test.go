package parser

import (
	"math"
	"testing"

	"tallyboard/internal/model"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestConfidence(t *testing.T) {
	t.Parallel()

	sample := model.Row{
		"Item":   model.StringCell("Latte"),
		"Code":   model.StringCell("1234"),
		"Amount": model.NumberCell(4),
	}
	cases := []struct {
		name    string
		mapping model.Mapping
		want    float64
	}{
		{"empty", model.Mapping{}, 0},
		{"product only", model.Mapping{model.RoleProduct: "Item"}, 0.7},
		{"numeric product", model.Mapping{model.RoleProduct: "Code"}, 0.5},
		{"detail counts as product", model.Mapping{model.RoleProductDetail: "Item", model.RoleRevenue: "Amount"}, 1},
		{"revenue quantity date", model.Mapping{model.RoleRevenue: "Amount", model.RoleQuantity: "Q", model.RoleDate: "D"}, 0.8},
		{"capped", model.Mapping{model.RoleProduct: "Item", model.RoleRevenue: "Amount", model.RoleQuantity: "Q", model.RoleDate: "D"}, 1},
	}
	for _, tc := range cases {
		if got := Confidence(tc.mapping, sample); !approx(got, tc.want) {
			t.Fatalf("%s: got=%v want=%v", tc.name, got, tc.want)
		}
	}
}

func TestConfidenceMonotonic(t *testing.T) {
	t.Parallel()

	sample := model.Row{"A": model.StringCell("Latte")}
	mapping := model.Mapping{}
	prev := Confidence(mapping, sample)
	for _, r := range model.AllRoles() {
		mapping = mapping.With(r, "A")
		got := Confidence(mapping, sample)
		if got+1e-9 < prev {
			t.Fatalf("adding %s lowered confidence: %v -> %v", r, prev, got)
		}
		if got < 0 || got > 1 {
			t.Fatalf("confidence out of range: %v", got)
		}
		prev = got
	}
}

func TestNeedsManualMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		score, threshold float64
		want             bool
	}{
		{0.69, 0.7, true},
		{0.7, 0.7, false},
		{0.5, 0, true},
		{0.75, 2, false},
		{0.9, 0.95, true},
	}
	for _, tc := range cases {
		if got := NeedsManualMapping(tc.score, tc.threshold); got != tc.want {
			t.Fatalf("NeedsManualMapping(%v, %v) got=%v want=%v", tc.score, tc.threshold, got, tc.want)
		}
	}
}
