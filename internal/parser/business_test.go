package parser

import (
	"testing"

	"tallyboard/internal/model"
)

func TestDetectBusinessType(t *testing.T) {
	t.Parallel()

	cases := []struct {
		file    string
		headers []string
		want    model.BusinessType
	}{
		{"pizza_sales.xlsx", nil, model.BusinessRestaurant},
		{"fashion_q1.csv", nil, model.BusinessOnlineSeller},
		{"Contractor invoices.csv", nil, model.BusinessConstruction},
		{"export.csv", []string{"Order ID", "Amount"}, model.BusinessRestaurant},
		{"export.csv", []string{"SKU", "Shipping Fee"}, model.BusinessOnlineSeller},
		{"export.csv", []string{"Material", "Cost"}, model.BusinessConstruction},
		{"export.csv", []string{"Item", "Amount"}, model.BusinessRetail},
	}
	for _, tc := range cases {
		if got := DetectBusinessType(tc.file, tc.headers); got != tc.want {
			t.Fatalf("DetectBusinessType(%q, %v) got=%s want=%s", tc.file, tc.headers, got, tc.want)
		}
	}
}

func TestResolveBusinessType(t *testing.T) {
	t.Parallel()

	if got := ResolveBusinessType(model.BusinessConstruction, "pizza.csv", nil); got != model.BusinessConstruction {
		t.Fatalf("explicit type got=%s", got)
	}
	if got := ResolveBusinessType(model.BusinessOther, "pizza.csv", nil); got != model.BusinessRestaurant {
		t.Fatalf("other should be inferred, got=%s", got)
	}
	if got := ResolveBusinessType("bogus", "data.csv", nil); got != model.BusinessRetail {
		t.Fatalf("invalid type should be inferred, got=%s", got)
	}
}
