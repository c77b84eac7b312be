package parser

import (
	"testing"

	"tallyboard/internal/model"
)

func TestIsIDColumn(t *testing.T) {
	t.Parallel()

	ids := []string{"id", "ID", "product_id", "Order ID", "id_product", "store-id-code"}
	for _, h := range ids {
		if !IsIDColumn(h) {
			t.Fatalf("IsIDColumn(%q) got=false want=true", h)
		}
	}
	for _, h := range []string{"category", "Pizza Name", "revenue", ""} {
		if IsIDColumn(h) {
			t.Fatalf("IsIDColumn(%q) got=true want=false", h)
		}
	}
}

func TestMappingExactStage(t *testing.T) {
	t.Parallel()

	tbl := buildTable(t, []string{"Pizza Name", "Total"}, map[string]any{"Pizza Name": "Margherita", "Total": 10})
	q := &Query{
		Mapping:    model.Mapping{model.RoleProduct: "Pizza Name"},
		Table:      tbl,
		Candidates: normalizeAll([]string{"pizza_name"}),
	}
	if got := MappingExact(q); got != "Pizza Name" {
		t.Fatalf("mapping exact got=%q want=%q", got, "Pizza Name")
	}

	q.Claimed = NewClaims("Pizza Name")
	if got := MappingExact(q); got != "" {
		t.Fatalf("claimed header must be skipped, got=%q", got)
	}
}

func TestMappingSubstringStage(t *testing.T) {
	t.Parallel()

	q := &Query{
		Mapping:    model.Mapping{model.RoleProduct: "Best Pizza Name Ever"},
		Table:      buildTable(t, []string{"Best Pizza Name Ever"}),
		Candidates: normalizeAll([]string{"pizza name"}),
	}
	if got := MappingSubstring(q); got != "Best Pizza Name Ever" {
		t.Fatalf("mapping substring got=%q", got)
	}
	if got := MappingExact(q); got != "" {
		t.Fatalf("mapping exact should not match a substring, got=%q", got)
	}
}

func TestHeaderExactCandidatePriority(t *testing.T) {
	t.Parallel()

	// 候选顺序优先于列顺序
	tbl := buildTable(t, []string{"name", "product_name"}, map[string]any{"name": "a", "product_name": "b"})
	q := &Query{Table: tbl, Candidates: normalizeAll([]string{"product name", "name"})}
	if got := HeaderExact(q); got != "product_name" {
		t.Fatalf("header exact got=%q want=%q", got, "product_name")
	}
}

func TestHeaderSubstringStage(t *testing.T) {
	t.Parallel()

	tbl := buildTable(t, []string{"Drink Size (oz)", "Price"}, map[string]any{"Drink Size (oz)": "12", "Price": 3})
	q := &Query{Table: tbl, Candidates: normalizeAll([]string{"size"})}
	if got := HeaderExact(q); got != "" {
		t.Fatalf("header exact got=%q want empty", got)
	}
	if got := HeaderSubstring(q); got != "Drink Size (oz)" {
		t.Fatalf("header substring got=%q", got)
	}

	q.Exclude = func(h string) bool { return h == "Drink Size (oz)" }
	if got := HeaderSubstring(q); got != "" {
		t.Fatalf("excluded header must be skipped, got=%q", got)
	}
}

func TestStringFallbackStage(t *testing.T) {
	t.Parallel()

	tbl := buildTable(t,
		[]string{"Order Date", "Amount", "Notes", "Branch"},
		map[string]any{"Order Date": "2024-03-01", "Amount": 5, "Notes": "window seat", "Branch": "North"},
		map[string]any{"Order Date": "2024-03-02", "Amount": 6, "Notes": "to go", "Branch": "South"},
	)
	q := &Query{Table: tbl, Claimed: NewClaims("Notes")}
	if got := StringFallback(q); got != "" {
		t.Fatalf("fallback disabled got=%q", got)
	}

	q.AllowStringFallback = true
	if got := StringFallback(q); got != "Branch" {
		t.Fatalf("fallback got=%q want=%q", got, "Branch")
	}

	q.Exclude = func(h string) bool { return h == "Branch" }
	if got := StringFallback(q); got != "" {
		t.Fatalf("exclude ignored by fallback, got=%q", got)
	}
}

func TestResolveWithCustomStages(t *testing.T) {
	t.Parallel()

	tbl := buildTable(t, []string{"Menu Item Name"}, map[string]any{"Menu Item Name": "Latte"})
	q := Query{Table: tbl, Candidates: normalizeAll([]string{"menu item"}), AllowStringFallback: true}

	if got := ResolveWith([]Stage{{Name: "header_exact", Run: HeaderExact}}, q); got != "" {
		t.Fatalf("exact-only pipeline got=%q want empty", got)
	}
	if got := Resolve(q); got != "Menu Item Name" {
		t.Fatalf("default pipeline got=%q", got)
	}
}

func TestClaimsNilSafe(t *testing.T) {
	t.Parallel()

	var c Claims
	if c.Has("x") {
		t.Fatalf("nil claims should be empty")
	}
	c = NewClaims("", "a")
	if c.Has("") || !c.Has("a") {
		t.Fatalf("unexpected claims: %v", c)
	}
}
