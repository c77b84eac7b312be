package health

import (
	"fmt"
	"testing"

	"tallyboard/internal/model"
)

func TestClean(t *testing.T) {
	t.Parallel()

	headers := []string{"product", "revenue", "qty", "date", "fat_content"}
	tbl := stringTable(headers,
		[]string{"Latte", "$4.50", "2", "2024-03-01", "LF"},
		[]string{"Latte", "$4.50", "2", "2024-03-01", "LF"},
		[]string{"", "5", "", "01/03/2024", "regular"},
		[]string{"Mocha", "abc", "1", "1718000000", "low fat"},
		[]string{"Tea", "-3", "1", "2024-03-02", "high fiber"},
	)
	mapping := model.Mapping{
		model.RoleProduct:  "product",
		model.RoleRevenue:  "revenue",
		model.RoleQuantity: "qty",
		model.RoleDate:     "date",
	}

	out := Clean(tbl, mapping)
	if out.Len() != 3 {
		t.Fatalf("rows got=%d want=3", out.Len())
	}

	first := out.Rows[0]
	if c := first["revenue"]; !c.IsNumber() || c.Num != 4.5 {
		t.Fatalf("revenue got=%+v want 4.5", c)
	}
	if got := first["fat_content"].Text(); got != "Low Fat" {
		t.Fatalf("fat content got=%q", got)
	}

	filled := out.Rows[1]
	if got := filled["product"].Text(); got != "Latte" {
		t.Fatalf("mode fill got=%q want=%q", got, "Latte")
	}
	if c := filled["qty"]; !c.IsNumber() || c.Num != 1 {
		t.Fatalf("median fill got=%+v want 1", c)
	}
	if got := filled["date"].Text(); got != "2024-03-01" {
		t.Fatalf("day-first date got=%q", got)
	}
	if got := filled["fat_content"].Text(); got != "Regular" {
		t.Fatalf("fat content got=%q", got)
	}

	mocha := out.Rows[2]
	if c := mocha["revenue"]; !c.IsNumber() || c.Num != 4.5 {
		t.Fatalf("invalid revenue should take the median, got=%+v", c)
	}
	if got := mocha["date"].Text(); got != "2024-06-10" {
		t.Fatalf("unix date got=%q", got)
	}

	// 输入表不变
	if tbl.Len() != 5 || tbl.Rows[0]["revenue"].Text() != "$4.50" {
		t.Fatalf("input table mutated: %+v", tbl.Rows[0])
	}
}

func TestCleanDropsOutliers(t *testing.T) {
	t.Parallel()

	rows := make([][]string, 0, 11)
	for i := 0; i < 10; i++ {
		rows = append(rows, []string{fmt.Sprintf("P%d", i), "10"})
	}
	rows = append(rows, []string{"Whale", "1000"})
	tbl := stringTable([]string{"product", "revenue"}, rows...)

	out := Clean(tbl, model.Mapping{model.RoleProduct: "product", model.RoleRevenue: "revenue"})
	if out.Len() != 10 {
		t.Fatalf("rows got=%d want=10", out.Len())
	}
	for _, r := range out.Rows {
		if r["product"].Text() == "Whale" {
			t.Fatalf("outlier row kept")
		}
	}
}

func TestCleanStandardizesUnknownValues(t *testing.T) {
	t.Parallel()

	tbl := stringTable([]string{"product", "Fat Content"},
		[]string{"Chips", "high fiber"},
		[]string{"Soda", "Low Fat"},
	)
	out := Clean(tbl, model.Mapping{model.RoleProduct: "product"})
	if got := out.Rows[0]["Fat Content"].Text(); got != "High Fiber" {
		t.Fatalf("title case got=%q", got)
	}
	if got := out.Rows[1]["Fat Content"].Text(); got != "Low Fat" {
		t.Fatalf("known value got=%q", got)
	}
}

func TestCleanEmptyTable(t *testing.T) {
	t.Parallel()

	out := Clean(model.NewTable([]string{"a"}, nil), salesMapping)
	if out == nil || out.Len() != 0 {
		t.Fatalf("empty clean got=%+v", out)
	}
}
