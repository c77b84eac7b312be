package parser

import (
	"testing"

	"tallyboard/internal/model"
)

// buildTable 用 string/数字/nil 构造测试表格
func buildTable(t *testing.T, headers []string, rows ...map[string]any) *model.Table {
	t.Helper()
	out := make([]model.Row, 0, len(rows))
	for _, r := range rows {
		row := make(model.Row, len(headers))
		for _, h := range headers {
			switch v := r[h].(type) {
			case nil:
				row[h] = model.Cell{}
			case string:
				row[h] = model.StringCell(v)
			case int:
				row[h] = model.NumberCell(float64(v))
			case float64:
				row[h] = model.NumberCell(v)
			default:
				t.Fatalf("unsupported cell value %T for %s", v, h)
			}
		}
		out = append(out, row)
	}
	return model.NewTable(headers, out)
}
