package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// CellKind 单元格值类型
type CellKind int

const (
	CellEmpty CellKind = iota
	CellString
	CellNumber
)

// Cell 原始单元格值：字符串 | 数字 | 空
type Cell struct {
	Kind CellKind
	Str  string
	Num  float64
}

// StringCell 构造字符串单元格
func StringCell(s string) Cell {
	return Cell{Kind: CellString, Str: s}
}

// NumberCell 构造数字单元格
func NumberCell(f float64) Cell {
	return Cell{Kind: CellNumber, Num: f}
}

// IsString 是否为字符串单元格
func (c Cell) IsString() bool {
	return c.Kind == CellString
}

// IsNumber 是否为数字单元格
func (c Cell) IsNumber() bool {
	return c.Kind == CellNumber
}

// Text 单元格的文本表示；空单元格为 ""
func (c Cell) Text() string {
	switch c.Kind {
	case CellString:
		return c.Str
	case CellNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	}
	return ""
}

// Present 是否有值：非空字符串，或非零且非 NaN 的数字
func (c Cell) Present() bool {
	switch c.Kind {
	case CellString:
		return c.Str != ""
	case CellNumber:
		return c.Num != 0 && !math.IsNaN(c.Num)
	}
	return false
}

// Blank 去除首尾空白后是否为空
func (c Cell) Blank() bool {
	switch c.Kind {
	case CellString:
		return strings.TrimSpace(c.Str) == ""
	case CellNumber:
		return false
	}
	return true
}

// MarshalJSON 字符串/数字/null
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CellString:
		return json.Marshal(c.Str)
	case CellNumber:
		if math.IsNaN(c.Num) || math.IsInf(c.Num, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(c.Num)
	}
	return []byte("null"), nil
}

// UnmarshalJSON 接受字符串、数字或 null
func (c *Cell) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = Cell{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = StringCell(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*c = NumberCell(f)
	return nil
}

// Row 列名 -> 单元格
type Row map[string]Cell

// Clone 复制一行
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table 已解析的表格；Headers 保持原始列顺序，且每行共享同一列集合
type Table struct {
	Headers []string `json:"headers"`
	Rows    []Row    `json:"rows"`
}

// NewTable 创建表格
func NewTable(headers []string, rows []Row) *Table {
	return &Table{Headers: headers, Rows: rows}
}

// Len 行数
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Empty 是否没有数据行
func (t *Table) Empty() bool {
	return t.Len() == 0
}

// HasHeader 是否包含列
func (t *Table) HasHeader(header string) bool {
	if t == nil {
		return false
	}
	for _, h := range t.Headers {
		if h == header {
			return true
		}
	}
	return false
}

// Sample 首行（无数据时返回 nil）
func (t *Table) Sample() Row {
	if t.Empty() {
		return nil
	}
	return t.Rows[0]
}

// Column 某列全部单元格
func (t *Table) Column(header string) []Cell {
	if t == nil {
		return nil
	}
	out := make([]Cell, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, row[header])
	}
	return out
}

// Clone 深拷贝
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	headers := make([]string, len(t.Headers))
	copy(headers, t.Headers)
	rows := make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = r.Clone()
	}
	return &Table{Headers: headers, Rows: rows}
}
