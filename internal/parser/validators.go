package parser

import "tallyboard/internal/model"

// ValueValidator 基于列值形态的校验；返回 false 表示跳过该列
type ValueValidator func(header string, table *model.Table) bool

// presentValues 列中有值的单元格
func presentValues(header string, table *model.Table) []model.Cell {
	if table.Empty() {
		return nil
	}
	out := make([]model.Cell, 0, table.Len())
	for _, row := range table.Rows {
		if c := row[header]; c.Present() {
			out = append(out, c)
		}
	}
	return out
}

// LooksLikeDateColumn 抽样列值，超过 60% 呈“数字-分隔符-数字”日期形态时返回 true
func LooksLikeDateColumn(header string, table *model.Table) bool {
	values := presentValues(header, table)
	if len(values) == 0 {
		return false
	}
	dateLike := 0
	for _, v := range values {
		if v.IsString() && dateShapeRe.MatchString(v.Str) {
			dateLike++
		}
	}
	return float64(dateLike)/float64(len(values)) > 0.6
}

// PlausibleLocationColumn 门店/地区列的合理性：
// 不同取值占行数比例不超过 50%，且纯数字取值不超过 50%
func PlausibleLocationColumn(header string, table *model.Table) bool {
	values := presentValues(header, table)
	if len(values) == 0 {
		return false
	}
	unique := make(map[string]struct{}, len(values))
	numeric := 0
	for _, v := range values {
		text := v.Text()
		unique[cellKey(v)] = struct{}{}
		if pureDigitsRe.MatchString(text) {
			numeric++
		}
	}
	if float64(len(unique))/float64(table.Len()) > 0.5 {
		return false
	}
	if float64(numeric)/float64(len(values)) > 0.5 {
		return false
	}
	return true
}

// cellKey 区分类型的去重键（数字 1 与字符串 "1" 不同）
func cellKey(c model.Cell) string {
	if c.IsNumber() {
		return "n:" + c.Text()
	}
	return "s:" + c.Text()
}
