package health

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"tallyboard/internal/model"
)

// UnnamedProduct 商品列全空时的填充值
const UnnamedProduct = "Unnamed"

const outlierZScore = 3

// standardization 分类列取值标准化规则
type standardization struct {
	column *regexp.Regexp
	values map[string]string
}

var standardizations = []standardization{
	{
		column: regexp.MustCompile(`(?i)fat_?\s?content`),
		values: map[string]string{
			"lf":       "Low Fat",
			"low fat":  "Low Fat",
			"lowfat":   "Low Fat",
			"reg":      "Regular",
			"regular":  "Regular",
			"full fat": "Regular",
			"fullfat":  "Regular",
			"ff":       "Regular",
		},
	},
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Clean 返回清洗后的新表，输入表不变：
// 去重 -> 分类取值标准化 -> 营收/数量转数字（中位数填补、剔除 z-score >= 3 的离群值）
// -> 商品列众数填补 -> 日期规范化 -> 去首尾空白 -> 丢弃营收 <= 0 或商品为空的行
func Clean(table *model.Table, mapping model.Mapping) *model.Table {
	if table.Empty() {
		return table.Clone()
	}
	headers := append([]string(nil), table.Headers...)
	rows := dedupe(headers, table.Rows)

	standardize(headers, rows)

	for _, r := range []model.Role{model.RoleRevenue, model.RoleQuantity} {
		if col := mapping.Header(r); col != "" {
			rows = cleanNumeric(rows, col)
		}
	}

	for _, r := range []model.Role{model.RoleProduct, model.RoleProductDetail} {
		if col := mapping.Header(r); col != "" {
			fillMode(rows, col)
		}
	}

	if col := dateColumn(mapping); col != "" {
		for _, row := range rows {
			row[col] = model.StringCell(NormalizeDate(row, mapping))
		}
	}

	for _, row := range rows {
		for h, c := range row {
			if c.IsString() {
				row[h] = model.StringCell(strings.TrimSpace(c.Str))
			}
		}
	}

	revenueCol := mapping.Header(model.RoleRevenue)
	productCol := mapping.Header(model.RoleProduct)
	kept := rows[:0]
	for _, row := range rows {
		if revenueCol != "" {
			c := row[revenueCol]
			if !c.IsNumber() || math.IsNaN(c.Num) || c.Num <= 0 {
				continue
			}
		}
		if productCol != "" && row[productCol].Blank() {
			continue
		}
		kept = append(kept, row)
	}
	return model.NewTable(headers, kept)
}

// dedupe 去除完全相同的行（保留首次出现），返回深拷贝
func dedupe(headers []string, rows []model.Row) []model.Row {
	seen := make(map[string]struct{}, len(rows))
	out := make([]model.Row, 0, len(rows))
	for _, row := range rows {
		key := rowKey(headers, row)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, row.Clone())
	}
	return out
}

func standardize(headers []string, rows []model.Row) {
	title := cases.Title(language.English)
	for _, st := range standardizations {
		for _, h := range headers {
			if !st.column.MatchString(h) {
				continue
			}
			for _, row := range rows {
				c := row[h]
				if !c.Present() {
					continue
				}
				lower := strings.ToLower(strings.TrimSpace(c.Text()))
				if v, ok := st.values[lower]; ok {
					row[h] = model.StringCell(v)
					continue
				}
				compact := whitespaceRe.ReplaceAllString(lower, "")
				if v, ok := st.values[compact]; ok {
					row[h] = model.StringCell(v)
					continue
				}
				row[h] = model.StringCell(title.String(lower))
			}
		}
	}
}

// cleanNumeric 列转为数字；缺失或非法值用中位数填补，再剔除离群行
func cleanNumeric(rows []model.Row, col string) []model.Row {
	parsed := make([]decimal.Decimal, len(rows))
	valid := make([]bool, len(rows))
	var nums []decimal.Decimal
	for i, row := range rows {
		if d, ok := parseAmount(row[col]); ok {
			parsed[i], valid[i] = d, true
			nums = append(nums, d)
		}
	}

	median := decimal.NewFromInt(1)
	if len(nums) > 0 {
		sorted := append([]decimal.Decimal(nil), nums...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })
		if m := sorted[len(sorted)/2]; !m.IsZero() {
			median = m
		}
	}

	mean, std := meanStd(nums)
	if std == 0 {
		std = 1
	}

	out := rows[:0]
	for i, row := range rows {
		v := median
		if valid[i] {
			v = parsed[i]
		}
		f := v.InexactFloat64()
		row[col] = model.NumberCell(f)
		if len(nums) > 0 && math.Abs((f-mean)/std) >= outlierZScore {
			continue
		}
		out = append(out, row)
	}
	return out
}

// meanStd 总体均值与标准差
func meanStd(nums []decimal.Decimal) (float64, float64) {
	if len(nums) == 0 {
		return 0, 0
	}
	sum := decimal.Zero
	for _, n := range nums {
		sum = sum.Add(n)
	}
	mean := sum.Div(decimal.NewFromInt(int64(len(nums)))).InexactFloat64()
	variance := 0.0
	for _, n := range nums {
		d := n.InexactFloat64() - mean
		variance += d * d
	}
	return mean, math.Sqrt(variance / float64(len(nums)))
}

// fillMode 空值用出现最多的取值填补（并列取先出现者），全空时用 Unnamed
func fillMode(rows []model.Row, col string) {
	counts := make(map[string]int)
	var order []string
	for _, row := range rows {
		c := row[col]
		if !c.Present() {
			continue
		}
		key := c.Text()
		if counts[key] == 0 {
			order = append(order, key)
		}
		counts[key]++
	}
	mode := UnnamedProduct
	best := 0
	for _, k := range order {
		if counts[k] > best {
			best = counts[k]
			mode = k
		}
	}
	if strings.TrimSpace(mode) == "" {
		mode = UnnamedProduct
	}
	for _, row := range rows {
		if row[col].Blank() {
			row[col] = model.StringCell(mode)
		}
	}
}

func dateColumn(mapping model.Mapping) string {
	for _, r := range []model.Role{model.RoleDate, model.RoleDatetime, model.RoleTimestamp} {
		if col := mapping.Header(r); col != "" {
			return col
		}
	}
	return ""
}
