package health

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"tallyboard/internal/model"
)

// 扣分规则
const (
	maxScore         = 100
	deductHigh       = 30
	deductMedium     = 15
	deductLow        = 5
	missingValueRate = 0.1
	uploadSampleRows = 100
	uploadChecks     = 5
)

// requiredRoles 健康检查要求映射的角色
var requiredRoles = []model.Role{model.RoleProduct, model.RoleRevenue, model.RoleDate}

var nonNumericRe = regexp.MustCompile(`[^0-9.\-]`)

// Analyze 检查数据问题并计算健康分
func Analyze(table *model.Table, mapping model.Mapping) model.HealthReport {
	report := model.HealthReport{RowCount: table.Len(), Issues: []model.Issue{}}
	if table.Empty() {
		report.Score = 0
		report.Label = Label(0)
		return report
	}

	var missingRoles []string
	for _, r := range requiredRoles {
		if !mapping.Has(r) {
			missingRoles = append(missingRoles, string(r))
		}
	}
	if len(missingRoles) > 0 {
		report.Issues = append(report.Issues, model.Issue{
			Type:        model.IssueMissingHeaders,
			Severity:    model.SeverityHigh,
			Count:       len(missingRoles),
			Description: fmt.Sprintf("Missing important columns: %s", strings.Join(missingRoles, ", ")),
		})
	}

	entries := mapping.Entries()
	revenueCol := mapping.Header(model.RoleRevenue)
	missingCount, invalidCount := 0, 0
	var missingRows, invalidRows []int
	for idx, row := range table.Rows {
		rowMissing := false
		for _, e := range entries {
			c := row[e.Header]
			if !c.Present() || c.Blank() {
				missingCount++
				rowMissing = true
			}
		}
		if rowMissing {
			missingRows = append(missingRows, idx)
		}
		if revenueCol != "" {
			if c := row[revenueCol]; c.Present() {
				if _, ok := parseAmount(c); !ok {
					invalidCount++
					invalidRows = append(invalidRows, idx)
				}
			}
		}
	}

	if missingCount > 0 {
		severity := model.SeverityLow
		if float64(missingCount) > float64(table.Len())*missingValueRate {
			severity = model.SeverityMedium
		}
		report.Issues = append(report.Issues, model.Issue{
			Type:        model.IssueMissingValues,
			Severity:    severity,
			Count:       missingCount,
			Description: fmt.Sprintf("%d missing values found in important columns", missingCount),
			RowIdxs:     missingRows,
		})
	}
	if invalidCount > 0 {
		report.Issues = append(report.Issues, model.Issue{
			Type:        model.IssueInvalidNumbers,
			Severity:    model.SeverityMedium,
			Count:       invalidCount,
			Description: fmt.Sprintf("%d rows with invalid revenue numbers", invalidCount),
			RowIdxs:     invalidRows,
			Column:      revenueCol,
		})
	}

	if dup := table.Len() - countUnique(table); dup > 0 {
		report.Issues = append(report.Issues, model.Issue{
			Type:        model.IssueDuplicateRows,
			Severity:    model.SeverityLow,
			Count:       dup,
			Description: fmt.Sprintf("%d duplicate rows found", dup),
		})
	}

	report.Score = Score(report.Issues)
	report.Label = Label(report.Score)
	return report
}

// Score 按问题严重程度扣分，最低为 0
func Score(issues []model.Issue) int {
	deductions := 0
	for _, is := range issues {
		switch is.Severity {
		case model.SeverityHigh:
			deductions += deductHigh
		case model.SeverityMedium:
			deductions += deductMedium
		case model.SeverityLow:
			deductions += deductLow
		}
	}
	if s := maxScore - deductions; s > 0 {
		return s
	}
	return 0
}

// Label 健康分等级
func Label(score int) string {
	switch {
	case score >= 90:
		return "Excellent"
	case score >= 85:
		return "Good"
	case score >= 70:
		return "Fair"
	}
	return "Needs Attention"
}

// UploadScore 上传时的快速评分：
// 营收、数量、商品（或商品明细）、日期各计 1 分，再加前 100 行的平均填充率，按 5 分制折算到 0~100
func UploadScore(table *model.Table, mapping model.Mapping) int {
	if table.Empty() {
		return 0
	}
	score := 0.0
	if mapping.Has(model.RoleRevenue) {
		score++
	}
	if mapping.Has(model.RoleQuantity) {
		score++
	}
	if mapping.Has(model.RoleProduct) || mapping.Has(model.RoleProductDetail) {
		score++
	}
	if mapping.Has(model.RoleDate) {
		score++
	}

	n := table.Len()
	if n > uploadSampleRows {
		n = uploadSampleRows
	}
	completeness := 0.0
	for _, row := range table.Rows[:n] {
		if len(row) == 0 {
			continue
		}
		filled := 0
		for _, c := range row {
			if c.Present() && !c.Blank() {
				filled++
			}
		}
		completeness += float64(filled) / float64(len(row))
	}
	score += completeness / float64(n)
	return int(math.Round(score * 100 / uploadChecks))
}

// parseAmount 去掉货币符号、千分位等非数字字符后解析
func parseAmount(c model.Cell) (decimal.Decimal, bool) {
	if c.IsNumber() {
		if math.IsNaN(c.Num) || math.IsInf(c.Num, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(c.Num), true
	}
	cleaned := nonNumericRe.ReplaceAllString(c.Text(), "")
	if cleaned == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// rowKey 按表头顺序生成区分类型的行键
func rowKey(headers []string, row model.Row) string {
	var b strings.Builder
	for _, h := range headers {
		c := row[h]
		switch c.Kind {
		case model.CellNumber:
			b.WriteString("n:")
		case model.CellString:
			b.WriteString("s:")
		default:
			b.WriteString("_:")
		}
		b.WriteString(c.Text())
		b.WriteByte(0x1f)
	}
	return b.String()
}

func countUnique(table *model.Table) int {
	seen := make(map[string]struct{}, table.Len())
	for _, row := range table.Rows {
		seen[rowKey(table.Headers, row)] = struct{}{}
	}
	return len(seen)
}
