package model

// Severity 问题严重程度
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// 数据问题类型
const (
	IssueMissingHeaders = "missing_headers"
	IssueMissingValues  = "missing_values"
	IssueInvalidNumbers = "invalid_numbers"
	IssueDuplicateRows  = "duplicate_rows"
)

// Issue 数据健康检查发现的问题
type Issue struct {
	Type        string   `json:"type"`
	Severity    Severity `json:"severity"`
	Count       int      `json:"count"`
	Description string   `json:"description"`
	RowIdxs     []int    `json:"rowIdxs,omitempty"`
	Column      string   `json:"colId,omitempty"`
}

// HealthReport 数据健康报告
type HealthReport struct {
	Score    int     `json:"score"`
	Label    string  `json:"label"`
	RowCount int     `json:"rowCount"`
	Issues   []Issue `json:"issues"`
}
