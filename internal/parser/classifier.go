package parser

import (
	"regexp"
	"strings"

	"tallyboard/internal/model"
)

var (
	idTokenRe         = regexp.MustCompile(`(^|[^a-z])id([^a-z]|$)`)
	moneyQuantityRe   = regexp.MustCompile(`quantity|order|sku|price|amount|cost|total|revenue`)
	dateShapeRe       = regexp.MustCompile(`^\d{1,4}[-/]\d{1,2}[-/]\d{1,4}`)
	pureDigitsRe      = regexp.MustCompile(`^\d+$`)
	productNameTailRe = regexp.MustCompile(`(?i)(_?id|code|sku|number)$`)
)

// IsIDColumn 是否为标识列：规范化后等于、以 id 开头/结尾，或含独立的 id 记号
func IsIDColumn(header string) bool {
	n := Normalize(header)
	if n == "" {
		return false
	}
	return n == "id" ||
		strings.HasSuffix(n, "id") ||
		strings.HasPrefix(n, "id") ||
		idTokenRe.MatchString(n)
}

// IsForbiddenProductColumn 是否禁止作为商品列：
// 命中其他角色候选、为标识列或命中禁用拆分片段。商品自身候选不在此列。
func (e *Engine) IsForbiddenProductColumn(header string) bool {
	n := Normalize(header)
	return containsAnyFragment(n, e.tables.forbiddenProduct) ||
		IsIDColumn(header) ||
		containsAnyFragment(n, e.tables.forbiddenBreakdown)
}

// IsProductCandidate 规范化后是否与商品候选完全相同
func (e *Engine) IsProductCandidate(header string) bool {
	return equalsAny(Normalize(header), e.tables.product)
}

// IsBadBreakdownColumn 是否禁止作为拆分维度（category/type/size/storeLocation）：
// 与商品候选完全相同、为标识列、命中禁用片段或金额/数量类片段
func (e *Engine) IsBadBreakdownColumn(header string) bool {
	n := Normalize(header)
	if equalsAny(n, e.tables.product) {
		return true
	}
	if IsIDColumn(header) {
		return true
	}
	if containsAnyFragment(n, e.tables.forbiddenBreakdown) {
		return true
	}
	return moneyQuantityRe.MatchString(n)
}

// MatchesRole 列名是否命中某角色候选（完全或包含）
func (e *Engine) MatchesRole(role model.Role, header string) bool {
	cands := e.tables.forRole(role)
	if len(cands) == 0 {
		return false
	}
	return containsAnyFragment(Normalize(header), cands)
}
