package parser

import (
	"strings"

	"tallyboard/internal/model"
)

// Claims 本轮分配中已被占用的列
type Claims map[string]struct{}

// NewClaims 创建占用集合
func NewClaims(headers ...string) Claims {
	c := make(Claims, len(headers))
	for _, h := range headers {
		c.Add(h)
	}
	return c
}

// Add 占用列（空串忽略）
func (c Claims) Add(header string) {
	if header != "" {
		c[header] = struct{}{}
	}
}

// Has 列是否已被占用
func (c Claims) Has(header string) bool {
	if c == nil {
		return false
	}
	_, ok := c[header]
	return ok
}

// Query 一次列解析的输入
type Query struct {
	Mapping    model.Mapping // 已有的显式映射（用户或自动识别）
	Table      *model.Table
	Candidates []string // 规范化后的候选片段
	Claimed    Claims
	Validator  ValueValidator
	// AllowStringFallback 允许在候选都未命中时兜底选择剩余文本列
	AllowStringFallback bool
	Exclude             func(header string) bool
}

// accept 对候选列应用占用、排除与值校验
func (q *Query) accept(header string) bool {
	if header == "" || q.Claimed.Has(header) {
		return false
	}
	if q.Exclude != nil && q.Exclude(header) {
		return false
	}
	if q.Validator != nil && !q.Validator(header, q.Table) {
		return false
	}
	return true
}

// Stage 解析阶段；返回空串表示本阶段未命中
type Stage struct {
	Name string
	Run  func(q *Query) string
}

// DefaultStages 默认解析流水线，先命中者胜出
func DefaultStages() []Stage {
	return []Stage{
		{Name: "mapping_exact", Run: MappingExact},
		{Name: "mapping_substring", Run: MappingSubstring},
		{Name: "header_exact", Run: HeaderExact},
		{Name: "header_substring", Run: HeaderSubstring},
		{Name: "string_fallback", Run: StringFallback},
	}
}

// Resolve 按默认流水线解析；无匹配时返回空串（角色未映射，不是错误）
func Resolve(q Query) string {
	return ResolveWith(DefaultStages(), q)
}

// ResolveWith 按给定阶段顺序解析
func ResolveWith(stages []Stage, q Query) string {
	for _, st := range stages {
		if h := st.Run(&q); h != "" {
			return h
		}
	}
	return ""
}

// MappingExact 显式映射中的列名与候选规范化后完全相同
func MappingExact(q *Query) string {
	for _, h := range q.Mapping.Headers() {
		if q.Claimed.Has(h) {
			continue
		}
		if equalsAny(Normalize(h), q.Candidates) && q.accept(h) {
			return h
		}
	}
	return ""
}

// MappingSubstring 显式映射中的列名包含某个候选片段
func MappingSubstring(q *Query) string {
	for _, h := range q.Mapping.Headers() {
		if q.Claimed.Has(h) {
			continue
		}
		if containsAnyFragment(Normalize(h), q.Candidates) && q.accept(h) {
			return h
		}
	}
	return ""
}

// HeaderExact 按候选优先级扫描表头，规范化后完全相同
func HeaderExact(q *Query) string {
	return scanHeaders(q, func(norm, cand string) bool { return norm == cand })
}

// HeaderSubstring 按候选优先级扫描表头，表头包含候选片段
func HeaderSubstring(q *Query) string {
	return scanHeaders(q, strings.Contains)
}

func scanHeaders(q *Query, match func(norm, cand string) bool) string {
	if q.Table.Empty() {
		return ""
	}
	norms := make([]string, len(q.Table.Headers))
	for i, h := range q.Table.Headers {
		norms[i] = Normalize(h)
	}
	for _, cand := range q.Candidates {
		for i, h := range q.Table.Headers {
			if q.Claimed.Has(h) {
				continue
			}
			if match(norms[i], cand) && q.accept(h) {
				return h
			}
		}
	}
	return ""
}

// StringFallback 兜底：首行为非空字符串、非日期形态、未被排除的剩余列
func StringFallback(q *Query) string {
	if !q.AllowStringFallback || q.Table.Empty() {
		return ""
	}
	sample := q.Table.Sample()
	for _, h := range q.Table.Headers {
		c := sample[h]
		if !c.IsString() || c.Str == "" {
			continue
		}
		if q.Claimed.Has(h) {
			continue
		}
		if q.Exclude != nil && q.Exclude(h) {
			continue
		}
		if LooksLikeDateColumn(h, q.Table) {
			continue
		}
		if q.Validator == nil || q.Validator(h, q.Table) {
			return h
		}
	}
	return ""
}
