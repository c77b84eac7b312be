package parser

import (
	"strings"

	"tallyboard/internal/model"
)

// Engine 列推断引擎。构造后只读，可被并发调用。
type Engine struct {
	tables compiledTables
}

// NewEngine 使用给定候选表创建引擎
func NewEngine(tables CandidateTables) *Engine {
	return &Engine{tables: compile(tables)}
}

// NewDefaultEngine 使用默认候选表创建引擎
func NewDefaultEngine() *Engine {
	return NewEngine(DefaultCandidates())
}

// Breakdowns 拆分维度分配结果；空串表示该维度未映射
type Breakdowns struct {
	Category      string `json:"category"`
	Type          string `json:"type"`
	Size          string `json:"size"`
	StoreLocation string `json:"storeLocation"`
}

// Allocation 一次完整的列分配结果
type Allocation struct {
	Product    string     `json:"product"`
	Breakdowns Breakdowns `json:"breakdowns"`
}

// ProductColumn 解析商品列。
// 唯一允许命中自身候选片段的角色：排除其他角色候选、标识列与禁用片段。
func (e *Engine) ProductColumn(mapping model.Mapping, table *model.Table) string {
	return Resolve(Query{
		Mapping:             mapping,
		Table:               table,
		Candidates:          e.tables.product,
		AllowStringFallback: true,
		Exclude:             e.IsForbiddenProductColumn,
	})
}

// breakdownExclude 拆分维度通用排除：标识列、不宜拆分列、商品候选与已占用列
func (e *Engine) breakdownExclude(claimed Claims) func(string) bool {
	return func(h string) bool {
		return e.IsBadBreakdownColumn(h) ||
			e.IsProductCandidate(h) ||
			claimed.Has(h)
	}
}

// roleColumn 单独解析某个拆分角色（不参与占用链）
func (e *Engine) roleColumn(role model.Role, mapping model.Mapping, table *model.Table, validator ValueValidator, fallback bool) string {
	return Resolve(Query{
		Mapping:             mapping,
		Table:               table,
		Candidates:          e.tables.forRole(role),
		Validator:           validator,
		AllowStringFallback: fallback,
		Exclude:             e.breakdownExclude(nil),
	})
}

// CategoryColumn 单独解析类目列
func (e *Engine) CategoryColumn(mapping model.Mapping, table *model.Table) string {
	return e.roleColumn(model.RoleCategory, mapping, table, nil, true)
}

// TypeColumn 单独解析类型列
func (e *Engine) TypeColumn(mapping model.Mapping, table *model.Table) string {
	return e.roleColumn(model.RoleType, mapping, table, nil, true)
}

// SizeColumn 单独解析规格列
func (e *Engine) SizeColumn(mapping model.Mapping, table *model.Table) string {
	return e.roleColumn(model.RoleSize, mapping, table, nil, true)
}

// StoreLocationColumn 单独解析门店/地区列（仅候选命中且通过合理性校验）
func (e *Engine) StoreLocationColumn(mapping model.Mapping, table *model.Table) string {
	return e.roleColumn(model.RoleStoreLocation, mapping, table, PlausibleLocationColumn, false)
}

// Allocate 先解析商品列，再按 size -> category -> type -> storeLocation 分配拆分维度
func (e *Engine) Allocate(mapping model.Mapping, table *model.Table) Allocation {
	product := e.ProductColumn(mapping, table)
	return Allocation{
		Product:    product,
		Breakdowns: e.allocateBreakdowns(mapping, table, product),
	}
}

// AllocateBreakdowns 分配拆分维度，保证任意两个维度不落在同一列，且不复用商品列
func (e *Engine) AllocateBreakdowns(mapping model.Mapping, table *model.Table) Breakdowns {
	return e.allocateBreakdowns(mapping, table, e.ProductColumn(mapping, table))
}

// nonBreakdownRoles 显式映射中这些角色的列不参与拆分
var nonBreakdownRoles = []model.Role{
	model.RoleRevenue,
	model.RoleQuantity,
	model.RoleDate,
	model.RoleTime,
	model.RoleDatetime,
	model.RoleTimestamp,
}

func (e *Engine) allocateBreakdowns(mapping model.Mapping, table *model.Table, product string) Breakdowns {
	claimed := NewClaims(product)
	for _, r := range nonBreakdownRoles {
		claimed.Add(mapping.Header(r))
	}

	// explicit 显式映射可直接采用：非商品候选且未被占用
	explicit := func(role model.Role) string {
		h := mapping.Header(role)
		if h == "" || e.IsProductCandidate(h) || claimed.Has(h) {
			return ""
		}
		return h
	}
	resolve := func(role model.Role, validator ValueValidator, fallback bool) string {
		if h := explicit(role); h != "" {
			return h
		}
		return Resolve(Query{
			Mapping:             mapping,
			Table:               table,
			Candidates:          e.tables.forRole(role),
			Claimed:             claimed,
			Validator:           validator,
			AllowStringFallback: fallback,
			Exclude:             e.breakdownExclude(claimed),
		})
	}

	var out Breakdowns

	// size：用户显式给出的规格列直接采用，不做值校验
	if h := mapping.Header(model.RoleSize); h != "" && !claimed.Has(h) && !e.IsProductCandidate(h) {
		out.Size = h
	} else {
		out.Size = resolve(model.RoleSize, nil, false)
	}
	claimed.Add(out.Size)

	out.Category = resolve(model.RoleCategory, nil, true)
	claimed.Add(out.Category)

	out.Type = resolve(model.RoleType, nil, true)
	claimed.Add(out.Type)

	out.StoreLocation = resolve(model.RoleStoreLocation, PlausibleLocationColumn, false)
	return out
}

// BreakdownKind 单一拆分列的来源
type BreakdownKind string

const (
	BreakdownCategory BreakdownKind = "category"
	BreakdownType     BreakdownKind = "type"
	BreakdownSize     BreakdownKind = "size"
	BreakdownPayment  BreakdownKind = "payment"
	BreakdownOther    BreakdownKind = "other"
)

// BestBreakdown 选出最佳的单一拆分列：category -> type -> size -> 支付方式 -> 2~8 个取值的文本列
func (e *Engine) BestBreakdown(mapping model.Mapping, table *model.Table) (string, BreakdownKind) {
	if table.Empty() {
		return "", ""
	}
	if h := e.CategoryColumn(mapping, table); h != "" {
		return h, BreakdownCategory
	}
	if h := e.TypeColumn(mapping, table); h != "" {
		return h, BreakdownType
	}
	if h := e.SizeColumn(mapping, table); h != "" {
		return h, BreakdownSize
	}

	for _, cand := range e.tables.paymentType {
		for _, h := range table.Headers {
			if strings.Contains(Normalize(h), cand) &&
				!e.IsBadBreakdownColumn(h) &&
				!e.IsProductCandidate(h) {
				return h, BreakdownPayment
			}
		}
	}

	sample := table.Sample()
	for _, h := range table.Headers {
		if e.IsBadBreakdownColumn(h) || e.IsProductCandidate(h) {
			continue
		}
		if LooksLikeDateColumn(h, table) {
			continue
		}
		if c := sample[h]; !c.IsString() || c.Str == "" {
			continue
		}
		distinct := make(map[string]struct{})
		for _, v := range presentValues(h, table) {
			distinct[cellKey(v)] = struct{}{}
		}
		if n := len(distinct); n >= 2 && n <= 8 {
			return h, BreakdownOther
		}
	}
	return "", ""
}
