package parser

import "tallyboard/internal/model"

// CandidateTables 各角色的候选列名片段（有序，越具体越靠前）及排除规则。
// 表是数据而非逻辑：扩展时只需修改表，不涉及解析算法。
type CandidateTables struct {
	Product       []string `toml:"product" json:"product"`
	Category      []string `toml:"category" json:"category"`
	Type          []string `toml:"type" json:"type"`
	Size          []string `toml:"size" json:"size"`
	StoreLocation []string `toml:"store_location" json:"storeLocation"`
	PaymentType   []string `toml:"payment_type" json:"paymentType"`

	// ForbiddenBreakdown 任何拆分维度都不可使用的列名片段
	ForbiddenBreakdown []string `toml:"forbidden_breakdown" json:"forbiddenBreakdown"`
	// ForbiddenProductExtra 除其他角色候选外，额外禁止作为商品列的片段
	ForbiddenProductExtra []string `toml:"forbidden_product_extra" json:"forbiddenProductExtra"`
}

// DefaultCandidates 默认候选表（每次返回新副本）
func DefaultCandidates() CandidateTables {
	return CandidateTables{
		Product: []string{
			"pizza_name", "pizza name", "product_detail", "product details", "item_detail", "item details",
			"item_name", "item name", "product_name", "product name", "description",
			"sku", "coffee_name", "coffee name", "blend", "variety", "menu_item", "menu item",
			"name", "product", "item", "menu", "food",
		},
		Category: []string{
			"product_category", "product category", "category", "menu_category", "menu category",
			"department", "segment", "division",
		},
		Type: []string{
			"product_type", "product type", "type", "group", "item_group", "item group", "style",
			"pizza_style", "pizza style", "variety", "crust", "crust_type", "blend",
		},
		Size: []string{
			"size", "pizza_size", "pizza size", "drink_size", "drink size", "portion", "portion size",
		},
		StoreLocation: []string{
			"store_location", "store location", "location", "branch", "shop", "store", "region", "area",
		},
		PaymentType: []string{
			"cash_type", "cashtype", "payment_type", "paymenttype", "pay_type", "paytype", "tender_type", "tendertype",
		},
		ForbiddenBreakdown: []string{
			"quantity", "qty", "date", "time", "timestamp", "firstname", "first name", "lastname", "last name",
			"email", "phone", "address", "transaction", "order", "dob", "birth", "customername", "customer name",
			"price", "unit_price", "unit price", "amount", "cost", "total", "revenue",
			// 配料类列
			"ingredient", "ingredients", "topping", "toppings", "component", "components",
			"add-on", "addon", "modification", "modifications",
		},
		ForbiddenProductExtra: []string{"customer", "order", "segment", "division"},
	}
}

// For 返回角色对应的候选列表；无候选表的角色返回 nil
func (t CandidateTables) For(role model.Role) []string {
	switch role {
	case model.RoleProduct:
		return t.Product
	case model.RoleCategory:
		return t.Category
	case model.RoleType:
		return t.Type
	case model.RoleSize:
		return t.Size
	case model.RoleStoreLocation:
		return t.StoreLocation
	case model.RolePaymentType:
		return t.PaymentType
	}
	return nil
}

// Merge 在默认表后追加扩展片段（保持默认片段优先）
func (t CandidateTables) Merge(extra CandidateTables) CandidateTables {
	return CandidateTables{
		Product:               appendUnique(t.Product, extra.Product),
		Category:              appendUnique(t.Category, extra.Category),
		Type:                  appendUnique(t.Type, extra.Type),
		Size:                  appendUnique(t.Size, extra.Size),
		StoreLocation:         appendUnique(t.StoreLocation, extra.StoreLocation),
		PaymentType:           appendUnique(t.PaymentType, extra.PaymentType),
		ForbiddenBreakdown:    appendUnique(t.ForbiddenBreakdown, extra.ForbiddenBreakdown),
		ForbiddenProductExtra: appendUnique(t.ForbiddenProductExtra, extra.ForbiddenProductExtra),
	}
}

func appendUnique(base, extra []string) []string {
	out := make([]string, 0, len(base)+len(extra))
	seen := make(map[string]struct{}, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, s := range list {
			if s == "" {
				continue
			}
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

// compiledTables 规范化后的候选表，供 Engine 内部使用
type compiledTables struct {
	product, category, typ, size, storeLocation, paymentType []string

	forbiddenBreakdown []string
	forbiddenProduct   []string
}

func compile(t CandidateTables) compiledTables {
	c := compiledTables{
		product:            normalizeAll(t.Product),
		category:           normalizeAll(t.Category),
		typ:                normalizeAll(t.Type),
		size:               normalizeAll(t.Size),
		storeLocation:      normalizeAll(t.StoreLocation),
		paymentType:        normalizeAll(t.PaymentType),
		forbiddenBreakdown: normalizeAll(t.ForbiddenBreakdown),
	}
	forbidden := make([]string, 0)
	forbidden = append(forbidden, c.category...)
	forbidden = append(forbidden, c.typ...)
	forbidden = append(forbidden, c.size...)
	forbidden = append(forbidden, c.storeLocation...)
	forbidden = append(forbidden, c.paymentType...)
	forbidden = append(forbidden, normalizeAll(t.ForbiddenProductExtra)...)
	c.forbiddenProduct = forbidden
	return c
}

func (c compiledTables) forRole(role model.Role) []string {
	switch role {
	case model.RoleProduct:
		return c.product
	case model.RoleCategory:
		return c.category
	case model.RoleType:
		return c.typ
	case model.RoleSize:
		return c.size
	case model.RoleStoreLocation:
		return c.storeLocation
	case model.RolePaymentType:
		return c.paymentType
	}
	return nil
}
