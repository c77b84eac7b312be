package model

import "sort"

// Role 列的语义角色
type Role string

const (
	RoleProduct       Role = "product"
	RoleProductDetail Role = "product_detail" // 细粒度商品名（与类目型 product 并存时）
	RoleRevenue       Role = "revenue"
	RoleDate          Role = "date"
	RoleTime          Role = "time"
	RoleDatetime      Role = "datetime"
	RoleTimestamp     Role = "timestamp"
	RoleQuantity      Role = "quantity"
	RoleCategory      Role = "category"
	RoleType          Role = "type"
	RoleSize          Role = "size"
	RoleStoreLocation Role = "storeLocation"
	RolePaymentType   Role = "paymentType"
	RoleRegion        Role = "region"
)

// allRoles 固定遍历顺序；依赖“映射遍历顺序”的逻辑都按此顺序进行
var allRoles = []Role{
	RoleProduct,
	RoleProductDetail,
	RoleRevenue,
	RoleDate,
	RoleTime,
	RoleDatetime,
	RoleTimestamp,
	RoleQuantity,
	RoleCategory,
	RoleType,
	RoleSize,
	RoleStoreLocation,
	RolePaymentType,
	RoleRegion,
}

// AllRoles 返回全部角色（固定顺序的副本）
func AllRoles() []Role {
	out := make([]Role, len(allRoles))
	copy(out, allRoles)
	return out
}

// Valid 是否为已知角色
func (r Role) Valid() bool {
	for _, known := range allRoles {
		if r == known {
			return true
		}
	}
	return false
}

// IsBreakdown 是否为拆分维度角色
func (r Role) IsBreakdown() bool {
	switch r {
	case RoleCategory, RoleType, RoleSize, RoleStoreLocation:
		return true
	}
	return false
}

// Mapping 角色 -> 列名。值语义：修改方法均返回新的 Mapping。
type Mapping map[Role]string

// Get 获取角色对应的列名
func (m Mapping) Get(role Role) (string, bool) {
	if m == nil {
		return "", false
	}
	h, ok := m[role]
	if !ok || h == "" {
		return "", false
	}
	return h, true
}

// Header 获取角色对应的列名，未映射返回空串
func (m Mapping) Header(role Role) string {
	h, _ := m.Get(role)
	return h
}

// Has 角色是否已映射
func (m Mapping) Has(role Role) bool {
	_, ok := m.Get(role)
	return ok
}

// Clone 复制映射（丢弃空值）
func (m Mapping) Clone() Mapping {
	out := make(Mapping, len(m))
	for r, h := range m {
		if h != "" {
			out[r] = h
		}
	}
	return out
}

// With 返回设置了 role 的新映射；header 为空时等同于 Without
func (m Mapping) With(role Role, header string) Mapping {
	out := m.Clone()
	if header == "" {
		delete(out, role)
		return out
	}
	out[role] = header
	return out
}

// Without 返回去掉 role 的新映射
func (m Mapping) Without(role Role) Mapping {
	out := m.Clone()
	delete(out, role)
	return out
}

// Entry 映射条目
type Entry struct {
	Role   Role   `json:"role"`
	Header string `json:"header"`
}

// Entries 按固定角色顺序列出已映射条目；未知角色排在最后（按名称排序）
func (m Mapping) Entries() []Entry {
	out := make([]Entry, 0, len(m))
	for _, r := range allRoles {
		if h, ok := m.Get(r); ok {
			out = append(out, Entry{Role: r, Header: h})
		}
	}
	var unknown []Role
	for r, h := range m {
		if h != "" && !r.Valid() {
			unknown = append(unknown, r)
		}
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })
	for _, r := range unknown {
		out = append(out, Entry{Role: r, Header: m[r]})
	}
	return out
}

// Headers 按角色顺序返回已映射列名
func (m Mapping) Headers() []string {
	entries := m.Entries()
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Header)
	}
	return out
}

// Injective 是否没有两个角色映射到同一列
func (m Mapping) Injective() bool {
	seen := make(map[string]struct{}, len(m))
	for _, h := range m {
		if h == "" {
			continue
		}
		if _, dup := seen[h]; dup {
			return false
		}
		seen[h] = struct{}{}
	}
	return true
}
