package parser

import (
	"regexp"
	"strings"

	"tallyboard/internal/model"
)

// 上传时自动识别使用的关键词（小写、空格分隔形式）
var (
	productDetailKeys = []string{
		"product detail", "menu item", "item detail", "item description", "product name", "item name",
		"dish", "drink", "coffee", "tea", "bakery",
	}
	productCategoryKeys = []string{
		"product category", "category", "type", "classification", "group",
	}
	productFallbackKeys = []string{
		"item", "menu item", "pizza name", "product", "dish", "type", "description",
		"name", "pizza", "menu", "product name", "item name", "product_name",
		"item_name", "title", "service", "material", "sku",
	}
	revenueKeys = []string{
		"revenue", "amount", "total_price", "price", "sales", "total", "cost",
		"total_amount", "grand_total", "net_amount", "gross_amount", "value",
		"total price", "unit price", "line total",
	}
	quantityKeys = []string{
		"qty", "quantity", "units_sold", "count", "items", "units", "pieces",
		"amount", "number", "sold", "ordered",
	}
	dateKeys = []string{
		"date", "time", "invoice_date", "order_date", "transaction_date", "invoicedate",
		"created", "timestamp", "when", "order date", "transaction date",
	}
	regionKeys = []string{"region", "country", "state", "location", "city"}
)

var (
	separatorRunRe = regexp.MustCompile(`[_\s]+`)
	clockValueRe   = regexp.MustCompile(`^(?:[01]?\d|2[0-3]):[0-5]\d(?::[0-5]\d)?$`)
	timeHeaderRe   = regexp.MustCompile(`(?i)time`)
)

// spaced 小写并把下划线/空白串折叠为单个空格
func spaced(s string) string {
	return separatorRunRe.ReplaceAllString(strings.ToLower(s), " ")
}

// AutoMap 上传时根据首行样例自动识别列映射。
// 每列最多分配给一个角色，先识别者优先。
func AutoMap(table *model.Table, businessType model.BusinessType) model.Mapping {
	mapping := model.Mapping{}
	if table == nil || len(table.Headers) == 0 {
		return mapping
	}
	sample := table.Sample()
	claimed := NewClaims()

	assign := func(role model.Role, header string) {
		if header == "" || claimed.Has(header) {
			return
		}
		mapping[role] = header
		claimed.Add(header)
	}
	// findHeader 第一个满足条件且未被占用的列
	findHeader := func(match func(header string) bool) string {
		for _, h := range table.Headers {
			if claimed.Has(h) {
				continue
			}
			if match(h) {
				return h
			}
		}
		return ""
	}
	containsKey := func(keys []string, normalize func(string) string) func(string) bool {
		return func(h string) bool {
			return ContainsAny(normalize(h), keys)
		}
	}

	// 商品明细与类目型商品
	assign(model.RoleProductDetail, findHeader(containsKey(productDetailKeys, spaced)))
	assign(model.RoleProduct, findHeader(containsKey(productCategoryKeys, spaced)))

	if !mapping.Has(model.RoleProduct) && !mapping.Has(model.RoleProductDetail) {
		assign(model.RoleProduct, bestProductHeader(table.Headers, sample, claimed))
	}

	assign(model.RoleRevenue, findHeader(containsKey(revenueKeys, strings.ToLower)))
	assign(model.RoleQuantity, findHeader(containsKey(quantityKeys, strings.ToLower)))

	// 日期：列名关键词，否则取样例值可解析为日期且带时分的列
	dateHeader := findHeader(containsKey(dateKeys, strings.ToLower))
	if dateHeader == "" {
		dateHeader = findHeader(func(h string) bool {
			v := sample[h].Text()
			if !strings.Contains(v, ":") {
				return false
			}
			_, ok := ParseDateTime(v, "")
			return ok
		})
	}
	assign(model.RoleDate, dateHeader)

	// 时间：优先列名含 time 的 HH:MM[:SS] 列
	isClock := func(h string) bool {
		return clockValueRe.MatchString(strings.TrimSpace(sample[h].Text()))
	}
	timeHeader := findHeader(func(h string) bool { return timeHeaderRe.MatchString(h) && isClock(h) })
	if timeHeader == "" {
		timeHeader = findHeader(isClock)
	}
	assign(model.RoleTime, timeHeader)

	if businessType == model.BusinessOnlineSeller {
		assign(model.RoleRegion, findHeader(containsKey(regionKeys, strings.ToLower)))
	}
	return mapping
}

// bestProductHeader 通用商品列打分：样例为名称形态 +2，且列名不以 id/code/sku/number 结尾 +3，列名与关键词相同 +1
func bestProductHeader(headers []string, sample model.Row, claimed Claims) string {
	best := ""
	bestScore := 0
	for _, h := range headers {
		if claimed.Has(h) {
			continue
		}
		lower := strings.ToLower(h)
		value := sample[h]
		isName := value.IsString() && looksLikeName(value.Str)
		for _, key := range productFallbackKeys {
			if !strings.Contains(lower, key) {
				continue
			}
			score := 1
			if isName {
				score += 2
				if !productNameTailRe.MatchString(lower) {
					score += 3
				}
			}
			if lower == key {
				score++
			}
			if score > bestScore {
				bestScore = score
				best = h
			}
		}
	}
	return best
}
