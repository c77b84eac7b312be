package parser

import (
	"strings"

	"tallyboard/internal/model"
)

type businessRule struct {
	Type     model.BusinessType
	Keywords []string
}

// 文件名优先于列名；同一来源内按规则顺序命中
var filenameRules = []businessRule{
	{Type: model.BusinessRestaurant, Keywords: []string{"pizza", "restaurant", "cafe", "menu"}},
	{Type: model.BusinessOnlineSeller, Keywords: []string{"shop", "fashion", "store", "online"}},
	{Type: model.BusinessConstruction, Keywords: []string{"construction", "building", "contractor"}},
	{Type: model.BusinessRetail, Keywords: []string{"retail"}},
}

var headerRules = []businessRule{
	{Type: model.BusinessRestaurant, Keywords: []string{"pizza", "menu", "dish", "order"}},
	{Type: model.BusinessOnlineSeller, Keywords: []string{"shipping", "category", "sku", "variant", "shopify", "shopee"}},
	{Type: model.BusinessConstruction, Keywords: []string{"construction", "material", "contractor", "project"}},
}

// DetectBusinessType 根据文件名与列名推断业务类型，无法判断时为零售
func DetectBusinessType(filename string, headers []string) model.BusinessType {
	name := strings.ToLower(filename)
	for _, rule := range filenameRules {
		if ContainsAny(name, rule.Keywords) {
			return rule.Type
		}
	}

	lowered := make([]string, 0, len(headers))
	for _, h := range headers {
		lowered = append(lowered, strings.ToLower(h))
	}
	for _, rule := range headerRules {
		for _, h := range lowered {
			if ContainsAny(h, rule.Keywords) {
				return rule.Type
			}
		}
	}
	return model.BusinessRetail
}

// ResolveBusinessType 用户已选择具体类型时直接采用，否则自动推断
func ResolveBusinessType(requested model.BusinessType, filename string, headers []string) model.BusinessType {
	if requested != "" && requested != model.BusinessOther && requested.Valid() {
		return requested
	}
	return DetectBusinessType(filename, headers)
}
