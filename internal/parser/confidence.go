package parser

import "tallyboard/internal/model"

// DefaultConfidenceThreshold 低于该置信度时需要人工确认映射
const DefaultConfidenceThreshold = 0.7

// Confidence 映射质量打分 [0,1]：
// 必需字段（商品或商品明细、营收）的映射比例，数量 +0.2，日期 +0.1，
// 商品样例值为长度大于 2 的非数字文本 +0.2，最终截断到 1
func Confidence(mapping model.Mapping, sample model.Row) float64 {
	required := 0
	if mapping.Has(model.RoleProduct) || mapping.Has(model.RoleProductDetail) {
		required++
	}
	if mapping.Has(model.RoleRevenue) {
		required++
	}
	score := float64(required) / 2

	if mapping.Has(model.RoleQuantity) {
		score += 0.2
	}
	if mapping.Has(model.RoleDate) {
		score += 0.1
	}

	col := mapping.Header(model.RoleProductDetail)
	if col == "" {
		col = mapping.Header(model.RoleProduct)
	}
	if col != "" && sample != nil {
		if v := sample[col]; v.IsString() && looksLikeName(v.Str) {
			score += 0.2
		}
	}

	if score > 1 {
		score = 1
	}
	return score
}

// NeedsManualMapping 置信度低于阈值时需要人工映射；阈值非法时使用默认值
func NeedsManualMapping(score, threshold float64) bool {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultConfidenceThreshold
	}
	return score < threshold
}
