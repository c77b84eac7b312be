package parser

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Normalize 规范化列名：去除空白和下划线并转小写
// "Store Location" / "store_location" / "storelocation" 规范化后相同
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '_' || unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

// normalizeAll 规范化一组片段；规范化后为空的片段会匹配任意列名，直接丢弃
func normalizeAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if n := Normalize(it); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// equalsAny 规范化后的列名是否与任一片段完全相同
func equalsAny(norm string, fragments []string) bool {
	for _, f := range fragments {
		if norm == f {
			return true
		}
	}
	return false
}

// containsAnyFragment 规范化后的列名是否包含任一片段
func containsAnyFragment(norm string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(norm, f) {
			return true
		}
	}
	return false
}

// ContainsAny 检查字符串是否包含任意一个关键词
func ContainsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// MatchPattern 使用正则匹配
func MatchPattern(text, pattern string) bool {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(text)
}

// isNumericText 文本能否整体解析为数字（空串视为数字 0）
func isNumericText(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return !strings.EqualFold(s, "nan")
	}
	if len(s) > 2 && (strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")) {
		_, err := strconv.ParseUint(s[2:], 16, 64)
		return err == nil
	}
	return false
}

// looksLikeName 非数字且长度大于 2 的文本（区分真实名称与数字编码）
func looksLikeName(s string) bool {
	return s != "" && !isNumericText(s) && utf8.RuneCountInString(s) > 2
}
