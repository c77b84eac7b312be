package health

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"tallyboard/internal/model"
	"tallyboard/internal/parser"
)

// EpochDate 无法解析时的占位日期
const EpochDate = "1970-01-01"

var (
	unixSecondsRe = regexp.MustCompile(`^\d{10}$`)
	unixMillisRe  = regexp.MustCompile(`^\d{13}$`)
)

// RowDateText 取一行的日期文本：date(+time) > datetime > timestamp
func RowDateText(row model.Row, mapping model.Mapping) string {
	if col := mapping.Header(model.RoleDate); col != "" && row[col].Present() {
		s := strings.TrimSpace(row[col].Text())
		if tc := mapping.Header(model.RoleTime); tc != "" && row[tc].Present() {
			s += " " + strings.TrimSpace(row[tc].Text())
		}
		return s
	}
	if col := mapping.Header(model.RoleDatetime); col != "" && row[col].Present() {
		return strings.TrimSpace(row[col].Text())
	}
	if col := mapping.Header(model.RoleTimestamp); col != "" && row[col].Present() {
		return strings.TrimSpace(row[col].Text())
	}
	return ""
}

// ParseRowTime 解析日期文本；10 位数字为 Unix 秒，13 位为 Unix 毫秒，
// 其余交给通用日期解析，失败时再尝试第一个空格前的部分
func ParseRowTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if unixSecondsRe.MatchString(s) {
		sec, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return time.Time{}, false
		}
		return time.Unix(sec, 0).UTC(), true
	}
	if unixMillisRe.MatchString(s) {
		ms, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return time.Time{}, false
		}
		return time.UnixMilli(ms).UTC(), true
	}
	if t, ok := parser.ParseDateTime(s, ""); ok {
		return t.UTC(), true
	}
	if first, _, found := strings.Cut(s, " "); found {
		if t, ok := parser.ParseDateTime(first, ""); ok {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// NormalizeDate 将一行的日期规范化为 YYYY-MM-DD（UTC），无法解析时返回 1970-01-01
func NormalizeDate(row model.Row, mapping model.Mapping) string {
	t, ok := ParseRowTime(RowDateText(row, mapping))
	if !ok {
		return EpochDate
	}
	return t.Format("2006-01-02")
}
