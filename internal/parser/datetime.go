package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	isoDateTimeRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}[\sT]\d{2}:\d{2}:\d{2}(\.\d+)?`)
	isoDateRe     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(T.*)?$`)
	ymdRe         = regexp.MustCompile(`^(\d{4})[/.](\d{2})[/.](\d{2})$`)
	dmyRe         = regexp.MustCompile(`^(\d{2})[/\-.](\d{2})[/\-.](\d{4})$`)
	fractionRe    = regexp.MustCompile(`\.\d+`)
)

// nativeLayouts 宽松解析使用的格式（无时区信息时按调用方给定的时区解释）
var nativeLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006-01",
	"2006",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
	time.UnixDate,
	"Mon Jan 2 2006",
	"Mon Jan 02 2006 15:04:05",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"January 2 2006",
	"2 Jan 2006",
	"2 January 2006",
	"02-Jan-2006",
	"2006/1/2",
	"2006/1/2 15:04:05",
	"2006/1/2 15:04",
	// 单数字月日的斜杠格式按月在前解释（与常见宽松解析器一致）
	"1/2/2006",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
}

// ParseDateTime 解析日期（及可选的时间部分），无时区信息时按 UTC 解释。
// 无法解析时返回 false，从不 panic。
func ParseDateTime(datePart, timePart string) (time.Time, bool) {
	return ParseDateTimeIn(time.UTC, datePart, timePart)
}

// ParseDateTimeIn 同 ParseDateTime，无时区信息的输入按 loc 解释。优先级：
//  1. 单字段 ISO 日期时间（空格或 T 分隔，可带小数秒；失败后去掉小数秒重试）
//  2. 日期 + 时间两字段拼接为 ISO（同样重试）
//  3. YYYY-MM-DD（可带 T 后缀）
//  4. YYYY/MM/DD、YYYY.MM.DD
//  5. DD-MM-YYYY、DD/MM/YYYY、DD.MM.YYYY（日在前）
//  6. 宽松解析兜底
func ParseDateTimeIn(loc *time.Location, datePart, timePart string) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	trimmed := strings.TrimSpace(datePart)
	if trimmed == "" {
		return time.Time{}, false
	}
	timePart = strings.TrimSpace(timePart)

	if isoDateTimeRe.MatchString(trimmed) {
		iso := strings.Replace(trimmed, " ", "T", 1)
		if t, ok := parseWithFractionRetry(loc, iso); ok {
			return t, true
		}
	}

	if timePart != "" {
		if t, ok := parseWithFractionRetry(loc, trimmed+"T"+timePart); ok {
			return t, true
		}
	}

	if isoDateRe.MatchString(trimmed) {
		iso := trimmed
		if timePart != "" {
			iso = trimmed + "T" + timePart
		}
		return parseNative(loc, iso)
	}

	if m := ymdRe.FindStringSubmatch(trimmed); m != nil {
		return buildFromStrings(loc, m[1], m[2], m[3], timePart)
	}

	if m := dmyRe.FindStringSubmatch(trimmed); m != nil {
		return buildFromStrings(loc, m[3], m[2], m[1], timePart)
	}

	fallback := trimmed
	if timePart != "" {
		fallback = trimmed + "T" + timePart
	}
	return parseNative(loc, fallback)
}

func parseWithFractionRetry(loc *time.Location, s string) (time.Time, bool) {
	if t, ok := parseNative(loc, s); ok {
		return t, true
	}
	noFraction := fractionRe.ReplaceAllString(s, "")
	if noFraction == s {
		return time.Time{}, false
	}
	return parseNative(loc, noFraction)
}

func parseNative(loc *time.Location, s string) (time.Time, bool) {
	for _, layout := range nativeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func buildFromStrings(loc *time.Location, year, month, day, timePart string) (time.Time, bool) {
	y, err1 := strconv.Atoi(year)
	m, err2 := strconv.Atoi(month)
	d, err3 := strconv.Atoi(day)
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	return BuildDateIn(loc, y, m, d, timePart)
}

// BuildDate 由年月日与可选的 HH:MM[:SS[.mmm]] 组装时间（UTC）。
// 时间各部分缺失或无法解析时按 0 处理；日期不存在（如 2 月 30 日）时返回 false。
func BuildDate(year, month, day int, timePart string) (time.Time, bool) {
	return BuildDateIn(time.UTC, year, month, day, timePart)
}

// BuildDateIn 同 BuildDate，按 loc 组装
func BuildDateIn(loc *time.Location, year, month, day int, timePart string) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	hour, minute, second, millis := parseClock(timePart)
	if hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, hour, minute, second, millis*int(time.Millisecond), loc)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// parseClock 解析 HH:MM[:SS[.mmm]]，每个部分独立回退为 0
func parseClock(timePart string) (hour, minute, second, millis int) {
	t := strings.TrimSpace(timePart)
	if t == "" {
		return 0, 0, 0, 0
	}
	parts := strings.Split(t, ":")
	hour = atoiOrZero(parts[0])
	if len(parts) > 1 {
		minute = atoiOrZero(parts[1])
	}
	if len(parts) > 2 && parts[2] != "" {
		sec, frac, _ := strings.Cut(parts[2], ".")
		second = atoiOrZero(sec)
		millis = fractionMillis(frac)
	}
	return hour, minute, second, millis
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// fractionMillis 小数秒转毫秒：".5" -> 500，".1234" -> 123
func fractionMillis(frac string) int {
	if frac == "" {
		return 0
	}
	for _, r := range frac {
		if r < '0' || r > '9' {
			return 0
		}
	}
	if len(frac) > 3 {
		frac = frac[:3]
	}
	for len(frac) < 3 {
		frac += "0"
	}
	ms, _ := strconv.Atoi(frac)
	return ms
}
