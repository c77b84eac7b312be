package parser

import (
	"testing"
	"time"
)

func TestParseDateTime(t *testing.T) {
	t.Parallel()

	cases := []struct {
		date, clock string
		want        time.Time
	}{
		{"2024-03-01 10:15:30", "", time.Date(2024, 3, 1, 10, 15, 30, 0, time.UTC)},
		{"2024-03-01T10:15:30.250Z", "", time.Date(2024, 3, 1, 10, 15, 30, 250*int(time.Millisecond), time.UTC)},
		{"2024-03-01", "10:15", time.Date(2024, 3, 1, 10, 15, 0, 0, time.UTC)},
		{"2024-03-01", "10:15:30", time.Date(2024, 3, 1, 10, 15, 30, 0, time.UTC)},
		{"2024-03-01", "", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"2024/03/01", "", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"2024.03.01", "08:30", time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)},
		{"15/03/2024", "", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"03-04-2024", "", time.Date(2024, 4, 3, 0, 0, 0, 0, time.UTC)},
		{"01.12.2023", "23:59:59", time.Date(2023, 12, 1, 23, 59, 59, 0, time.UTC)},
		{"March 5, 2024", "", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{" 2024-03-01 ", "", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, ok := ParseDateTime(tc.date, tc.clock)
		if !ok {
			t.Fatalf("ParseDateTime(%q, %q) failed", tc.date, tc.clock)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("ParseDateTime(%q, %q) got=%v want=%v", tc.date, tc.clock, got, tc.want)
		}
	}
}

func TestParseDateTimeRejectsInvalid(t *testing.T) {
	t.Parallel()

	inputs := []string{"", "   ", "not a date", "1718000000", "31/02/2024", "2024-13-01", "12.50"}
	for _, in := range inputs {
		if got, ok := ParseDateTime(in, ""); ok {
			t.Fatalf("ParseDateTime(%q) got=%v want failure", in, got)
		}
	}
}

func TestParseDateTimeRoundTrip(t *testing.T) {
	t.Parallel()

	base := time.Date(2023, 1, 31, 7, 5, 9, 0, time.UTC)
	for i := 0; i < 48; i++ {
		want := base.Add(time.Duration(i) * 37 * time.Hour)
		formatted := want.Format("2006-01-02 15:04:05")
		got, ok := ParseDateTime(formatted, "")
		if !ok || !got.Equal(want) {
			t.Fatalf("round trip %q got=%v ok=%v want=%v", formatted, got, ok, want)
		}
	}
}

func TestParseDateOnlyRoundTrip(t *testing.T) {
	t.Parallel()

	layouts := []string{"02-01-2006", "02/01/2006", "2006/01/02", "2006.01.02", "2006-01-02"}
	base := time.Date(2019, 12, 28, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 400; i++ {
		want := base.AddDate(0, 0, i*3)
		for _, layout := range layouts {
			formatted := want.Format(layout)
			got, ok := ParseDateTime(formatted, "")
			if !ok {
				t.Fatalf("parse %q (%s) failed", formatted, layout)
			}
			if got.Year() != want.Year() || got.Month() != want.Month() || got.Day() != want.Day() {
				t.Fatalf("round trip %q got=%v want=%v", formatted, got.Format("2006-01-02"), want.Format("2006-01-02"))
			}
		}
	}
}

func TestParseDateTimeInLocation(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+8", 8*3600)
	got, ok := ParseDateTimeIn(loc, "2024-03-01", "09:00")
	if !ok {
		t.Fatalf("parse failed")
	}
	if want := time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("got=%v want=%v", got.UTC(), want)
	}
}

func TestBuildDate(t *testing.T) {
	t.Parallel()

	got, ok := BuildDate(2024, 3, 1, "10:15:30.5")
	if !ok {
		t.Fatalf("build failed")
	}
	if want := time.Date(2024, 3, 1, 10, 15, 30, 500*int(time.Millisecond), time.UTC); !got.Equal(want) {
		t.Fatalf("got=%v want=%v", got, want)
	}

	// 无法解析的时间部分按 0 处理
	got, ok = BuildDate(2024, 3, 1, "xx:15")
	if !ok || got.Hour() != 0 || got.Minute() != 15 {
		t.Fatalf("lenient clock got=%v ok=%v", got, ok)
	}

	if _, ok := BuildDate(2024, 2, 30, ""); ok {
		t.Fatalf("Feb 30 must be rejected")
	}
	if _, ok := BuildDate(2023, 2, 29, ""); ok {
		t.Fatalf("Feb 29 on a non-leap year must be rejected")
	}
	if _, ok := BuildDate(2024, 2, 29, ""); !ok {
		t.Fatalf("Feb 29 on a leap year must be accepted")
	}
	if _, ok := BuildDate(2024, 1, 1, "24:00"); ok {
		t.Fatalf("hour 24 must be rejected")
	}
}
