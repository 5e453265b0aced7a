package util

import (
	"testing"
	"time"
)

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeBotStamp(t *testing.T) {
	got, ok := ParseTime("2026-02-10T14:05")
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Minute() != 5 || got.Day() != 10 {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
	got := ParseTimeDefault("", def)
	if !got.Equal(def) {
		t.Fatalf("expected default")
	}
}

func TestDayKeyZeroPadded(t *testing.T) {
	if got := DayKey(2026, time.February, 3); got != "2026-02-03" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestDaysInMonth(t *testing.T) {
	if got := DaysInMonth(2024, time.March); got != 31 {
		t.Fatalf("march 2024: got %d", got)
	}
	if got := DaysInMonth(2024, time.February); got != 29 {
		t.Fatalf("feb 2024 (leap): got %d", got)
	}
	if got := DaysInMonth(2026, time.February); got != 28 {
		t.Fatalf("feb 2026: got %d", got)
	}
}

func TestFirstWeekday(t *testing.T) {
	// March 2024 starts on a Friday.
	if got := FirstWeekday(2024, time.March); got != 5 {
		t.Fatalf("march 2024: got %d", got)
	}
}

func TestMonthLabel(t *testing.T) {
	if got := MonthLabel("2026-02"); got != "February 2026" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := MonthLabel("garbage"); got != "garbage" {
		t.Fatalf("expected passthrough, got %q", got)
	}
}
