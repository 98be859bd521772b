package util

import (
	"testing"
	"time"
)

func TestParseDay(t *testing.T) {
	got, ok := ParseDay("2024-10-10")
	if !ok {
		t.Fatalf("expected ok")
	}
	if FormatDay(got) != "2024-10-10" {
		t.Fatalf("unexpected day %v", got)
	}
	if _, ok := ParseDay("10/10/2024"); ok {
		t.Fatalf("expected failure for wrong layout")
	}
	if _, ok := ParseDay(""); ok {
		t.Fatalf("expected failure for empty")
	}
}

func TestRecentWeekdaysSkipsWeekend(t *testing.T) {
	// Monday 2024-05-06; the walk starts on the previous day
	now := time.Date(2024, 5, 6, 15, 30, 0, 0, time.UTC)
	got := RecentWeekdays(now, 3)
	want := []string{"2024-05-03", "2024-05-02", "2024-05-01"}
	if len(got) != len(want) {
		t.Fatalf("len = %d", len(got))
	}
	for i := range want {
		if FormatDay(got[i]) != want[i] {
			t.Fatalf("day %d = %s, want %s", i, FormatDay(got[i]), want[i])
		}
		if IsWeekend(got[i]) {
			t.Fatalf("weekend date returned: %s", FormatDay(got[i]))
		}
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	if d := DaysBetween(a, b); d != 90 {
		t.Fatalf("days = %d", d)
	}
}
