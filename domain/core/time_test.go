package core

import (
	"testing"
	"time"
)

func TestCalendarDateDropsClock(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	in := time.Date(2021, 3, 10, 23, 30, 0, 0, loc)

	got := CalendarDate(in)
	want := time.Date(2021, 3, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("CalendarDate(%v) = %v, want %v", in, got, want)
	}
	if !IsMidnight(got) {
		t.Error("calendar date should be midnight")
	}
}

func TestParseCalendarDate(t *testing.T) {
	d, err := ParseCalendarDate("2021-02-28")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if FormatDate(d) != "2021-02-28" {
		t.Errorf("round trip mismatch: %s", FormatDate(d))
	}
	if _, err := ParseCalendarDate("28/02/2021"); err == nil {
		t.Error("expected error for non-ISO date")
	}
}
