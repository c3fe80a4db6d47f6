package datetime

import (
	"testing"
	"time"
)

func TestDayWindow(t *testing.T) {
	ref := time.Date(2026, time.March, 14, 15, 9, 26, 0, time.Local)
	start := StartOfDay(ref)
	end := EndOfDay(ref)

	if start.Hour() != 0 || start.Minute() != 0 || start.Second() != 0 || start.Nanosecond() != 0 {
		t.Fatalf("start of day = %v", start)
	}
	if end.Hour() != 23 || end.Minute() != 59 || end.Second() != 59 {
		t.Fatalf("end of day = %v", end)
	}
	if got := end.Sub(start); got != 24*time.Hour-time.Millisecond {
		t.Fatalf("window length = %v", got)
	}
	if !SameDay(start, end) {
		t.Fatal("start and end should share a calendar day")
	}
	if SameDay(end, end.Add(time.Millisecond)) {
		t.Fatal("1ms past end of day is the next day")
	}
}

func TestAddDays(t *testing.T) {
	ref := time.Date(2026, time.February, 27, 10, 0, 0, 0, time.Local)
	got := AddDays(ref, 2)
	if got.Month() != time.March || got.Day() != 1 {
		t.Fatalf("AddDays over month boundary = %v", got)
	}
	if !SameDay(AddDays(ref, 0), ref) {
		t.Fatal("AddDays(0) should keep the day")
	}
}

func TestMillisRoundTrip(t *testing.T) {
	ref := time.Date(2026, time.August, 30, 15, 0, 0, 0, time.Local)
	if got := FromMillis(Millis(ref)); !got.Equal(ref) {
		t.Fatalf("round trip = %v, want %v", got, ref)
	}
}

func TestFormat(t *testing.T) {
	// 2026-08-31 is a Monday.
	ms := Millis(time.Date(2026, time.August, 31, 15, 0, 0, 0, time.Local))
	if got := FormatDate(ms); got != "seg., 31 de ago." {
		t.Errorf("FormatDate = %q", got)
	}
	if got := FormatTime(ms); got != "15:00" {
		t.Errorf("FormatTime = %q", got)
	}
	if got := FormatDateTime(ms); got != "seg., 31 de ago. às 15:00" {
		t.Errorf("FormatDateTime = %q", got)
	}
}
