// Package datetime holds the calendar-day arithmetic the order queries are
// built on, plus the pt-BR display formatting used across the app.
package datetime

import (
	"fmt"
	"time"
)

// Millis converts a time to epoch milliseconds, the unit scheduled/created
// timestamps are stored in.
func Millis(t time.Time) int64 { return t.UnixMilli() }

// FromMillis converts stored epoch milliseconds back to local time.
func FromMillis(ms int64) time.Time { return time.UnixMilli(ms) }

// StartOfDay returns 00:00:00.000 of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59.999 of t's calendar day. Day windows are
// inclusive of this instant.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// AddDays moves t forward by the given number of calendar days.
func AddDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}

// SameDay reports whether both times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

var weekdaysPTBR = [...]string{"dom.", "seg.", "ter.", "qua.", "qui.", "sex.", "sáb."}

var monthsPTBR = [...]string{
	"jan.", "fev.", "mar.", "abr.", "mai.", "jun.",
	"jul.", "ago.", "set.", "out.", "nov.", "dez.",
}

// FormatDate renders a timestamp as a short pt-BR date, e.g. "seg., 2 de set.".
// x/text has no date formatting, so the abbreviation tables live here.
func FormatDate(ms int64) string {
	t := FromMillis(ms)
	return fmt.Sprintf("%s, %d de %s",
		weekdaysPTBR[t.Weekday()], t.Day(), monthsPTBR[t.Month()-1])
}

// FormatTime renders a timestamp as "HH:MM".
func FormatTime(ms int64) string {
	return FromMillis(ms).Format("15:04")
}

// FormatDateTime joins date and time the way the order cards show them.
func FormatDateTime(ms int64) string {
	return fmt.Sprintf("%s às %s", FormatDate(ms), FormatTime(ms))
}
