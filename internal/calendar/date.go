// Package calendar provides a timezone-free calendar date used for all NAV
// date arithmetic.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// Layouts accepted by Parse. The upstream NAV API reports dd-mm-yyyy.
const (
	ISOLayout      = "2006-01-02"
	UpstreamLayout = "02-01-2006"
)

// Date is a calendar date with no time-of-day or location.
type Date struct {
	civil.Date
}

// New builds a Date, normalizing out-of-range months and days the same way time.Date does.
func New(year int, month time.Month, day int) Date {
	return FromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// FromTime returns the calendar date of t in t's own location.
func FromTime(t time.Time) Date {
	return Date{civil.DateOf(t)}
}

// Today returns the current local calendar date.
func Today() Date {
	return FromTime(time.Now())
}

// Parse reads an ISO-8601 (yyyy-mm-dd) or upstream (dd-mm-yyyy) date.
func Parse(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{ISOLayout, UpstreamLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return FromTime(t), nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q: want yyyy-mm-dd or dd-mm-yyyy", s)
}

// MustParse is Parse for literals in tests and tables.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool { return d.Date.Before(other.Date) }

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool { return d.Date.After(other.Date) }

// Equal reports whether both dates name the same day.
func (d Date) Equal(other Date) bool { return d.Date == other.Date }

// DaysUntil returns the signed number of days from d to other.
func (d Date) DaysUntil(other Date) int {
	return other.Date.DaysSince(d.Date)
}

// AbsDays returns the unsigned day distance between two dates.
func AbsDays(a, b Date) int {
	n := a.DaysUntil(b)
	if n < 0 {
		return -n
	}
	return n
}

// AddDays shifts d by n days.
func (d Date) AddDays(n int) Date {
	return Date{d.Date.AddDays(n)}
}

// AddMonths shifts d by n calendar months, clamping the day to the end of
// the target month (31 March minus one month is 28 or 29 February).
func (d Date) AddMonths(n int) Date {
	first := time.Date(d.Year, d.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	day := d.Day
	if last := daysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return New(first.Year(), first.Month(), day)
}

// AddYears shifts d by n years with the same month-end clamping as AddMonths.
func (d Date) AddYears(n int) Date {
	return d.AddMonths(12 * n)
}

// StartOfMonth returns the first day of d's month.
func (d Date) StartOfMonth() Date {
	return New(d.Year, d.Month, 1)
}

// YearsBetween returns the number of whole years elapsed from `from` to `to`.
// The result is negative when to is before from.
func YearsBetween(from, to Date) int {
	if to.Before(from) {
		return -YearsBetween(to, from)
	}
	years := to.Year - from.Year
	if to.Month < from.Month || (to.Month == from.Month && to.Day < from.Day) {
		years--
	}
	return years
}

// MonthStarts returns the first day of every calendar month touched by
// [from, to], in ascending order. The first element may precede from.
// An inverted range yields nil.
func MonthStarts(from, to Date) []Date {
	if to.Before(from) {
		return nil
	}
	last := to.StartOfMonth()
	var out []Date
	for m := from.StartOfMonth(); !m.After(last); m = m.AddMonths(1) {
		out = append(out, m)
	}
	return out
}

// UnmarshalText accepts both supported layouts.
func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
