// Package schedule decides whether a time-boxed promotional unit (a menu or a
// banner) is visible at a given instant. It contains the calendar arithmetic,
// one matcher per recurrence type, and the evaluator that combines a
// day-selection rule with an optional time-of-day window.
//
// Everything here is a pure function of its inputs. Persisted values stay plain
// strings ("HH:mm", "MM-DD"); they are parsed once into Clock and MonthDay when a
// Config is compiled into a Rule.
package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// errMalformed is returned by the parsers for strings that do not match the
// expected shape.
var errMalformed = errors.New("malformed value")

// WeekdayOrdinalInMonth returns which occurrence of its weekday t is within its
// month, 1-based (the 15th is always the 3rd occurrence).
func WeekdayOrdinalInMonth(t time.Time) int {
	return (t.Day()-1)/7 + 1
}

// DaysInMonth returns the number of days of month in year.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsLastWeekdayOfMonth reports whether no later occurrence of t's weekday
// exists in t's month.
func IsLastWeekdayOfMonth(t time.Time) bool {
	return t.Day()+7 > DaysInMonth(t.Year(), t.Month())
}

// MinutesSinceMidnight returns the wall-clock minutes of t in its own location.
func MinutesSinceMidnight(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// Clock is a time of day with minute precision.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses an "HH:mm" string. A single-digit hour ("9:30") is accepted.
func ParseClock(s string) (Clock, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Clock{}, fmt.Errorf("clock %q: %w", s, errMalformed)
	}
	hour, err := strconv.Atoi(h)
	if err != nil || len(h) > 2 || hour < 0 || hour > 23 {
		return Clock{}, fmt.Errorf("clock %q: %w", s, errMalformed)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || len(m) != 2 || minute < 0 || minute > 59 {
		return Clock{}, fmt.Errorf("clock %q: %w", s, errMalformed)
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

// Minutes returns the minutes since midnight represented by c.
func (c Clock) Minutes() int { return c.Hour*60 + c.Minute }

func (c Clock) String() string { return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute) }

// MonthDay is a day of the year without a year, as stored in "MM-DD" form.
type MonthDay struct {
	Month time.Month
	Day   int
}

// ParseMonthDay parses an "MM-DD" string. Feb 29 is accepted.
func ParseMonthDay(s string) (MonthDay, error) {
	m, d, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok || len(m) != 2 || len(d) != 2 {
		return MonthDay{}, fmt.Errorf("month-day %q: %w", s, errMalformed)
	}
	month, err := strconv.Atoi(m)
	if err != nil || month < 1 || month > 12 {
		return MonthDay{}, fmt.Errorf("month-day %q: %w", s, errMalformed)
	}
	day, err := strconv.Atoi(d)
	// 2024 is a leap year, so Feb 29 passes.
	if err != nil || day < 1 || day > DaysInMonth(2024, time.Month(month)) {
		return MonthDay{}, fmt.Errorf("month-day %q: %w", s, errMalformed)
	}
	return MonthDay{Month: time.Month(month), Day: day}, nil
}

// MonthDayOf returns the month and day of t.
func MonthDayOf(t time.Time) MonthDay {
	return MonthDay{Month: t.Month(), Day: t.Day()}
}

// Ordinal returns month*100+day, which orders month-days within a year.
func (md MonthDay) Ordinal() int { return int(md.Month)*100 + md.Day }

func (md MonthDay) String() string { return fmt.Sprintf("%02d-%02d", int(md.Month), md.Day) }

// Date is a civil calendar date with no time of day or location.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) ordinal() int { return d.Year*10000 + int(d.Month)*100 + d.Day }

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool { return d.ordinal() < o.ordinal() }

// After reports whether d is strictly later than o.
func (d Date) After(o Date) bool { return d.ordinal() > o.ordinal() }

func (d Date) String() string { return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day) }
