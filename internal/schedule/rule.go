package schedule

import (
	"slices"
	"time"
)

// Type is the recurrence category governing when a unit is shown.
type Type string

const (
	TypeAlways  Type = "ALWAYS"
	TypeDaily   Type = "DAILY"
	TypeWeekly  Type = "WEEKLY"
	TypeMonthly Type = "MONTHLY"
	TypeYearly  Type = "YEARLY"
	TypePeriod  Type = "PERIOD"
)

// Types lists every recognized schedule type.
var Types = []Type{TypeAlways, TypeDaily, TypeWeekly, TypeMonthly, TypeYearly, TypePeriod}

// Rule is a compiled schedule. The set of implementations is closed: Always,
// Daily, Weekly, Monthly, Yearly, Period and Unknown.
type Rule interface {
	// Type returns the schedule type the rule was compiled from.
	Type() Type
	// Active reports whether the rule admits now.
	Active(now time.Time) bool

	sealed()
}

// Window is a time-of-day filter with inclusive bounds. When End is earlier
// than Start the window wraps past midnight. A nil *Window admits every instant.
type Window struct {
	Start Clock
	End   Clock
}

// Contains reports whether now's wall-clock time falls inside w.
func (w *Window) Contains(now time.Time) bool {
	if w == nil {
		return true
	}
	cur, start, end := MinutesSinceMidnight(now), w.Start.Minutes(), w.End.Minutes()
	if end < start {
		return cur >= start || cur <= end
	}
	return cur >= start && cur <= end
}

// Always is visible at every instant. It ignores any daily window.
type Always struct{}

func (Always) Type() Type              { return TypeAlways }
func (Always) Active(_ time.Time) bool { return true }
func (Always) sealed()                 {}

// Daily restricts visibility to a clock window every day.
type Daily struct {
	Window *Window
}

func (Daily) Type() Type                  { return TypeDaily }
func (r Daily) Active(now time.Time) bool { return r.Window.Contains(now) }
func (Daily) sealed()                     {}

// Weekly is visible on the listed weekdays. An empty set means every day.
type Weekly struct {
	Days   []time.Weekday
	Window *Window
}

func (Weekly) Type() Type { return TypeWeekly }
func (Weekly) sealed()    {}

// MatchesDay reports whether now's weekday is selected.
func (r Weekly) MatchesDay(now time.Time) bool {
	return len(r.Days) == 0 || slices.Contains(r.Days, now.Weekday())
}

func (r Weekly) Active(now time.Time) bool {
	return r.MatchesDay(now) && r.Window.Contains(now)
}

// Occurrence selects the Nth occurrence of a weekday in a month. Ordinal 0
// selects every occurrence and -1 selects the last one.
type Occurrence struct {
	Weekday time.Weekday
	Ordinal int
}

// Matches reports whether now is the selected occurrence.
func (o Occurrence) Matches(now time.Time) bool {
	if now.Weekday() != o.Weekday {
		return false
	}
	switch o.Ordinal {
	case 0:
		return true
	case -1:
		return IsLastWeekdayOfMonth(now)
	default:
		return WeekdayOrdinalInMonth(now) == o.Ordinal
	}
}

// Monthly is visible on selected days of each month: either by day of month
// or, when Occurrence is set, by weekday occurrence. Occurrence wins over Days.
type Monthly struct {
	Days       []int
	Occurrence *Occurrence
	Window     *Window
}

func (Monthly) Type() Type { return TypeMonthly }
func (Monthly) sealed()    {}

// MatchesDay reports whether now's day is selected. An empty day set with no
// occurrence means every day.
func (r Monthly) MatchesDay(now time.Time) bool {
	if r.Occurrence != nil {
		return r.Occurrence.Matches(now)
	}
	return len(r.Days) == 0 || slices.Contains(r.Days, now.Day())
}

func (r Monthly) Active(now time.Time) bool {
	return r.MatchesDay(now) && r.Window.Contains(now)
}

// MonthDayRange is an inclusive span of month-days. When End precedes Start the
// span wraps across the new year.
type MonthDayRange struct {
	Start MonthDay
	End   MonthDay
}

// Contains reports whether now's month-day falls inside the range.
func (r MonthDayRange) Contains(now time.Time) bool {
	cur, start, end := MonthDayOf(now).Ordinal(), r.Start.Ordinal(), r.End.Ordinal()
	if end < start {
		return cur >= start || cur <= end
	}
	return cur >= start && cur <= end
}

// Yearly is visible during the same month-day range every year. A nil Range
// means the whole year.
type Yearly struct {
	Range  *MonthDayRange
	Window *Window
}

func (Yearly) Type() Type { return TypeYearly }
func (Yearly) sealed()    {}

// MatchesDay reports whether now falls inside the yearly range.
func (r Yearly) MatchesDay(now time.Time) bool {
	return r.Range == nil || r.Range.Contains(now)
}

func (r Yearly) Active(now time.Time) bool {
	return r.MatchesDay(now) && r.Window.Contains(now)
}

// Period is visible between two absolute calendar dates, both inclusive. A nil
// bound leaves that side open. Bounds keep their instant; their calendar date
// is read in the location of the time being evaluated.
type Period struct {
	Start  *time.Time
	End    *time.Time
	Window *Window
}

func (Period) Type() Type { return TypePeriod }
func (Period) sealed()    {}

// MatchesDay reports whether now's calendar date lies within the period.
func (r Period) MatchesDay(now time.Time) bool {
	today := DateOf(now)
	if r.Start != nil && today.Before(DateOf(r.Start.In(now.Location()))) {
		return false
	}
	if r.End != nil && today.After(DateOf(r.End.In(now.Location()))) {
		return false
	}
	return true
}

func (r Period) Active(now time.Time) bool {
	return r.MatchesDay(now) && r.Window.Contains(now)
}

// Unknown carries a schedule type this package does not recognize. It is
// always active: a configuration bug must never hide content from customers.
type Unknown struct {
	Raw string
}

func (r Unknown) Type() Type             { return Type(r.Raw) }
func (Unknown) Active(_ time.Time) bool { return true }
func (Unknown) sealed()                 {}
