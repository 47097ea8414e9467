package schedule

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

// Config is the persisted shape of a schedule, as read from a menu or banner
// row. Only the fields relevant to Type are consulted; empty strings and nil
// pointers mean "absent". DailyStartTime/DailyEndTime apply on top of every
// type except ALWAYS.
type Config struct {
	Type Type `json:"scheduleType" validate:"omitempty,scheduletype"`

	DailyStartTime string `json:"dailyStartTime,omitempty" validate:"omitempty,hhmm"`
	DailyEndTime   string `json:"dailyEndTime,omitempty"   validate:"omitempty,hhmm"`

	WeeklyDays []int `json:"weeklyDays,omitempty" validate:"omitempty,dive,min=0,max=6"`

	MonthlyDays           []int `json:"monthlyDays,omitempty"           validate:"omitempty,dive,min=1,max=31"`
	MonthlyWeekday        *int  `json:"monthlyWeekday,omitempty"        validate:"omitempty,min=0,max=6"`
	MonthlyWeekdayOrdinal *int  `json:"monthlyWeekdayOrdinal,omitempty"`

	YearlyStartDate string `json:"yearlyStartDate,omitempty" validate:"omitempty,mmdd"`
	YearlyEndDate   string `json:"yearlyEndDate,omitempty"   validate:"omitempty,mmdd"`

	PeriodStartDate *time.Time `json:"periodStartDate,omitempty"`
	PeriodEndDate   *time.Time `json:"periodEndDate,omitempty"`
}

// unknownTypes counts evaluations that hit an unrecognized schedule type.
var unknownTypes = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "schedule_unknown_type_total",
		Help: "Schedule evaluations that failed open on an unrecognized schedule type.",
	},
	[]string{"schedule_type"},
)

func init() {
	prometheus.MustRegister(unknownTypes)
}

// IsActive reports whether a unit configured with cfg is visible at now.
//
// ALWAYS (and an empty type) is unconditionally visible and skips the daily
// window. Every other known type is its day rule AND the daily window.
//
// An unrecognized type FAILS OPEN: the unit is shown and a warning is logged.
// Whether unknown types should hide content instead is an open product
// question; until it is settled, keep this behavior.
func IsActive(cfg Config, now time.Time) bool {
	rule := Compile(cfg)
	if u, ok := rule.(Unknown); ok {
		unknownTypes.WithLabelValues(u.Raw).Inc()
		log.Warn().
			Str("schedule_type", u.Raw).
			Msg("unrecognized schedule type; showing content")
	}
	return rule.Active(now)
}

// Compile converts cfg into its Rule variant. Unparseable time or date bounds
// are treated as absent.
func Compile(cfg Config) Rule {
	switch Type(strings.ToUpper(strings.TrimSpace(string(cfg.Type)))) {
	case "", TypeAlways:
		return Always{}
	case TypeDaily:
		return Daily{Window: compileWindow(cfg)}
	case TypeWeekly:
		days := make([]time.Weekday, 0, len(cfg.WeeklyDays))
		for _, d := range cfg.WeeklyDays {
			days = append(days, time.Weekday(d))
		}
		return Weekly{Days: days, Window: compileWindow(cfg)}
	case TypeMonthly:
		r := Monthly{Days: cfg.MonthlyDays, Window: compileWindow(cfg)}
		if cfg.MonthlyWeekday != nil {
			occ := &Occurrence{Weekday: time.Weekday(*cfg.MonthlyWeekday)}
			if cfg.MonthlyWeekdayOrdinal != nil {
				occ.Ordinal = *cfg.MonthlyWeekdayOrdinal
			}
			r.Occurrence = occ
		}
		return r
	case TypeYearly:
		return Yearly{Range: compileMonthDayRange(cfg), Window: compileWindow(cfg)}
	case TypePeriod:
		return Period{Start: cfg.PeriodStartDate, End: cfg.PeriodEndDate, Window: compileWindow(cfg)}
	default:
		return Unknown{Raw: string(cfg.Type)}
	}
}

func compileWindow(cfg Config) *Window {
	if cfg.DailyStartTime == "" || cfg.DailyEndTime == "" {
		return nil
	}
	start, err := ParseClock(cfg.DailyStartTime)
	if err != nil {
		return nil
	}
	end, err := ParseClock(cfg.DailyEndTime)
	if err != nil {
		return nil
	}
	return &Window{Start: start, End: end}
}

func compileMonthDayRange(cfg Config) *MonthDayRange {
	if cfg.YearlyStartDate == "" || cfg.YearlyEndDate == "" {
		return nil
	}
	start, err := ParseMonthDay(cfg.YearlyStartDate)
	if err != nil {
		return nil
	}
	end, err := ParseMonthDay(cfg.YearlyEndDate)
	if err != nil {
		return nil
	}
	return &MonthDayRange{Start: start, End: end}
}
