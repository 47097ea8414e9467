package schedule

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid is wrapped by every error returned from Validate.
var ErrInvalid = errors.New("invalid schedule")

var validOrdinals = []int{-1, 1, 2, 3, 4}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		_, err := ParseClock(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("mmdd", func(fl validator.FieldLevel) bool {
		_, err := ParseMonthDay(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("scheduletype", func(fl validator.FieldLevel) bool {
		return slices.Contains(Types, Type(strings.ToUpper(fl.Field().String())))
	})
	v.RegisterStructValidation(validateConfig, Config{})
	return v
}

func validateConfig(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)
	if o := cfg.MonthlyWeekdayOrdinal; o != nil && !slices.Contains(validOrdinals, *o) {
		sl.ReportError(*o, "MonthlyWeekdayOrdinal", "MonthlyWeekdayOrdinal", "ordinal", "")
	}
	if cfg.PeriodStartDate != nil && cfg.PeriodEndDate != nil &&
		DateOf(cfg.PeriodEndDate.In(cfg.PeriodStartDate.Location())).Before(DateOf(*cfg.PeriodStartDate)) {
		sl.ReportError(*cfg.PeriodEndDate, "PeriodEndDate", "PeriodEndDate", "gtefield", "PeriodStartDate")
	}
}

// Validate checks the shape of cfg at the write path: known type, "HH:mm" and
// "MM-DD" formats, day ranges, a weekday ordinal of -1 or 1..4, and a period
// that does not end before it starts. The evaluator never calls it.
func Validate(cfg Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s fails %q", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}
