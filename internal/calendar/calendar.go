// Package calendar holds the business calendar the delivery estimator walks:
// declared holidays plus weekend days substituted as working days by
// regulatory calendar adjustment. Both override the default Mon-Fri rule.
package calendar

import (
	"time"

	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// Calendar is an immutable set of holiday dates and working-weekend dates.
// A date declared as both is treated as a holiday; the conflict is reported
// at construction time as a data-quality warning, never silently passed.
type Calendar struct {
	holidays        map[string]string
	workingWeekends map[string]struct{}
}

// New builds a Calendar from holiday dates (date -> display name) and
// substituted working-weekend dates. Conflicting dates are dropped from the
// working-weekend set and logged.
func New(holidays map[string]string, workingWeekends []string, log *zap.Logger) *Calendar {
	if log == nil {
		log = zap.NewNop()
	}

	cal := &Calendar{
		holidays:        make(map[string]string, len(holidays)),
		workingWeekends: make(map[string]struct{}, len(workingWeekends)),
	}
	for date, name := range holidays {
		cal.holidays[date] = name
	}
	for _, date := range workingWeekends {
		if name, conflict := cal.holidays[date]; conflict {
			// Holiday takes precedence over weekend substitution.
			log.Warn("calendar date declared as both holiday and working weekend",
				zap.String("date", date),
				zap.String("holiday", name))
			continue
		}
		cal.workingWeekends[date] = struct{}{}
	}
	return cal
}

// HolidayName reports whether the day is a declared holiday and its name.
func (c *Calendar) HolidayName(day time.Time) (string, bool) {
	name, ok := c.holidays[day.Format(dateLayout)]
	return name, ok
}

// IsWorkingWeekend reports whether the day is a substituted working day.
func (c *Calendar) IsWorkingWeekend(day time.Time) bool {
	_, ok := c.workingWeekends[day.Format(dateLayout)]
	return ok
}

// IsWorkingDay classifies a calendar day. Holidays are never working days,
// regardless of weekday; weekends work only when substituted.
func (c *Calendar) IsWorkingDay(day time.Time) bool {
	if _, holiday := c.HolidayName(day); holiday {
		return false
	}
	switch day.Weekday() {
	case time.Saturday, time.Sunday:
		return c.IsWorkingWeekend(day)
	default:
		return true
	}
}
