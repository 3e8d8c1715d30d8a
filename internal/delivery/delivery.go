// Package delivery turns a production working-day count into a promised
// calendar date, skipping holidays and non-substituted weekends.
package delivery

import (
	"fmt"
	"time"

	"github.com/openfab/boardquote/internal/calendar"
)

// DefaultCutoffHour is the local hour after which an order no longer enters
// the current production day.
const DefaultCutoffHour = 20

// maxRushReduction caps how many production days an urgent order can shave.
const maxRushReduction = 2

// maxWalkDays bounds the calendar walk so a degenerate calendar (for example
// every day declared a holiday) surfaces as an error instead of spinning.
const maxWalkDays = 3660

// Result reports the promised date plus a human-auditable trace of how the
// estimator got there.
type Result struct {
	DeliveryDate      time.Time `json:"delivery_date"`
	ActualWorkingDays int       `json:"actual_working_days"`
	TotalCalendarDays int       `json:"total_calendar_days"`
	SkippedDays       []string  `json:"skipped_days"`
	Reason            []string  `json:"reason"`
}

// AdjustForRush applies the urgent-order compression shared with the pricing
// lead-time calculation: at most two days off, never below one day.
func AdjustForRush(days int, urgent bool) int {
	if !urgent || days <= 1 {
		return days
	}
	reduction := maxRushReduction
	if days-1 < reduction {
		reduction = days - 1
	}
	return days - reduction
}

// AfterCutoff reports whether an order instant missed the production cutoff.
func AfterCutoff(t time.Time, cutoffHour int) bool {
	return t.Hour() >= cutoffHour
}

// Estimate walks the calendar forward from the order instant until the
// required number of working days has been consumed. The order day itself
// never counts, a post-cutoff order loses one more day, and the promised
// date is the last working day consumed.
func Estimate(productionDays int, start time.Time, urgent bool, cal *calendar.Calendar, cutoffHour int) (Result, error) {
	if productionDays < 1 {
		return Result{}, fmt.Errorf("production days must be at least 1, got %d", productionDays)
	}
	if cal == nil {
		return Result{}, fmt.Errorf("calendar is required")
	}
	if cutoffHour <= 0 {
		cutoffHour = DefaultCutoffHour
	}

	required := AdjustForRush(productionDays, urgent)

	res := Result{
		SkippedDays: make([]string, 0),
		Reason:      make([]string, 0, required),
	}
	if urgent && required != productionDays {
		res.Reason = append(res.Reason, fmt.Sprintf("urgent order: production compressed from %d to %d working days", productionDays, required))
	}

	current := start.AddDate(0, 0, 1)
	if AfterCutoff(start, cutoffHour) {
		res.Reason = append(res.Reason, fmt.Sprintf("ordered at %02d:00 or later (cutoff %02d:00): counting starts one day later", cutoffHour, cutoffHour))
		current = current.AddDate(0, 0, 1)
		res.TotalCalendarDays++
	}

	worked := 0
	for worked < required {
		if res.TotalCalendarDays >= maxWalkDays {
			return Result{}, fmt.Errorf("no working days found within %d calendar days", maxWalkDays)
		}
		res.TotalCalendarDays++

		date := current.Format("2006-01-02")
		if name, holiday := cal.HolidayName(current); holiday {
			res.SkippedDays = append(res.SkippedDays, fmt.Sprintf("%s %s", date, name))
			res.Reason = append(res.Reason, fmt.Sprintf("%s skipped: %s", date, name))
		} else if isWeekend(current) && !cal.IsWorkingWeekend(current) {
			res.SkippedDays = append(res.SkippedDays, fmt.Sprintf("%s %s", date, current.Weekday()))
			res.Reason = append(res.Reason, fmt.Sprintf("%s skipped: %s", date, current.Weekday()))
		} else {
			worked++
			label := "working day"
			if isWeekend(current) {
				label = "substituted working day"
			}
			res.Reason = append(res.Reason, fmt.Sprintf("%s %s %d/%d", date, label, worked, required))
			res.DeliveryDate = current
		}

		current = current.AddDate(0, 0, 1)
	}

	res.ActualWorkingDays = worked
	return res, nil
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
