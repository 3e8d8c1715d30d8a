package delivery

import (
	"testing"
	"time"

	"github.com/openfab/boardquote/internal/calendar"
)

func emptyCalendar() *calendar.Calendar {
	return calendar.New(nil, nil, nil)
}

func date(t *testing.T, value string, hour int) time.Time {
	t.Helper()
	day, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("parse date %q: %v", value, err)
	}
	return day.Add(time.Duration(hour) * time.Hour)
}

func TestEstimate_FridayStartSkipsWeekend(t *testing.T) {
	// 2026-03-06 is a Friday. Five working days from a 10:00 order must
	// consume both weekend days and land on the following Friday.
	start := date(t, "2026-03-06", 10)

	res, err := Estimate(5, start, false, emptyCalendar(), DefaultCutoffHour)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if got := res.DeliveryDate.Format("2006-01-02"); got != "2026-03-13" {
		t.Fatalf("delivery date = %s, want 2026-03-13", got)
	}
	if res.ActualWorkingDays != 5 {
		t.Fatalf("working days = %d, want 5", res.ActualWorkingDays)
	}
	if res.TotalCalendarDays != 7 {
		t.Fatalf("calendar days = %d, want 7", res.TotalCalendarDays)
	}
	if len(res.SkippedDays) != 2 {
		t.Fatalf("skipped days = %v, want exactly the weekend", res.SkippedDays)
	}
}

func TestEstimate_CutoffShiftsOneDay(t *testing.T) {
	// 2026-03-02 is a Monday. The same request after the cutoff must land
	// exactly one calendar day later.
	early, err := Estimate(3, date(t, "2026-03-02", 10), false, emptyCalendar(), 20)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	late, err := Estimate(3, date(t, "2026-03-02", 21), false, emptyCalendar(), 20)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if got := early.DeliveryDate.Format("2006-01-02"); got != "2026-03-05" {
		t.Fatalf("pre-cutoff delivery = %s, want 2026-03-05", got)
	}
	if got := late.DeliveryDate.Format("2006-01-02"); got != "2026-03-06" {
		t.Fatalf("post-cutoff delivery = %s, want 2026-03-06", got)
	}
}

func TestEstimate_UrgencyCappedAtOneDayMinimum(t *testing.T) {
	res, err := Estimate(2, date(t, "2026-03-02", 10), true, emptyCalendar(), 20)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.ActualWorkingDays != 1 {
		t.Fatalf("working days = %d, want 1", res.ActualWorkingDays)
	}
	if got := res.DeliveryDate.Format("2006-01-02"); got != "2026-03-03" {
		t.Fatalf("delivery = %s, want 2026-03-03", got)
	}
}

func TestAdjustForRush(t *testing.T) {
	cases := []struct {
		days   int
		urgent bool
		want   int
	}{
		{5, false, 5},
		{5, true, 3},
		{3, true, 1},
		{2, true, 1},
		{1, true, 1},
	}
	for _, c := range cases {
		if got := AdjustForRush(c.days, c.urgent); got != c.want {
			t.Fatalf("AdjustForRush(%d, %v) = %d, want %d", c.days, c.urgent, got, c.want)
		}
	}
}

func TestEstimate_HolidayRecordedByName(t *testing.T) {
	// Monday 2026-03-09 declared a holiday: the walk from Friday skips
	// Sat, Sun and the holiday before counting Tuesday.
	cal := calendar.New(map[string]string{"2026-03-09": "Factory Maintenance Day"}, nil, nil)

	res, err := Estimate(1, date(t, "2026-03-06", 10), false, cal, 20)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if got := res.DeliveryDate.Format("2006-01-02"); got != "2026-03-10" {
		t.Fatalf("delivery = %s, want 2026-03-10", got)
	}
	if len(res.SkippedDays) != 3 {
		t.Fatalf("skipped days = %v, want 3 entries", res.SkippedDays)
	}
	if res.SkippedDays[2] != "2026-03-09 Factory Maintenance Day" {
		t.Fatalf("holiday not recorded by name: %v", res.SkippedDays)
	}
}

func TestEstimate_WorkingWeekendCounts(t *testing.T) {
	// Saturday 2026-03-07 substituted as a working day.
	cal := calendar.New(nil, []string{"2026-03-07"}, nil)

	res, err := Estimate(2, date(t, "2026-03-06", 10), false, cal, 20)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if got := res.DeliveryDate.Format("2006-01-02"); got != "2026-03-09" {
		t.Fatalf("delivery = %s, want 2026-03-09", got)
	}
	if len(res.SkippedDays) != 1 {
		t.Fatalf("only Sunday should be skipped, got %v", res.SkippedDays)
	}
}

func TestEstimate_RejectsNonPositiveDays(t *testing.T) {
	if _, err := Estimate(0, date(t, "2026-03-02", 10), false, emptyCalendar(), 20); err == nil {
		t.Fatalf("expected error for zero production days")
	}
}
