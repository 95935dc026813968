package models

import (
	"fmt"
	"strings"
	"time"
)

// ConfigKeyWeekResetDay stores the weekday that starts a scheduling week.
const ConfigKeyWeekResetDay = "schedule.week_reset_day"

const dateLayout = "2006-01-02"

// ScheduleSettings are the academy-wide scheduling knobs.
type ScheduleSettings struct {
	WeekResetDay int `json:"weekResetDay"`
}

// WeekStart returns the canonical start date of the week containing t: the
// latest day on or before t whose weekday is resetDay, at midnight UTC.
func WeekStart(t time.Time, resetDay int) time.Time {
	if resetDay < 0 || resetDay > 6 {
		resetDay = 0
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) - resetDay + 7) % 7
	return day.AddDate(0, 0, -offset)
}

// WeekStart applies the configured reset day to t.
func (s ScheduleSettings) WeekStart(t time.Time) time.Time {
	return WeekStart(t, s.WeekResetDay)
}

// ParseDate accepts YYYY-MM-DD or RFC3339 and returns the calendar date at
// midnight UTC.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", raw)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
