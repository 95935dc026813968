package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekStartDefaultsToSunday(t *testing.T) {
	// 2024-01-10 is a Wednesday.
	wed := time.Date(2024, 1, 10, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-07", FormatDate(WeekStart(wed, 0)))
	assert.Equal(t, "2024-01-07", FormatDate(WeekStart(wed, 9)))
}

func TestWeekStartHonoursResetDay(t *testing.T) {
	wed := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-08", FormatDate(WeekStart(wed, 1)))
	assert.Equal(t, "2024-01-10", FormatDate(WeekStart(wed, 3)))
	assert.Equal(t, "2024-01-04", FormatDate(WeekStart(wed, 4)))
	assert.Equal(t, "2024-01-06", FormatDate(ScheduleSettings{WeekResetDay: 6}.WeekStart(wed)))
}

func TestWeekStartIsStableWithinWeek(t *testing.T) {
	start := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i).Add(23 * time.Hour)
		assert.True(t, start.Equal(WeekStart(day, 0)), "day %d", i)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-07")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2024-01-07T22:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-07", FormatDate(d))

	_, err = ParseDate("")
	assert.Error(t, err)
	_, err = ParseDate("07/01/2024")
	assert.Error(t, err)
}

func TestSlotInputIsUnit(t *testing.T) {
	assert.True(t, SlotInput{DayOfWeek: 0, StartHour: 13, EndHour: 14}.IsUnit())
	assert.True(t, SlotInput{DayOfWeek: 6, StartHour: 22, EndHour: 23}.IsUnit())
	assert.False(t, SlotInput{DayOfWeek: 7, StartHour: 13, EndHour: 14}.IsUnit())
	assert.False(t, SlotInput{DayOfWeek: 1, StartHour: 12, EndHour: 13}.IsUnit())
	assert.False(t, SlotInput{DayOfWeek: 1, StartHour: 23, EndHour: 24}.IsUnit())
	assert.False(t, SlotInput{DayOfWeek: 1, StartHour: 14, EndHour: 16}.IsUnit())
}

func TestFingerprintIgnoresOrder(t *testing.T) {
	a := AvailabilitySlot{ID: "a", DayOfWeek: 1, StartHour: 13, EndHour: 14}
	b := AvailabilitySlot{ID: "b", DayOfWeek: 2, StartHour: 15, EndHour: 16}
	assert.Equal(t, Fingerprint([]AvailabilitySlot{a, b}), Fingerprint([]AvailabilitySlot{b, a}))

	booked := b
	booked.IsBooked = true
	assert.NotEqual(t, Fingerprint([]AvailabilitySlot{a, b}), Fingerprint([]AvailabilitySlot{a, booked}))
}
