package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func unit(day, hour int) SlotInput {
	return SlotInput{DayOfWeek: day, StartHour: hour, EndHour: hour + 1}
}

func row(id string, day, hour int) AvailabilitySlot {
	return AvailabilitySlot{ID: id, DayOfWeek: day, StartHour: hour, EndHour: hour + 1}
}

func TestPlanSaveReplacesUnconfirmedSet(t *testing.T) {
	existing := []AvailabilitySlot{row("a", 1, 13), row("b", 1, 14), row("c", 1, 15)}
	plan := PlanSave(existing, []SlotInput{unit(1, 14), unit(2, 16)})

	assert.Equal(t, []SlotInput{unit(2, 16)}, plan.Insert)
	assert.ElementsMatch(t, []string{"a", "c"}, plan.Delete)
	assert.Equal(t, 1, plan.Unchanged)
	assert.Equal(t, 0, plan.Skipped)
	assert.Equal(t, SaveResult{Created: 1, Removed: 2, Unchanged: 1}, plan.Result(1))
}

func TestPlanSaveNeverTouchesConfirmedRows(t *testing.T) {
	confirmed := row("locked", 0, 13)
	confirmed.IsConfirmed = true
	omittedConfirmed := row("kept", 0, 14)
	omittedConfirmed.IsConfirmed = true

	plan := PlanSave([]AvailabilitySlot{confirmed, omittedConfirmed}, []SlotInput{unit(0, 13)})

	assert.Empty(t, plan.Insert)
	assert.Empty(t, plan.Delete)
	assert.Equal(t, 1, plan.Skipped)
}

func TestPlanSaveDeletesOmittedBookedUnconfirmedRows(t *testing.T) {
	booked := row("booked", 3, 18)
	booked.IsBooked = true
	lockedBooked := row("locked", 3, 20)
	lockedBooked.IsBooked = true
	lockedBooked.IsConfirmed = true

	plan := PlanSave([]AvailabilitySlot{booked, lockedBooked}, []SlotInput{unit(3, 19)})

	assert.Equal(t, []string{"booked"}, plan.Delete)
	assert.Equal(t, 0, plan.Skipped)
	assert.Equal(t, []SlotInput{unit(3, 19)}, plan.Insert)
}

func TestPlanSaveCollapsesDuplicates(t *testing.T) {
	plan := PlanSave(nil, []SlotInput{unit(5, 20), unit(5, 20)})
	assert.Equal(t, []SlotInput{unit(5, 20)}, plan.Insert)
	assert.Equal(t, SaveResult{Unchanged: 1}, plan.Result(0))
}
