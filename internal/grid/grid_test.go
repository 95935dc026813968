package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrino-academy/andrino-api/internal/models"
)

func TestNewGridHasSeventyUnselectedCells(t *testing.T) {
	g := New()
	cells := g.Cells()
	require.Len(t, cells, 70)
	for _, c := range cells {
		assert.False(t, c.IsSelected)
	}
	assert.Equal(t, 0, cells[0].Day)
	assert.Equal(t, 13, cells[0].Hour)
	assert.Equal(t, 6, cells[69].Day)
	assert.Equal(t, 22, cells[69].Hour)
	assert.False(t, g.HasPending())
}

func TestReconcileUsesHalfOpenHours(t *testing.T) {
	g := New()
	g.Reconcile([]models.AvailabilitySlot{
		{ID: "a", DayOfWeek: 2, StartHour: 14, EndHour: 15},
		{ID: "b", DayOfWeek: 2, StartHour: 15, EndHour: 16},
	})

	selected := []Cell{}
	for _, c := range g.Cells() {
		if c.IsSelected {
			selected = append(selected, c)
		}
	}
	require.Len(t, selected, 2)
	assert.Equal(t, 14, selected[0].Hour)
	assert.Equal(t, "a", selected[0].AvailabilityID)
	assert.Equal(t, 15, selected[1].Hour)

	c, ok := g.Cell(2, 16)
	require.True(t, ok)
	assert.False(t, c.IsSelected)
}

func TestReconcileExpandsRangesAndDropsStaleState(t *testing.T) {
	g := New()
	g.Toggle(0, 13)
	g.Reconcile([]models.AvailabilitySlot{
		{ID: "r", DayOfWeek: 4, StartHour: 20, EndHour: 23, IsBooked: true, IsConfirmed: true},
		{ID: "out", DayOfWeek: 9, StartHour: 13, EndHour: 14},
	})

	c, _ := g.Cell(0, 13)
	assert.False(t, c.IsSelected)
	for hour := 20; hour < 23; hour++ {
		c, _ := g.Cell(4, hour)
		assert.True(t, c.IsSelected)
		assert.True(t, c.IsBooked)
		assert.True(t, c.IsConfirmed)
	}
	assert.Equal(t, Counts{Selected: 3, Confirmed: 3, Booked: 3}, g.Counts())
}

func TestToggle(t *testing.T) {
	g := New()
	assert.True(t, g.Toggle(1, 13))
	c, _ := g.Cell(1, 13)
	assert.True(t, c.IsSelected)
	assert.True(t, g.Toggle(1, 13))
	c, _ = g.Cell(1, 13)
	assert.False(t, c.IsSelected)

	assert.False(t, g.Toggle(7, 13))
	assert.False(t, g.Toggle(1, 23))
	assert.False(t, g.Toggle(-1, 12))
}

func TestToggleIgnoresConfirmedCells(t *testing.T) {
	g := New()
	g.Reconcile([]models.AvailabilitySlot{{ID: "c", DayOfWeek: 1, StartHour: 13, EndHour: 14, IsConfirmed: true}})

	assert.False(t, g.Toggle(1, 13))
	c, _ := g.Cell(1, 13)
	assert.True(t, c.IsSelected)
	assert.True(t, c.IsConfirmed)
	assert.Empty(t, g.Pending())
}

func TestSavedCellCanBeDeselectedBeforeConfirm(t *testing.T) {
	g := New()
	g.Reconcile([]models.AvailabilitySlot{{ID: "s", DayOfWeek: 3, StartHour: 17, EndHour: 18}})
	require.True(t, g.Toggle(3, 17))
	assert.Empty(t, g.Pending())
}

func TestDragSelectPaintsInStartMode(t *testing.T) {
	g := New()
	g.Toggle(1, 15)

	assert.True(t, g.BeginDrag(1, 13))
	assert.True(t, g.Dragging())
	assert.True(t, g.DragOver(1, 14))
	assert.False(t, g.DragOver(1, 15), "already selected cell is untouched")
	assert.False(t, g.DragOver(1, 14), "re-entering is idempotent")
	g.EndDrag()
	assert.False(t, g.DragOver(1, 16), "no painting after pointer-up")

	assert.Equal(t, []models.SlotInput{
		{DayOfWeek: 1, StartHour: 13, EndHour: 14},
		{DayOfWeek: 1, StartHour: 14, EndHour: 15},
		{DayOfWeek: 1, StartHour: 15, EndHour: 16},
	}, g.Pending())
}

func TestDragDeselectSkipsConfirmed(t *testing.T) {
	g := New()
	g.Reconcile([]models.AvailabilitySlot{
		{ID: "a", DayOfWeek: 0, StartHour: 13, EndHour: 14},
		{ID: "b", DayOfWeek: 0, StartHour: 14, EndHour: 15, IsConfirmed: true},
		{ID: "c", DayOfWeek: 0, StartHour: 15, EndHour: 16},
	})

	g.BeginDrag(0, 13)
	g.DragOver(0, 14)
	g.DragOver(0, 15)
	g.DragOver(0, 16)
	g.EndDrag()

	a, _ := g.Cell(0, 13)
	b, _ := g.Cell(0, 14)
	c, _ := g.Cell(0, 15)
	d, _ := g.Cell(0, 16)
	assert.False(t, a.IsSelected)
	assert.True(t, b.IsSelected)
	assert.False(t, c.IsSelected)
	assert.False(t, d.IsSelected)
}

func TestBeginDragOutsideGridDoesNotStartGesture(t *testing.T) {
	g := New()
	assert.False(t, g.BeginDrag(0, 30))
	assert.False(t, g.Dragging())
	assert.False(t, g.DragOver(0, 13))
}

func TestSelectedListsConfirmedAndPendingCells(t *testing.T) {
	g := New()
	g.Reconcile([]models.AvailabilitySlot{
		{ID: "a", DayOfWeek: 2, StartHour: 20, EndHour: 21, IsConfirmed: true},
	})
	g.Toggle(0, 13)

	selected := g.Selected()
	require.Len(t, selected, 2)
	assert.Equal(t, 0, selected[0].Day)
	assert.Equal(t, 13, selected[0].Hour)
	assert.Equal(t, "a", selected[1].AvailabilityID)
	assert.True(t, selected[1].IsConfirmed)
}
