// Package grid holds the instructor weekly availability grid: 7 days by the
// hours 13..22, with local selection layered over server-owned slot state.
package grid

import "github.com/andrino-academy/andrino-api/internal/models"

// Cell is one (day, hour) unit of the grid. IsSelected is the only field the
// user changes directly; the rest comes from the server.
type Cell struct {
	Day            int    `json:"day"`
	Hour           int    `json:"hour"`
	IsSelected     bool   `json:"isSelected"`
	IsBooked       bool   `json:"isBooked"`
	IsConfirmed    bool   `json:"isConfirmed"`
	AvailabilityID string `json:"availabilityId,omitempty"`
}

// Counts summarises the grid.
type Counts struct {
	Selected  int `json:"selected"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Booked    int `json:"booked"`
}

type dragMode int

const (
	dragNone dragMode = iota
	dragSelect
	dragDeselect
)

// Grid is the selection state for one (track, week). The zero value is not
// usable; call New.
type Grid struct {
	cells [models.DaysPerWeek][models.HoursPerDay]Cell
	drag  dragMode
}

// New returns a grid with every cell unselected.
func New() *Grid {
	g := &Grid{}
	g.reset()
	return g
}

func (g *Grid) reset() {
	for d := 0; d < models.DaysPerWeek; d++ {
		for h := 0; h < models.HoursPerDay; h++ {
			g.cells[d][h] = Cell{Day: d, Hour: models.GridStartHour + h}
		}
	}
	g.drag = dragNone
}

func (g *Grid) cell(day, hour int) *Cell {
	if day < 0 || day >= models.DaysPerWeek || hour < models.GridStartHour || hour >= models.GridEndHour {
		return nil
	}
	return &g.cells[day][hour-models.GridStartHour]
}

// Reconcile replaces the grid with the server rows. Every hour in
// [StartHour, EndHour) of a row is marked selected with the row's flags; rows
// outside the grid are ignored. Any drag in progress is cancelled.
func (g *Grid) Reconcile(rows []models.AvailabilitySlot) {
	g.reset()
	for _, row := range rows {
		for hour := row.StartHour; hour < row.EndHour; hour++ {
			c := g.cell(row.DayOfWeek, hour)
			if c == nil {
				continue
			}
			c.IsSelected = true
			c.IsBooked = row.IsBooked
			c.IsConfirmed = row.IsConfirmed
			c.AvailabilityID = row.ID
		}
	}
}

// Toggle flips the selection of a cell. Confirmed and unknown cells are left
// alone. It reports whether the grid changed.
func (g *Grid) Toggle(day, hour int) bool {
	c := g.cell(day, hour)
	if c == nil || c.IsConfirmed {
		return false
	}
	c.IsSelected = !c.IsSelected
	return true
}

// BeginDrag starts a paint gesture on a cell. The gesture selects when the
// start cell is unselected and deselects otherwise; the start cell is painted
// immediately.
func (g *Grid) BeginDrag(day, hour int) bool {
	c := g.cell(day, hour)
	if c == nil {
		g.drag = dragNone
		return false
	}
	if c.IsSelected {
		g.drag = dragDeselect
	} else {
		g.drag = dragSelect
	}
	return g.paint(c)
}

// DragOver paints a cell entered during a gesture. Outside a gesture it does
// nothing.
func (g *Grid) DragOver(day, hour int) bool {
	if g.drag == dragNone {
		return false
	}
	c := g.cell(day, hour)
	if c == nil {
		return false
	}
	return g.paint(c)
}

// EndDrag finishes the gesture.
func (g *Grid) EndDrag() {
	g.drag = dragNone
}

// Dragging reports whether a gesture is in progress.
func (g *Grid) Dragging() bool {
	return g.drag != dragNone
}

func (g *Grid) paint(c *Cell) bool {
	if c.IsConfirmed {
		return false
	}
	want := g.drag == dragSelect
	if c.IsSelected == want {
		return false
	}
	c.IsSelected = want
	return true
}

// Cell returns a copy of the cell at (day, hour).
func (g *Grid) Cell(day, hour int) (Cell, bool) {
	c := g.cell(day, hour)
	if c == nil {
		return Cell{}, false
	}
	return *c, true
}

// Cells returns every cell ordered by day then hour.
func (g *Grid) Cells() []Cell {
	out := make([]Cell, 0, models.DaysPerWeek*models.HoursPerDay)
	for d := 0; d < models.DaysPerWeek; d++ {
		out = append(out, g.cells[d][:]...)
	}
	return out
}

// Selected returns the selected cells ordered by day then hour.
func (g *Grid) Selected() []Cell {
	var out []Cell
	for d := 0; d < models.DaysPerWeek; d++ {
		for _, c := range g.cells[d] {
			if c.IsSelected {
				out = append(out, c)
			}
		}
	}
	return out
}

// Pending returns unit slots for every selected, unconfirmed cell ordered by
// day then hour.
func (g *Grid) Pending() []models.SlotInput {
	var out []models.SlotInput
	for d := 0; d < models.DaysPerWeek; d++ {
		for _, c := range g.cells[d] {
			if c.IsSelected && !c.IsConfirmed {
				out = append(out, models.SlotInput{DayOfWeek: c.Day, StartHour: c.Hour, EndHour: c.Hour + 1})
			}
		}
	}
	return out
}

// HasPending reports whether any selected cell is still unconfirmed.
func (g *Grid) HasPending() bool {
	for d := 0; d < models.DaysPerWeek; d++ {
		for _, c := range g.cells[d] {
			if c.IsSelected && !c.IsConfirmed {
				return true
			}
		}
	}
	return false
}

// Counts tallies the grid.
func (g *Grid) Counts() Counts {
	var counts Counts
	for d := 0; d < models.DaysPerWeek; d++ {
		for _, c := range g.cells[d] {
			if c.IsSelected {
				counts.Selected++
				if !c.IsConfirmed {
					counts.Pending++
				}
			}
			if c.IsConfirmed {
				counts.Confirmed++
			}
			if c.IsBooked {
				counts.Booked++
			}
		}
	}
	return counts
}
