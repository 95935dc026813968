package calendar

import (
	"time"

	"github.com/andrino-academy/andrino-api/internal/grid"
)

const (
	timeout = 2 * time.Second
	tick    = 5 * time.Millisecond
)

func counts(selected, pending, confirmed, booked int) grid.Counts {
	return grid.Counts{Selected: selected, Pending: pending, Confirmed: confirmed, Booked: booked}
}
