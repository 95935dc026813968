// Package calendar drives the instructor availability grid against the API:
// load a (track, week), edit locally, save the full selection, confirm.
//
// The server is the only source of truth for booked and confirmed state.
// Every mutation is followed by a fresh read; nothing is patched locally.
package calendar

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/andrino-academy/andrino-api/internal/dto"
	"github.com/andrino-academy/andrino-api/internal/grid"
	"github.com/andrino-academy/andrino-api/internal/models"
	appErrors "github.com/andrino-academy/andrino-api/pkg/errors"
)

// Messages used when a failure carries no API error.
const (
	MsgLoadFailed    = "failed to load availability"
	MsgSaveFailed    = "failed to save availability"
	MsgConfirmFailed = "failed to confirm availability"
)

// ErrSuperseded is returned when the track or week changed while a request
// was in flight. The response was dropped.
var ErrSuperseded = errors.New("calendar: selection changed during request")

// API is the subset of the availability API the calendar needs.
type API interface {
	Availability(ctx context.Context, trackID, weekStartDate string) (*dto.AvailabilityResponse, error)
	SaveAvailability(ctx context.Context, req dto.SaveAvailabilityRequest) (*dto.SaveAvailabilityResponse, error)
	ConfirmAvailability(ctx context.Context, req dto.ConfirmAvailabilityRequest) (*dto.ConfirmAvailabilityResponse, error)
}

// Option customises a Calendar.
type Option func(*Calendar)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Calendar) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStaleCheck sends the etag of the last read with Confirm so the server
// refuses to lock rows that changed since.
func WithStaleCheck() Option {
	return func(c *Calendar) { c.staleCheck = true }
}

// Calendar is safe for concurrent use. No lock is held across network calls.
type Calendar struct {
	api        API
	logger     *zap.Logger
	staleCheck bool

	mu         sync.Mutex
	grid       *grid.Grid
	trackID    string
	weekStart  string
	etag       string
	generation uint64
	loading    bool
	saving     bool
	confirming bool
	err        error
}

// New builds an empty calendar.
func New(api API, opts ...Option) *Calendar {
	c := &Calendar{api: api, logger: zap.NewNop(), grid: grid.New()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize switches to (trackID, weekStartDate) and loads its rows. The
// grid is cleared first so nothing from the previous key survives.
func (c *Calendar) Initialize(ctx context.Context, trackID, weekStartDate string) error {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.trackID, c.weekStart, c.etag = trackID, weekStartDate, ""
	c.grid = grid.New()
	c.err = nil
	c.mu.Unlock()

	return c.load(ctx, gen, trackID, weekStartDate)
}

// Reload fetches the current key again.
func (c *Calendar) Reload(ctx context.Context) error {
	c.mu.Lock()
	gen, trackID, week := c.generation, c.trackID, c.weekStart
	c.mu.Unlock()
	if trackID == "" || week == "" {
		return c.fail(gen, appErrors.Clone(appErrors.ErrValidation, "track and week are required"), MsgLoadFailed)
	}
	return c.load(ctx, gen, trackID, week)
}

func (c *Calendar) load(ctx context.Context, gen uint64, trackID, week string) error {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return ErrSuperseded
	}
	c.loading = true
	c.mu.Unlock()

	res, err := c.api.Availability(ctx, trackID, week)

	c.mu.Lock()
	defer c.mu.Unlock()
	// loading belongs to the current key's own load; leave it alone.
	if gen != c.generation {
		c.logger.Debug("dropping availability for superseded key", zap.String("track_id", trackID), zap.String("week", week))
		return ErrSuperseded
	}
	c.loading = false
	if err != nil {
		c.err = describe(err, MsgLoadFailed)
		return c.err
	}
	c.grid.Reconcile(res.Availability)
	c.etag = res.ETag
	c.err = nil
	if res.WeekStartDate != "" {
		c.weekStart = res.WeekStartDate
	}
	return nil
}

// Toggle flips one cell. Confirmed cells do not change.
func (c *Calendar) Toggle(day, hour int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.grid.Toggle(day, hour)
}

// BeginDrag starts a paint gesture on a cell.
func (c *Calendar) BeginDrag(day, hour int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.grid.BeginDrag(day, hour)
}

// DragOver paints a cell entered during the gesture.
func (c *Calendar) DragOver(day, hour int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.grid.DragOver(day, hour)
}

// EndDrag finishes the gesture.
func (c *Calendar) EndDrag() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.grid.EndDrag()
}

// Save submits every selected, unconfirmed cell as the full desired
// selection and reloads.
func (c *Calendar) Save(ctx context.Context) (*models.SaveResult, error) {
	c.mu.Lock()
	gen := c.generation
	if err := c.beginLocked(); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	pending := c.grid.Pending()
	if len(pending) == 0 {
		c.err = appErrors.Clone(appErrors.ErrNoSlotsSelected, "no slots selected")
		c.mu.Unlock()
		return nil, c.err
	}
	req := dto.SaveAvailabilityRequest{TrackID: c.trackID, WeekStartDate: c.weekStart, Slots: pending}
	c.saving = true
	c.mu.Unlock()

	res, err := c.api.SaveAvailability(ctx, req)
	c.mu.Lock()
	c.saving = false
	c.mu.Unlock()
	if err != nil {
		return nil, c.fail(gen, err, MsgSaveFailed)
	}

	if err := c.load(ctx, gen, req.TrackID, req.WeekStartDate); err != nil {
		return &res.SaveResult, err
	}
	return &res.SaveResult, nil
}

// Confirm locks the week's saved, unconfirmed rows and reloads. It returns
// the number of rows confirmed.
func (c *Calendar) Confirm(ctx context.Context) (int64, error) {
	c.mu.Lock()
	gen := c.generation
	if err := c.beginLocked(); err != nil {
		c.mu.Unlock()
		return 0, err
	}
	if !c.grid.HasPending() {
		c.err = appErrors.Clone(appErrors.ErrNoSlotsSelected, "no slots selected")
		c.mu.Unlock()
		return 0, c.err
	}
	req := dto.ConfirmAvailabilityRequest{TrackID: c.trackID, WeekStartDate: c.weekStart}
	if c.staleCheck {
		req.ETag = c.etag
	}
	c.confirming = true
	c.mu.Unlock()

	res, err := c.api.ConfirmAvailability(ctx, req)
	c.mu.Lock()
	c.confirming = false
	c.mu.Unlock()
	if err != nil {
		return 0, c.fail(gen, err, MsgConfirmFailed)
	}

	if err := c.load(ctx, gen, req.TrackID, req.WeekStartDate); err != nil {
		return res.ConfirmedCount, err
	}
	return res.ConfirmedCount, nil
}

// beginLocked checks the shared preconditions of Save and Confirm. c.mu must
// be held.
func (c *Calendar) beginLocked() error {
	if c.saving || c.confirming {
		c.err = appErrors.Clone(appErrors.ErrValidation, "another request is in progress")
		return c.err
	}
	if c.trackID == "" || c.weekStart == "" {
		c.err = appErrors.Clone(appErrors.ErrValidation, "track and week are required")
		return c.err
	}
	c.err = nil
	return nil
}

// fail records err unless the key moved on meanwhile.
func (c *Calendar) fail(gen uint64, err error, fallback string) error {
	described := describe(err, fallback)
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen == c.generation {
		c.err = described
	}
	return described
}

// describe keeps API errors as they are and gives everything else the
// fallback message.
func describe(err error, fallback string) error {
	var apiErr *appErrors.Error
	if errors.As(err, &apiErr) && apiErr.Code != appErrors.ErrInternal.Code {
		return apiErr
	}
	return appErrors.WrapAs(err, appErrors.ErrInternal, fallback)
}

// Err returns the last failure, or nil after a successful operation.
func (c *Calendar) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Loading reports whether a read is in flight.
func (c *Calendar) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Saving reports whether a save is in flight.
func (c *Calendar) Saving() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saving
}

// Confirming reports whether a confirm is in flight.
func (c *Calendar) Confirming() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.confirming
}

// TrackID returns the current track.
func (c *Calendar) TrackID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.trackID
}

// WeekStartDate returns the current week, canonicalised by the last read.
func (c *Calendar) WeekStartDate() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.weekStart
}

// ETag returns the fingerprint of the last read.
func (c *Calendar) ETag() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.etag
}

// Cell returns a copy of one cell.
func (c *Calendar) Cell(day, hour int) (grid.Cell, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.grid.Cell(day, hour)
}

// Cells returns a copy of every cell.
func (c *Calendar) Cells() []grid.Cell {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.grid.Cells()
}

// Pending returns the unit slots a Save would submit.
func (c *Calendar) Pending() []models.SlotInput {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.grid.Pending()
}

// Counts summarises the grid.
func (c *Calendar) Counts() grid.Counts {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.grid.Counts()
}
