package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/andrino-academy/andrino-api/internal/dto"
	"github.com/andrino-academy/andrino-api/internal/grid"
	"github.com/andrino-academy/andrino-api/internal/models"
	"github.com/andrino-academy/andrino-api/internal/repository"
	appErrors "github.com/andrino-academy/andrino-api/pkg/errors"
	"github.com/andrino-academy/andrino-api/pkg/export"
)

type availabilityRepository interface {
	ListByKey(ctx context.Context, key models.AvailabilityKey) ([]models.AvailabilitySlot, error)
	ListByTrackWeek(ctx context.Context, trackID string, weekStart time.Time) ([]models.AvailabilitySlot, error)
	FindByID(ctx context.Context, id string) (*models.AvailabilitySlot, error)
	ReplaceUnconfirmed(ctx context.Context, key models.AvailabilityKey, slots []models.SlotInput) (*models.SaveResult, error)
	ConfirmAll(ctx context.Context, key models.AvailabilityKey) (int64, error)
	ConfirmIfUnchanged(ctx context.Context, key models.AvailabilityKey, fingerprint string) (int64, error)
	SetBooked(ctx context.Context, id string, booked bool) (*models.AvailabilitySlot, error)
}

type availabilityTrackReader interface {
	FindByID(ctx context.Context, id string) (*models.Track, error)
}

type weekStartResolver interface {
	WeekStart(ctx context.Context, t time.Time) (time.Time, error)
}

type documentRenderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

// AvailabilityConfig tunes the availability service.
type AvailabilityConfig struct {
	CacheTTL time.Duration
}

// AvailabilityService implements the instructor availability protocol: read
// back a week, replace the unconfirmed selection, and lock it.
type AvailabilityService struct {
	repo      availabilityRepository
	tracks    availabilityTrackReader
	weeks     weekStartResolver
	cache     *CacheService
	audit     auditRecorder
	metrics   *MetricsService
	renderers map[string]documentRenderer
	validator *validator.Validate
	logger    *zap.Logger
	cfg       AvailabilityConfig
}

// AvailabilityDeps groups the optional collaborators of AvailabilityService.
type AvailabilityDeps struct {
	Cache     *CacheService
	Audit     auditRecorder
	Metrics   *MetricsService
	Validator *validator.Validate
	Logger    *zap.Logger
}

// NewAvailabilityService constructs an AvailabilityService.
func NewAvailabilityService(repo availabilityRepository, tracks availabilityTrackReader, weeks weekStartResolver, deps AvailabilityDeps, cfg AvailabilityConfig) *AvailabilityService {
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &AvailabilityService{
		repo:    repo,
		tracks:  tracks,
		weeks:   weeks,
		cache:   deps.Cache,
		audit:   deps.Audit,
		metrics: deps.Metrics,
		renderers: map[string]documentRenderer{
			"csv": export.NewCSVExporter(),
			"pdf": export.NewPDFExporter(),
		},
		validator: deps.Validator,
		logger:    deps.Logger,
		cfg:       cfg,
	}
}

// List returns the caller's rows for the requested week. The bool reports a
// cache hit.
func (s *AvailabilityService) List(ctx context.Context, actor models.Actor, query dto.AvailabilityQuery) (*dto.AvailabilityResponse, bool, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, false, appErrors.WrapAs(err, appErrors.ErrValidation, "trackId and weekStartDate are required")
	}
	key, err := s.instructorKey(ctx, actor, query.TrackID, query.WeekStartDate)
	if err != nil {
		return nil, false, err
	}

	var slots []models.AvailabilitySlot
	cacheKey := key.CacheKey()
	version := s.cache.Version(cacheKey)
	hit := s.cache.Get(ctx, cacheKey, &slots)
	if !hit {
		slots, err = s.repo.ListByKey(ctx, key)
		if err != nil {
			return nil, false, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to load availability")
		}
		s.cache.SetIfUnchanged(ctx, cacheKey, version, slots, s.cfg.CacheTTL)
	}
	return availabilityResponse(key.WeekStartDate, slots), hit, nil
}

// Save makes the caller's unconfirmed selection for the week equal to the
// submitted unit slots. Confirmed rows are never changed.
func (s *AvailabilityService) Save(ctx context.Context, actor models.Actor, req dto.SaveAvailabilityRequest) (resp *dto.SaveAvailabilityResponse, err error) {
	defer func() {
		var result *models.SaveResult
		if resp != nil {
			result = &resp.SaveResult
		}
		s.metrics.RecordAvailabilitySave(outcomeOf(err), result)
	}()

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrValidation, "trackId, weekStartDate and valid slots are required")
	}
	if len(req.Slots) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoSlotsSelected, "")
	}
	for i, slot := range req.Slots {
		if !slot.IsUnit() {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("slot %d must cover exactly one hour between %d:00 and %d:00", i, models.GridStartHour, models.GridEndHour))
		}
	}

	key, err := s.instructorKey(ctx, actor, req.TrackID, req.WeekStartDate)
	if err != nil {
		return nil, err
	}

	result, err := s.repo.ReplaceUnconfirmed(ctx, key, req.Slots)
	if err != nil {
		s.logger.Error("availability save failed", zap.String("user_id", actor.ID), zap.String("track_id", key.TrackID), zap.Error(err))
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to save availability")
	}
	s.cache.Invalidate(ctx, key.CacheKey())

	s.record(ctx, actor, models.AuditActionAvailabilitySave, key.TrackID, nil, map[string]interface{}{
		"weekStartDate": models.FormatDate(key.WeekStartDate),
		"slots":         len(req.Slots),
		"result":        result,
	})
	s.logger.Info("availability saved",
		zap.String("user_id", actor.ID),
		zap.String("track_id", key.TrackID),
		zap.String("week_start", models.FormatDate(key.WeekStartDate)),
		zap.Int("created", result.Created),
		zap.Int("removed", result.Removed),
		zap.Int("skipped", result.Skipped),
	)

	return &dto.SaveAvailabilityResponse{Message: "Availability saved successfully", SaveResult: *result}, nil
}

// Confirm locks every unconfirmed row of the caller's week. When req.ETag is
// set the rows must still match it.
func (s *AvailabilityService) Confirm(ctx context.Context, actor models.Actor, req dto.ConfirmAvailabilityRequest) (resp *dto.ConfirmAvailabilityResponse, err error) {
	defer func() {
		var count int64
		if resp != nil {
			count = resp.ConfirmedCount
		}
		s.metrics.RecordAvailabilityConfirm(outcomeOf(err), count)
	}()

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrValidation, "trackId and weekStartDate are required")
	}
	key, err := s.instructorKey(ctx, actor, req.TrackID, req.WeekStartDate)
	if err != nil {
		return nil, err
	}

	var count int64
	if req.ETag != "" {
		count, err = s.repo.ConfirmIfUnchanged(ctx, key, req.ETag)
	} else {
		count, err = s.repo.ConfirmAll(ctx, key)
	}
	if err != nil {
		if errors.Is(err, repository.ErrAvailabilityStale) {
			s.cache.Invalidate(ctx, key.CacheKey())
			return nil, appErrors.Clone(appErrors.ErrAvailabilityStale, "availability changed since last read, reload and try again")
		}
		s.logger.Error("availability confirm failed", zap.String("user_id", actor.ID), zap.String("track_id", key.TrackID), zap.Error(err))
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to confirm availability")
	}
	if count == 0 {
		return nil, appErrors.Clone(appErrors.ErrNothingToConfirm, "")
	}
	s.cache.Invalidate(ctx, key.CacheKey())

	s.record(ctx, actor, models.AuditActionAvailabilityConfirm, key.TrackID, nil, map[string]interface{}{
		"weekStartDate":  models.FormatDate(key.WeekStartDate),
		"confirmedCount": count,
	})
	s.logger.Info("availability confirmed",
		zap.String("user_id", actor.ID),
		zap.String("track_id", key.TrackID),
		zap.String("week_start", models.FormatDate(key.WeekStartDate)),
		zap.Int64("confirmed", count),
	)

	return &dto.ConfirmAvailabilityResponse{Message: "Availability confirmed successfully", ConfirmedCount: count}, nil
}

// SetBooking flips the booking flag of one row on behalf of scheduling staff.
// It works on confirmed rows and never touches confirmation or hours.
func (s *AvailabilityService) SetBooking(ctx context.Context, actor models.Actor, id string, req dto.UpdateBookingRequest) (slot *models.AvailabilitySlot, err error) {
	defer func() { s.metrics.RecordBooking(outcomeOf(err)) }()

	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "availability id is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrValidation, "isBooked is required")
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "availability slot not found")
		}
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to load availability slot")
	}
	track, err := s.findTrack(ctx, current.TrackID)
	if err != nil {
		return nil, err
	}
	if !canOversee(actor, track) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "you cannot manage bookings for this track")
	}

	updated, err := s.repo.SetBooked(ctx, id, *req.IsBooked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "availability slot not found")
		}
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to update booking")
	}
	s.cache.Invalidate(ctx, models.AvailabilityKey{
		InstructorID:  updated.InstructorID,
		TrackID:       updated.TrackID,
		WeekStartDate: updated.WeekStartDate,
	}.CacheKey())

	s.record(ctx, actor, models.AuditActionAvailabilityBooking, id,
		map[string]bool{"isBooked": current.IsBooked},
		map[string]bool{"isBooked": updated.IsBooked},
	)
	return updated, nil
}

// ListForTrack returns every row of a track's week for scheduling staff.
func (s *AvailabilityService) ListForTrack(ctx context.Context, actor models.Actor, query dto.AvailabilityQuery) (*dto.AvailabilityResponse, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrValidation, "trackId and weekStartDate are required")
	}
	weekStart, err := s.weekStart(ctx, query.WeekStartDate)
	if err != nil {
		return nil, err
	}
	track, err := s.findTrack(ctx, query.TrackID)
	if err != nil {
		return nil, err
	}
	if !canOversee(actor, track) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "you cannot view availability for this track")
	}

	slots, err := s.repo.ListByTrackWeek(ctx, track.ID, weekStart)
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to load availability")
	}
	return availabilityResponse(weekStart, slots), nil
}

// Export renders a track's week as a day by hour table. Instructors may export
// their own tracks; scheduling staff any track they oversee.
func (s *AvailabilityService) Export(ctx context.Context, actor models.Actor, query dto.ExportAvailabilityQuery) (*dto.ExportFile, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrValidation, "trackId, weekStartDate and a csv or pdf format are required")
	}
	format := query.Format
	if format == "" {
		format = "csv"
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}

	weekStart, err := s.weekStart(ctx, query.WeekStartDate)
	if err != nil {
		return nil, err
	}
	track, err := s.findTrack(ctx, query.TrackID)
	if err != nil {
		return nil, err
	}
	if !track.AssignedTo(actor.ID) && !canOversee(actor, track) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "you cannot export availability for this track")
	}

	slots, err := s.repo.ListByTrackWeek(ctx, track.ID, weekStart)
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to load availability")
	}

	data, err := renderer.Render(availabilityDataset(track, weekStart, slots))
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to render export")
	}
	return &dto.ExportFile{
		Filename:    fmt.Sprintf("availability-%s-%s.%s", track.ID, models.FormatDate(weekStart), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Data:        data,
	}, nil
}

// instructorKey authorises actor as the instructor of trackID and returns the
// normalised key for the week.
func (s *AvailabilityService) instructorKey(ctx context.Context, actor models.Actor, trackID, rawWeek string) (models.AvailabilityKey, error) {
	if actor.ID == "" {
		return models.AvailabilityKey{}, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}
	if actor.Role != models.RoleInstructor {
		return models.AvailabilityKey{}, appErrors.Clone(appErrors.ErrForbidden, "only instructors can manage availability")
	}
	weekStart, err := s.weekStart(ctx, rawWeek)
	if err != nil {
		return models.AvailabilityKey{}, err
	}
	track, err := s.findTrack(ctx, trackID)
	if err != nil {
		return models.AvailabilityKey{}, err
	}
	if !track.AssignedTo(actor.ID) {
		return models.AvailabilityKey{}, appErrors.Clone(appErrors.ErrTrackNotAssigned, "")
	}
	return models.AvailabilityKey{InstructorID: actor.ID, TrackID: track.ID, WeekStartDate: weekStart}, nil
}

func (s *AvailabilityService) weekStart(ctx context.Context, raw string) (time.Time, error) {
	date, err := models.ParseDate(raw)
	if err != nil {
		return time.Time{}, appErrors.WrapAs(err, appErrors.ErrValidation, "weekStartDate must be a date (YYYY-MM-DD)")
	}
	return s.weeks.WeekStart(ctx, date)
}

func (s *AvailabilityService) findTrack(ctx context.Context, id string) (*models.Track, error) {
	track, err := s.tracks.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "track not found")
		}
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to load track")
	}
	return track, nil
}

func (s *AvailabilityService) record(ctx context.Context, actor models.Actor, action, resourceID string, oldValues, newValues interface{}) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, models.AuditLog{
		UserID:     stringPtr(actor.ID),
		Action:     action,
		Resource:   "availability",
		ResourceID: stringPtr(resourceID),
		OldValues:  auditValues(oldValues),
		NewValues:  auditValues(newValues),
		IPAddress:  actor.IP,
		UserAgent:  actor.UserAgent,
	})
}

// canOversee reports whether actor manages scheduling for track. Coordinators
// are limited to tracks they coordinate, or unowned ones.
func canOversee(actor models.Actor, track *models.Track) bool {
	switch actor.Role {
	case models.RoleCEO, models.RoleManager:
		return true
	case models.RoleCoordinator:
		return track.CoordinatorID == nil || *track.CoordinatorID == actor.ID
	}
	return false
}

func availabilityResponse(weekStart time.Time, slots []models.AvailabilitySlot) *dto.AvailabilityResponse {
	if slots == nil {
		slots = []models.AvailabilitySlot{}
	}
	models.SortSlots(slots)
	return &dto.AvailabilityResponse{
		Availability:  slots,
		WeekStartDate: models.FormatDate(weekStart),
		ETag:          models.Fingerprint(slots),
	}
}

var dayNames = [models.DaysPerWeek]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// availabilityDataset lays rows out as one line per hour and one column per
// day, starting from the week's first day.
func availabilityDataset(track *models.Track, weekStart time.Time, slots []models.AvailabilitySlot) export.Dataset {
	g := grid.New()
	g.Reconcile(slots)

	first := int(weekStart.Weekday())
	headers := make([]string, 0, models.DaysPerWeek+1)
	headers = append(headers, "Hour")
	for i := 0; i < models.DaysPerWeek; i++ {
		day := (first + i) % models.DaysPerWeek
		headers = append(headers, fmt.Sprintf("%s %s", dayNames[day], weekStart.AddDate(0, 0, i).Format("01/02")))
	}

	rows := make([][]string, 0, models.HoursPerDay)
	for hour := models.GridStartHour; hour < models.GridEndHour; hour++ {
		row := make([]string, 0, models.DaysPerWeek+1)
		row = append(row, fmt.Sprintf("%02d:00-%02d:00", hour, hour+1))
		for i := 0; i < models.DaysPerWeek; i++ {
			cell, _ := g.Cell((first+i)%models.DaysPerWeek, hour)
			row = append(row, cellLabel(cell))
		}
		rows = append(rows, row)
	}

	return export.Dataset{
		Title:    fmt.Sprintf("%s availability", track.Name),
		Subtitle: fmt.Sprintf("Week starting %s", models.FormatDate(weekStart)),
		Headers:  headers,
		Rows:     rows,
	}
}

func cellLabel(c grid.Cell) string {
	switch {
	case !c.IsSelected:
		return ""
	case c.IsBooked:
		return "booked"
	case c.IsConfirmed:
		return "confirmed"
	default:
		return "pending"
	}
}

func outcomeOf(err error) string {
	switch status := appErrors.StatusOf(err); {
	case status < 400:
		return OutcomeOK
	case status >= 500:
		return OutcomeFailed
	default:
		return OutcomeRejected
	}
}
