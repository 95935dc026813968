package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/andrino-academy/andrino-api/internal/dto"
	"github.com/andrino-academy/andrino-api/internal/models"
	appErrors "github.com/andrino-academy/andrino-api/pkg/errors"
)

const scheduleSettingsCacheKey = "settings:schedule"

type settingsRepository interface {
	Get(ctx context.Context, key string) (*models.Configuration, error)
	Upsert(ctx context.Context, cfg *models.Configuration) error
}

type auditRecorder interface {
	Record(ctx context.Context, entry models.AuditLog)
}

// SettingsConfig holds the fallbacks used when nothing is stored.
type SettingsConfig struct {
	DefaultWeekResetDay int
	CacheTTL            time.Duration
}

// SettingsService reads and writes academy scheduling settings.
type SettingsService struct {
	repo      settingsRepository
	cache     *CacheService
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
	cfg       SettingsConfig
}

// NewSettingsService constructs a SettingsService. cache and audit may be nil.
func NewSettingsService(repo settingsRepository, cache *CacheService, audit auditRecorder, validate *validator.Validate, logger *zap.Logger, cfg SettingsConfig) *SettingsService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultWeekResetDay < 0 || cfg.DefaultWeekResetDay > 6 {
		cfg.DefaultWeekResetDay = 0
	}
	return &SettingsService{repo: repo, cache: cache, audit: audit, validator: validate, logger: logger, cfg: cfg}
}

// Get returns the stored settings, falling back to the configured defaults.
func (s *SettingsService) Get(ctx context.Context) (*models.ScheduleSettings, error) {
	var cached models.ScheduleSettings
	if s.cache.Get(ctx, scheduleSettingsCacheKey, &cached) {
		return &cached, nil
	}

	settings := models.ScheduleSettings{WeekResetDay: s.cfg.DefaultWeekResetDay}
	stored, err := s.repo.Get(ctx, models.ConfigKeyWeekResetDay)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to load schedule settings")
	default:
		day, convErr := strconv.Atoi(stored.Value)
		if convErr != nil || day < 0 || day > 6 {
			s.logger.Warn("ignoring invalid stored week reset day", zap.String("value", stored.Value))
		} else {
			settings.WeekResetDay = day
		}
	}

	s.cache.Set(ctx, scheduleSettingsCacheKey, settings, s.cfg.CacheTTL)
	return &settings, nil
}

// Update stores a new week reset day. Existing rows keep the week start they
// were written with.
func (s *SettingsService) Update(ctx context.Context, actor models.Actor, req dto.UpdateScheduleSettingsRequest) (*models.ScheduleSettings, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrValidation, "weekResetDay must be between 0 and 6")
	}

	previous, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	description := "Weekday (0=Sunday) on which a scheduling week starts"
	cfg := &models.Configuration{
		Key:         models.ConfigKeyWeekResetDay,
		Value:       strconv.Itoa(*req.WeekResetDay),
		Type:        models.ConfigurationTypeNumber,
		Description: &description,
		UpdatedBy:   stringPtr(actor.ID),
	}
	if err := s.repo.Upsert(ctx, cfg); err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to save schedule settings")
	}
	s.cache.Invalidate(ctx, scheduleSettingsCacheKey)
	if previous.WeekResetDay != *req.WeekResetDay {
		// Week keys change with the reset day.
		s.cache.InvalidatePattern(ctx, "availability:*")
	}

	updated := models.ScheduleSettings{WeekResetDay: *req.WeekResetDay}
	if s.audit != nil {
		s.audit.Record(ctx, models.AuditLog{
			UserID:     stringPtr(actor.ID),
			Action:     models.AuditActionSettingsUpdate,
			Resource:   "settings",
			ResourceID: stringPtr(models.ConfigKeyWeekResetDay),
			OldValues:  auditValues(previous),
			NewValues:  auditValues(updated),
			IPAddress:  actor.IP,
			UserAgent:  actor.UserAgent,
		})
	}
	s.logger.Info("schedule settings updated", zap.String("user_id", actor.ID), zap.Int("week_reset_day", updated.WeekResetDay))
	return &updated, nil
}

// WeekStart returns the canonical week start for t under the current settings.
func (s *SettingsService) WeekStart(ctx context.Context, t time.Time) (time.Time, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return settings.WeekStart(t), nil
}
