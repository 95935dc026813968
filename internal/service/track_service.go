package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/andrino-academy/andrino-api/internal/dto"
	"github.com/andrino-academy/andrino-api/internal/models"
	appErrors "github.com/andrino-academy/andrino-api/pkg/errors"
)

type trackRepository interface {
	FindByID(ctx context.Context, id string) (*models.Track, error)
	List(ctx context.Context, filter models.TrackFilter) ([]models.Track, error)
}

// TrackService exposes course tracks.
type TrackService struct {
	repo   trackRepository
	logger *zap.Logger
}

// NewTrackService constructs a TrackService.
func NewTrackService(repo trackRepository, logger *zap.Logger) *TrackService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrackService{repo: repo, logger: logger}
}

// List returns active tracks. Instructors only ever see their own tracks;
// other roles see all of them unless they ask for their own.
func (s *TrackService) List(ctx context.Context, actor models.Actor, query dto.TrackListQuery) ([]models.Track, error) {
	filter := models.TrackFilter{ActiveOnly: !query.IncludeIdle}
	if query.Mine || actor.Role == models.RoleInstructor {
		filter.InstructorID = actor.ID
	}
	tracks, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to list tracks")
	}
	return tracks, nil
}

// Get returns a single track.
func (s *TrackService) Get(ctx context.Context, id string) (*models.Track, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "trackId is required")
	}
	track, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "track not found")
		}
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to load track")
	}
	return track, nil
}
