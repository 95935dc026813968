package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrino-academy/andrino-api/internal/dto"
	"github.com/andrino-academy/andrino-api/internal/models"
	appErrors "github.com/andrino-academy/andrino-api/pkg/errors"
)

type trackRepoStub struct {
	tracks  map[string]*models.Track
	filters []models.TrackFilter
	err     error
}

func (s *trackRepoStub) FindByID(ctx context.Context, id string) (*models.Track, error) {
	if s.err != nil {
		return nil, s.err
	}
	track, ok := s.tracks[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	found := *track
	return &found, nil
}

func (s *trackRepoStub) List(ctx context.Context, filter models.TrackFilter) ([]models.Track, error) {
	s.filters = append(s.filters, filter)
	if s.err != nil {
		return nil, s.err
	}
	out := []models.Track{}
	for _, track := range s.tracks {
		if filter.InstructorID != "" && !track.AssignedTo(filter.InstructorID) {
			continue
		}
		if filter.ActiveOnly && !track.IsActive {
			continue
		}
		out = append(out, *track)
	}
	return out, nil
}

func newTrackRepoStub(tracks ...models.Track) *trackRepoStub {
	stub := &trackRepoStub{tracks: map[string]*models.Track{}}
	for i := range tracks {
		stub.tracks[tracks[i].ID] = &tracks[i]
	}
	return stub
}

func assignedTrack(id, instructorID string) models.Track {
	return models.Track{ID: id, Name: "Track " + id, InstructorID: &instructorID, IsActive: true}
}

func TestTrackServiceListScopesInstructors(t *testing.T) {
	repo := newTrackRepoStub(assignedTrack("t1", "inst-1"), assignedTrack("t2", "inst-2"))
	svc := NewTrackService(repo, nil)

	tracks, err := svc.List(context.Background(), models.Actor{ID: "inst-1", Role: models.RoleInstructor}, dto.TrackListQuery{})
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, "t1", tracks[0].ID)
	assert.Equal(t, models.TrackFilter{InstructorID: "inst-1", ActiveOnly: true}, repo.filters[0])
}

func TestTrackServiceListAllForCoordinator(t *testing.T) {
	repo := newTrackRepoStub(assignedTrack("t1", "inst-1"), assignedTrack("t2", "inst-2"))
	svc := NewTrackService(repo, nil)

	tracks, err := svc.List(context.Background(), models.Actor{ID: "coord", Role: models.RoleCoordinator}, dto.TrackListQuery{})
	require.NoError(t, err)
	assert.Len(t, tracks, 2)

	_, err = svc.List(context.Background(), models.Actor{ID: "coord", Role: models.RoleCoordinator}, dto.TrackListQuery{Mine: true, IncludeIdle: true})
	require.NoError(t, err)
	assert.Equal(t, models.TrackFilter{InstructorID: "coord"}, repo.filters[1])
}

func TestTrackServiceGet(t *testing.T) {
	svc := NewTrackService(newTrackRepoStub(assignedTrack("t1", "inst-1")), nil)

	track, err := svc.Get(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "t1", track.ID)

	_, err = svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	_, err = svc.Get(context.Background(), "")
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
