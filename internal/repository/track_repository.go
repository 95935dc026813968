package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/andrino-academy/andrino-api/internal/models"
)

const trackColumns = `id, name, grade_id, instructor_id, coordinator_id, is_active, created_at, updated_at`

// TrackRepository reads course tracks and their instructor assignment.
type TrackRepository struct {
	db *sqlx.DB
}

// NewTrackRepository constructs the repository.
func NewTrackRepository(db *sqlx.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

// FindByID returns a track or sql.ErrNoRows.
func (r *TrackRepository) FindByID(ctx context.Context, id string) (*models.Track, error) {
	const query = `SELECT ` + trackColumns + ` FROM tracks WHERE id = $1`
	var track models.Track
	if err := r.db.GetContext(ctx, &track, query, id); err != nil {
		return nil, err
	}
	return &track, nil
}

// List returns tracks matching the filter ordered by name.
func (r *TrackRepository) List(ctx context.Context, filter models.TrackFilter) ([]models.Track, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.InstructorID != "" {
		args = append(args, filter.InstructorID)
		conditions = append(conditions, fmt.Sprintf("instructor_id = $%d", len(args)))
	}
	if filter.ActiveOnly {
		conditions = append(conditions, "is_active = TRUE")
	}

	query := `SELECT ` + trackColumns + ` FROM tracks`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY name ASC"

	tracks := []models.Track{}
	if err := r.db.SelectContext(ctx, &tracks, query, args...); err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}
	return tracks, nil
}
