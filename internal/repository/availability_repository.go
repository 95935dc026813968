package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/andrino-academy/andrino-api/internal/models"
)

// ErrAvailabilityStale is returned by ConfirmIfUnchanged when the rows no
// longer match the caller's fingerprint.
var ErrAvailabilityStale = errors.New("availability changed since last read")

const availabilityColumns = `id, instructor_id, track_id, week_start_date, day_of_week, start_hour, end_hour, is_booked, is_confirmed, confirmed_at, created_at, updated_at`

// AvailabilityRepository persists instructor availability slots.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository constructs the repository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// ListByKey returns the rows of one instructor/track/week ordered by day and hour.
func (r *AvailabilityRepository) ListByKey(ctx context.Context, key models.AvailabilityKey) ([]models.AvailabilitySlot, error) {
	const query = `SELECT ` + availabilityColumns + `
FROM instructor_availability WHERE instructor_id = $1 AND track_id = $2 AND week_start_date = $3
ORDER BY day_of_week ASC, start_hour ASC`
	slots := []models.AvailabilitySlot{}
	if err := r.db.SelectContext(ctx, &slots, query, key.InstructorID, key.TrackID, key.WeekStartDate); err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	return slots, nil
}

// ListByTrackWeek returns every row of a track for a week regardless of instructor.
func (r *AvailabilityRepository) ListByTrackWeek(ctx context.Context, trackID string, weekStart time.Time) ([]models.AvailabilitySlot, error) {
	const query = `SELECT ` + availabilityColumns + `
FROM instructor_availability WHERE track_id = $1 AND week_start_date = $2
ORDER BY day_of_week ASC, start_hour ASC`
	slots := []models.AvailabilitySlot{}
	if err := r.db.SelectContext(ctx, &slots, query, trackID, weekStart); err != nil {
		return nil, fmt.Errorf("list track availability: %w", err)
	}
	return slots, nil
}

// FindByID loads a single row.
func (r *AvailabilityRepository) FindByID(ctx context.Context, id string) (*models.AvailabilitySlot, error) {
	const query = `SELECT ` + availabilityColumns + ` FROM instructor_availability WHERE id = $1`
	var slot models.AvailabilitySlot
	if err := r.db.GetContext(ctx, &slot, query, id); err != nil {
		return nil, err
	}
	return &slot, nil
}

// ReplaceUnconfirmed makes the key's unconfirmed selection equal to slots in a
// single transaction. The key's rows are locked first so concurrent saves for
// the same key serialise; confirmed rows are never modified.
func (r *AvailabilityRepository) ReplaceUnconfirmed(ctx context.Context, key models.AvailabilityKey, slots []models.SlotInput) (*models.SaveResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin availability save tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	existing, err := lockKey(ctx, tx, key)
	if err != nil {
		return nil, err
	}

	plan := models.PlanSave(existing, slots)

	if len(plan.Delete) > 0 {
		const deleteQuery = `DELETE FROM instructor_availability WHERE id = ANY($1) AND is_confirmed = FALSE`
		if _, err := tx.ExecContext(ctx, deleteQuery, pq.Array(plan.Delete)); err != nil {
			return nil, fmt.Errorf("delete deselected availability: %w", err)
		}
	}

	const insertQuery = `INSERT INTO instructor_availability (id, instructor_id, track_id, week_start_date, day_of_week, start_hour, end_hour, is_booked, is_confirmed, created_at, updated_at)
VALUES (:id, :instructor_id, :track_id, :week_start_date, :day_of_week, :start_hour, :end_hour, :is_booked, :is_confirmed, :created_at, :updated_at)
ON CONFLICT (instructor_id, track_id, week_start_date, day_of_week, start_hour) DO NOTHING`
	now := time.Now().UTC()
	created := 0
	for _, in := range plan.Insert {
		row := models.AvailabilitySlot{
			ID:            uuid.NewString(),
			InstructorID:  key.InstructorID,
			TrackID:       key.TrackID,
			WeekStartDate: key.WeekStartDate,
			DayOfWeek:     in.DayOfWeek,
			StartHour:     in.StartHour,
			EndHour:       in.EndHour,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		result, err := tx.NamedExecContext(ctx, insertQuery, row)
		if err != nil {
			return nil, fmt.Errorf("insert availability: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("availability insert rows affected: %w", err)
		}
		created += int(affected)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit availability save tx: %w", err)
	}
	res := plan.Result(created)
	return &res, nil
}

// ConfirmAll locks every unconfirmed row of the key in one statement and
// returns how many rows flipped. Booking state is left as is.
func (r *AvailabilityRepository) ConfirmAll(ctx context.Context, key models.AvailabilityKey) (int64, error) {
	return confirmKey(ctx, r.db, key)
}

// ConfirmIfUnchanged confirms like ConfirmAll but only when the key's rows
// still hash to fingerprint. It returns ErrAvailabilityStale otherwise.
func (r *AvailabilityRepository) ConfirmIfUnchanged(ctx context.Context, key models.AvailabilityKey, fingerprint string) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin availability confirm tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	existing, err := lockKey(ctx, tx, key)
	if err != nil {
		return 0, err
	}
	if models.Fingerprint(existing) != fingerprint {
		return 0, ErrAvailabilityStale
	}

	affected, err := confirmKey(ctx, tx, key)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit availability confirm tx: %w", err)
	}
	return affected, nil
}

// SetBooked updates only the booking flag of a row and returns the row.
func (r *AvailabilityRepository) SetBooked(ctx context.Context, id string, booked bool) (*models.AvailabilitySlot, error) {
	const query = `UPDATE instructor_availability SET is_booked = $2, updated_at = $3 WHERE id = $1 RETURNING ` + availabilityColumns
	var slot models.AvailabilitySlot
	if err := r.db.GetContext(ctx, &slot, query, id, booked, time.Now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("set availability booking: %w", err)
	}
	return &slot, nil
}

func lockKey(ctx context.Context, tx *sqlx.Tx, key models.AvailabilityKey) ([]models.AvailabilitySlot, error) {
	const query = `SELECT ` + availabilityColumns + `
FROM instructor_availability WHERE instructor_id = $1 AND track_id = $2 AND week_start_date = $3
ORDER BY day_of_week ASC, start_hour ASC FOR UPDATE`
	rows := []models.AvailabilitySlot{}
	if err := tx.SelectContext(ctx, &rows, query, key.InstructorID, key.TrackID, key.WeekStartDate); err != nil {
		return nil, fmt.Errorf("lock availability: %w", err)
	}
	return rows, nil
}

func confirmKey(ctx context.Context, exec sqlx.ExecerContext, key models.AvailabilityKey) (int64, error) {
	const query = `UPDATE instructor_availability SET is_confirmed = TRUE, confirmed_at = $4, updated_at = $4
WHERE instructor_id = $1 AND track_id = $2 AND week_start_date = $3 AND is_confirmed = FALSE`
	result, err := exec.ExecContext(ctx, query, key.InstructorID, key.TrackID, key.WeekStartDate, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("confirm availability: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("confirm availability rows affected: %w", err)
	}
	return affected, nil
}
