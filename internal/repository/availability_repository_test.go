package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrino-academy/andrino-api/internal/models"
)

var availabilityRowColumns = []string{"id", "instructor_id", "track_id", "week_start_date", "day_of_week", "start_hour", "end_hour", "is_booked", "is_confirmed", "confirmed_at", "created_at", "updated_at"}

func testKey() models.AvailabilityKey {
	return models.AvailabilityKey{
		InstructorID:  "instructor-1",
		TrackID:       "track-1",
		WeekStartDate: time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
	}
}

func availabilityRows(slots ...models.AvailabilitySlot) *sqlmock.Rows {
	rows := sqlmock.NewRows(availabilityRowColumns)
	for _, s := range slots {
		rows.AddRow(s.ID, s.InstructorID, s.TrackID, s.WeekStartDate, s.DayOfWeek, s.StartHour, s.EndHour, s.IsBooked, s.IsConfirmed, s.ConfirmedAt, s.CreatedAt, s.UpdatedAt)
	}
	return rows
}

func slotAt(id string, day, hour int) models.AvailabilitySlot {
	key := testKey()
	now := time.Now()
	return models.AvailabilitySlot{
		ID: id, InstructorID: key.InstructorID, TrackID: key.TrackID, WeekStartDate: key.WeekStartDate,
		DayOfWeek: day, StartHour: hour, EndHour: hour + 1, CreatedAt: now, UpdatedAt: now,
	}
}

func TestAvailabilityRepositoryListByKey(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)
	key := testKey()

	mock.ExpectQuery(regexp.QuoteMeta("FROM instructor_availability WHERE instructor_id = $1 AND track_id = $2 AND week_start_date = $3")).
		WithArgs(key.InstructorID, key.TrackID, key.WeekStartDate).
		WillReturnRows(availabilityRows(slotAt("a", 2, 14), slotAt("b", 2, 15)))

	slots, err := repo.ListByKey(context.Background(), key)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, 14, slots[0].StartHour)
	assert.Equal(t, 16, slots[1].EndHour)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryListByKeyEmptyIsNotNil(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	mock.ExpectQuery("FROM instructor_availability").WillReturnRows(availabilityRows())

	slots, err := repo.ListByKey(context.Background(), testKey())
	require.NoError(t, err)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestAvailabilityRepositoryReplaceUnconfirmed(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)
	key := testKey()

	confirmed := slotAt("c", 1, 15)
	confirmed.IsConfirmed = true

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(key.InstructorID, key.TrackID, key.WeekStartDate).
		WillReturnRows(availabilityRows(slotAt("a", 1, 13), slotAt("b", 1, 14), confirmed))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM instructor_availability WHERE id = ANY($1) AND is_confirmed = FALSE")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO instructor_availability")).
		WithArgs(sqlmock.AnyArg(), key.InstructorID, key.TrackID, key.WeekStartDate, 2, 16, 17, false, false, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := repo.ReplaceUnconfirmed(context.Background(), key, []models.SlotInput{
		{DayOfWeek: 1, StartHour: 14, EndHour: 15},
		{DayOfWeek: 2, StartHour: 16, EndHour: 17},
	})
	require.NoError(t, err)
	assert.Equal(t, models.SaveResult{Created: 1, Removed: 1, Unchanged: 1}, *result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryReplaceUnconfirmedConflictCountsAsUnchanged(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WillReturnRows(availabilityRows())
	mock.ExpectExec("INSERT INTO instructor_availability").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	result, err := repo.ReplaceUnconfirmed(context.Background(), testKey(), []models.SlotInput{{DayOfWeek: 0, StartHour: 13, EndHour: 14}})
	require.NoError(t, err)
	assert.Equal(t, models.SaveResult{Unchanged: 1}, *result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryReplaceUnconfirmedRollsBackOnError(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WillReturnRows(availabilityRows())
	mock.ExpectExec("INSERT INTO instructor_availability").WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	_, err := repo.ReplaceUnconfirmed(context.Background(), testKey(), []models.SlotInput{{DayOfWeek: 0, StartHour: 13, EndHour: 14}})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryConfirmAll(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)
	key := testKey()

	mock.ExpectExec(regexp.QuoteMeta("SET is_confirmed = TRUE")).
		WithArgs(key.InstructorID, key.TrackID, key.WeekStartDate, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	count, err := repo.ConfirmAll(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryConfirmIfUnchanged(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)
	key := testKey()
	rows := []models.AvailabilitySlot{slotAt("a", 1, 13), slotAt("b", 1, 14)}

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WillReturnRows(availabilityRows(rows...))
	mock.ExpectExec(regexp.QuoteMeta("SET is_confirmed = TRUE")).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	count, err := repo.ConfirmIfUnchanged(context.Background(), key, models.Fingerprint(rows))
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryConfirmIfUnchangedStale(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)
	seen := []models.AvailabilitySlot{slotAt("a", 1, 13)}
	booked := slotAt("a", 1, 13)
	booked.IsBooked = true

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WillReturnRows(availabilityRows(booked))
	mock.ExpectRollback()

	_, err := repo.ConfirmIfUnchanged(context.Background(), testKey(), models.Fingerprint(seen))
	assert.ErrorIs(t, err, ErrAvailabilityStale)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositorySetBooked(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	booked := slotAt("a", 1, 13)
	booked.IsBooked = true
	booked.IsConfirmed = true
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE instructor_availability SET is_booked = $2")).
		WithArgs("a", true, sqlmock.AnyArg()).
		WillReturnRows(availabilityRows(booked))

	slot, err := repo.SetBooked(context.Background(), "a", true)
	require.NoError(t, err)
	assert.True(t, slot.IsBooked)
	assert.True(t, slot.IsConfirmed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositorySetBookedMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	mock.ExpectQuery("UPDATE instructor_availability").WillReturnError(sql.ErrNoRows)

	_, err := repo.SetBooked(context.Background(), "missing", true)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
