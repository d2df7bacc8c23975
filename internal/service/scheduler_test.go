package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-theater-booking/internal/repository"
)

func newScheduler(t *testing.T) (*ShowtimeScheduler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	s := NewShowtimeScheduler(
		db,
		repository.NewMovieRepo(db),
		repository.NewTheaterRepo(db),
		repository.NewSeatRepo(db),
		repository.NewShowtimeRepo(db),
		repository.NewSeatAvailabilityRepo(db),
		repository.NewBookingRepo(db),
	)
	return s, mock
}

func movieRow(id uint64) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{"id", "title", "genre", "duration_minutes", "rating", "release_year", "created_at", "updated_at"}).
		AddRow(id, "Heat", "Crime", 170, "R", 1995, now, now)
}

func theaterRow(id uint64) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{"id", "name", "location", "max_seats", "created_at", "updated_at"}).
		AddRow(id, "Screen One", "12 Main St", 100, now, now)
}

func showtimeRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "movie_id", "theater_id", "starts_at", "ends_at", "base_price_cents", "created_at", "updated_at"})
}

func TestScheduleRejectsInvalidInterval(t *testing.T) {
	s, mock := newScheduler(t)
	start := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

	_, err := s.Create(context.Background(), ScheduleInput{
		MovieID:   1,
		TheaterID: 2,
		StartsAt:  start,
		EndsAt:    start, // empty interval
	})
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = s.Create(context.Background(), ScheduleInput{
		MovieID:   1,
		TheaterID: 2,
		StartsAt:  start,
		EndsAt:    start.Add(-time.Hour),
	})
	assert.ErrorIs(t, err, ErrInvalidInterval)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRejectsOverlap(t *testing.T) {
	s, mock := newScheduler(t)
	start := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM movies WHERE id").
		WithArgs(1).WillReturnRows(movieRow(1))
	mock.ExpectQuery("SELECT (.+) FROM theaters WHERE id").
		WithArgs(2).WillReturnRows(theaterRow(2))
	mock.ExpectQuery("SELECT GET_LOCK").
		WithArgs(2, theaterLockWaitSecs).
		WillReturnRows(sqlmock.NewRows([]string{"lock"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("NOT (ends_at <= ? OR starts_at >= ?)")).
		WithArgs(2, 0, start, end).
		WillReturnRows(showtimeRows().AddRow(9, 1, 2, start.Add(-time.Hour), start.Add(time.Hour), 1200, now, now))
	mock.ExpectRollback()
	mock.ExpectQuery("SELECT RELEASE_LOCK").
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"released"}).AddRow(1))

	_, err := s.Create(context.Background(), ScheduleInput{
		MovieID: 1, TheaterID: 2, StartsAt: start, EndsAt: end, BasePriceCents: 1500,
	})
	assert.ErrorIs(t, err, repository.ErrShowtimeOverlap)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleBoundaryTouchAllowed(t *testing.T) {
	s, mock := newScheduler(t)
	// The new window starts exactly when an existing one ends; the
	// overlap query excludes boundary touches, so it returns nothing.
	start := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM movies WHERE id").
		WithArgs(1).WillReturnRows(movieRow(1))
	mock.ExpectQuery("SELECT (.+) FROM theaters WHERE id").
		WithArgs(2).WillReturnRows(theaterRow(2))
	mock.ExpectQuery("SELECT GET_LOCK").
		WithArgs(2, theaterLockWaitSecs).
		WillReturnRows(sqlmock.NewRows([]string{"lock"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("NOT (ends_at <= ? OR starts_at >= ?)")).
		WithArgs(2, 0, start, end).
		WillReturnRows(showtimeRows())
	mock.ExpectExec("INSERT INTO showtimes").
		WithArgs(1, 2, start, end, uint32(1500)).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectQuery("SELECT (.+) FROM showtimes WHERE id").
		WithArgs(42).
		WillReturnRows(showtimeRows().AddRow(42, 1, 2, start, end, 1500, now, now))
	mock.ExpectQuery("SELECT (.+) FROM seats WHERE theater_id").
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "theater_id", "seat_number", "created_at", "updated_at"}).
			AddRow(7, 2, "A1", now, now).
			AddRow(8, 2, "A2", now, now))
	mock.ExpectExec("INSERT INTO seat_availability").
		WithArgs(7, uint64(42), "AVAILABLE", uint32(1500), 8, uint64(42), "AVAILABLE", uint32(1500)).
		WillReturnResult(sqlmock.NewResult(1, 2))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT RELEASE_LOCK").
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"released"}).AddRow(1))

	created, err := s.Create(context.Background(), ScheduleInput{
		MovieID: 1, TheaterID: 2, StartsAt: start, EndsAt: end, BasePriceCents: 1500,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(42), created.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleLockTimeout(t *testing.T) {
	s, mock := newScheduler(t)
	start := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM movies WHERE id").
		WithArgs(1).WillReturnRows(movieRow(1))
	mock.ExpectQuery("SELECT (.+) FROM theaters WHERE id").
		WithArgs(2).WillReturnRows(theaterRow(2))
	mock.ExpectQuery("SELECT GET_LOCK").
		WithArgs(2, theaterLockWaitSecs).
		WillReturnRows(sqlmock.NewRows([]string{"lock"}).AddRow(0))

	_, err := s.Create(context.Background(), ScheduleInput{
		MovieID: 1, TheaterID: 2, StartsAt: start, EndsAt: start.Add(time.Hour),
	})
	assert.ErrorIs(t, err, repository.ErrLockWait)
}

func TestDeleteShowtimeWithLiveBookings(t *testing.T) {
	s, mock := newScheduler(t)
	start := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM showtimes WHERE id").
		WithArgs(42).
		WillReturnRows(showtimeRows().AddRow(42, 1, 2, start, start.Add(2*time.Hour), 1500, now, now))
	mock.ExpectQuery("SELECT COUNT(.+) FROM bookings WHERE showtime_id").
		WithArgs(42, "CANCELLED").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(3))
	mock.ExpectRollback()

	err := s.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, repository.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
