package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-theater-booking/internal/model"
	"github.com/iliyamo/movie-theater-booking/internal/repository"
)

func newFinder(t *testing.T) (*AvailableSeatFinder, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	f := NewAvailableSeatFinder(repository.NewShowtimeRepo(db), repository.NewSeatAvailabilityRepo(db))
	return f, mock
}

func TestFindUnknownShowtime(t *testing.T) {
	f, mock := newFinder(t)

	mock.ExpectQuery("SELECT (.+) FROM showtimes WHERE id").
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)

	_, err := f.Find(context.Background(), 99, SeatFilter{})
	assert.ErrorIs(t, err, repository.ErrShowtimeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindWithFilters(t *testing.T) {
	f, mock := newFinder(t)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM showtimes WHERE id").
		WithArgs(42).
		WillReturnRows(showtimeRows().AddRow(42, 1, 2, now, now.Add(2*time.Hour), 1500, now, now))
	mock.ExpectQuery("JOIN seats s ON s.id = sa.seat_id(.+)LIKE(.+)price_cents >=(.+)price_cents <=").
		WithArgs(42, model.AvailabilityAvailable, "A%", uint32(1000), uint32(2000)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "seat_number", "price_cents"}).
			AddRow(7, "A1", 1500).
			AddRow(8, "A2", 1800))

	min, max := uint32(1000), uint32(2000)
	seats, err := f.Find(context.Background(), 42, SeatFilter{RowPrefix: "A", MinPriceCents: &min, MaxPriceCents: &max})
	require.NoError(t, err)
	require.Len(t, seats, 2)
	assert.Equal(t, "A1", seats[0].SeatNumber)
	assert.Equal(t, uint32(1800), seats[1].PriceCents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindNoFiltersEmpty(t *testing.T) {
	f, mock := newFinder(t)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM showtimes WHERE id").
		WithArgs(42).
		WillReturnRows(showtimeRows().AddRow(42, 1, 2, now, now.Add(2*time.Hour), 1500, now, now))
	mock.ExpectQuery("JOIN seats s ON s.id = sa.seat_id").
		WithArgs(42, model.AvailabilityAvailable).
		WillReturnRows(sqlmock.NewRows([]string{"id", "seat_number", "price_cents"}))

	seats, err := f.Find(context.Background(), 42, SeatFilter{})
	require.NoError(t, err)
	assert.Empty(t, seats)
	assert.NoError(t, mock.ExpectationsWereMet())
}
