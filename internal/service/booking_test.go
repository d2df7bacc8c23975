package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-theater-booking/internal/model"
	"github.com/iliyamo/movie-theater-booking/internal/repository"
)

func newOrchestrator(t *testing.T) (*BookingOrchestrator, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	o := NewBookingOrchestrator(
		db,
		repository.NewBookingRepo(db),
		repository.NewShowtimeRepo(db),
		repository.NewSeatRepo(db),
		repository.NewSeatAvailabilityRepo(db),
		repository.NewUserRepo(db),
		nil, // no broker in tests
	)
	return o, mock
}

func bookingRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "showtime_id", "seat_id", "price_cents", "status", "created_at", "updated_at"})
}

func availabilityRow(id, seatID, showtimeID uint64, status string, price uint32) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{"id", "seat_id", "showtime_id", "status", "price_cents", "created_at", "updated_at"}).
		AddRow(id, seatID, showtimeID, status, price, now, now)
}

func expectShowtimeLookup(mock sqlmock.Sqlmock, showtimeID, theaterID uint64) {
	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM showtimes WHERE id").
		WithArgs(showtimeID).
		WillReturnRows(showtimeRows().AddRow(showtimeID, 1, theaterID, now, now.Add(2*time.Hour), 1500, now, now))
}

func expectSeatLookup(mock sqlmock.Sqlmock, theaterID uint64, seatNumber string, seatID uint64) {
	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM seats WHERE theater_id = (.+) AND seat_number").
		WithArgs(theaterID, seatNumber).
		WillReturnRows(sqlmock.NewRows([]string{"id", "theater_id", "seat_number", "created_at", "updated_at"}).
			AddRow(seatID, theaterID, seatNumber, now, now))
}

func TestCreateBookingSuccess(t *testing.T) {
	o, mock := newOrchestrator(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	expectShowtimeLookup(mock, 42, 2)
	mock.ExpectQuery("SELECT 1 FROM users WHERE id").
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	expectSeatLookup(mock, 2, "A1", 7)
	mock.ExpectQuery("SELECT (.+) FROM seat_availability WHERE seat_id = (.+) FOR UPDATE").
		WithArgs(7, 42).
		WillReturnRows(availabilityRow(100, 7, 42, model.AvailabilityAvailable, 1500))
	mock.ExpectExec("UPDATE seat_availability SET status").
		WithArgs(model.AvailabilityBooked, 100, model.AvailabilityAvailable).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(9, uint64(42), uint64(7), uint32(1500), model.BookingPending).
		WillReturnResult(sqlmock.NewResult(55, 1))
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id").
		WithArgs(55).
		WillReturnRows(bookingRows().AddRow(55, 9, 42, 7, 1500, model.BookingPending, now, now))
	mock.ExpectCommit()

	b, err := o.Create(context.Background(), 9, 42, "A1")
	require.NoError(t, err)
	assert.Equal(t, uint64(55), b.ID)
	assert.Equal(t, model.BookingPending, b.Status)
	assert.Equal(t, uint32(1500), b.PriceCents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingSeatTaken(t *testing.T) {
	o, mock := newOrchestrator(t)

	mock.ExpectBegin()
	expectShowtimeLookup(mock, 42, 2)
	mock.ExpectQuery("SELECT 1 FROM users WHERE id").
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	expectSeatLookup(mock, 2, "A1", 7)
	mock.ExpectQuery("SELECT (.+) FROM seat_availability WHERE seat_id = (.+) FOR UPDATE").
		WithArgs(7, 42).
		WillReturnRows(availabilityRow(100, 7, 42, model.AvailabilityBooked, 1500))
	mock.ExpectRollback()

	_, err := o.Create(context.Background(), 9, 42, "A1")
	assert.ErrorIs(t, err, repository.ErrSeatNotAvailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelReleasesSeat(t *testing.T) {
	o, mock := newOrchestrator(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = (.+) FOR UPDATE").
		WithArgs(55).
		WillReturnRows(bookingRows().AddRow(55, 9, 42, 7, 1500, model.BookingConfirmed, now, now))
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs(model.BookingCancelled, 55, model.BookingConfirmed).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM seat_availability WHERE seat_id = (.+) FOR UPDATE").
		WithArgs(7, 42).
		WillReturnRows(availabilityRow(100, 7, 42, model.AvailabilityBooked, 1500))
	mock.ExpectExec("UPDATE seat_availability SET status").
		WithArgs(model.AvailabilityAvailable, 100, model.AvailabilityBooked).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	b, err := o.Cancel(context.Background(), 9, model.RoleCustomer, 55)
	require.NoError(t, err)
	assert.Equal(t, model.BookingCancelled, b.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelCancelledBookingFails(t *testing.T) {
	o, mock := newOrchestrator(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = (.+) FOR UPDATE").
		WithArgs(55).
		WillReturnRows(bookingRows().AddRow(55, 9, 42, 7, 1500, model.BookingCancelled, now, now))
	mock.ExpectRollback()

	_, err := o.Cancel(context.Background(), 9, model.RoleCustomer, 55)
	assert.ErrorIs(t, err, repository.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmCancelledBookingFails(t *testing.T) {
	o, mock := newOrchestrator(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = (.+) FOR UPDATE").
		WithArgs(55).
		WillReturnRows(bookingRows().AddRow(55, 9, 42, 7, 1500, model.BookingCancelled, now, now))
	mock.ExpectRollback()

	_, err := o.Confirm(context.Background(), 9, model.RoleCustomer, 55)
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestTransitionByNonOwnerForbidden(t *testing.T) {
	o, mock := newOrchestrator(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = (.+) FOR UPDATE").
		WithArgs(55).
		WillReturnRows(bookingRows().AddRow(55, 9, 42, 7, 1500, model.BookingPending, now, now))
	mock.ExpectRollback()

	_, err := o.Confirm(context.Background(), 10, model.RoleCustomer, 55)
	assert.ErrorIs(t, err, repository.ErrForbidden)
}

func TestTransitionByAdminAllowed(t *testing.T) {
	o, mock := newOrchestrator(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = (.+) FOR UPDATE").
		WithArgs(55).
		WillReturnRows(bookingRows().AddRow(55, 9, 42, 7, 1500, model.BookingPending, now, now))
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs(model.BookingConfirmed, 55, model.BookingPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	b, err := o.Confirm(context.Background(), 1, model.RoleAdmin, 55)
	require.NoError(t, err)
	assert.Equal(t, model.BookingConfirmed, b.Status)
}

func TestTotalPrice(t *testing.T) {
	o, mock := newOrchestrator(t)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id").
		WithArgs(55).
		WillReturnRows(bookingRows().AddRow(55, 9, 42, 7, 1500, model.BookingConfirmed, now, now))

	price, err := o.TotalPrice(context.Background(), 9, model.RoleCustomer, 55)
	require.NoError(t, err)
	assert.Equal(t, uint32(1500), price)

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id").
		WithArgs(55).
		WillReturnRows(bookingRows().AddRow(55, 9, 42, 7, 1500, model.BookingConfirmed, now, now))

	_, err = o.TotalPrice(context.Background(), 10, model.RoleCustomer, 55)
	assert.ErrorIs(t, err, repository.ErrForbidden)
}

func TestMoveToTakenSeatFails(t *testing.T) {
	o, mock := newOrchestrator(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = (.+) FOR UPDATE").
		WithArgs(55).
		WillReturnRows(bookingRows().AddRow(55, 9, 42, 7, 1500, model.BookingPending, now, now))
	expectShowtimeLookup(mock, 42, 2)
	expectSeatLookup(mock, 2, "B5", 8)
	// Locks are taken in ascending seat id order: old seat 7 first.
	mock.ExpectQuery("SELECT (.+) FROM seat_availability WHERE seat_id = (.+) FOR UPDATE").
		WithArgs(7, 42).
		WillReturnRows(availabilityRow(100, 7, 42, model.AvailabilityBooked, 1500))
	mock.ExpectQuery("SELECT (.+) FROM seat_availability WHERE seat_id = (.+) FOR UPDATE").
		WithArgs(8, 42).
		WillReturnRows(availabilityRow(101, 8, 42, model.AvailabilityBooked, 1800))
	mock.ExpectRollback()

	_, err := o.UpdateSeat(context.Background(), 9, model.RoleCustomer, 55, 0, "B5")
	assert.ErrorIs(t, err, repository.ErrSeatNotAvailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}
