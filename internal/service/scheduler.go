// Package service implements the booking core: showtime scheduling,
// the booking lifecycle and seat lookup.  Handlers stay thin; every
// multi-row mutation here runs as one short-lived database
// transaction.
package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/movie-theater-booking/internal/model"
	"github.com/iliyamo/movie-theater-booking/internal/repository"
)

// ErrInvalidInterval is returned when a showtime's end does not fall
// strictly after its start.  Handlers translate it into an HTTP 400
// response.
var ErrInvalidInterval = errors.New("ends_at must be after starts_at")

// theaterLockWaitSecs bounds how long a scheduling request waits for
// the per-theater advisory lock before failing with a transient error.
const theaterLockWaitSecs = 5

// ShowtimeScheduler validates and persists showtimes.  It is the only
// component that creates or removes seat_availability rows, and it
// guarantees that no two showtimes in the same theater overlap.
type ShowtimeScheduler struct {
	db           *sql.DB
	movies       *repository.MovieRepo
	theaters     *repository.TheaterRepo
	seats        *repository.SeatRepo
	showtimes    *repository.ShowtimeRepo
	availability *repository.SeatAvailabilityRepo
	bookings     *repository.BookingRepo
}

// NewShowtimeScheduler constructs a ShowtimeScheduler.  All
// dependencies must be non-nil.
func NewShowtimeScheduler(db *sql.DB, movies *repository.MovieRepo, theaters *repository.TheaterRepo, seats *repository.SeatRepo, showtimes *repository.ShowtimeRepo, availability *repository.SeatAvailabilityRepo, bookings *repository.BookingRepo) *ShowtimeScheduler {
	if db == nil || movies == nil || theaters == nil || seats == nil || showtimes == nil || availability == nil || bookings == nil {
		panic("nil dependency passed to NewShowtimeScheduler")
	}
	return &ShowtimeScheduler{db: db, movies: movies, theaters: theaters, seats: seats, showtimes: showtimes, availability: availability, bookings: bookings}
}

// ScheduleInput carries the fields for creating or rescheduling a
// showtime.  Times are interpreted in UTC.
type ScheduleInput struct {
	MovieID        uint64
	TheaterID      uint64
	StartsAt       time.Time
	EndsAt         time.Time
	BasePriceCents uint32
}

// Create schedules a new showtime.  The overlap scan and the insert
// run inside one transaction while holding the theater's advisory
// lock, so two admins scheduling the same theater serialize; the
// second sees the first's committed row.  On success one AVAILABLE
// seat_availability row is seeded, at the base price, for every seat
// in the theater.
func (s *ShowtimeScheduler) Create(ctx context.Context, in ScheduleInput) (*model.Showtime, error) {
	if !in.EndsAt.After(in.StartsAt) {
		return nil, ErrInvalidInterval
	}
	if _, err := s.movies.GetByID(ctx, in.MovieID); err != nil {
		return nil, err
	}
	if _, err := s.theaters.GetByID(ctx, in.TheaterID); err != nil {
		return nil, err
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	// The advisory lock is connection-scoped; it is released on the
	// same connection only after the transaction has committed, so no
	// second scheduler can scan before this one's row is visible.
	if err := s.showtimes.AcquireTheaterLock(ctx, conn, in.TheaterID, theaterLockWaitSecs); err != nil {
		return nil, err
	}
	defer func() { _ = s.showtimes.ReleaseTheaterLock(ctx, conn, in.TheaterID) }()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	overlaps, err := s.showtimes.FindOverlappingTx(ctx, tx, in.TheaterID, 0, in.StartsAt, in.EndsAt)
	if err != nil {
		return nil, err
	}
	if len(overlaps) > 0 {
		return nil, repository.ErrShowtimeOverlap
	}

	showtime := &model.Showtime{
		MovieID:        in.MovieID,
		TheaterID:      in.TheaterID,
		StartsAt:       in.StartsAt.UTC(),
		EndsAt:         in.EndsAt.UTC(),
		BasePriceCents: in.BasePriceCents,
	}
	if err := s.showtimes.CreateTx(ctx, tx, showtime); err != nil {
		return nil, err
	}

	seats, err := s.seats.GetByTheaterTx(ctx, tx, in.TheaterID)
	if err != nil {
		return nil, err
	}
	rows := make([]model.SeatAvailability, 0, len(seats))
	for _, seat := range seats {
		rows = append(rows, model.SeatAvailability{
			SeatID:     seat.ID,
			ShowtimeID: showtime.ID,
			Status:     model.AvailabilityAvailable,
			PriceCents: in.BasePriceCents,
		})
	}
	if err := s.availability.CreateBulkTx(ctx, tx, rows); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return showtime, nil
}

// Update reschedules an existing showtime.  The overlap check
// excludes the showtime itself, so a window may shrink or move within
// its own slot.  Seat availability rows stay keyed to the showtime id
// and are not regenerated; existing bookings are unaffected.
func (s *ShowtimeScheduler) Update(ctx context.Context, id uint64, in ScheduleInput) (*model.Showtime, error) {
	if !in.EndsAt.After(in.StartsAt) {
		return nil, ErrInvalidInterval
	}
	if _, err := s.movies.GetByID(ctx, in.MovieID); err != nil {
		return nil, err
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	current, err := s.showtimes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// The theater of a showtime is immutable; rescheduling keeps the
	// availability rows tied to the theater's seats meaningful.
	theaterID := current.TheaterID

	if err := s.showtimes.AcquireTheaterLock(ctx, conn, theaterID, theaterLockWaitSecs); err != nil {
		return nil, err
	}
	defer func() { _ = s.showtimes.ReleaseTheaterLock(ctx, conn, theaterID) }()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	overlaps, err := s.showtimes.FindOverlappingTx(ctx, tx, theaterID, id, in.StartsAt, in.EndsAt)
	if err != nil {
		return nil, err
	}
	if len(overlaps) > 0 {
		return nil, repository.ErrShowtimeOverlap
	}

	updated := &model.Showtime{
		ID:             id,
		MovieID:        in.MovieID,
		TheaterID:      theaterID,
		StartsAt:       in.StartsAt.UTC(),
		EndsAt:         in.EndsAt.UTC(),
		BasePriceCents: in.BasePriceCents,
	}
	if err := s.showtimes.UpdateScheduleTx(ctx, tx, updated); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return updated, nil
}

// Delete removes a showtime and its availability rows in one
// transaction.  Deletion is rejected with ErrConflict while live
// (non-cancelled) bookings exist for the showtime.
func (s *ShowtimeScheduler) Delete(ctx context.Context, id uint64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := s.showtimes.GetByIDTx(ctx, tx, id); err != nil {
		return err
	}
	live, err := s.bookings.CountLiveByShowtimeTx(ctx, tx, id)
	if err != nil {
		return err
	}
	if live > 0 {
		return repository.ErrConflict
	}
	if err := s.availability.DeleteByShowtimeTx(ctx, tx, id); err != nil {
		return err
	}
	if err := s.showtimes.DeleteTx(ctx, tx, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
