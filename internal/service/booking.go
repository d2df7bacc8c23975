package service

import (
	"context"
	"database/sql"

	"github.com/iliyamo/movie-theater-booking/internal/model"
	"github.com/iliyamo/movie-theater-booking/internal/queue"
	"github.com/iliyamo/movie-theater-booking/internal/repository"
)

// BookingOrchestrator drives the booking lifecycle.  Every mutation
// locks the seat_availability row with SELECT ... FOR UPDATE before
// deciding, and the unique index over live bookings backstops the
// check, so a double-sell cannot slip through even if two requests
// race.
type BookingOrchestrator struct {
	db           *sql.DB
	bookings     *repository.BookingRepo
	showtimes    *repository.ShowtimeRepo
	seats        *repository.SeatRepo
	availability *repository.SeatAvailabilityRepo
	users        *repository.UserRepo
	events       *queue.Publisher
}

// NewBookingOrchestrator constructs a BookingOrchestrator.  The event
// publisher may be nil, in which case lifecycle events are not
// emitted.
func NewBookingOrchestrator(db *sql.DB, bookings *repository.BookingRepo, showtimes *repository.ShowtimeRepo, seats *repository.SeatRepo, availability *repository.SeatAvailabilityRepo, users *repository.UserRepo, events *queue.Publisher) *BookingOrchestrator {
	if db == nil || bookings == nil || showtimes == nil || seats == nil || availability == nil || users == nil {
		panic("nil dependency passed to NewBookingOrchestrator")
	}
	return &BookingOrchestrator{db: db, bookings: bookings, showtimes: showtimes, seats: seats, availability: availability, users: users, events: events}
}

// Create books a seat, identified by its number within the showtime's
// theater, for the given user.  The availability row is locked before
// the status check so concurrent requests for the same seat
// serialize; the loser sees BOOKED and fails with
// ErrSeatNotAvailable.  The booking starts as PENDING and copies the
// seat's price at this moment.
func (o *BookingOrchestrator) Create(ctx context.Context, userID, showtimeID uint64, seatNumber string) (*model.Booking, error) {
	tx, err := o.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	showtime, err := o.showtimes.GetByIDTx(ctx, tx, showtimeID)
	if err != nil {
		return nil, err
	}
	if err := o.users.ExistsTx(ctx, tx, userID); err != nil {
		return nil, err
	}
	seat, err := o.seats.GetByNumberTx(ctx, tx, showtime.TheaterID, seatNumber)
	if err != nil {
		return nil, err
	}

	avail, err := o.availability.GetForUpdateTx(ctx, tx, seat.ID, showtimeID)
	if err != nil {
		return nil, err
	}
	if avail.Status != model.AvailabilityAvailable {
		return nil, repository.ErrSeatNotAvailable
	}
	if err := o.availability.MarkBookedTx(ctx, tx, avail.ID); err != nil {
		return nil, err
	}

	booking := &model.Booking{
		UserID:     userID,
		ShowtimeID: showtimeID,
		SeatID:     seat.ID,
		PriceCents: avail.PriceCents,
		Status:     model.BookingPending,
	}
	if err := o.bookings.CreateTx(ctx, tx, booking); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	o.publish(queue.BookingCreated, booking)
	return booking, nil
}

// Get returns a booking.  Customers may only read their own bookings;
// admins may read any.
func (o *BookingOrchestrator) Get(ctx context.Context, actorID uint64, actorRole string, id uint64) (*model.Booking, error) {
	booking, err := o.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.UserID != actorID && actorRole != model.RoleAdmin {
		return nil, repository.ErrForbidden
	}
	return booking, nil
}

// TotalPrice returns the booking's price in cents.  Pure read with
// the same visibility rule as Get.
func (o *BookingOrchestrator) TotalPrice(ctx context.Context, actorID uint64, actorRole string, id uint64) (uint32, error) {
	booking, err := o.Get(ctx, actorID, actorRole, id)
	if err != nil {
		return 0, err
	}
	return booking.PriceCents, nil
}

// UpdateSeat moves a PENDING booking to a different seat, and
// optionally to a different showtime (showtimeID of 0 keeps the
// current one).  Both availability rows are locked; the old pair is
// released and the new one claimed atomically, and the booking's
// price is refreshed from the new seat.
func (o *BookingOrchestrator) UpdateSeat(ctx context.Context, actorID uint64, actorRole string, id, showtimeID uint64, seatNumber string) (*model.Booking, error) {
	tx, err := o.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	booking, err := o.bookings.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if booking.UserID != actorID && actorRole != model.RoleAdmin {
		return nil, repository.ErrForbidden
	}
	if booking.Status != model.BookingPending {
		return nil, repository.ErrConflict
	}

	if showtimeID == 0 {
		showtimeID = booking.ShowtimeID
	}
	showtime, err := o.showtimes.GetByIDTx(ctx, tx, showtimeID)
	if err != nil {
		return nil, err
	}
	seat, err := o.seats.GetByNumberTx(ctx, tx, showtime.TheaterID, seatNumber)
	if err != nil {
		return nil, err
	}
	oldPair := seatPair{showtimeID: booking.ShowtimeID, seatID: booking.SeatID}
	newPair := seatPair{showtimeID: showtimeID, seatID: seat.ID}
	if newPair == oldPair {
		return booking, nil // no-op move
	}

	// Lock rows in a fixed order so two moves swapping a pair of
	// seats cannot deadlock.
	first, second := oldPair, newPair
	if newPair.less(oldPair) {
		first, second = newPair, oldPair
	}
	var oldAvail, newAvail *model.SeatAvailability
	for _, p := range []seatPair{first, second} {
		row, err := o.availability.GetForUpdateTx(ctx, tx, p.seatID, p.showtimeID)
		if err != nil {
			return nil, err
		}
		if p == oldPair {
			oldAvail = row
		} else {
			newAvail = row
		}
	}
	if newAvail.Status != model.AvailabilityAvailable {
		return nil, repository.ErrSeatNotAvailable
	}
	if err := o.availability.MarkAvailableTx(ctx, tx, oldAvail.ID); err != nil {
		return nil, err
	}
	if err := o.availability.MarkBookedTx(ctx, tx, newAvail.ID); err != nil {
		return nil, err
	}
	if err := o.bookings.UpdateSeatTx(ctx, tx, id, showtimeID, seat.ID, newAvail.PriceCents); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	booking.ShowtimeID = showtimeID
	booking.SeatID = seat.ID
	booking.PriceCents = newAvail.PriceCents
	return booking, nil
}

// seatPair identifies one seat_availability row.
type seatPair struct {
	showtimeID uint64
	seatID     uint64
}

func (p seatPair) less(q seatPair) bool {
	if p.showtimeID != q.showtimeID {
		return p.showtimeID < q.showtimeID
	}
	return p.seatID < q.seatID
}

// Confirm moves a PENDING booking to CONFIRMED.  Confirming a
// cancelled or already-confirmed booking fails with ErrConflict.
func (o *BookingOrchestrator) Confirm(ctx context.Context, actorID uint64, actorRole string, id uint64) (*model.Booking, error) {
	booking, err := o.transition(ctx, actorID, actorRole, id, model.BookingConfirmed, nil)
	if err != nil {
		return nil, err
	}
	o.publish(queue.BookingConfirmed, booking)
	return booking, nil
}

// Cancel moves a booking to CANCELLED and releases its seat, making
// the seat immediately rebookable.  Cancelling an already-cancelled
// booking fails with ErrConflict.
func (o *BookingOrchestrator) Cancel(ctx context.Context, actorID uint64, actorRole string, id uint64) (*model.Booking, error) {
	booking, err := o.transition(ctx, actorID, actorRole, id, model.BookingCancelled, o.releaseSeat)
	if err != nil {
		return nil, err
	}
	o.publish(queue.BookingCancelled, booking)
	return booking, nil
}

// transition applies a guarded status change inside one transaction.
// extra, when non-nil, runs in the same transaction after the status
// row has been updated.
func (o *BookingOrchestrator) transition(ctx context.Context, actorID uint64, actorRole string, id uint64, to string, extra func(context.Context, *sql.Tx, *model.Booking) error) (*model.Booking, error) {
	tx, err := o.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	booking, err := o.bookings.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if booking.UserID != actorID && actorRole != model.RoleAdmin {
		return nil, repository.ErrForbidden
	}
	if !model.CanTransition(booking.Status, to) {
		return nil, repository.ErrConflict
	}
	if err := o.bookings.UpdateStatusTx(ctx, tx, id, booking.Status, to); err != nil {
		return nil, err
	}
	if extra != nil {
		if err := extra(ctx, tx, booking); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	booking.Status = to
	return booking, nil
}

// releaseSeat flips the booking's availability row back to AVAILABLE.
func (o *BookingOrchestrator) releaseSeat(ctx context.Context, tx *sql.Tx, booking *model.Booking) error {
	avail, err := o.availability.GetForUpdateTx(ctx, tx, booking.SeatID, booking.ShowtimeID)
	if err != nil {
		return err
	}
	return o.availability.MarkAvailableTx(ctx, tx, avail.ID)
}

// Delete removes a booking record entirely.  Admin only; a live
// booking's seat is released first so availability stays consistent.
func (o *BookingOrchestrator) Delete(ctx context.Context, id uint64) error {
	tx, err := o.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	booking, err := o.bookings.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		return err
	}
	if booking.Status != model.BookingCancelled {
		if err := o.releaseSeat(ctx, tx, booking); err != nil {
			return err
		}
	}
	if err := o.bookings.DeleteTx(ctx, tx, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ListForUser returns a page of the user's bookings plus the total
// count.
func (o *BookingOrchestrator) ListForUser(ctx context.Context, userID uint64, limit, offset int) ([]model.Booking, int64, error) {
	return o.bookings.ListByUser(ctx, userID, limit, offset)
}

// ListAll returns a page over every booking.  Admin only.
func (o *BookingOrchestrator) ListAll(ctx context.Context, limit, offset int) ([]model.Booking, int64, error) {
	return o.bookings.ListAll(ctx, limit, offset)
}

// publish emits a lifecycle event, best effort.  A broker outage must
// not fail a committed booking, so errors are swallowed by the
// publisher itself.
func (o *BookingOrchestrator) publish(kind string, b *model.Booking) {
	if o.events == nil {
		return
	}
	o.events.PublishBookingEvent(kind, b)
}
