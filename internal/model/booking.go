package model

import "time"

// Booking status values stored in bookings.status.
const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
)

// Booking records a customer's reservation of one seat for one
// showtime.  At most one live (non-cancelled) booking may exist per
// (seat, showtime); a unique index over live rows enforces this at
// the database level.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – customer who made the booking.
//  ShowtimeID – showtime being booked.
//  SeatID     – seat being booked.
//  PriceCents – price paid for the seat, in cents, fixed at creation.
//  Status     – PENDING, CONFIRMED or CANCELLED.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Booking struct {
	ID         uint64    // bookings.id
	UserID     uint64    // bookings.user_id
	ShowtimeID uint64    // bookings.showtime_id
	SeatID     uint64    // bookings.seat_id
	PriceCents uint32    // bookings.price_cents
	Status     string    // bookings.status
	CreatedAt  time.Time // bookings.created_at
	UpdatedAt  time.Time // bookings.updated_at
}

// CanTransition reports whether a booking may move from one status to
// another.  New bookings start as PENDING.  Confirmation is reachable
// only from PENDING, cancellation from either non-terminal state, and
// CANCELLED is terminal.
func CanTransition(from, to string) bool {
	switch from {
	case BookingPending:
		return to == BookingConfirmed || to == BookingCancelled
	case BookingConfirmed:
		return to == BookingCancelled
	default:
		return false
	}
}
