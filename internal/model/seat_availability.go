package model

import "time"

// Availability status values stored in seat_availability.status.
const (
	AvailabilityAvailable = "AVAILABLE" // seat may be sold for the showtime
	AvailabilityBooked    = "BOOKED"    // seat is held by a live booking
)

// SeatAvailability tracks, per (seat, showtime), whether a seat is
// sellable.  One row exists for every seat in the theater once a
// showtime is scheduled; the pair (SeatID, ShowtimeID) is unique.
// This row is the single source of truth for sellability and the
// record that booking concurrency control locks.
//
// Fields:
//  ID         – primary key identifier.
//  SeatID     – seat being offered.
//  ShowtimeID – showtime for which the seat is offered.
//  Status     – AVAILABLE or BOOKED.
//  PriceCents – price of this seat for this showtime, in cents.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type SeatAvailability struct {
	ID         uint64    // seat_availability.id
	SeatID     uint64    // seat_availability.seat_id
	ShowtimeID uint64    // seat_availability.showtime_id
	Status     string    // seat_availability.status
	PriceCents uint32    // seat_availability.price_cents
	CreatedAt  time.Time // seat_availability.created_at
	UpdatedAt  time.Time // seat_availability.updated_at
}
