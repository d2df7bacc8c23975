package model

import "time"

// Theater represents a physical venue.  Each theater owns a fixed set
// of seats; MaxSeats caps how many may be registered.  Theater names
// are unique across the system.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – unique theater name.
//  Location  – street address or description of the venue.
//  MaxSeats  – maximum number of seats the theater may hold.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Theater struct {
	ID        uint64    // theaters.id
	Name      string    // theaters.name
	Location  string    // theaters.location
	MaxSeats  uint32    // theaters.max_seats
	CreatedAt time.Time // theaters.created_at
	UpdatedAt time.Time // theaters.updated_at
}

// Seat describes a physical seat inside a theater.  Seats exist
// independent of any showtime; per-showtime sellability is tracked by
// SeatAvailability rows.  The seat number (e.g. "A12") is unique
// within its theater and its leading letters designate the row.
//
// Fields:
//  ID         – primary key identifier.
//  TheaterID  – theater to which this seat belongs.
//  SeatNumber – label unique within the theater, row letter first.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Seat struct {
	ID         uint64    // seats.id
	TheaterID  uint64    // seats.theater_id
	SeatNumber string    // seats.seat_number
	CreatedAt  time.Time // seats.created_at
	UpdatedAt  time.Time // seats.updated_at
}
