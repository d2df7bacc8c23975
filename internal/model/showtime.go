package model

import "time"

// Showtime represents a scheduled screening of a movie in a theater
// over a half-open interval [StartsAt, EndsAt).  No two showtimes in
// the same theater may overlap; intervals that merely touch at a
// boundary are allowed.
//
// Fields:
//  ID             – primary key identifier.
//  MovieID        – movie being screened.
//  TheaterID      – theater where the screening takes place.
//  StartsAt       – when the screening begins (UTC).
//  EndsAt         – when the screening ends (UTC, strictly after StartsAt).
//  BasePriceCents – default seat price in cents for this screening.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Showtime struct {
	ID             uint64    // showtimes.id
	MovieID        uint64    // showtimes.movie_id
	TheaterID      uint64    // showtimes.theater_id
	StartsAt       time.Time // showtimes.starts_at
	EndsAt         time.Time // showtimes.ends_at
	BasePriceCents uint32    // showtimes.base_price_cents
	CreatedAt      time.Time // showtimes.created_at
	UpdatedAt      time.Time // showtimes.updated_at
}

// Overlaps reports whether the showtime's interval intersects
// [start, end).  Two intervals overlap iff each starts before the
// other ends; boundary touches do not count.
func (s Showtime) Overlaps(start, end time.Time) bool {
	return s.StartsAt.Before(end) && s.EndsAt.After(start)
}
