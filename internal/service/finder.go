package service

import (
	"context"

	"github.com/iliyamo/movie-theater-booking/internal/repository"
)

// AvailableSeatFinder answers "which seats can still be bought for
// this showtime".  Results come from a single unlocked read and are a
// snapshot; a seat listed here may be gone by the time a booking for
// it is attempted.
type AvailableSeatFinder struct {
	showtimes    *repository.ShowtimeRepo
	availability *repository.SeatAvailabilityRepo
}

// NewAvailableSeatFinder constructs an AvailableSeatFinder.
func NewAvailableSeatFinder(showtimes *repository.ShowtimeRepo, availability *repository.SeatAvailabilityRepo) *AvailableSeatFinder {
	if showtimes == nil || availability == nil {
		panic("nil dependency passed to NewAvailableSeatFinder")
	}
	return &AvailableSeatFinder{showtimes: showtimes, availability: availability}
}

// SeatFilter narrows an availability query.  The zero value matches
// every available seat of the showtime.
type SeatFilter struct {
	RowPrefix     string  // match seats whose number starts with this prefix, e.g. "A"
	MinPriceCents *uint32 // inclusive lower price bound, nil for none
	MaxPriceCents *uint32 // inclusive upper price bound, nil for none
}

// Find lists the seats still AVAILABLE for a showtime, ordered by
// seat number.  The showtime must exist; an unknown id fails with
// ErrShowtimeNotFound rather than returning an empty list.
func (f *AvailableSeatFinder) Find(ctx context.Context, showtimeID uint64, filter SeatFilter) ([]repository.AvailableSeat, error) {
	if _, err := f.showtimes.GetByID(ctx, showtimeID); err != nil {
		return nil, err
	}
	return f.availability.ListAvailableByShowtime(ctx, showtimeID, filter.RowPrefix, filter.MinPriceCents, filter.MaxPriceCents)
}
