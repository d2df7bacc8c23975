package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{"pending to confirmed", BookingPending, BookingConfirmed, true},
		{"pending to cancelled", BookingPending, BookingCancelled, true},
		{"confirmed to cancelled", BookingConfirmed, BookingCancelled, true},
		{"confirmed to pending", BookingConfirmed, BookingPending, false},
		{"confirmed to confirmed", BookingConfirmed, BookingConfirmed, false},
		{"cancelled is terminal", BookingCancelled, BookingPending, false},
		{"cancelled to confirmed", BookingCancelled, BookingConfirmed, false},
		{"cancelled to cancelled", BookingCancelled, BookingCancelled, false},
		{"unknown status", "REFUNDED", BookingCancelled, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanTransition(tc.from, tc.to))
		})
	}
}

func TestShowtimeOverlaps(t *testing.T) {
	base := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	s := Showtime{StartsAt: base, EndsAt: base.Add(2 * time.Hour)}

	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{"identical window", base, base.Add(2 * time.Hour), true},
		{"contained inside", base.Add(30 * time.Minute), base.Add(time.Hour), true},
		{"straddles start", base.Add(-time.Hour), base.Add(time.Minute), true},
		{"straddles end", base.Add(time.Hour), base.Add(3 * time.Hour), true},
		{"touches at end", s.EndsAt, s.EndsAt.Add(time.Hour), false},
		{"touches at start", base.Add(-time.Hour), base, false},
		{"well before", base.Add(-3 * time.Hour), base.Add(-2 * time.Hour), false},
		{"well after", base.Add(5 * time.Hour), base.Add(6 * time.Hour), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, s.Overlaps(tc.start, tc.end))
		})
	}
}
