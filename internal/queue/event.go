// Package queue publishes booking lifecycle events to RabbitMQ and
// runs the background consumer that appends them to logs/booking.log.
package queue

// Event kinds carried in BookingEvent.Kind.
const (
	BookingCreated   = "booking.created"
	BookingConfirmed = "booking.confirmed"
	BookingCancelled = "booking.cancelled"
)

// BookingEvent is published on every booking lifecycle transition.
// It carries enough for downstream consumers to log or trigger
// follow-up work without querying the primary database.
type BookingEvent struct {
	Kind       string `json:"kind"`
	BookingID  uint64 `json:"booking_id"`
	UserID     uint64 `json:"user_id"`
	ShowtimeID uint64 `json:"showtime_id"`
	SeatID     uint64 `json:"seat_id"`
	PriceCents uint32 `json:"price_cents"`
	Status     string `json:"status"`
	OccurredAt string `json:"occurred_at"`
}
