package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/movie-theater-booking/internal/model"
)

const bookingQueueName = "booking.events"

// Publisher sends booking lifecycle events to the booking.events
// queue.  Publishing is best effort: any error is logged and
// swallowed so a broker outage never fails a committed booking.
type Publisher struct {
	url string
}

// NewPublisher returns a Publisher targeting the given AMQP URL.
func NewPublisher(url string) *Publisher {
	return &Publisher{url: url}
}

// PublishBookingEvent publishes one event for the booking.  Messages
// are marked persistent so they survive broker restarts.
func (p *Publisher) PublishBookingEvent(kind string, b *model.Booking) {
	event := BookingEvent{
		Kind:       kind,
		BookingID:  b.ID,
		UserID:     b.UserID,
		ShowtimeID: b.ShowtimeID,
		SeatID:     b.SeatID,
		PriceCents: b.PriceCents,
		Status:     b.Status,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := p.publish(event); err != nil {
		log.Printf("rabbitmq: publish %s for booking %d failed: %v", kind, b.ID, err)
	}
}

func (p *Publisher) publish(event BookingEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(bookingQueueName, true, false, false, false, nil); err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return ch.PublishWithContext(ctx,
		"",               // default exchange
		bookingQueueName, // routing key = queue name
		false,            // mandatory
		false,            // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}
