// Package events connects the bookings service to Kafka: it announces stored
// booking requests and applies review decisions coming back.
package events

import (
	"context"
	"fmt"

	"clinicbook/pkg/kafka"
	"clinicbook/pkg/middleware"
	"clinicbook/pkg/model"
)

const (
	EventBookingRequested = "booking.requested"
	EventBookingReviewed  = "booking.reviewed"

	SchemaVersion = "1"
	Source        = "clinicbook-bookings"
)

// MessagePublisher is satisfied by *kafka.Producer.
type MessagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type BookingPublisher struct {
	producer MessagePublisher
}

func NewBookingPublisher(producer MessagePublisher) *BookingPublisher {
	return &BookingPublisher{producer: producer}
}

// PublishBookingRequested keys the event by resource so that requests for the
// same practitioner or branch stay ordered.
func (p *BookingPublisher) PublishBookingRequested(ctx context.Context, booking *model.Booking) error {
	msg, err := kafka.NewMessage().
		WithKey(booking.ResourceID).
		WithValue(model.NewBookingEvent(booking)).
		WithEventType(EventBookingRequested).
		WithSchemaVersion(SchemaVersion).
		WithSource(Source).
		WithCorrelationID(middleware.RequestID(ctx)).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build booking event: %w", err)
	}
	return p.producer.Publish(ctx, msg)
}
