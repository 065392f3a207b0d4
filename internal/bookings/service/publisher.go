package service

import (
	"context"

	"clinicbook/pkg/model"
)

// EventPublisher announces stored booking requests to downstream reviewers.
type EventPublisher interface {
	PublishBookingRequested(ctx context.Context, booking *model.Booking) error
}

// NoopPublisher is used when messaging is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishBookingRequested(context.Context, *model.Booking) error {
	return nil
}
