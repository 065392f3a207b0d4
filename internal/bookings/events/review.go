package events

import (
	"context"

	apperrors "clinicbook/pkg/errors"
	"clinicbook/pkg/kafka"
	"clinicbook/pkg/model"
)

type ReviewApplier interface {
	ApplyReview(ctx context.Context, decision *model.ReviewDecision) error
}

// ReviewHandler applies review decisions. Storage outages are retried;
// rejected decisions go straight to the dead letter topic.
func ReviewHandler(applier ReviewApplier) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var decision model.ReviewDecision
		if err := msg.DecodeValue(&decision); err != nil {
			return err
		}
		if decision.BookingID == "" {
			decision.BookingID = msg.Key
		}

		if err := applier.ApplyReview(ctx, &decision); err != nil {
			return classify(err)
		}
		return nil
	}
}

func classify(err error) error {
	switch apperrors.AsAppError(err).Code {
	case apperrors.CodeUnavailable, apperrors.CodeTimeout, apperrors.CodeInternal:
		return kafka.NewTransientError("review decision not applied", err)
	default:
		return kafka.NewPermanentError("review decision rejected", err)
	}
}
