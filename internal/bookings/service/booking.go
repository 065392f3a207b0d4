package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"clinicbook/internal/availability"
	bookingserrors "clinicbook/internal/bookings/errors"
	"clinicbook/internal/bookings/repository"
	"clinicbook/internal/bookings/validator"
	"clinicbook/internal/selection"
	"clinicbook/pkg/config"
	apperrors "clinicbook/pkg/errors"
	"clinicbook/pkg/model"
	"clinicbook/pkg/sanitizer"
)

// Submission is the result of a successful booking request: the stored
// booking and the availability recomputed after it.
type Submission struct {
	Booking      *model.Booking      `json:"booking"`
	Availability *model.Availability `json:"availability"`
}

type BookingService interface {
	Availability(ctx context.Context, q availability.Query) (*model.Availability, error)
	Submit(ctx context.Context, form *model.BookingForm) (*Submission, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	ApplyReview(ctx context.Context, decision *model.ReviewDecision) error
}

type bookingService struct {
	repo      repository.BookingRepository
	engine    availability.Engine
	validator *validator.BookingValidator
	publisher EventPublisher
	clock     availability.Clock
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	engine availability.Engine,
	validator *validator.BookingValidator,
	publisher EventPublisher,
	clock availability.Clock,
	cfg *config.Config,
) BookingService {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	if clock == nil {
		clock = availability.SystemClock{}
	}
	return &bookingService{
		repo:      repo,
		engine:    engine,
		validator: validator,
		publisher: publisher,
		clock:     clock,
		cfg:       cfg,
	}
}

func (s *bookingService) Availability(ctx context.Context, q availability.Query) (*model.Availability, error) {
	return s.engine.ComputeAvailableSlots(ctx, q)
}

func (s *bookingService) Submit(ctx context.Context, form *model.BookingForm) (*Submission, error) {
	s.sanitize(form)
	if err := s.validator.CheckRequired(form); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateForm(form); err != nil {
		s.cfg.Log.Warn("Booking form validation failed", "error", err)
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return nil, apperrors.Validation("Invalid booking request", validationErrs.Details())
		}
		return nil, apperrors.Validation("Invalid booking request", map[string]any{"error": err.Error()})
	}

	date, err := availability.ParseDate(form.Date, s.cfg.Location)
	if err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid date: %s", form.Date))
	}

	// Availability is recomputed here rather than trusted from the client.
	// Results only count once the controller accepts their token.
	sel := selection.FromForm(form, date)
	sel.Form(form, s.cfg.Location)
	controller := selection.NewController(sel, s.cfg.Log)
	watcher := selection.NewAvailabilitySubscriber(ctx, controller, s.engine, nil, s.cfg.Log)
	defer watcher.Close()

	current, err := s.recompute(ctx, controller, watcher)
	if err != nil {
		return nil, err
	}

	booking, err := s.validator.Build(form, current)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return nil, apperrors.Unavailable("Booking storage", err)
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"date", booking.DateKey,
		"slot", booking.Slot,
		"resource_kind", booking.ResourceKind,
		"resource_id", booking.ResourceID,
		"service_id", booking.ServiceID,
	)

	if err := s.publisher.PublishBookingRequested(ctx, booking); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event", "id", booking.ID, "error", err)
	}

	refreshed, err := s.recompute(ctx, controller, watcher)
	if err != nil {
		s.cfg.Log.Warn("Failed to refresh availability after booking", "id", booking.ID, "error", err)
	}

	return &Submission{
		Booking:      booking,
		Availability: refreshed,
	}, nil
}

// recompute requests a fresh computation of the controller's selection and
// waits for the accepted result.
func (s *bookingService) recompute(ctx context.Context, controller *selection.Controller, watcher *selection.AvailabilitySubscriber) (*model.Availability, error) {
	result, err := watcher.Await(ctx, controller.Refresh())
	if err != nil {
		return nil, apperrors.Timeout("Availability computation did not finish")
	}
	return result.Availability, result.Err
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(id, err, "Failed to retrieve booking")
	}
	return booking, nil
}

func (s *bookingService) ApplyReview(ctx context.Context, decision *model.ReviewDecision) error {
	decision.BookingID = sanitizer.NormalizeID(decision.BookingID)
	decision.ReviewedBy = sanitizer.NormalizeName(decision.ReviewedBy)
	if err := s.validator.ValidateReview(decision); err != nil {
		s.cfg.Log.Warn("Review decision validation failed", "booking_id", decision.BookingID, "error", err)
		return apperrors.Validation("Invalid review decision", map[string]any{"error": err.Error()})
	}

	existing, err := s.repo.FindByID(ctx, decision.BookingID)
	if err != nil {
		return s.mapRepoError(decision.BookingID, err, "Failed to retrieve booking")
	}
	if !model.CanTransition(existing.Status, decision.Status) {
		return apperrors.Wrap(bookingserrors.ErrInvalidTransition, apperrors.CodeConflict,
			fmt.Sprintf("Booking %s cannot move from %s to %s", existing.ID, existing.Status, decision.Status),
			http.StatusConflict)
	}

	reviewedAt := decision.ReviewedAt
	if reviewedAt.IsZero() {
		reviewedAt = s.clock.Now()
	}
	if err := s.repo.UpdateStatus(ctx, existing.ID, existing.Status, decision.Status, decision.ReviewedBy, reviewedAt); err != nil {
		return s.mapRepoError(existing.ID, err, "Failed to update booking status")
	}

	s.cfg.Log.Info("Booking reviewed",
		"id", existing.ID,
		"from", existing.Status,
		"to", decision.Status,
		"reviewed_by", decision.ReviewedBy,
	)
	return nil
}

func (s *bookingService) mapRepoError(id string, err error, message string) error {
	switch {
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Booking", id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid booking ID format")
	case errors.Is(err, bookingserrors.ErrStatusChanged):
		return apperrors.Wrap(err, apperrors.CodeConflict, "Booking was reviewed concurrently", http.StatusConflict)
	default:
		s.cfg.Log.Error(message, "id", id, "error", err)
		return apperrors.Unavailable("Booking storage", err)
	}
}

func (s *bookingService) sanitize(form *model.BookingForm) {
	form.Name = sanitizer.NormalizeName(form.Name)
	form.Email = sanitizer.NormalizeEmail(form.Email)
	form.Phone = sanitizer.NormalizePhone(form.Phone)
	form.ServiceID = sanitizer.NormalizeID(form.ServiceID)
	form.BranchID = sanitizer.NormalizeID(form.BranchID)
	form.PractitionerID = sanitizer.NormalizeID(form.PractitionerID)
	form.Date = sanitizer.NormalizeID(form.Date)
	form.Slot = sanitizer.TrimAndNormalize(form.Slot)
}
