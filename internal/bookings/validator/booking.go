package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"clinicbook/internal/availability"
	apperrors "clinicbook/pkg/errors"
	"clinicbook/pkg/logger"
	"clinicbook/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// Details renders the errors as AppError details.
func (v ValidationErrors) Details() map[string]any {
	fields := make(map[string]string, len(v))
	for _, err := range v {
		fields[err.Field] = err.Message
	}
	return map[string]any{"fields": fields}
}

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("slot_label", validateSlotLabel); err != nil {
		log.Fatal("Failed to register 'slot_label' validator",
			"error", err,
		)
	}

	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

// validateSlotLabel accepts only labels in the canonical "03:04 PM" form.
func validateSlotLabel(fl validator.FieldLevel) bool {
	label := fl.Field().String()
	minute, err := availability.ParseLabel(label)
	if err != nil {
		return false
	}
	return availability.Label(minute) == label
}

// CheckRequired reports the required form fields that are empty, without any
// format checks.
func (v *BookingValidator) CheckRequired(form *model.BookingForm) error {
	var missing []string
	for field, value := range map[string]string{
		"name":       form.Name,
		"email":      form.Email,
		"phone":      form.Phone,
		"service_id": form.ServiceID,
		"date":       form.Date,
		"slot":       form.Slot,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return apperrors.MissingFields(missing...)
	}
	return nil
}

func (v *BookingValidator) ValidateForm(form *model.BookingForm) error {
	return v.check(form)
}

func (v *BookingValidator) Validate(booking *model.Booking) error {
	return v.check(booking)
}

func (v *BookingValidator) ValidateReview(decision *model.ReviewDecision) error {
	return v.check(decision)
}

// Build turns a form into a pending booking draft, using avail as the latest
// availability computed for the form's selection. It rejects forms whose
// selection or slot no longer match that availability.
func (v *BookingValidator) Build(form *model.BookingForm, avail *model.Availability) (*model.Booking, error) {
	if avail == nil || avail.State == model.StateNeedsSelection || avail.Service == nil || avail.Resource == nil {
		return nil, apperrors.Validation("Please complete your selection", map[string]any{"state": model.StateNeedsSelection})
	}
	if !matchesSelection(form, avail) || !avail.Contains(form.Slot) {
		v.logger.Warn("Rejected stale slot",
			"slot", form.Slot,
			"date", form.Date,
			"resource_id", avail.Resource.ID,
			"state", avail.State,
		)
		return nil, apperrors.SlotUnavailable(form.Slot)
	}

	booking := &model.Booking{
		Name:               form.Name,
		Email:              form.Email,
		Phone:              form.Phone,
		ServiceID:          avail.Service.ID,
		ServiceName:        avail.Service.Name,
		ServiceDurationMin: avail.Service.DurationMin,
		NoPreference:       !avail.Selection.IsSpecific(),
		ResourceKind:       avail.Resource.Kind,
		ResourceID:         avail.Resource.ID,
		ResourceName:       avail.Resource.Name,
		Date:               avail.Date,
		DateKey:            avail.DateKey,
		Slot:               form.Slot,
		Status:             model.StatusPending,
	}
	if id, ok := avail.Selection.PractitionerID(); ok {
		booking.PractitionerID = id
	}
	if avail.Branch != nil {
		booking.BranchID = avail.Branch.ID
		booking.BranchName = avail.Branch.Name
	}

	if err := v.Validate(booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func matchesSelection(form *model.BookingForm, avail *model.Availability) bool {
	if avail.DateKey != form.Date || avail.Service.ID != form.ServiceID {
		return false
	}
	if !avail.Selection.Equal(form.Selection()) {
		return false
	}
	if form.BranchID != "" && (avail.Branch == nil || avail.Branch.ID != form.BranchID) {
		return false
	}
	return true
}

func (v *BookingValidator) check(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "e164":
			message = fmt.Sprintf("%s must be a valid phone number (e.g., +12125551234)", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "datetime":
			message = fmt.Sprintf("%s must be a date in YYYY-MM-DD format", err.Field())
		case "slot_label":
			message = fmt.Sprintf("%s must be a time such as 09:30 AM", err.Field())
		case "uuid4":
			message = fmt.Sprintf("%s must be a valid booking ID", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
