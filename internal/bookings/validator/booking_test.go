package validator

import (
	"testing"
	"time"

	apperrors "clinicbook/pkg/errors"
	"clinicbook/pkg/logger"
	"clinicbook/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValidator() *BookingValidator {
	return NewBookingValidator(logger.Discard())
}

func validForm() *model.BookingForm {
	return &model.BookingForm{
		Name:           "Jane Doe",
		Email:          "jane@example.com",
		Phone:          "+12125551234",
		ServiceID:      "S1",
		BranchID:       "B1",
		PractitionerID: "D1",
		Date:           "2026-10-19",
		Slot:           "09:30 AM",
	}
}

func readyAvailability() *model.Availability {
	return &model.Availability{
		Date:      time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		DateKey:   "2026-10-19",
		State:     model.StateReady,
		Selection: model.Specific("D1"),
		Service:   &model.Service{ID: "S1", Name: "Routine Check-up", DurationMin: 30},
		Branch:    &model.Branch{ID: "B1", Name: "Downtown", StartHour: 8, EndHour: 18},
		Resource:  &model.Resource{Kind: model.ResourcePractitioner, ID: "D1", Name: "Dr. Evelyn Reed"},
		Slots:     []string{"09:00 AM", "09:30 AM", "10:00 AM"},
	}
}

func TestCheckRequired(t *testing.T) {
	v := newTestValidator()

	require.NoError(t, v.CheckRequired(validForm()))

	form := validForm()
	form.Email = ""
	form.Slot = "  "
	err := v.CheckRequired(form)
	require.Error(t, err)

	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)
	assert.Equal(t, []string{"email", "slot"}, appErr.Details["missing_fields"])
}

func TestCheckRequired_PractitionerAndBranchAreOptional(t *testing.T) {
	form := validForm()
	form.PractitionerID = ""
	form.BranchID = ""
	assert.NoError(t, newTestValidator().CheckRequired(form))
}

func TestValidateForm(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name    string
		mutate  func(f *model.BookingForm)
		wantErr string
	}{
		{"valid", func(f *model.BookingForm) {}, ""},
		{"bad email", func(f *model.BookingForm) { f.Email = "jane.example.com" }, "email"},
		{"bad phone", func(f *model.BookingForm) { f.Phone = "555-1234" }, "phone"},
		{"short name", func(f *model.BookingForm) { f.Name = "J" }, "name"},
		{"bad date", func(f *model.BookingForm) { f.Date = "19/10/2026" }, "date"},
		{"24 hour slot", func(f *model.BookingForm) { f.Slot = "13:30" }, "slot"},
		{"slot without leading zero", func(f *model.BookingForm) { f.Slot = "9:30 AM" }, "slot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(form)
			err := v.ValidateForm(form)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, tt.wantErr, verrs[0].Field)
		})
	}
}

func TestBuild_Draft(t *testing.T) {
	booking, err := newTestValidator().Build(validForm(), readyAvailability())
	require.NoError(t, err)

	assert.Equal(t, model.StatusPending, booking.Status)
	assert.Empty(t, booking.ID, "id is assigned by storage")
	assert.Equal(t, "Routine Check-up", booking.ServiceName)
	assert.Equal(t, 30, booking.ServiceDurationMin)
	assert.Equal(t, "Dr. Evelyn Reed", booking.ResourceName)
	assert.Equal(t, "D1", booking.PractitionerID)
	assert.False(t, booking.NoPreference)
	assert.Equal(t, "B1", booking.BranchID)
	assert.Equal(t, "2026-10-19", booking.DateKey)
	assert.Equal(t, "09:30 AM", booking.Slot)
}

func TestBuild_NoPreferenceUsesBranch(t *testing.T) {
	form := validForm()
	form.PractitionerID = ""
	avail := readyAvailability()
	avail.Selection = model.NoPreference()
	avail.Resource = &model.Resource{Kind: model.ResourceBranch, ID: "B1", Name: "Downtown"}

	booking, err := newTestValidator().Build(form, avail)
	require.NoError(t, err)
	assert.True(t, booking.NoPreference)
	assert.Empty(t, booking.PractitionerID)
	assert.Equal(t, model.ResourceBranch, booking.ResourceKind)
	assert.Equal(t, "B1", booking.ResourceID)
}

func TestBuild_RejectsStaleState(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *model.BookingForm, a *model.Availability)
	}{
		{"slot no longer offered", func(f *model.BookingForm, a *model.Availability) { f.Slot = "11:00 AM" }},
		{"different date", func(f *model.BookingForm, a *model.Availability) { f.Date = "2026-10-20" }},
		{"different service", func(f *model.BookingForm, a *model.Availability) { f.ServiceID = "S2" }},
		{"different practitioner", func(f *model.BookingForm, a *model.Availability) { f.PractitionerID = "D2" }},
		{"preference dropped", func(f *model.BookingForm, a *model.Availability) { f.PractitionerID = "" }},
		{"different branch", func(f *model.BookingForm, a *model.Availability) { f.BranchID = "B2" }},
		{"closed day", func(f *model.BookingForm, a *model.Availability) {
			a.State = model.StateClosed
			a.Slots = []string{}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form, avail := validForm(), readyAvailability()
			tt.mutate(form, avail)

			_, err := newTestValidator().Build(form, avail)
			assert.True(t, apperrors.HasCode(err, apperrors.CodeSlotUnavailable), "got %v", err)
		})
	}
}

func TestBuild_UnresolvedSelection(t *testing.T) {
	avail := &model.Availability{DateKey: "2026-10-19", State: model.StateNeedsSelection, Slots: []string{}}

	_, err := newTestValidator().Build(validForm(), avail)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	_, err = newTestValidator().Build(validForm(), nil)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestValidateReview(t *testing.T) {
	v := newTestValidator()

	assert.NoError(t, v.ValidateReview(&model.ReviewDecision{BookingID: "b-1", Status: model.StatusApproved}))
	assert.Error(t, v.ValidateReview(&model.ReviewDecision{BookingID: "b-1", Status: model.StatusCancelled}))
	assert.Error(t, v.ValidateReview(&model.ReviewDecision{Status: model.StatusDeclined}))
}
