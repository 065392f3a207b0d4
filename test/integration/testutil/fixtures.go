//go:build integration

package testutil

import (
	"time"

	"clinicbook/pkg/model"
)

type BookingFormBuilder struct {
	form model.BookingForm
}

// NewBookingFormBuilder starts from a valid request for Dr. Evelyn Reed's
// first morning slot.
func NewBookingFormBuilder(date time.Time) *BookingFormBuilder {
	return &BookingFormBuilder{
		form: model.BookingForm{
			Name:           "Dana Levi",
			Email:          "dana@example.com",
			Phone:          "+14155550123",
			ServiceID:      "S1",
			BranchID:       "B1",
			PractitionerID: "D1",
			Date:           date.Format(time.DateOnly),
			Slot:           "09:00 AM",
		},
	}
}

func (b *BookingFormBuilder) WithSlot(slot string) *BookingFormBuilder {
	b.form.Slot = slot
	return b
}

func (b *BookingFormBuilder) WithService(id string) *BookingFormBuilder {
	b.form.ServiceID = id
	return b
}

func (b *BookingFormBuilder) WithPractitioner(id string) *BookingFormBuilder {
	b.form.PractitionerID = id
	return b
}

func (b *BookingFormBuilder) WithPhone(phone string) *BookingFormBuilder {
	b.form.Phone = phone
	return b
}

func (b *BookingFormBuilder) WithoutEmail() *BookingFormBuilder {
	b.form.Email = ""
	return b
}

func (b *BookingFormBuilder) Build() model.BookingForm {
	return b.form
}

// NextWeekday returns the next Monday at least two days out, so the lead
// time guard never touches the morning slots.
func NextWeekday(now time.Time) time.Time {
	d := now.AddDate(0, 0, 2)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}
