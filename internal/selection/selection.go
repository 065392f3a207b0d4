// Package selection holds the customer's in-progress choice of date, service,
// branch, practitioner and slot, and keeps availability in step with it.
package selection

import (
	"fmt"
	"time"

	"clinicbook/internal/availability"
	"clinicbook/pkg/model"
)

// Selection is an immutable value. Every With method returns a copy; changing
// anything that affects availability clears the chosen slot.
type Selection struct {
	date       time.Time
	serviceID  string
	branchID   string
	preference model.ResourceSelection
	slot       string
}

// New starts a selection on date with no practitioner preference.
func New(date time.Time) Selection {
	return Selection{date: date, preference: model.NoPreference()}
}

func (s Selection) Date() time.Time                     { return s.date }
func (s Selection) ServiceID() string                   { return s.serviceID }
func (s Selection) BranchID() string                    { return s.branchID }
func (s Selection) Preference() model.ResourceSelection { return s.preference }
func (s Selection) Slot() string                        { return s.slot }

func (s Selection) WithDate(date time.Time) Selection {
	s.date = date
	s.slot = ""
	return s
}

func (s Selection) WithService(id string) Selection {
	s.serviceID = id
	s.slot = ""
	return s
}

func (s Selection) WithBranch(id string) Selection {
	s.branchID = id
	s.slot = ""
	return s
}

func (s Selection) WithPreference(pref model.ResourceSelection) Selection {
	s.preference = pref
	s.slot = ""
	return s
}

func (s Selection) WithSlot(slot string) Selection {
	s.slot = slot
	return s
}

// Signature identifies the part of the selection availability depends on. Two
// selections with the same signature yield the same slot list.
func (s Selection) Signature() string {
	return fmt.Sprintf("%s|%s|%s|%s",
		s.date.UTC().Format(time.RFC3339Nano), s.serviceID, s.branchID, s.preference)
}

func (s Selection) Query() availability.Query {
	return availability.Query{
		Date:      s.date,
		ServiceID: s.serviceID,
		BranchID:  s.branchID,
		Selection: s.preference,
	}
}

// FromForm reads the selection a booking form was filled in for. date is the
// form's parsed date.
func FromForm(form *model.BookingForm, date time.Time) Selection {
	return New(date).
		WithService(form.ServiceID).
		WithBranch(form.BranchID).
		WithPreference(form.Selection()).
		WithSlot(form.Slot)
}

// Form fills the selection fields of a booking form. Contact fields are left
// untouched.
func (s Selection) Form(form *model.BookingForm, loc *time.Location) {
	form.ServiceID = s.serviceID
	form.BranchID = s.branchID
	form.PractitionerID = ""
	if id, ok := s.preference.PractitionerID(); ok {
		form.PractitionerID = id
	}
	form.Date = availability.DateKey(s.date, loc)
	form.Slot = s.slot
}
