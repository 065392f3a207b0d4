package model

import (
	"strings"
	"time"
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusDeclined  = "declined"
	StatusCancelled = "cancelled"
)

// CanTransition reports whether a booking may move from one status to another.
// Only pending bookings are reviewed; reviewed bookings are final here.
func CanTransition(from, to string) bool {
	return from == StatusPending && (to == StatusApproved || to == StatusDeclined)
}

type Booking struct {
	ID string `json:"id" bson:"_id" validate:"omitempty,uuid4"`

	Name  string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" bson:"email" validate:"required,email,max=254"`
	Phone string `json:"phone" bson:"phone" validate:"required,e164"`

	ServiceID          string `json:"service_id" bson:"service_id" validate:"required"`
	ServiceName        string `json:"service_name" bson:"service_name" validate:"required"`
	ServiceDurationMin int    `json:"service_duration_min" bson:"service_duration_min" validate:"required,min=1"`

	BranchID       string `json:"branch_id,omitempty" bson:"branch_id,omitempty"`
	BranchName     string `json:"branch_name,omitempty" bson:"branch_name,omitempty"`
	PractitionerID string `json:"practitioner_id,omitempty" bson:"practitioner_id,omitempty"`
	NoPreference   bool   `json:"no_preference" bson:"no_preference"`

	ResourceKind ResourceKind `json:"resource_kind" bson:"resource_kind" validate:"required,oneof=practitioner branch"`
	ResourceID   string       `json:"resource_id" bson:"resource_id" validate:"required"`
	ResourceName string       `json:"resource_name" bson:"resource_name" validate:"required"`

	Date    time.Time `json:"date" bson:"date" validate:"required"`
	DateKey string    `json:"date_key" bson:"date_key" validate:"required,datetime=2006-01-02"`
	Slot    string    `json:"slot" bson:"slot" validate:"required,slot_label"`

	Status    string    `json:"status" bson:"status" validate:"required,oneof=pending approved declined"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`

	ReviewedBy string     `json:"reviewed_by,omitempty" bson:"reviewed_by,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty" bson:"reviewed_at,omitempty"`
}

// BookedSlot is the projection of a booking used for conflict checks.
type BookedSlot struct {
	DateKey    string `json:"date_key" bson:"date_key"`
	Slot       string `json:"slot" bson:"slot"`
	ResourceID string `json:"resource_id" bson:"resource_id"`
}

// BookingForm is what a customer submits. An empty PractitionerID means no
// preference.
type BookingForm struct {
	Name           string `json:"name" validate:"required,min=2,max=100"`
	Email          string `json:"email" validate:"required,email,max=254"`
	Phone          string `json:"phone" validate:"required,e164"`
	ServiceID      string `json:"service_id" validate:"required"`
	BranchID       string `json:"branch_id,omitempty"`
	PractitionerID string `json:"practitioner_id,omitempty"`
	Date           string `json:"date" validate:"required,datetime=2006-01-02"`
	Slot           string `json:"slot" validate:"required,slot_label"`
}

func (f *BookingForm) Selection() ResourceSelection {
	if id := strings.TrimSpace(f.PractitionerID); id != "" {
		return Specific(id)
	}
	return NoPreference()
}

// ReviewDecision is a staff decision on a pending booking.
type ReviewDecision struct {
	BookingID  string    `json:"booking_id" validate:"required"`
	Status     string    `json:"status" validate:"required,oneof=approved declined"`
	ReviewedBy string    `json:"reviewed_by,omitempty"`
	ReviewedAt time.Time `json:"reviewed_at,omitzero"`
}

// BookingEvent is published after a booking request has been stored.
type BookingEvent struct {
	BookingID    string    `json:"booking_id"`
	Status       string    `json:"status"`
	DateKey      string    `json:"date_key"`
	Slot         string    `json:"slot"`
	ResourceKind string    `json:"resource_kind"`
	ResourceID   string    `json:"resource_id"`
	ServiceID    string    `json:"service_id"`
	BranchID     string    `json:"branch_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewBookingEvent(b *Booking) BookingEvent {
	return BookingEvent{
		BookingID:    b.ID,
		Status:       b.Status,
		DateKey:      b.DateKey,
		Slot:         b.Slot,
		ResourceKind: string(b.ResourceKind),
		ResourceID:   b.ResourceID,
		ServiceID:    b.ServiceID,
		BranchID:     b.BranchID,
		CreatedAt:    b.CreatedAt,
	}
}
