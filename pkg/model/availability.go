package model

import "time"

const (
	DateKeyLayout   = "2006-01-02"
	SlotLabelLayout = "03:04 PM"
)

type AvailabilityState string

const (
	// StateReady means the slot list was computed; it may still be empty.
	StateReady AvailabilityState = "ready"
	// StateNeedsSelection means the inputs do not resolve to a resource.
	StateNeedsSelection AvailabilityState = "needs_selection"
	// StateClosed means the date cannot be booked at all.
	StateClosed AvailabilityState = "closed"
)

// Availability is the result of one computation for a date, service and
// resource selection.
type Availability struct {
	Date      time.Time         `json:"-"`
	DateKey   string            `json:"date"`
	State     AvailabilityState `json:"state"`
	Selection ResourceSelection `json:"selection"`
	Service   *Service          `json:"service,omitempty"`
	Branch    *Branch           `json:"branch,omitempty"`
	Resource  *Resource         `json:"resource,omitempty"`
	Slots     []string          `json:"slots"`
}

func (a *Availability) Contains(slot string) bool {
	if a == nil {
		return false
	}
	for _, s := range a.Slots {
		if s == slot {
			return true
		}
	}
	return false
}
