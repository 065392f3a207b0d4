package model

import (
	"encoding/json"
	"fmt"
)

type ResourceKind string

const (
	ResourcePractitioner ResourceKind = "practitioner"
	ResourceBranch       ResourceKind = "branch"
)

// Resource is whatever owns a slot: a practitioner, or the branch itself when
// the customer has no preference.
type Resource struct {
	Kind ResourceKind `json:"kind"`
	ID   string       `json:"id"`
	Name string       `json:"name"`
}

// ResourceSelection is either a specific practitioner or no preference. The
// zero value is NoPreference.
type ResourceSelection struct {
	specific       bool
	practitionerID string
}

func Specific(practitionerID string) ResourceSelection {
	return ResourceSelection{specific: true, practitionerID: practitionerID}
}

func NoPreference() ResourceSelection {
	return ResourceSelection{}
}

func (r ResourceSelection) IsSpecific() bool {
	return r.specific
}

// PractitionerID returns the chosen practitioner and true for a specific
// selection, or "" and false for no preference.
func (r ResourceSelection) PractitionerID() (string, bool) {
	return r.practitionerID, r.specific
}

func (r ResourceSelection) Equal(other ResourceSelection) bool {
	return r.specific == other.specific && r.practitionerID == other.practitionerID
}

func (r ResourceSelection) String() string {
	if r.specific {
		return "practitioner:" + r.practitionerID
	}
	return "no_preference"
}

type resourceSelectionJSON struct {
	Kind           string `json:"kind"`
	PractitionerID string `json:"practitioner_id,omitempty"`
}

const (
	selectionKindSpecific     = "specific"
	selectionKindNoPreference = "no_preference"
)

func (r ResourceSelection) MarshalJSON() ([]byte, error) {
	if r.specific {
		return json.Marshal(resourceSelectionJSON{Kind: selectionKindSpecific, PractitionerID: r.practitionerID})
	}
	return json.Marshal(resourceSelectionJSON{Kind: selectionKindNoPreference})
}

func (r *ResourceSelection) UnmarshalJSON(data []byte) error {
	var raw resourceSelectionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Kind {
	case selectionKindSpecific:
		*r = Specific(raw.PractitionerID)
	case selectionKindNoPreference, "":
		*r = NoPreference()
	default:
		return fmt.Errorf("unknown resource selection kind %q", raw.Kind)
	}
	return nil
}
