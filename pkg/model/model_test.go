package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceSelection_NoPreferenceIsNeverAPractitioner(t *testing.T) {
	none := NoPreference()
	id, ok := none.PractitionerID()

	assert.False(t, ok)
	assert.Empty(t, id)
	assert.False(t, none.Equal(Specific("")), "an empty specific id must not alias no preference")
	assert.True(t, none.Equal(ResourceSelection{}), "zero value is no preference")
}

func TestResourceSelection_JSON(t *testing.T) {
	for _, sel := range []ResourceSelection{Specific("D2"), NoPreference()} {
		data, err := json.Marshal(sel)
		require.NoError(t, err)

		var decoded ResourceSelection
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.True(t, sel.Equal(decoded), "round trip of %s", sel)
	}

	var bad ResourceSelection
	assert.Error(t, json.Unmarshal([]byte(`{"kind":"first_available"}`), &bad))
}

func TestBookingForm_Selection(t *testing.T) {
	assert.True(t, (&BookingForm{PractitionerID: "D1"}).Selection().Equal(Specific("D1")))
	assert.True(t, (&BookingForm{PractitionerID: "  "}).Selection().Equal(NoPreference()))
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusDeclined, true},
		{StatusPending, StatusPending, false},
		{StatusApproved, StatusDeclined, false},
		{StatusDeclined, StatusApproved, false},
		{StatusCancelled, StatusApproved, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestWindow(t *testing.T) {
	assert.Equal(t, 480, Window{StartHour: 9, EndHour: 17}.Minutes())
	assert.Equal(t, 0, Window{StartHour: 17, EndHour: 9}.Minutes())
	assert.False(t, Window{StartHour: 0, EndHour: 25}.Valid())
	assert.True(t, Window{StartHour: 0, EndHour: 24}.Valid())
}

func TestAvailability_Contains(t *testing.T) {
	var nilAvail *Availability
	assert.False(t, nilAvail.Contains("09:00 AM"))

	a := &Availability{Slots: []string{"09:00 AM", "09:30 AM"}}
	assert.True(t, a.Contains("09:30 AM"))
	assert.False(t, a.Contains("9:30 AM"))
}
