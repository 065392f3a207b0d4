//go:build integration

// Package integrationtests drives a running bookings service. Start it with
// MONGO_DATABASE_NAME matching TEST_DB_NAME, CLINIC_TIME_ZONE=UTC and a
// RATE_LIMIT_REQUESTS high enough for repeated runs.
package integrationtests

import (
	"fmt"
	"net/http"
	"slices"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"clinicbook/pkg/model"
	"clinicbook/test/integration/testutil"
)

func setup(t *testing.T) (*testutil.MongoHelper, *testutil.Client, time.Time) {
	t.Helper()
	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	t.Cleanup(func() { env.Cleanup(t, mongo) })
	return mongo, client, testutil.NextWeekday(time.Now().UTC())
}

func availabilityPath(date time.Time, serviceID, branchID, practitionerID string) string {
	path := fmt.Sprintf("/api/v1/availability?date=%s&service_id=%s&branch_id=%s", date.Format(time.DateOnly), serviceID, branchID)
	if practitionerID != "" {
		path += "&practitioner_id=" + practitionerID
	}
	return path
}

func TestCatalog(t *testing.T) {
	_, client, _ := setup(t)

	resp := client.GET(t, "/api/v1/services")
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var services []model.Service
	resp.Data(t, &services)
	if len(services) != 3 {
		t.Fatalf("expected 3 services, got %d", len(services))
	}

	resp = client.GET(t, "/api/v1/practitioners?branch_id=B1")
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var practitioners []model.Practitioner
	resp.Data(t, &practitioners)
	if len(practitioners) != 2 {
		t.Fatalf("expected 2 practitioners at B1, got %d", len(practitioners))
	}
}

func TestAvailability(t *testing.T) {
	_, client, date := setup(t)

	tests := []struct {
		name           string
		practitionerID string
		serviceID      string
		wantFirst      string
		wantCount      int
	}{
		{"specific practitioner, half hour service", "D1", "S1", "09:00 AM", 16},
		{"specific practitioner, hour service", "D2", "S2", "08:00 AM", 15},
		{"no preference uses branch hours", "", "S1", "08:00 AM", 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := client.GET(t, availabilityPath(date, tt.serviceID, "B1", tt.practitionerID))
			testutil.AssertStatusCode(t, resp, http.StatusOK)

			var avail model.Availability
			resp.Data(t, &avail)
			if avail.State != model.StateReady {
				t.Fatalf("expected ready, got %s", avail.State)
			}
			if len(avail.Slots) != tt.wantCount || avail.Slots[0] != tt.wantFirst {
				t.Errorf("expected %d slots from %s, got %v", tt.wantCount, tt.wantFirst, avail.Slots)
			}
		})
	}
}

func TestCreateBooking_RemovesSlot(t *testing.T) {
	mongo, client, date := setup(t)

	form := testutil.NewBookingFormBuilder(date).WithSlot("10:00 AM").Build()
	resp := client.POST(t, "/api/v1/bookings", form)
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	var submission struct {
		Booking      model.Booking      `json:"booking"`
		Availability model.Availability `json:"availability"`
	}
	resp.Data(t, &submission)

	if submission.Booking.Status != model.StatusPending {
		t.Errorf("expected pending booking, got %s", submission.Booking.Status)
	}
	if slices.Contains(submission.Availability.Slots, "10:00 AM") {
		t.Error("booked slot still offered in refreshed availability")
	}
	if n := mongo.CountBookings(t, bson.M{"resource_id": "D1", "slot": "10:00 AM"}); n != 1 {
		t.Errorf("expected 1 stored booking, got %d", n)
	}

	resp = client.GET(t, "/api/v1/bookings/"+submission.Booking.ID)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	// The other practitioner keeps the slot.
	resp = client.GET(t, availabilityPath(date, "S1", "B1", "D2"))
	var other model.Availability
	resp.Data(t, &other)
	if !slices.Contains(other.Slots, "10:00 AM") {
		t.Error("booking for D1 removed a slot from D2")
	}
}

func TestCreateBooking_Rejections(t *testing.T) {
	mongo, client, date := setup(t)

	resp := client.POST(t, "/api/v1/bookings", testutil.NewBookingFormBuilder(date).Build())
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	tests := []struct {
		name   string
		form   model.BookingForm
		status int
		code   string
	}{
		{"slot already taken", testutil.NewBookingFormBuilder(date).Build(), http.StatusConflict, "SLOT_UNAVAILABLE"},
		{"outside working hours", testutil.NewBookingFormBuilder(date).WithSlot("08:00 AM").Build(), http.StatusConflict, "SLOT_UNAVAILABLE"},
		{"missing email", testutil.NewBookingFormBuilder(date).WithoutEmail().Build(), http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"bad phone", testutil.NewBookingFormBuilder(date).WithPhone("12").Build(), http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"unknown practitioner", testutil.NewBookingFormBuilder(date).WithPractitioner("D9").Build(), http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := client.POST(t, "/api/v1/bookings", tt.form)
			testutil.AssertStatusCode(t, resp, tt.status)
			testutil.AssertErrorCode(t, resp, tt.code)
		})
	}

	if n := mongo.CountBookings(t, bson.M{}); n != 1 {
		t.Errorf("rejected requests were stored: %d bookings", n)
	}
}
