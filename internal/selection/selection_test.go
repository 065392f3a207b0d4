package selection

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"clinicbook/internal/availability"
	"clinicbook/pkg/logger"
	"clinicbook/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var monday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func TestSelection_ChangesClearSlot(t *testing.T) {
	base := New(monday).WithService("S1").WithBranch("B1").WithSlot("10:00 AM")
	require.Equal(t, "10:00 AM", base.Slot())

	changes := map[string]Selection{
		"date":       base.WithDate(monday.AddDate(0, 0, 1)),
		"service":    base.WithService("S2"),
		"branch":     base.WithBranch("B2"),
		"preference": base.WithPreference(model.Specific("D1")),
	}
	for name, changed := range changes {
		assert.Empty(t, changed.Slot(), "changing %s must clear the slot", name)
		assert.NotEqual(t, base.Signature(), changed.Signature(), name)
	}

	assert.Equal(t, "10:00 AM", base.Slot(), "the original value is not modified")
	assert.Equal(t, base.Signature(), base.WithSlot("11:00 AM").Signature())
}

func TestSelection_NoPreferenceByDefault(t *testing.T) {
	sel := New(monday)
	assert.False(t, sel.Preference().IsSpecific())
	assert.NotEqual(t, sel.Signature(), sel.WithPreference(model.Specific("")).Signature())
}

func TestSelection_Form(t *testing.T) {
	sel := New(monday).WithService("S1").WithPreference(model.Specific("D2")).WithSlot("08:30 AM")
	form := &model.BookingForm{Name: "Jane Doe", BranchID: "stale"}
	sel.Form(form, time.UTC)

	assert.Equal(t, "Jane Doe", form.Name)
	assert.Equal(t, "S1", form.ServiceID)
	assert.Empty(t, form.BranchID)
	assert.Equal(t, "D2", form.PractitionerID)
	assert.Equal(t, "2026-10-19", form.Date)
	assert.Equal(t, "08:30 AM", form.Slot)
	assert.True(t, form.Selection().Equal(sel.Preference()))
}

func TestFromForm(t *testing.T) {
	form := &model.BookingForm{ServiceID: "S1", BranchID: "B1", PractitionerID: "D2", Slot: "09:30 AM"}
	sel := FromForm(form, monday)

	assert.Equal(t, monday, sel.Date())
	assert.Equal(t, "S1", sel.ServiceID())
	assert.Equal(t, "B1", sel.BranchID())
	assert.True(t, sel.Preference().Equal(model.Specific("D2")))
	assert.Equal(t, "09:30 AM", sel.Slot())

	form.PractitionerID = ""
	assert.False(t, FromForm(form, monday).Preference().IsSpecific())
}

func TestController_TokensAndNotifications(t *testing.T) {
	c := NewController(New(monday), logger.Discard())

	var seen []Token
	unsubscribe := c.Subscribe(func(token Token, sel Selection) { seen = append(seen, token) })

	t1 := c.Update(New(monday).WithService("S1"))
	t2 := c.Update(New(monday).WithService("S1").WithSlot("09:00 AM"))
	t3 := c.Update(New(monday).WithService("S2"))
	t4 := c.Refresh()

	assert.Equal(t, t1, t2, "picking a slot does not start a recomputation")
	assert.Less(t, t1, t3)
	assert.Less(t, t3, t4)
	assert.Equal(t, []Token{t1, t3, t4}, seen)

	assert.False(t, c.Accept(t3))
	assert.True(t, c.Accept(t4))

	sel, token := c.Current()
	assert.Equal(t, "S2", sel.ServiceID())
	assert.Equal(t, t4, token)

	unsubscribe()
	c.Update(New(monday).WithService("S3"))
	assert.Len(t, seen, 3)
}

// gatedEngine blocks each computation until its service id is released.
type gatedEngine struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
}

func newGatedEngine(ids ...string) *gatedEngine {
	e := &gatedEngine{gates: map[string]chan struct{}{}}
	for _, id := range ids {
		e.gates[id] = make(chan struct{})
	}
	return e
}

func (e *gatedEngine) release(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	close(e.gates[id])
}

func (e *gatedEngine) ComputeAvailableSlots(ctx context.Context, q availability.Query) (*model.Availability, error) {
	e.mu.Lock()
	gate := e.gates[q.ServiceID]
	e.mu.Unlock()
	<-gate
	return &model.Availability{State: model.StateReady, Slots: []string{q.ServiceID}}, nil
}

func TestAvailabilitySubscriber_LastWriteWins(t *testing.T) {
	engine := newGatedEngine("S1", "S2")
	c := NewController(New(monday), logger.Discard())

	published := make(chan Result, 2)
	sub := NewAvailabilitySubscriber(context.Background(), c, engine, func(r Result) { published <- r }, logger.Discard())

	c.Update(New(monday).WithService("S1"))
	latestToken := c.Update(New(monday).WithService("S2"))

	// The newer computation finishes first.
	engine.release("S2")
	r := <-published
	assert.Equal(t, latestToken, r.Token)
	assert.Equal(t, []string{"S2"}, r.Availability.Slots)

	engine.release("S1")
	sub.Close()

	assert.Equal(t, 1, sub.Dropped())
	latest, ok := sub.Latest()
	require.True(t, ok)
	assert.Equal(t, []string{"S2"}, latest.Availability.Slots)
	assert.Len(t, published, 0)
}

func TestAvailabilitySubscriber_AwaitReturnsNewestResult(t *testing.T) {
	engine := newGatedEngine("S1", "S2")
	c := NewController(New(monday), logger.Discard())
	sub := NewAvailabilitySubscriber(context.Background(), c, engine, nil, logger.Discard())

	first := c.Update(New(monday).WithService("S1"))
	c.Update(New(monday).WithService("S2"))

	type awaited struct {
		r   Result
		err error
	}
	done := make(chan awaited, 1)
	go func() {
		r, err := sub.Await(context.Background(), first)
		done <- awaited{r, err}
	}()

	engine.release("S2")
	got := <-done
	require.NoError(t, got.err)
	assert.Greater(t, got.r.Token, first)
	assert.Equal(t, []string{"S2"}, got.r.Availability.Slots)

	engine.release("S1")
	sub.Close()
	latest, _ := sub.Latest()
	assert.Equal(t, []string{"S2"}, latest.Availability.Slots, "the older result never replaces the newer one")
}

func TestAvailabilitySubscriber_AwaitHonoursContext(t *testing.T) {
	engine := newGatedEngine("S1")
	c := NewController(New(monday), logger.Discard())
	sub := NewAvailabilitySubscriber(context.Background(), c, engine, nil, logger.Discard())

	token := c.Update(New(monday).WithService("S1"))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := sub.Await(ctx, token)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	engine.release("S1")
	sub.Close()
}

// countingEngine counts computations and answers immediately.
type countingEngine struct {
	calls atomic.Int32
}

func (e *countingEngine) ComputeAvailableSlots(ctx context.Context, q availability.Query) (*model.Availability, error) {
	e.calls.Add(1)
	return &model.Availability{State: model.StateReady, Slots: []string{}}, nil
}

func TestAvailabilitySubscriber_IgnoresChangesAfterClose(t *testing.T) {
	engine := &countingEngine{}
	c := NewController(New(monday), logger.Discard())
	sub := NewAvailabilitySubscriber(context.Background(), c, engine, nil, logger.Discard())
	sub.Close()

	// A listener snapshot taken before Close can still fire.
	sub.changed(7, New(monday).WithService("S1"))
	c.Update(New(monday).WithService("S2"))

	assert.Zero(t, engine.calls.Load())
	_, ok := sub.Latest()
	assert.False(t, ok)
}

func TestAvailabilitySubscriber_RecomputesWithRealEngine(t *testing.T) {
	engine := availability.NewEngine(staticCatalog{}, noBookings{}, availability.ClockFunc(func() time.Time {
		return monday.AddDate(0, 0, -4)
	}), availability.Settings{
		Location:         time.UTC,
		GranularityMin:   30,
		BookableWeekdays: []time.Weekday{time.Monday},
	}, logger.Discard())

	c := NewController(New(monday), logger.Discard())
	sub := NewAvailabilitySubscriber(context.Background(), c, engine, nil, logger.Discard())

	c.Update(New(monday).WithService("S1").WithPreference(model.Specific("D1")))
	sub.Close()

	latest, ok := sub.Latest()
	require.True(t, ok)
	require.NoError(t, latest.Err)
	assert.Equal(t, model.StateReady, latest.Availability.State)
	assert.Len(t, latest.Availability.Slots, 16)
}

type staticCatalog struct{}

func (staticCatalog) GetService(ctx context.Context, id string) (*model.Service, error) {
	return &model.Service{ID: id, Name: "Routine Check-up", DurationMin: 30}, nil
}

func (staticCatalog) GetBranch(ctx context.Context, id string) (*model.Branch, error) {
	return &model.Branch{ID: id, Name: "Downtown", StartHour: 8, EndHour: 18}, nil
}

func (staticCatalog) GetPractitioner(ctx context.Context, id string) (*model.Practitioner, error) {
	return &model.Practitioner{ID: id, Name: "Dr. Evelyn Reed", StartHour: 9, EndHour: 17}, nil
}

type noBookings struct{}

func (noBookings) ListBookedSlots(ctx context.Context, dateKey string) ([]model.BookedSlot, error) {
	return nil, nil
}
