package selection

import (
	"context"
	"sync"

	"clinicbook/internal/availability"
	"clinicbook/pkg/logger"
	"clinicbook/pkg/model"
)

type Result struct {
	Token        Token
	Selection    Selection
	Availability *model.Availability
	Err          error
}

// AvailabilitySubscriber recomputes availability on every selection change
// and publishes only results that are still current when they arrive.
type AvailabilitySubscriber struct {
	ctx         context.Context
	controller  *Controller
	engine      availability.Engine
	onResult    func(Result)
	unsubscribe func()
	log         *logger.Logger

	wg        sync.WaitGroup
	mu        sync.Mutex
	latest    Result
	published bool
	dropped   int
	closed    bool
	notify    chan struct{}
}

func NewAvailabilitySubscriber(ctx context.Context, controller *Controller, engine availability.Engine, onResult func(Result), log *logger.Logger) *AvailabilitySubscriber {
	s := &AvailabilitySubscriber{
		ctx:        ctx,
		controller: controller,
		engine:     engine,
		onResult:   onResult,
		log:        log.Component("availability_subscriber"),
		notify:     make(chan struct{}),
	}
	s.unsubscribe = controller.Subscribe(s.changed)
	return s
}

func (s *AvailabilitySubscriber) changed(token Token, sel Selection) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		avail, err := s.engine.ComputeAvailableSlots(s.ctx, sel.Query())
		s.deliver(Result{Token: token, Selection: sel, Availability: avail, Err: err})
	}()
}

func (s *AvailabilitySubscriber) deliver(r Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.controller.Accept(r.Token) || (s.published && r.Token < s.latest.Token) {
		s.dropped++
		s.log.Debug("Dropped stale availability", "token", r.Token)
		return
	}
	s.latest = r
	s.published = true
	close(s.notify)
	s.notify = make(chan struct{})
	if s.onResult != nil {
		s.onResult(r)
	}
}

// Latest returns the most recently published result.
func (s *AvailabilitySubscriber) Latest() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, s.published
}

// Await blocks until a result for token, or for a newer token, has been
// published.
func (s *AvailabilitySubscriber) Await(ctx context.Context, token Token) (Result, error) {
	for {
		s.mu.Lock()
		if s.published && s.latest.Token >= token {
			r := s.latest
			s.mu.Unlock()
			return r, nil
		}
		notify := s.notify
		s.mu.Unlock()

		select {
		case <-notify:
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	}
}

// Dropped returns how many results were discarded as stale.
func (s *AvailabilitySubscriber) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Close stops listening and waits for in-flight computations.
// Notifications that arrive after Close are ignored.
func (s *AvailabilitySubscriber) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.unsubscribe()
	s.wg.Wait()
}
