package selection

import (
	"sync"
	"sync/atomic"

	"clinicbook/pkg/logger"
)

// Token identifies one availability-relevant version of the selection.
type Token uint64

// Listener is notified with the new selection and its token.
type Listener func(token Token, sel Selection)

// Controller owns the current selection and tells subscribers when a
// recomputation is needed. A result computed for an older token is stale.
type Controller struct {
	mu        sync.Mutex
	token     atomic.Uint64
	current   Selection
	listeners map[int]Listener
	nextID    int
	log       *logger.Logger
}

func NewController(initial Selection, log *logger.Logger) *Controller {
	return &Controller{
		current:   initial,
		listeners: map[int]Listener{},
		log:       log.Component("selection"),
	}
}

func (c *Controller) Current() (Selection, Token) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current, Token(c.token.Load())
}

// Update stores sel. Subscribers are notified only when the signature changed;
// picking a slot alone does not trigger a recomputation.
func (c *Controller) Update(sel Selection) Token {
	c.mu.Lock()
	changed := sel.Signature() != c.current.Signature()
	c.current = sel
	if !changed {
		token := Token(c.token.Load())
		c.mu.Unlock()
		return token
	}
	token := Token(c.token.Add(1))
	listeners := c.snapshot()
	c.mu.Unlock()

	c.log.Debug("Selection changed", "token", token, "signature", sel.Signature())
	for _, l := range listeners {
		l(token, sel)
	}
	return token
}

// Refresh forces a recomputation of the current selection, for example after
// a booking was stored.
func (c *Controller) Refresh() Token {
	c.mu.Lock()
	token := Token(c.token.Add(1))
	sel := c.current
	listeners := c.snapshot()
	c.mu.Unlock()

	for _, l := range listeners {
		l(token, sel)
	}
	return token
}

// Accept reports whether a result computed for token is still current.
func (c *Controller) Accept(token Token) bool {
	return Token(c.token.Load()) == token
}

// Subscribe registers l and returns a function that removes it.
func (c *Controller) Subscribe(l Listener) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = l
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// snapshot must be called with mu held.
func (c *Controller) snapshot() []Listener {
	out := make([]Listener, 0, len(c.listeners))
	for id := 0; id < c.nextID; id++ {
		if l, ok := c.listeners[id]; ok {
			out = append(out, l)
		}
	}
	return out
}
