package insight

import (
	"context"
	"sync"

	"github.com/ziadkadry99/atomik/internal/element"
)

// Ticket identifies one selection. Its context is cancelled as soon as a
// newer selection is made.
type Ticket struct {
	Version      uint64
	AtomicNumber int
	ctx          context.Context
}

// Context returns the context an insight fetch for this ticket should use.
func (t Ticket) Context() context.Context {
	if t.ctx == nil {
		return context.Background()
	}
	return t.ctx
}

// State is the tracker's view of the current selection.
type State struct {
	Version      uint64   `json:"version"`
	AtomicNumber int      `json:"atomicNumber"`
	Loading      bool     `json:"loading"`
	Insight      *Insight `json:"insight,omitempty"`
}

// Tracker implements latest-selection-wins: only the insight for the most
// recent selection is ever published.
type Tracker struct {
	mu      sync.Mutex
	version uint64
	state   State
	cancel  context.CancelFunc
}

// NewTracker returns a Tracker with nothing selected.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Select makes atomicNumber current and cancels the previous ticket.
func (t *Tracker) Select(parent context.Context, atomicNumber int) Ticket {
	ctx, cancel := context.WithCancel(parent)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}
	t.cancel = cancel
	t.version++
	t.state = State{Version: t.version, AtomicNumber: atomicNumber, Loading: true}

	return Ticket{Version: t.version, AtomicNumber: atomicNumber, ctx: ctx}
}

// Resolve publishes in if tk is still current and reports whether it did.
func (t *Tracker) Resolve(tk Ticket, in Insight) bool {
	return t.publish(tk, in, nil)
}

// publish is Resolve with deliver run under the lock, so a concurrent Select
// cannot complete until deliver returns.
func (t *Tracker) publish(tk Ticket, in Insight, deliver func(Ticket, Insight)) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if tk.Version != t.version {
		return false
	}
	t.state.Loading = false
	t.state.Insight = &in
	if deliver != nil {
		deliver(tk, in)
	}
	return true
}

// Current returns a copy of the current state.
func (t *Tracker) Current() State {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.state
	if s.Insight != nil {
		in := *s.Insight
		s.Insight = &in
	}
	return s
}

// Run selects rec and fetches its insight from src in the background. If
// the selection is still current when the fetch returns, the insight is
// published and deliver runs before any later Select can return, so nothing
// deliver emits trails the next selection. deliver must not call back into
// the tracker.
//
// The returned channel yields whether the insight was published and is then
// closed.
func (t *Tracker) Run(parent context.Context, rec element.Record, src Source, deliver func(Ticket, Insight)) (Ticket, <-chan bool) {
	tk := t.Select(parent, rec.AtomicNumber)
	published := make(chan bool, 1)
	go func() {
		defer close(published)
		in := src.Fetch(tk.Context(), rec)
		published <- t.publish(tk, in, deliver)
	}()
	return tk, published
}

// Close cancels any in-flight fetch.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	// Invalidate outstanding tickets.
	t.version++
}
