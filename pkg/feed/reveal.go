package feed

import (
	"sync"
	"time"

	"feedview/pkg/logger"
)

// RevealState is the reveal lifecycle: Idle, or Loading while a reveal is
// pending behind the simulated latency timer.
type RevealState string

const (
	StateIdle    RevealState = "idle"
	StateLoading RevealState = "loading"
)

// Revealer defers RevealMore behind a fixed single-shot timer standing in
// for a network round trip. Requests arriving while a reveal is in flight
// are ignored — the in-flight flag is the debounce. A scheduled reveal is
// never cancelled; it always completes and reports through onDone.
type Revealer struct {
	store  *Store
	delay  time.Duration
	onDone func(more bool)

	mu       sync.Mutex
	inFlight bool
	wg       sync.WaitGroup
}

// NewRevealer wires a revealer to a store. onDone receives the outcome of
// each applied reveal (false means the store was already exhausted); it may
// be nil. delay 0 still applies asynchronously.
func NewRevealer(store *Store, delay time.Duration, onDone func(more bool)) *Revealer {
	return &Revealer{store: store, delay: delay, onDone: onDone}
}

// Request schedules a reveal unless one is already in flight. Returns
// whether the request was accepted; the reveal outcome itself arrives via
// onDone after the delay.
func (r *Revealer) Request() bool {
	r.mu.Lock()
	if r.inFlight {
		r.mu.Unlock()
		logger.Debug("reveal_request_ignored", "state", string(StateLoading))
		return false
	}
	r.inFlight = true
	r.mu.Unlock()

	revealRequests.Inc()
	start := time.Now()
	r.wg.Add(1)
	time.AfterFunc(r.delay, func() {
		defer r.wg.Done()
		more := r.store.RevealMore()
		revealDelay.Observe(time.Since(start).Seconds())
		r.mu.Lock()
		r.inFlight = false
		r.mu.Unlock()
		logger.Debug("reveal_applied", "more", more, "revealed", r.store.Revealed())
		if r.onDone != nil {
			r.onDone(more)
		}
	})
	return true
}

// State reports Idle or Loading.
func (r *Revealer) State() RevealState {
	if r.InFlight() {
		return StateLoading
	}
	return StateIdle
}

// InFlight reports whether a reveal is pending.
func (r *Revealer) InFlight() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inFlight
}

// Close waits for a pending reveal to apply. Reveals are never cancelled,
// so shutdown lets the timer fire rather than racing it.
func (r *Revealer) Close() {
	r.wg.Wait()
}
