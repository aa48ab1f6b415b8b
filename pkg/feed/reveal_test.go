package feed

import (
	"testing"
	"time"

	"feedview/pkg/models"
)

func revealFixture(t *testing.T, n, pageSize int) *Store {
	t.Helper()
	raw := make([]models.Message, 0, n)
	for i := 0; i < n; i++ {
		raw = append(raw, models.Message{
			ID:       string(rune('a' + i)),
			SenderID: "u1",
			Content:  "m",
			SentAt:   time.Date(2020, 1, 1+i, 0, 0, 0, 0, time.UTC).Format(time.RFC3339),
		})
	}
	s, err := New(raw, pageSize)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestRevealerDebounce(t *testing.T) {
	s := revealFixture(t, 7, 2)
	done := make(chan bool, 4)
	r := NewRevealer(s, 100*time.Millisecond, func(more bool) { done <- more })

	if !r.Request() {
		t.Fatalf("first request rejected while idle")
	}
	if r.State() != StateLoading {
		t.Fatalf("state = %s after request, want loading", r.State())
	}
	if r.Request() {
		t.Fatalf("second request accepted while loading")
	}

	select {
	case more := <-done:
		if !more {
			t.Fatalf("reveal reported exhausted with messages remaining")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("reveal never completed")
	}

	// only the accepted request applied
	if got := s.Revealed(); got != 4 {
		t.Fatalf("Revealed = %d, want 4", got)
	}
	if r.State() != StateIdle {
		t.Fatalf("state = %s after completion, want idle", r.State())
	}

	// idle again: the next request is accepted
	if !r.Request() {
		t.Fatalf("request rejected after previous reveal completed")
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("second reveal never completed")
	}
	if got := s.Revealed(); got != 6 {
		t.Fatalf("Revealed = %d, want 6", got)
	}
}

func TestRevealerExhaustedOutcome(t *testing.T) {
	s := revealFixture(t, 2, 5)
	done := make(chan bool, 1)
	r := NewRevealer(s, time.Millisecond, func(more bool) { done <- more })

	if !r.Request() {
		t.Fatalf("request rejected while idle")
	}
	select {
	case more := <-done:
		if more {
			t.Fatalf("exhausted reveal reported more = true")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("reveal never completed")
	}
	if got := s.Revealed(); got != 2 {
		t.Fatalf("Revealed = %d, want unchanged 2", got)
	}
}

func TestRevealerCloseWaitsForPending(t *testing.T) {
	s := revealFixture(t, 6, 2)
	r := NewRevealer(s, 50*time.Millisecond, nil)

	if !r.Request() {
		t.Fatalf("request rejected while idle")
	}
	r.Close()
	if got := s.Revealed(); got != 4 {
		t.Fatalf("Revealed = %d after Close, want 4 (pending reveal must complete)", got)
	}
	if r.InFlight() {
		t.Fatalf("still in flight after Close")
	}
}

func TestRevealerZeroDelay(t *testing.T) {
	s := revealFixture(t, 4, 2)
	done := make(chan bool, 1)
	r := NewRevealer(s, 0, func(more bool) { done <- more })
	if !r.Request() {
		t.Fatalf("request rejected while idle")
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("zero-delay reveal never completed")
	}
	if got := s.Revealed(); got != 4 {
		t.Fatalf("Revealed = %d, want 4", got)
	}
}
