// Package feed holds the message view engine: a deduplicated, sortable
// message set with a paginated reveal cursor and permanent delete. The
// presentation layer re-reads Visible() after every mutation and redraws.
package feed

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"feedview/pkg/logger"
	"feedview/pkg/models"
	"feedview/pkg/timefmt"
)

// ErrInvalidInput marks malformed message records at construction. It is
// fatal: no partial store is produced.
var ErrInvalidInput = errors.New("invalid input")

// DefaultPageSize is the reveal step used when config provides none.
const DefaultPageSize = 5

// SortField selects the attribute ordering applies to. Messages order by
// send time only.
type SortField string

// SortDir is the ordering direction.
type SortDir string

const (
	SortSentAt SortField = "sent_at"

	Asc  SortDir = "asc"
	Desc SortDir = "desc"
)

// entry pairs a message with its parsed send time. A zero sentAt means the
// raw value did not parse; ordering falls back to the stable tie rule and
// display falls back separately at render time.
type entry struct {
	msg    models.Message
	sentAt time.Time
}

// Store owns the deduplicated message set for one session. Dedup happens
// once at construction; afterwards the set only shrinks (Delete) and the
// reveal cursor only grows (RevealMore). Safe for concurrent use: the
// reveal timer and the stats reporter touch it from other goroutines.
type Store struct {
	mu       sync.Mutex
	entries  []entry
	pageSize int
	revealed int
	dropped  int
}

// New builds a store from raw feed messages. Duplicates by identity key are
// discarded keeping the first occurrence in input order — observable when
// duplicates differ in sender or timestamp: the first full record wins.
// pageSize <= 0 falls back to DefaultPageSize. Returns ErrInvalidInput when
// a record is missing required fields.
func New(raw []models.Message, pageSize int) (*Store, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	seen := make(map[Key]struct{}, len(raw))
	entries := make([]entry, 0, len(raw))
	dropped := 0
	for i, m := range raw {
		if m.ID == "" || m.SenderID == "" || m.Content == "" || m.SentAt == "" {
			return nil, fmt.Errorf("%w: record %d missing required fields", ErrInvalidInput, i)
		}
		k := KeyOf(m)
		if _, dup := seen[k]; dup {
			dropped++
			duplicatesDropped.Inc()
			logger.Debug("duplicate_dropped", "id", m.ID, "sender", m.SenderID)
			continue
		}
		seen[k] = struct{}{}
		ts, err := timefmt.Parse(m.SentAt)
		if err != nil {
			logger.Debug("sent_at_unparsable", "id", m.ID, "sent_at", m.SentAt)
			ts = time.Time{}
		}
		entries = append(entries, entry{msg: m, sentAt: ts})
	}

	s := &Store{entries: entries, pageSize: pageSize, dropped: dropped}
	s.revealed = len(entries)
	if s.revealed > pageSize {
		s.revealed = pageSize
	}
	storeSize.Set(float64(len(entries)))
	revealedGauge.Set(float64(s.revealed))
	logger.Info("store_built", "messages", len(entries), "dropped", dropped, "revealed", s.revealed, "page_size", pageSize)
	return s, nil
}

// SortBy re-orders messages by send time. The sort is stable: ties keep
// their pre-sort relative order (insertion/dedup order on the first call).
// The reveal cursor is untouched — only relative order changes, so the next
// reveal follows the new order.
func (s *Store) SortBy(field SortField, dir SortDir) error {
	if field != SortSentAt {
		return fmt.Errorf("unsupported sort field: %s", field)
	}
	if dir != Asc && dir != Desc {
		return fmt.Errorf("unsupported sort direction: %s", dir)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if dir == Asc {
		sort.SliceStable(s.entries, func(i, j int) bool {
			return s.entries[i].sentAt.Before(s.entries[j].sentAt)
		})
	} else {
		sort.SliceStable(s.entries, func(i, j int) bool {
			return s.entries[j].sentAt.Before(s.entries[i].sentAt)
		})
	}
	logger.Debug("store_sorted", "field", string(field), "dir", string(dir))
	return nil
}

// RevealMore advances the reveal cursor by one page, capped at the set
// size. Returns false and leaves state unchanged when everything is
// already revealed. Synchronous; the simulated latency lives in Revealer.
func (s *Store) RevealMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revealed >= len(s.entries) {
		return false
	}
	s.revealed += s.pageSize
	if s.revealed > len(s.entries) {
		s.revealed = len(s.entries)
	}
	revealsApplied.Inc()
	revealedGauge.Set(float64(s.revealed))
	return true
}

// Delete removes the message with the given identity key. Returns true when
// removed, false when the key is unknown (not an error: deleting an
// already-deleted message is a reported no-op). The reveal cursor is
// clamped to the new length.
func (s *Store) Delete(k Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if KeyOf(s.entries[i].msg) != k {
			continue
		}
		s.entries = append(s.entries[:i], s.entries[i+1:]...)
		if s.revealed > len(s.entries) {
			s.revealed = len(s.entries)
		}
		deletesTotal.Inc()
		storeSize.Set(float64(len(s.entries)))
		revealedGauge.Set(float64(s.revealed))
		logger.Info("message_deleted", "id", k.ID, "remaining", len(s.entries))
		return true
	}
	logger.Debug("delete_miss", "id", k.ID)
	return false
}

// Visible returns the first revealed messages in current order. Pure query;
// the returned slice is a copy.
func (s *Store) Visible() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, s.revealed)
	for i := 0; i < s.revealed; i++ {
		out[i] = s.entries[i].msg
	}
	return out
}

// HasMore reports whether any messages remain beyond the reveal cursor.
func (s *Store) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revealed < len(s.entries)
}

// Len returns the deduplicated message count.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Revealed returns the current reveal cursor.
func (s *Store) Revealed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revealed
}

// Dropped returns how many raw records dedup discarded at construction.
func (s *Store) Dropped() int {
	return s.dropped
}

// PageSize returns the reveal step.
func (s *Store) PageSize() int {
	return s.pageSize
}
