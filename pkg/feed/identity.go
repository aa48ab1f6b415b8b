package feed

import "feedview/pkg/models"

// Key identifies a logical message. Two records with the same key are the
// same message even when sender or timestamp differ; the first record seen
// wins. Sender is deliberately excluded from the key — if that policy ever
// changes it changes here, not in the store.
type Key struct {
	ID      string
	Content string
}

// KeyOf derives the identity key for a message.
func KeyOf(m models.Message) Key {
	return Key{ID: m.ID, Content: m.Content}
}
