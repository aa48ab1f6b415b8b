package models

// Message is one chat message as loaded from the bundled feed. Fields are
// immutable once loaded; identity is derived from content (see pkg/feed),
// not from ID alone, because sender-assigned IDs repeat across the raw feed.
type Message struct {
	ID       string `json:"id"`
	SenderID string `json:"sender_id"`
	Content  string `json:"content"`
	// SentAt keeps the raw ISO-8601 string exactly as received. Parsing is
	// deferred to display/sort time so a bad value degrades to a fallback
	// rendering instead of rejecting the whole feed.
	SentAt string `json:"sent_at"`
}
