// Package bundle loads the static message feed a session starts from. A
// bundle is immutable input: it is decoded once at startup from the
// embedded default, a JSON file, or a packed Pebble snapshot, and the
// viewer never writes back to it.
package bundle

import (
	"encoding/json"
	"fmt"
	"io"

	"feedview/pkg/feed"
	"feedview/pkg/models"
	"feedview/pkg/validation"
)

// Record is the wire shape of one bundled feed entry.
type Record struct {
	UUID       string `json:"uuid"`
	SenderUUID string `json:"senderUuid"`
	Content    string `json:"content"`
	SentAt     string `json:"sentAt"`
}

// Message converts a record into the model shape.
func (r Record) Message() models.Message {
	return models.Message{
		ID:       r.UUID,
		SenderID: r.SenderUUID,
		Content:  r.Content,
		SentAt:   r.SentAt,
	}
}

// RecordOf is the inverse of Message, used when packing snapshots.
func RecordOf(m models.Message) Record {
	return Record{
		UUID:       m.ID,
		SenderUUID: m.SenderID,
		Content:    m.Content,
		SentAt:     m.SentAt,
	}
}

// Decode reads a JSON array of records and returns model messages in input
// order. Every record is checked against the active validation rules on its
// raw object form, so absent and empty fields stay distinguishable. Any
// malformed record is fatal: no partial result is returned.
func Decode(rd io.Reader) ([]models.Message, error) {
	b, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(b, &raws); err != nil {
		return nil, fmt.Errorf("%w: feed is not a JSON array: %v", feed.ErrInvalidInput, err)
	}
	msgs := make([]models.Message, 0, len(raws))
	for i, rb := range raws {
		var root map[string]interface{}
		if err := json.Unmarshal(rb, &root); err != nil {
			return nil, fmt.Errorf("%w: record %d is not an object: %v", feed.ErrInvalidInput, i, err)
		}
		if err := validation.ValidateRecord(root); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", feed.ErrInvalidInput, i, err)
		}
		var rec Record
		if err := json.Unmarshal(rb, &rec); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", feed.ErrInvalidInput, i, err)
		}
		msgs = append(msgs, rec.Message())
	}
	return msgs, nil
}
