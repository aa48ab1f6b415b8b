package bundle

import (
	"errors"
	"strings"
	"testing"

	"feedview/pkg/feed"
	"feedview/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeOrderAndFields(t *testing.T) {
	src := `[
		{"uuid":"m1","senderUuid":"s1","content":"first","sentAt":"2015-05-20T09:00:00Z"},
		{"uuid":"m2","senderUuid":"s2","content":"second","sentAt":"2015-05-20T09:01:00Z"}
	]`
	msgs, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, models.Message{ID: "m1", SenderID: "s1", Content: "first", SentAt: "2015-05-20T09:00:00Z"}, msgs[0])
	assert.Equal(t, "m2", msgs[1].ID)
}

func TestDecodeRejectsMissingField(t *testing.T) {
	src := `[{"uuid":"m1","senderUuid":"s1","content":"no timestamp"}]`
	msgs, err := Decode(strings.NewReader(src))
	require.Error(t, err)
	assert.True(t, errors.Is(err, feed.ErrInvalidInput))
	assert.Nil(t, msgs)
	assert.Contains(t, err.Error(), "record 0")
}

func TestDecodeRejectsWrongType(t *testing.T) {
	src := `[{"uuid":"m1","senderUuid":"s1","content":"x","sentAt":12345}]`
	_, err := Decode(strings.NewReader(src))
	require.Error(t, err)
	assert.True(t, errors.Is(err, feed.ErrInvalidInput))
}

func TestDecodeRejectsNonArray(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"uuid":"m1"}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, feed.ErrInvalidInput))
}

func TestDecodeNoPartialResult(t *testing.T) {
	src := `[
		{"uuid":"m1","senderUuid":"s1","content":"ok","sentAt":"2015-05-20T09:00:00Z"},
		{"uuid":"m2","senderUuid":"s2","sentAt":"2015-05-20T09:01:00Z"}
	]`
	msgs, err := Decode(strings.NewReader(src))
	require.Error(t, err)
	assert.Nil(t, msgs)
	assert.Contains(t, err.Error(), "record 1")
}

func TestRecordMessageRoundTrip(t *testing.T) {
	m := models.Message{ID: "m1", SenderID: "s1", Content: "hello", SentAt: "2015-05-20T09:00:00Z"}
	assert.Equal(t, m, RecordOf(m).Message())
}

func TestDefaultFeedDecodes(t *testing.T) {
	msgs, err := Default()
	require.NoError(t, err)
	// The shipped feed intentionally carries duplicate records so the
	// viewer's dedup is visible out of the box.
	require.Len(t, msgs, 14)
	st, err := feed.New(msgs, 5)
	require.NoError(t, err)
	assert.Equal(t, 12, st.Len())
	assert.Equal(t, 2, st.Dropped())
}
