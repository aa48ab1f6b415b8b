package bundle

import (
	"testing"

	"feedview/pkg/models"

	"github.com/cockroachdb/pebble"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func packMsgs() []models.Message {
	return []models.Message{
		{ID: "m1", SenderID: "s1", Content: "first", SentAt: "2015-05-20T09:00:00Z"},
		{ID: "m2", SenderID: "s2", Content: "second", SentAt: "2015-05-20T09:01:00Z"},
		{ID: "m3", SenderID: "s1", Content: "third", SentAt: "2015-05-20T09:02:00Z"},
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, OpenSnapshot(dir))

	msgs := packMsgs()
	meta := models.Feed{ID: "feed-test", Title: "test feed", Source: "unit"}
	require.NoError(t, WriteFeed(msgs, meta))
	require.NoError(t, CloseSnapshot())

	require.NoError(t, OpenSnapshot(dir))
	defer func() { require.NoError(t, CloseSnapshot()) }()

	got, gotMeta, err := LoadFeed()
	require.NoError(t, err)
	assert.Equal(t, msgs, got)
	assert.Equal(t, "feed-test", gotMeta.ID)
	assert.Equal(t, 3, gotMeta.Count)
	assert.NotZero(t, gotMeta.CreatedTS)
}

func TestLoadFeedSynthesizesMissingManifest(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, OpenSnapshot(dir))
	defer func() { require.NoError(t, CloseSnapshot()) }()

	// Write a record directly so no manifest exists.
	rec := `{"uuid":"m1","senderUuid":"s1","content":"bare","sentAt":"2015-05-20T09:00:00Z"}`
	require.NoError(t, db.Set([]byte(snapKey(1, 1)), []byte(rec), pebble.Sync))

	got, meta, err := LoadFeed()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, meta.Count)
	assert.Equal(t, "snapshot", meta.Source)
}

func TestSnapshotNotOpen(t *testing.T) {
	require.NoError(t, CloseSnapshot())
	assert.False(t, SnapshotReady())

	_, _, err := LoadFeed()
	require.Error(t, err)
	require.Error(t, WriteFeed(packMsgs(), models.Feed{}))
	_, err = SnapshotKeys("")
	require.Error(t, err)
}

func TestSnapshotKeysPrefix(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, OpenSnapshot(dir))
	defer func() { require.NoError(t, CloseSnapshot()) }()

	require.NoError(t, WriteFeed(packMsgs(), models.Feed{ID: "feed-test"}))

	msgKeys, err := SnapshotKeys(snapMsgPrefix)
	require.NoError(t, err)
	assert.Len(t, msgKeys, 3)

	all, err := SnapshotKeys("")
	require.NoError(t, err)
	assert.Len(t, all, 4) // records plus manifest

	val, err := SnapshotGet(snapMetaKey)
	require.NoError(t, err)
	assert.Contains(t, val, "feed-test")
}

func TestGetSnapshotStats(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, OpenSnapshot(dir))
	defer func() { require.NoError(t, CloseSnapshot()) }()

	require.NoError(t, WriteFeed(packMsgs(), models.Feed{ID: "feed-test"}))

	st := GetSnapshotStats()
	assert.Equal(t, 3, st.Records)
	assert.NotZero(t, st.SizeBytes)
}
