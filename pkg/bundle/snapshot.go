package bundle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"feedview/pkg/logger"
	"feedview/pkg/models"

	"github.com/cockroachdb/pebble"
)

var (
	db     *pebble.DB
	dbPath string
)

// seq provides a small counter to keep snapshot keys unique when multiple
// records are packed within the same nanosecond.
var seq uint64

const (
	snapMsgPrefix = "feed:msg:"
	snapMetaKey   = "feed:meta"
)

func errNotOpen() error {
	return fmt.Errorf("snapshot not opened; call bundle.OpenSnapshot first")
}

// OpenSnapshot opens (or creates) a Pebble snapshot at the given path and
// keeps a global handle for simple usage in this package.
func OpenSnapshot(path string) error {
	var err error
	logger.Info("opening_snapshot", "path", path)
	db, err = pebble.Open(path, &pebble.Options{})
	if err != nil {
		logger.Error("snapshot_open_failed", "path", path, "error", err)
		return err
	}
	dbPath = path
	logger.Info("snapshot_opened", "path", path)
	return nil
}

// CloseSnapshot closes the opened snapshot if present.
func CloseSnapshot() error {
	if db == nil {
		return nil
	}
	if err := db.Close(); err != nil {
		return err
	}
	db = nil
	dbPath = ""
	logger.Info("snapshot_closed")
	return nil
}

// SnapshotReady reports whether a snapshot is opened and ready.
func SnapshotReady() bool {
	return db != nil
}

// snapKey builds a sortable record key so iteration replays pack order.
// Key format: feed:msg:<unix_nano_padded>-<seq>
func snapKey(ts int64, s uint64) string {
	return fmt.Sprintf("%s%020d-%06d", snapMsgPrefix, ts, s)
}

// WriteFeed packs the given messages and manifest into the snapshot.
// Records keep their wire shape, so an unpacked snapshot decodes exactly
// like the JSON bundle it came from. Existing records are not cleared;
// packing into a fresh directory is the caller's job.
func WriteFeed(msgs []models.Message, meta models.Feed) error {
	if db == nil {
		return errNotOpen()
	}
	for i, m := range msgs {
		ts := time.Now().UTC().UnixNano()
		s := atomic.AddUint64(&seq, 1)
		key := snapKey(ts, s)
		data, err := json.Marshal(RecordOf(m))
		if err != nil {
			return fmt.Errorf("marshal record %d: %w", i, err)
		}
		if err := db.Set([]byte(key), data, pebble.Sync); err != nil {
			logger.Error("snapshot_write_failed", "key", key, "error", err)
			return err
		}
	}
	meta.Count = len(msgs)
	if meta.CreatedTS == 0 {
		meta.CreatedTS = time.Now().UTC().UnixNano()
	}
	mb, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := db.Set([]byte(snapMetaKey), mb, pebble.Sync); err != nil {
		logger.Error("snapshot_manifest_write_failed", "error", err)
		return err
	}
	snapshotRecords.Set(float64(len(msgs)))
	logger.Info("feed_packed", "records", len(msgs), "feed", meta.ID)
	return nil
}

// LoadFeed returns the packed messages in pack order plus the manifest.
// A snapshot without a manifest is still loadable; the returned manifest
// is synthesized from what is present.
func LoadFeed() ([]models.Message, models.Feed, error) {
	if db == nil {
		return nil, models.Feed{}, errNotOpen()
	}
	prefix := []byte(snapMsgPrefix)
	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, models.Feed{}, err
	}
	defer iter.Close()
	var msgs []models.Message
	for iter.SeekGE(prefix); iter.Valid(); iter.Next() {
		if !bytes.HasPrefix(iter.Key(), prefix) {
			break
		}
		v := append([]byte(nil), iter.Value()...)
		var rec Record
		if err := json.Unmarshal(v, &rec); err != nil {
			logger.Error("snapshot_record_invalid", "key", string(iter.Key()), "error", err)
			return nil, models.Feed{}, fmt.Errorf("invalid snapshot record at %s: %w", string(iter.Key()), err)
		}
		msgs = append(msgs, rec.Message())
	}
	if err := iter.Error(); err != nil {
		return nil, models.Feed{}, err
	}
	meta, err := readManifest()
	if err != nil {
		logger.Warn("snapshot_manifest_missing", "error", err)
		meta = models.Feed{Count: len(msgs), Source: "snapshot"}
	}
	snapshotRecords.Set(float64(len(msgs)))
	logger.Info("feed_unpacked", "records", len(msgs), "feed", meta.ID)
	return msgs, meta, nil
}

func readManifest() (models.Feed, error) {
	v, closer, err := db.Get([]byte(snapMetaKey))
	if err != nil {
		return models.Feed{}, err
	}
	if closer != nil {
		defer closer.Close()
	}
	var meta models.Feed
	if err := json.Unmarshal(v, &meta); err != nil {
		return models.Feed{}, fmt.Errorf("invalid manifest: %w", err)
	}
	return meta, nil
}

// SnapshotKeys returns all keys (as strings) that start with the given
// prefix. If prefix is empty it returns every key in the snapshot.
func SnapshotKeys(prefix string) ([]string, error) {
	if db == nil {
		return nil, errNotOpen()
	}
	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}
	defer iter.Close()
	var out []string
	if prefix == "" {
		for iter.First(); iter.Valid(); iter.Next() {
			k := append([]byte(nil), iter.Key()...)
			out = append(out, string(k))
		}
	} else {
		pfx := []byte(prefix)
		for iter.SeekGE(pfx); iter.Valid(); iter.Next() {
			if !bytes.HasPrefix(iter.Key(), pfx) {
				break
			}
			k := append([]byte(nil), iter.Key()...)
			out = append(out, string(k))
		}
	}
	return out, iter.Error()
}

// SnapshotGet returns the raw value for the given key, for inspection
// tooling.
func SnapshotGet(key string) (string, error) {
	if db == nil {
		return "", errNotOpen()
	}
	v, closer, err := db.Get([]byte(key))
	if err != nil {
		return "", err
	}
	if closer != nil {
		defer closer.Close()
	}
	return string(v), nil
}
