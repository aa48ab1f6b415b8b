package bundle

import (
	"io/fs"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
)

var snapshotRecords = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "feedview_snapshot_records",
	Help: "Number of records in the snapshot last written or loaded.",
})

var snapshotOpen = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
	Name: "feedview_snapshot_open",
	Help: "Whether a Pebble snapshot is currently open (1) or not (0).",
}, func() float64 {
	if SnapshotReady() {
		return 1
	}
	return 0
})

func init() {
	prometheus.MustRegister(snapshotRecords)
	prometheus.MustRegister(snapshotOpen)
}

// SnapshotStats is a compact view of the on-disk snapshot for banners and
// the stats command.
type SnapshotStats struct {
	Records   int
	SizeBytes uint64
}

// GetSnapshotStats returns best-effort stats about the opened snapshot.
// Size is computed by walking the snapshot directory, which is accurate
// enough for display purposes.
func GetSnapshotStats() SnapshotStats {
	var st SnapshotStats
	if db == nil || dbPath == "" {
		return st
	}
	keys, err := SnapshotKeys(snapMsgPrefix)
	if err == nil {
		st.Records = len(keys)
	}
	var total uint64
	_ = filepath.WalkDir(dbPath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return nil
		}
		total += uint64(fi.Size())
		return nil
	})
	st.SizeBytes = total
	return st
}
