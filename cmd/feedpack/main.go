// feedpack packs a JSON feed bundle into a Pebble snapshot, inspects an
// existing snapshot, or writes the embedded starter feed out as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"feedview/pkg/bundle"
	"feedview/pkg/logger"
	"feedview/pkg/models"
	"feedview/pkg/timefmt"
	"feedview/pkg/utils"
)

func main() {
	var (
		packPath    string
		outPath     string
		inspectPath string
		seedPath    string
		title       string
	)
	flag.StringVar(&packPath, "pack", "", "JSON feed bundle to pack into a snapshot")
	flag.StringVar(&outPath, "out", "", "snapshot directory to write (with -pack)")
	flag.StringVar(&inspectPath, "inspect", "", "snapshot directory to inspect")
	flag.StringVar(&seedPath, "seed", "", "write the embedded starter feed to this JSON file")
	flag.StringVar(&title, "title", "", "feed title stored in the manifest (with -pack)")
	flag.Parse()

	logger.Init()
	defer logger.Sync()

	switch {
	case packPath != "":
		if outPath == "" {
			fmt.Fprintln(os.Stderr, "-out required with -pack")
			os.Exit(2)
		}
		if err := pack(packPath, outPath, title); err != nil {
			fail("pack", err)
		}
	case inspectPath != "":
		if err := inspect(inspectPath); err != nil {
			fail("inspect", err)
		}
	case seedPath != "":
		if err := seed(seedPath); err != nil {
			fail("seed", err)
		}
	default:
		fmt.Fprintln(os.Stderr, "one of -pack, -inspect or -seed required")
		flag.Usage()
		os.Exit(2)
	}
}

// fail prints a machine-readable error line and exits non-zero.
func fail(op string, err error) {
	_ = json.NewEncoder(os.Stderr).Encode(map[string]string{"op": op, "error": err.Error()})
	os.Exit(1)
}

func pack(in, out, title string) error {
	msgs, err := bundle.LoadFile(in)
	if err != nil {
		return err
	}
	if err := bundle.OpenSnapshot(out); err != nil {
		return err
	}
	defer bundle.CloseSnapshot()

	meta := models.Feed{
		ID:        utils.GenFeedID(),
		Title:     title,
		CreatedTS: time.Now().UTC().UnixNano(),
		Source:    in,
	}
	if title != "" {
		meta.ID = utils.MakeSlug(title, strconv.FormatInt(time.Now().Unix(), 10))
	}
	if err := bundle.WriteFeed(msgs, meta); err != nil {
		return err
	}

	stats := bundle.GetSnapshotStats()
	fmt.Printf("packed %d records into %s (id %s, %s on disk)\n",
		len(msgs), out, meta.ID, humanize.Bytes(uint64(stats.SizeBytes)))
	return nil
}

func inspect(dir string) error {
	if _, err := os.Stat(dir); err != nil {
		return err
	}
	if err := bundle.OpenSnapshot(dir); err != nil {
		return err
	}
	defer bundle.CloseSnapshot()

	msgs, meta, err := bundle.LoadFeed()
	if err != nil {
		return err
	}
	fmt.Printf("snapshot:  %s\n", dir)
	fmt.Printf("feed:      %s\n", meta.ID)
	if meta.Title != "" {
		fmt.Printf("title:     %s\n", meta.Title)
	}
	if meta.CreatedTS > 0 {
		fmt.Printf("created:   %s\n", time.Unix(0, meta.CreatedTS).UTC().Format(time.RFC3339))
	}
	fmt.Printf("records:   %d (manifest says %d)\n", len(msgs), meta.Count)
	for i, m := range msgs {
		fmt.Printf("%4d. %s  sender=%s  sent=%s (%s)\n      %s\n",
			i+1, m.ID, m.SenderID, m.SentAt, timefmt.DisplayOr(m.SentAt, "unparsable"), m.Content)
	}
	return nil
}

func seed(path string) error {
	msgs, err := bundle.Default()
	if err != nil {
		return err
	}
	recs := make([]bundle.Record, 0, len(msgs))
	for _, m := range msgs {
		recs = append(recs, bundle.RecordOf(m))
	}
	buf, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(buf, '\n'), 0o600); err != nil {
		return err
	}
	fmt.Printf("wrote %d starter records to %s\n", len(recs), path)
	return nil
}
