// Package app wires configuration, state directories, logging, the feed
// store and the interactive view into one session lifecycle.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"golang.org/x/term"

	"feedview/internal/report"
	"feedview/internal/view"
	"feedview/pkg/bundle"
	"feedview/pkg/config"
	"feedview/pkg/feed"
	"feedview/pkg/logger"
	"feedview/pkg/models"
	"feedview/pkg/state"
	"feedview/pkg/utils"
	"feedview/pkg/validation"
)

// App encapsulates the session components and lifecycle.
type App struct {
	eff       config.EffectiveConfigResult
	version   string
	commit    string
	buildDate string

	store     *feed.Store
	meta      models.Feed
	origin    string // snapshot | file | embedded
	sessionID string

	watcher      *fsnotify.Watcher
	reportCancel context.CancelFunc
}

// New initializes everything that does not need a running context: state
// dirs, logging, validation rules, the bundle and the store. It does not
// start the watcher, the reporter or the view; call Run for those.
func New(eff config.EffectiveConfigResult, version, commit, buildDate string) (*App, error) {
	_ = godotenv.Load(".env")

	if err := validateConfig(eff); err != nil {
		return nil, err
	}

	stateRoot := os.Getenv("FEEDVIEW_STATE_ROOT")
	if stateRoot == "" {
		if root := state.ArtifactRoot(); root != "" {
			stateRoot = filepath.Join(root, "feedview")
		}
	}
	if err := state.Init(stateRoot); err != nil {
		return nil, fmt.Errorf("state dirs: %w", err)
	}

	logger.InitWithLevel(eff.Config.Logging.Level)
	if err := logger.AttachSessionFileSink(state.PathsVar.Logs); err != nil {
		logger.Warn("session_sink_unavailable", "error", err)
	}

	initValidation(eff)

	msgs, meta, origin, err := loadBundle(eff)
	if err != nil {
		return nil, err
	}

	st, err := feed.New(msgs, eff.Config.Viewer.PageSize)
	if err != nil {
		return nil, fmt.Errorf("feed construction from %s: %w", origin, err)
	}
	if eff.Config.Viewer.Sort == string(feed.Desc) {
		if err := st.SortBy(feed.SortSentAt, feed.Desc); err != nil {
			return nil, err
		}
	}

	pageSize := eff.Config.Viewer.PageSize
	summaryItems := []string{
		fmt.Sprintf("origin: %s", origin),
		fmt.Sprintf("messages: %s", humanize.Comma(int64(st.Len()))),
		fmt.Sprintf("duplicates_dropped: %s", humanize.Comma(int64(st.Dropped()))),
		fmt.Sprintf("page_size: %d", pageSize),
		fmt.Sprintf("pages: %d", (st.Len()+pageSize-1)/pageSize),
		fmt.Sprintf("reveal_delay: %s", eff.Config.Viewer.RevealDelay.Duration()),
	}
	logger.LogConfigSummary("session_feed_summary", summaryItems)

	config.SetRuntime(&config.RuntimeConfig{
		PageSize:    eff.Config.Viewer.PageSize,
		RevealDelay: eff.Config.Viewer.RevealDelay.Duration(),
		Sort:        eff.Config.Viewer.Sort,
		FeedPath:    eff.FeedPath,
		Snapshot:    eff.Snapshot,
		Source:      eff.Source,
	})

	a := &App{
		eff:       eff,
		version:   version,
		commit:    commit,
		buildDate: buildDate,
		store:     st,
		meta:      meta,
		origin:    origin,
		sessionID: utils.GenSessionID(),
	}
	logger.Info("session_initialized",
		"session", a.sessionID, "feed", meta.ID, "origin", origin,
		"messages", st.Len(), "dropped", st.Dropped(), "version", version)
	return a, nil
}

// Run starts the drift watcher and the reporter, then blocks in the view
// loop until the session ends or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.startWatcher()

	report.SetSession(a.store, a.sessionID, a.meta.ID)
	cancel, err := report.Start(ctx, a.eff)
	if err != nil {
		return err
	}
	a.reportCancel = cancel

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	v := view.New(a.store, a.eff.Config.Viewer.RevealDelay.Duration(),
		os.Stdin, os.Stdout, a.sessionID, a.meta.ID, interactive)
	return v.Run(ctx)
}

// Close releases session resources: stops the reporter (writing a last
// report when enabled), the watcher and the snapshot handle.
func (a *App) Close() {
	if a.reportCancel != nil {
		a.reportCancel()
	}
	if a.eff.Config != nil && a.eff.Config.Report.Enabled {
		if err := report.RunImmediate(); err != nil {
			logger.Warn("final_report_failed", "error", err)
		}
	}
	if a.watcher != nil {
		_ = a.watcher.Close()
	}
	if bundle.SnapshotReady() {
		if err := bundle.CloseSnapshot(); err != nil {
			logger.Warn("snapshot_close_failed", "error", err)
		}
	}
	logger.Info("app_closed", "session", a.sessionID)
}

// SessionID identifies this viewer run in logs and reports.
func (a *App) SessionID() string { return a.sessionID }

// Store exposes the feed store, mainly for tests.
func (a *App) Store() *feed.Store { return a.store }

// loadBundle resolves the session's input. A packed snapshot wins over a
// JSON file; the embedded starter feed is the fallback.
func loadBundle(eff config.EffectiveConfigResult) ([]models.Message, models.Feed, string, error) {
	if eff.Snapshot != "" {
		if _, err := os.Stat(eff.Snapshot); err != nil {
			return nil, models.Feed{}, "", fmt.Errorf("snapshot %s not found (pack one with feedpack): %w", eff.Snapshot, err)
		}
		if err := bundle.OpenSnapshot(eff.Snapshot); err != nil {
			return nil, models.Feed{}, "", fmt.Errorf("open snapshot %s: %w", eff.Snapshot, err)
		}
		msgs, meta, err := bundle.LoadFeed()
		if err != nil {
			_ = bundle.CloseSnapshot()
			return nil, models.Feed{}, "", fmt.Errorf("load snapshot %s: %w", eff.Snapshot, err)
		}
		return msgs, meta, "snapshot", nil
	}

	if eff.FeedPath != "" {
		fi, err := os.Stat(eff.FeedPath)
		if err != nil {
			return nil, models.Feed{}, "", fmt.Errorf("feed file %s: %w", eff.FeedPath, err)
		}
		if max := eff.Config.Feed.MaxBundleBytes.Int64(); fi.Size() > max {
			return nil, models.Feed{}, "", fmt.Errorf("feed file %s is %s, over the %s limit",
				eff.FeedPath, humanize.Bytes(uint64(fi.Size())), humanize.Bytes(uint64(max)))
		}
		msgs, err := bundle.LoadFile(eff.FeedPath)
		if err != nil {
			return nil, models.Feed{}, "", err
		}
		meta := models.Feed{
			ID:        utils.GenFeedID(),
			Count:     len(msgs),
			CreatedTS: time.Now().UTC().UnixNano(),
			Source:    "file",
		}
		return msgs, meta, "file", nil
	}

	msgs, err := bundle.Default()
	if err != nil {
		return nil, models.Feed{}, "", err
	}
	meta := models.Feed{
		ID:        utils.GenFeedID(),
		Count:     len(msgs),
		CreatedTS: time.Now().UTC().UnixNano(),
		Source:    "embedded",
	}
	return msgs, meta, "embedded", nil
}

// startWatcher logs when the source file changes underneath a running
// session. The bundle is read once at startup and never reloaded, so this
// only warns.
func (a *App) startWatcher() {
	if a.origin != "file" {
		return
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn("feed_watcher_unavailable", "error", err)
		return
	}
	if err := w.Add(a.eff.FeedPath); err != nil {
		logger.Warn("feed_watcher_unavailable", "path", a.eff.FeedPath, "error", err)
		_ = w.Close()
		return
	}
	a.watcher = w
	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
					logger.Warn("feed_file_drifted", "path", ev.Name, "op", ev.Op.String(),
						"note", "bundle is loaded once per session; restart to reload")
				}
			case werr, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("feed_watcher_error", "error", werr)
			}
		}
	}()
	logger.Debug("feed_watcher_started", "path", a.eff.FeedPath)
}

// initValidation layers configured record checks over the defaults. An
// empty validation block keeps the built-in required/type rules.
func initValidation(eff config.EffectiveConfigResult) {
	vr := validation.DefaultRules()
	vc := eff.Config.Validation
	vr.Required = append(vr.Required, vc.Required...)
	for _, t := range vc.Types {
		vr.Types[t.Path] = t.Type
	}
	for _, ml := range vc.MaxLen {
		vr.MaxLen[ml.Path] = ml.Max
	}
	for _, e := range vc.Enums {
		vr.Enums[e.Path] = append([]string{}, e.Values...)
	}
	for _, wt := range vc.WhenThen {
		vr.WhenThen = append(vr.WhenThen, validation.WhenThenRule{
			WhenPath: wt.When.Path,
			Equals:   wt.When.Equals,
			ThenReq:  append([]string{}, wt.Then.Required...),
		})
	}
	validation.SetRules(vr)
}
