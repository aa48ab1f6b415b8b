// Package report periodically snapshots session stats to the report
// directory so long-running viewer sessions leave an inspectable trail.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adhocore/gronx"
	"github.com/prometheus/client_golang/prometheus"

	"feedview/pkg/config"
	"feedview/pkg/feed"
	"feedview/pkg/logger"
	"feedview/pkg/state"
)

// Report is one stats snapshot written to the report directory.
type Report struct {
	Time      string             `json:"time"`
	SessionID string             `json:"session_id"`
	FeedID    string             `json:"feed_id"`
	Total     int                `json:"total"`
	Revealed  int                `json:"revealed"`
	Dropped   int                `json:"dropped"`
	HasMore   bool               `json:"has_more"`
	Counters  map[string]float64 `json:"counters,omitempty"`
}

var (
	storedStore   *feed.Store
	storedSession string
	storedFeedID  string
)

// SetSession stores the live session so admin triggers (and tests) can
// invoke report runs on-demand.
func SetSession(st *feed.Store, sessionID, feedID string) {
	storedStore = st
	storedSession = sessionID
	storedFeedID = feedID
}

// RunImmediate triggers a single report run using the stored session.
// Returns an error if no session was registered.
func RunImmediate() error {
	if storedStore == nil {
		return fmt.Errorf("no session registered for report run")
	}
	if state.PathsVar.Report == "" {
		return fmt.Errorf("state paths not initialized")
	}
	return runOnce(context.Background(), storedStore, storedSession, storedFeedID, state.PathsVar.Report)
}

// Start starts the report scheduler if enabled. Returns a cancel func.
func Start(ctx context.Context, eff config.EffectiveConfigResult) (context.CancelFunc, error) {
	rep := eff.Config.Report

	// if reporting is not enabled, return no-op cancel
	if !rep.Enabled {
		logger.Info("report_disabled")
		return func() {}, nil
	}

	// Use a stable report folder under the viewer root for report
	// artifacts: <root>/state/report.
	reportPath := state.PathsVar.Report

	// ensure report path exists
	if err := os.MkdirAll(reportPath, 0o700); err != nil {
		logger.Error("report_path_create_failed", "path", reportPath, "error", err)
		return nil, err
	}

	// map empty cron to default every five minutes
	cronExpr := rep.Cron
	if cronExpr == "" {
		cronExpr = "*/5 * * * *"
	}
	// validate cron expression using gronx
	if !gronx.IsValid(cronExpr) {
		logger.Error("report_invalid_cron", "cron", rep.Cron)
		return nil, fmt.Errorf("invalid report cron expression: %s", rep.Cron)
	}

	logger.Info("report_enabled", "cron", cronExpr, "path", reportPath)
	ctx2, cancel := context.WithCancel(ctx)

	// start scheduler goroutine (pass resolved cron expression)
	go runScheduler(ctx2, reportPath, cronExpr)

	logger.Info("report_scheduler_started", "path", reportPath)
	return cancel, nil
}

// runScheduler uses gronx to compute the next tick for the configured cron
// expression and sleeps until that time. This yields sharp scheduling and
// supports full cron syntax.
func runScheduler(ctx context.Context, reportPath, cronExpr string) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("report_scheduler_stopping")
			return
		default:
		}

		// compute next tick after now (UTC). allowCurrent=false so we get the
		// next future tick.
		now := time.Now().UTC()
		next, err := gronx.NextTickAfter(cronExpr, now, false)
		if err != nil {
			logger.Error("report_nexttick_failed", "cron", cronExpr, "error", err)
			// fallback sleep then retry
			select {
			case <-time.After(30 * time.Second):
			case <-ctx.Done():
				logger.Info("report_scheduler_stopping")
				return
			}
			continue
		}

		wait := time.Until(next)
		if wait <= 0 {
			// due now-ish; run immediately
			go func() {
				if err := runOnce(ctx, storedStore, storedSession, storedFeedID, reportPath); err != nil {
					logger.Error("report_run_error", "error", err)
				}
			}()
			// small sleep to avoid tight loop
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				logger.Info("report_scheduler_stopping")
				return
			}
			continue
		}

		// wait until the exact next tick or cancellation
		select {
		case <-time.After(wait):
			go func() {
				if err := runOnce(ctx, storedStore, storedSession, storedFeedID, reportPath); err != nil {
					logger.Error("report_run_error", "error", err)
				}
			}()
		case <-ctx.Done():
			logger.Info("report_scheduler_stopping")
			return
		}
	}
}

// runOnce builds one report and writes it atomically into reportPath.
func runOnce(ctx context.Context, st *feed.Store, sessionID, feedID, reportPath string) error {
	if st == nil {
		return fmt.Errorf("no session registered for report run")
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	rep := Report{
		Time:      time.Now().UTC().Format(time.RFC3339),
		SessionID: sessionID,
		FeedID:    feedID,
		Total:     st.Len(),
		Revealed:  st.Revealed(),
		Dropped:   st.Dropped(),
		HasMore:   st.HasMore(),
		Counters:  GatherCounters(),
	}

	f, err := os.CreateTemp(reportPath, ".report-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp report file: %w", err)
	}
	tmpName := f.Name()
	defer func() { _ = os.Remove(tmpName) }()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode report: %w", err)
	}
	f.Sync()
	f.Close()

	name := fmt.Sprintf("report-%d.json", time.Now().UnixNano())
	path := filepath.Join(reportPath, name)
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move report into place: %w", err)
	}
	_ = os.Chmod(path, 0o600)

	logger.Info("report_written", "path", path, "revealed", rep.Revealed, "total", rep.Total)
	return nil
}

// GatherCounters collects the viewer's own metric families from the
// default Prometheus registry. Histograms contribute their sample count.
func GatherCounters() map[string]float64 {
	fams, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		logger.Warn("metrics_gather_failed", "error", err)
		return nil
	}
	out := make(map[string]float64)
	for _, mf := range fams {
		name := mf.GetName()
		if !strings.HasPrefix(name, "feedview_") {
			continue
		}
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				out[name] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				out[name] = m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				out[name] = float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return out
}
