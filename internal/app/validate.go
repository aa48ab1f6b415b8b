package app

import (
	"fmt"
	"os"
	"strings"

	"feedview/pkg/config"
)

// validateConfig performs quick, fail-fast validation of the effective
// configuration before anything long-lived starts. Keep checks light and
// focused so callers can surface user-friendly errors.
func validateConfig(eff config.EffectiveConfigResult) error {
	if eff.Config == nil {
		return fmt.Errorf("configuration missing")
	}

	if n := eff.Config.Viewer.PageSize; n <= 0 {
		return fmt.Errorf("viewer.page_size must be positive, got %d", n)
	}
	if d := eff.Config.Viewer.RevealDelay.Duration(); d < 0 {
		return fmt.Errorf("viewer.reveal_delay must not be negative, got %s", d)
	}
	if s := eff.Config.Viewer.Sort; s != "asc" && s != "desc" {
		return fmt.Errorf("viewer.sort must be asc or desc, got %q", s)
	}

	if eff.FeedPath != "" {
		if fi, err := os.Stat(eff.FeedPath); err == nil && fi.IsDir() {
			return fmt.Errorf("feed path %s is a directory, want a JSON file", eff.FeedPath)
		}
	}
	if eff.Snapshot != "" {
		if fi, err := os.Stat(eff.Snapshot); err == nil && !fi.IsDir() {
			return fmt.Errorf("snapshot path %s is a file, want a snapshot directory", eff.Snapshot)
		}
	}

	if eff.Config.Report.Enabled && strings.TrimSpace(eff.Config.Report.Cron) == "" {
		return fmt.Errorf("report.enabled requires report.cron")
	}

	return nil
}
