package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "feedview.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadEffectiveDefaults(t *testing.T) {
	flags := Flags{Config: filepath.Join(t.TempDir(), "missing.yaml"), Set: map[string]bool{}}
	res, err := LoadEffective(flags)
	require.NoError(t, err)
	assert.Equal(t, "defaults", res.Source)
	assert.Equal(t, defaultPageSize, res.Config.Viewer.PageSize)
	assert.Equal(t, defaultRevealDelay, res.Config.Viewer.RevealDelay.Duration())
	assert.Equal(t, "asc", res.Config.Viewer.Sort)
	assert.Equal(t, int64(defaultBundleBytes), res.Config.Feed.MaxBundleBytes.Int64())
	assert.Equal(t, "info", res.Config.Logging.Level)
	assert.Equal(t, defaultReportCron, res.Config.Report.Cron)
}

func TestLoadEffectiveConfigFile(t *testing.T) {
	p := writeConfig(t, `
viewer:
  page_size: 7
  reveal_delay: "250ms"
  sort: "desc"
feed:
  path: "./threads.json"
  max_bundle_bytes: "1MiB"
logging:
  level: "debug"
report:
  enabled: true
  cron: "*/2 * * * *"
`)
	flags := Flags{Config: p, Set: map[string]bool{"config": true}}
	res, err := LoadEffective(flags)
	require.NoError(t, err)
	assert.Equal(t, "config", res.Source)
	assert.Equal(t, 7, res.Config.Viewer.PageSize)
	assert.Equal(t, 250*time.Millisecond, res.Config.Viewer.RevealDelay.Duration())
	assert.Equal(t, "desc", res.Config.Viewer.Sort)
	assert.Equal(t, "./threads.json", res.FeedPath)
	assert.Equal(t, int64(1<<20), res.Config.Feed.MaxBundleBytes.Int64())
	assert.Equal(t, "debug", res.Config.Logging.Level)
	assert.True(t, res.Config.Report.Enabled)
	assert.Equal(t, "*/2 * * * *", res.Config.Report.Cron)
}

func TestLoadEffectiveMissingExplicitConfig(t *testing.T) {
	flags := Flags{Config: filepath.Join(t.TempDir(), "nope.yaml"), Set: map[string]bool{"config": true}}
	_, err := LoadEffective(flags)
	require.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	p := writeConfig(t, "viewer:\n  page_size: 7\n")
	t.Setenv("FEEDVIEW_PAGE_SIZE", "9")
	t.Setenv("FEEDVIEW_SORT", "DESC")
	t.Setenv("FEEDVIEW_FEED", "/tmp/feed.json")
	flags := Flags{Config: p, Set: map[string]bool{}}
	res, err := LoadEffective(flags)
	require.NoError(t, err)
	assert.Equal(t, "env", res.Source)
	assert.Equal(t, 9, res.Config.Viewer.PageSize)
	assert.Equal(t, "desc", res.Config.Viewer.Sort)
	assert.Equal(t, "/tmp/feed.json", res.FeedPath)
}

func TestFlagsOverrideEnvAndFile(t *testing.T) {
	p := writeConfig(t, "viewer:\n  page_size: 7\n")
	t.Setenv("FEEDVIEW_PAGE_SIZE", "9")
	t.Setenv("FEEDVIEW_REVEAL_DELAY", "2s")
	flags := Flags{
		Config: p,
		Page:   3,
		Delay:  50 * time.Millisecond,
		Set:    map[string]bool{"page": true, "delay": true},
	}
	res, err := LoadEffective(flags)
	require.NoError(t, err)
	assert.Equal(t, "flags", res.Source)
	assert.Equal(t, 3, res.Config.Viewer.PageSize)
	assert.Equal(t, 50*time.Millisecond, res.Config.Viewer.RevealDelay.Duration())
}

func TestEnvRevealDelayNumericSeconds(t *testing.T) {
	t.Setenv("FEEDVIEW_REVEAL_DELAY", "1.5")
	cfg := &Config{}
	require.True(t, LoadEnvOverrides(cfg))
	assert.Equal(t, 1500*time.Millisecond, cfg.Viewer.RevealDelay.Duration())
}

func TestApplyDefaultsNormalizesSort(t *testing.T) {
	cfg := &Config{}
	cfg.Viewer.Sort = "sideways"
	applyDefaults(cfg)
	assert.Equal(t, "asc", cfg.Viewer.Sort)

	cfg2 := &Config{}
	cfg2.Viewer.Sort = " DESC "
	applyDefaults(cfg2)
	assert.Equal(t, "desc", cfg2.Viewer.Sort)
}

func TestResolveConfigPath(t *testing.T) {
	assert.Equal(t, "/explicit.yaml", ResolveConfigPath("/explicit.yaml", true))
	t.Setenv("FEEDVIEW_CONFIG", "/from-env.yaml")
	assert.Equal(t, "/from-env.yaml", ResolveConfigPath("/flag-default.yaml", false))
}

func TestRuntimeConfigRoundTrip(t *testing.T) {
	SetRuntime(nil)
	assert.Equal(t, RuntimeConfig{}, GetRuntime())

	rc := &RuntimeConfig{PageSize: 5, RevealDelay: 300 * time.Millisecond, Sort: "asc", Source: "config"}
	SetRuntime(rc)
	got := GetRuntime()
	assert.Equal(t, *rc, got)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	p := writeConfig(t, "viewer: [not a map\n")
	_, err := Load(p)
	require.Error(t, err)
}
