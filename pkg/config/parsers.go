package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const (
	defaultPageSize    = 5
	defaultRevealDelay = 300 * time.Millisecond
	defaultSort        = "asc"
	defaultBundleBytes = 8 << 20
	defaultLogLevel    = "info"
	defaultReportCron  = "*/5 * * * *"
)

// Flags holds parsed command-line flag values and which were set.
type Flags struct {
	Config  string
	Feed    string
	Page    int
	Delay   time.Duration
	Version bool
	Set     map[string]bool
}

// EffectiveConfigResult holds the result of LoadEffective.
type EffectiveConfigResult struct {
	Config   *Config
	FeedPath string
	Snapshot string
	Source   string // "flags", "env", "config", or "defaults"
}

// ParseCommandFlags defines and parses command-line flags and returns their
// values along with a map indicating which flags were explicitly set.
func ParseCommandFlags() Flags {
	cfgPtr := flag.String("config", "./feedview.yaml", "Path to config file")
	feedPtr := flag.String("feed", "", "Path to feed bundle JSON")
	pagePtr := flag.Int("page", 0, "Messages revealed per page")
	delayPtr := flag.Duration("delay", 0, "Simulated fetch delay for reveals")
	verPtr := flag.Bool("v", false, "Print version and exit")
	flag.Parse()
	setFlags := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })
	return Flags{Config: *cfgPtr, Feed: *feedPtr, Page: *pagePtr, Delay: *delayPtr, Version: *verPtr, Set: setFlags}
}

// LoadEnvOverrides applies FEEDVIEW_* environment overrides onto the
// provided cfg and reports whether any env vars were used.
func LoadEnvOverrides(cfg *Config) bool {
	envUsed := false

	if v := os.Getenv("FEEDVIEW_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			envUsed = true
			cfg.Viewer.PageSize = n
		}
	}
	if v := os.Getenv("FEEDVIEW_REVEAL_DELAY"); v != "" {
		if d, ok := parseDurationValue(v); ok {
			envUsed = true
			cfg.Viewer.RevealDelay = Duration(d)
		}
	}
	if v := os.Getenv("FEEDVIEW_SORT"); v != "" {
		envUsed = true
		cfg.Viewer.Sort = strings.ToLower(strings.TrimSpace(v))
	}

	if v := os.Getenv("FEEDVIEW_FEED_PATH"); v != "" {
		envUsed = true
		cfg.Feed.Path = v
	} else if v := os.Getenv("FEEDVIEW_FEED"); v != "" {
		envUsed = true
		cfg.Feed.Path = v
	}
	if v := os.Getenv("FEEDVIEW_SNAPSHOT_PATH"); v != "" {
		envUsed = true
		cfg.Feed.Snapshot = v
	} else if v := os.Getenv("FEEDVIEW_SNAPSHOT"); v != "" {
		envUsed = true
		cfg.Feed.Snapshot = v
	}
	if v := os.Getenv("FEEDVIEW_MAX_BUNDLE_BYTES"); v != "" {
		raw := strings.TrimSpace(v)
		if n, err := humanize.ParseBytes(raw); err == nil {
			envUsed = true
			cfg.Feed.MaxBundleBytes = SizeBytes(n)
		} else if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			envUsed = true
			cfg.Feed.MaxBundleBytes = SizeBytes(i)
		}
	}

	if v := os.Getenv("FEEDVIEW_LOG_LEVEL"); v != "" {
		envUsed = true
		cfg.Logging.Level = strings.ToLower(strings.TrimSpace(v))
	}

	if v := os.Getenv("FEEDVIEW_REPORT_ENABLED"); v != "" {
		envUsed = true
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes":
			cfg.Report.Enabled = true
		default:
			cfg.Report.Enabled = false
		}
	}
	if v := os.Getenv("FEEDVIEW_REPORT_CRON"); v != "" {
		envUsed = true
		cfg.Report.Cron = v
	}

	return envUsed
}

// LoadEffective loads the config file named by flags, applies environment
// overrides, then explicit flags, and finally fills defaults. Flags win
// over env, env wins over the file. An explicit --config pointing at a
// missing file is an error; the default path missing just means the file
// layer contributes nothing.
func LoadEffective(flags Flags) (EffectiveConfigResult, error) {
	var res EffectiveConfigResult

	cfgPath := ResolveConfigPath(flags.Config, flags.Set["config"])
	cfg, err := Load(cfgPath)
	fileExists := err == nil
	if err != nil {
		if flags.Set["config"] {
			return res, fmt.Errorf("config file %s not found", flags.Config)
		}
		cfg = &Config{}
	}

	envUsed := LoadEnvOverrides(cfg)

	flagsUsed := false
	if flags.Set["feed"] {
		flagsUsed = true
		cfg.Feed.Path = flags.Feed
	}
	if flags.Set["page"] {
		flagsUsed = true
		cfg.Viewer.PageSize = flags.Page
	}
	if flags.Set["delay"] {
		flagsUsed = true
		cfg.Viewer.RevealDelay = Duration(flags.Delay)
	}

	applyDefaults(cfg)

	switch {
	case flagsUsed:
		res.Source = "flags"
	case flags.Set["config"]:
		res.Source = "config"
	case envUsed:
		res.Source = "env"
	case fileExists:
		res.Source = "config"
	default:
		res.Source = "defaults"
	}
	res.Config = cfg
	res.FeedPath = cfg.Feed.Path
	res.Snapshot = cfg.Feed.Snapshot
	return res, nil
}

// applyDefaults fills unset fields so consumers see resolved values.
func applyDefaults(cfg *Config) {
	if cfg.Viewer.PageSize <= 0 {
		cfg.Viewer.PageSize = defaultPageSize
	}
	if cfg.Viewer.RevealDelay.Duration() <= 0 {
		cfg.Viewer.RevealDelay = Duration(defaultRevealDelay)
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Viewer.Sort)) {
	case "asc", "desc":
		cfg.Viewer.Sort = strings.ToLower(strings.TrimSpace(cfg.Viewer.Sort))
	default:
		cfg.Viewer.Sort = defaultSort
	}
	if cfg.Feed.MaxBundleBytes.Int64() <= 0 {
		cfg.Feed.MaxBundleBytes = SizeBytes(defaultBundleBytes)
	}
	if strings.TrimSpace(cfg.Logging.Level) == "" {
		cfg.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(cfg.Report.Cron) == "" {
		cfg.Report.Cron = defaultReportCron
	}
}

// parseDurationValue accepts Go duration strings or plain numeric seconds.
func parseDurationValue(raw string) (time.Duration, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d, true
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return time.Duration(f * float64(time.Second)), true
	}
	return 0, false
}
