package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

// Config is the main configuration struct.
type Config struct {
	Viewer     ViewerConfig     `yaml:"viewer"`
	Feed       FeedConfig       `yaml:"feed"`
	Logging    LoggingConfig    `yaml:"logging"`
	Report     ReportConfig     `yaml:"report"`
	Validation ValidationConfig `yaml:"validation"`
}

// ViewerConfig holds pagination and reveal settings.
type ViewerConfig struct {
	PageSize    int      `yaml:"page_size"`
	RevealDelay Duration `yaml:"reveal_delay"`
	Sort        string   `yaml:"sort"` // asc|desc initial order for sent_at
}

// FeedConfig selects where the session's bundle comes from.
type FeedConfig struct {
	Path           string    `yaml:"path"`
	Snapshot       string    `yaml:"snapshot"`
	MaxBundleBytes SizeBytes `yaml:"max_bundle_bytes"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ReportConfig holds configuration for the periodic stats reporter.
type ReportConfig struct {
	Enabled bool   `yaml:"enabled"`
	Cron    string `yaml:"cron"`
}

// ValidationConfig lets deployments tighten the record checks applied to
// incoming bundles.
type ValidationConfig struct {
	Required []string         `yaml:"required"`
	Types    []TypeRule       `yaml:"types"`
	MaxLen   []MaxLenRule     `yaml:"max_len"`
	Enums    []EnumRule       `yaml:"enums"`
	WhenThen []WhenThenClause `yaml:"when_then"`
}

// TypeRule constrains the JSON type at a path.
type TypeRule struct {
	Path string `yaml:"path"`
	Type string `yaml:"type"` // string|number|boolean|object|array
}

// MaxLenRule caps the length of a string value at a path.
type MaxLenRule struct {
	Path string `yaml:"path"`
	Max  int    `yaml:"max"`
}

// EnumRule restricts a path to a fixed value set.
type EnumRule struct {
	Path   string   `yaml:"path"`
	Values []string `yaml:"values"`
}

// WhenThenClause applies conditional requirements.
type WhenThenClause struct {
	When struct {
		Path   string      `yaml:"path"`
		Equals interface{} `yaml:"equals"`
	} `yaml:"when"`
	Then struct {
		Required []string `yaml:"required"`
	} `yaml:"then"`
}

// SizeBytes represents a number of bytes, unmarshaled from human-friendly strings like "64MB" or plain integers.
type SizeBytes int64

func (s *SizeBytes) UnmarshalYAML(node *yaml.Node) error {
	if node == nil {
		*s = 0
		return nil
	}
	raw := strings.TrimSpace(node.Value)
	if raw == "" {
		*s = 0
		return nil
	}
	if v, err := humanize.ParseBytes(raw); err == nil {
		*s = SizeBytes(v)
		return nil
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*s = SizeBytes(i)
		return nil
	}
	return fmt.Errorf("invalid size value: %q", node.Value)
}

func (s SizeBytes) Int64() int64 { return int64(s) }

// Duration is a wrapper around time.Duration that supports YAML parsing from strings like "100ms" or plain numbers (interpreted as seconds).
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node == nil {
		*d = Duration(0)
		return nil
	}
	raw := strings.TrimSpace(node.Value)
	if raw == "" {
		*d = Duration(0)
		return nil
	}
	if td, err := time.ParseDuration(raw); err == nil {
		*d = Duration(td)
		return nil
	}
	// allow numeric seconds
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		*d = Duration(time.Duration(f * float64(time.Second)))
		return nil
	}
	return fmt.Errorf("invalid duration value: %q", node.Value)
}

func (d Duration) Duration() time.Duration { return time.Duration(d) }
