package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// RuntimeConfig holds the resolved viewer settings other packages may query
// at runtime (populated during startup after merging flags+env+file).
type RuntimeConfig struct {
	PageSize    int
	RevealDelay time.Duration
	Sort        string
	FeedPath    string
	Snapshot    string
	Source      string
}

var (
	runtimeMu  sync.RWMutex
	runtimeCfg *RuntimeConfig
)

// SetRuntime sets the canonical runtime config used by the running viewer.
func SetRuntime(rc *RuntimeConfig) {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()
	runtimeCfg = rc
}

// GetRuntime returns a copy of the runtime config, or a zero value when
// startup has not published one yet.
func GetRuntime() RuntimeConfig {
	runtimeMu.RLock()
	defer runtimeMu.RUnlock()
	if runtimeCfg == nil {
		return RuntimeConfig{}
	}
	return *runtimeCfg
}

// Load reads and parses the YAML config file at path.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ResolveConfigPath decides the config file path using the flag-provided value
// and the environment variable `FEEDVIEW_CONFIG` when the flag was not set.
func ResolveConfigPath(flagPath string, flagSet bool) string {
	if flagSet {
		return flagPath
	}
	if p := os.Getenv("FEEDVIEW_CONFIG"); p != "" {
		return p
	}
	return flagPath
}
