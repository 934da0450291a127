package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default configuration values.
const (
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "text"
	DefaultDecoder     = "document"
	DefaultMinInterval = 250 * time.Millisecond
)

// Default returns the default CLI configuration.
func Default() *Config {
	return &Config{
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Watch: WatchSection{
			MinInterval: DefaultMinInterval,
		},
		Decoder: DefaultDecoder,
	}
}

// DefaultPaths returns the settings files tried when none is given, in order.
func DefaultPaths() []string {
	paths := []string{"devkit.yaml", "devkit.yml", "devkit.json"}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "devkit", "devkit.yaml"))
	}
	return paths
}
