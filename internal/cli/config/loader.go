package config

import (
	"fmt"
	"os"

	"github.com/yndnr/devkit/internal/infra/confloader"
)

// Load reads settings from path, DEVKIT_* variables and flag overrides,
// on top of Default. An empty path tries DefaultPaths and falls back to
// defaults when none exists; an explicit path must exist.
func Load(path string, overrides map[string]any) (*Config, string, error) {
	if path == "" {
		path = findDefault()
	} else if _, err := os.Stat(path); err != nil {
		return nil, "", fmt.Errorf("settings file: %w", err)
	}

	cfg := Default()
	l := confloader.NewLoader(
		confloader.WithConfigFile(path),
		confloader.WithOverrides(overrides),
	)
	if err := l.Load(cfg); err != nil {
		return nil, path, err
	}

	if err := Verify(cfg); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

func findDefault() string {
	for _, p := range DefaultPaths() {
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p
		}
	}
	return ""
}
