// Package confloader loads devkit's own settings and watches config files.
//
//   - loader.go: koanf-based loading from file, environment and maps
//   - provider.go: in-memory koanf provider for flag overrides
//   - watcher.go: fsnotify watcher with rate-limited change callbacks
//
// Priority (highest to lowest): flags, environment, file, defaults.
package confloader
