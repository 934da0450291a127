// Package command provides the devkit CLI commands.
//
// This package defines all CLI commands using urfave/cli/v2:
//
//   - root.go: application, global flags, per-run environment
//   - load.go: load, count and labels
//   - watch.go: reload a group whenever one of its files changes
//   - render.go: stub rendering
//   - cache.go: snapshot cache inspection
//   - config.go: effective settings
//   - version.go: build information
//   - shell.go: interactive shell
//
// Every command resolves its settings in the root Before hook and reads
// them back with envFrom.
package command
