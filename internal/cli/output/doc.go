// Package output renders devkit CLI results.
//
//   - formatter.go: Formatter interface and factory
//   - table.go: aligned text tables
//   - json.go: indented JSON
//   - yaml.go: YAML via gopkg.in/yaml.v3
//   - progress.go: per-file progress on stderr while a collection loads
package output
