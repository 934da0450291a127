// Package config defines the devkit CLI settings.
//
//   - settings.go: settings structure
//   - default.go: default values and search path
//   - loader.go: loading through confloader (file, DEVKIT_* env, flags)
//   - verify.go: validation and conversion to a lazyconfig.PathTable
package config
