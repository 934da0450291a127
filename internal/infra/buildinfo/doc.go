// Package buildinfo reports the devkit version.
//
// Values are injected at build time via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/devkit/internal/infra/buildinfo.Version=v1.0.0"
//
// When they are not, Get falls back to the module and VCS data the Go
// toolchain embeds in the binary.
package buildinfo
