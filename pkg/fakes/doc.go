// Package fakes provides test doubles for standard interfaces.
//
//   - fs.go: in-memory file system with access counting
//   - logger.go: slog.Handler that records formatted messages
//   - container.go: map-backed service container
//   - http.go: net/http middleware and handler doubles
//   - cert.go: self-signed certificates for TLS tests
//
// The doubles are safe for concurrent use.
package fakes
