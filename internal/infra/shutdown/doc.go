// Package shutdown runs cleanup hooks when a long-running devkit command
// is interrupted.
//
// Usage:
//
//	h := shutdown.NewHandler(5 * time.Second)
//	h.OnShutdown(watcher.Close)
//	err := h.Wait(ctx) // returns after SIGINT, SIGTERM or ctx cancellation
package shutdown
