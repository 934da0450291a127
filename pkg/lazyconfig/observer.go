package lazyconfig

import "time"

// Observer receives loader events. Implementations must be safe for
// concurrent use when the same Loader serves several goroutines.
type Observer interface {
	// CollectionCreated is called once per Load/LoadAll. label is empty for LoadAll.
	CollectionCreated(label string, paths int)
	// FileLoaded is called after a file was read and decoded.
	FileLoaded(path string, elapsed time.Duration)
	// FileFailed is called when a file fails the checks or decoding.
	FileFailed(path string, code string)
}

type nopObserver struct{}

func (nopObserver) CollectionCreated(string, int)    {}
func (nopObserver) FileLoaded(string, time.Duration) {}
func (nopObserver) FileFailed(string, string)        {}
