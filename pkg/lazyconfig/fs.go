package lazyconfig

import (
	"os"
)

// FileSystem is the file access a Collection needs: an existence check,
// a readability check, and a full read.
type FileSystem interface {
	// IsFile reports whether path names an existing regular file.
	IsFile(path string) bool
	// IsReadable reports whether path can be opened for reading.
	IsReadable(path string) bool
	// ReadFile returns the file contents.
	ReadFile(path string) ([]byte, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// IsFile follows symlinks.
func (OSFS) IsFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// IsReadable opens the file and closes it again.
func (OSFS) IsReadable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	f.Close()
	return true
}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Decoder turns the raw bytes of one configuration file into a value.
// The value is opaque to the loader.
type Decoder[V any] interface {
	Decode(path string, data []byte) (V, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc[V any] func(path string, data []byte) (V, error)

// Decode calls f(path, data).
func (f DecoderFunc[V]) Decode(path string, data []byte) (V, error) {
	return f(path, data)
}
