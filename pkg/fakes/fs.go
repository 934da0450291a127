package fakes

import (
	"io/fs"
	"sync"
)

// File is an entry of FS.
type File struct {
	Data       []byte
	Unreadable bool
	Dir        bool
}

// FS is an in-memory file system exposing existence, readability and read
// operations. It counts every operation per path.
type FS struct {
	mu     sync.Mutex
	files  map[string]File
	checks map[string]int
	reads  map[string]int
}

// NewFS creates an FS from path/content pairs.
func NewFS(files map[string]string) *FS {
	f := &FS{
		files:  make(map[string]File, len(files)),
		checks: make(map[string]int),
		reads:  make(map[string]int),
	}
	for path, data := range files {
		f.files[path] = File{Data: []byte(data)}
	}
	return f
}

// Write creates or replaces a readable file.
func (f *FS) Write(path, data string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[path] = File{Data: []byte(data)}
}

// Put stores an arbitrary entry.
func (f *FS) Put(path string, file File) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[path] = file
}

// Remove deletes path.
func (f *FS) Remove(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.files, path)
}

// IsFile reports whether path exists and is not a directory.
func (f *FS) IsFile(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checks[path]++
	file, ok := f.files[path]
	return ok && !file.Dir
}

// IsReadable reports whether path exists and is readable.
func (f *FS) IsReadable(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checks[path]++
	file, ok := f.files[path]
	return ok && !file.Unreadable
}

// ReadFile returns a copy of the file contents.
func (f *FS) ReadFile(path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads[path]++
	file, ok := f.files[path]
	if !ok || file.Dir {
		return nil, &fs.PathError{Op: "read", Path: path, Err: fs.ErrNotExist}
	}
	if file.Unreadable {
		return nil, &fs.PathError{Op: "read", Path: path, Err: fs.ErrPermission}
	}
	return append([]byte(nil), file.Data...), nil
}

// Checks returns the number of existence/readability checks made on path.
func (f *FS) Checks(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.checks[path]
}

// Reads returns the number of reads made on path.
func (f *FS) Reads(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads[path]
}

// Accesses returns the total number of operations on any path.
func (f *FS) Accesses() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.checks {
		n += c
	}
	for _, c := range f.reads {
		n += c
	}
	return n
}
