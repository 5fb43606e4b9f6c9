// Package fs defines the filesystem abstraction used for repository caches.
// Implementations live in subpackages; fs/billy provides OS and in-memory backends.
package fs

import (
	"io/fs"
	"os"
)

// File represents an open file handle supporting basic I/O operations.
// Implementations should behave consistently with the standard library.
type File interface {
	Close() error
	Name() string
	Read(p []byte) (n int, err error)
	Stat() (fs.FileInfo, error)
	Write(p []byte) (n int, err error)
}

// Filesystem is the set of operations repository caches need.
// Paths are slash-separated and interpreted relative to the implementation's root.
type Filesystem interface {
	Create(name string) (File, error)
	Open(name string) (File, error)

	// Exists reports whether path exists. A missing path is not an error.
	Exists(path string) (bool, error)
	Stat(name string) (os.FileInfo, error)
	ReadDir(dirname string) ([]os.FileInfo, error)

	MkdirAll(path string, perm os.FileMode) error
	ReadFile(path string) ([]byte, error)
	WriteFile(filename string, data []byte, perm os.FileMode) error

	// Rename moves oldpath to newpath. Directories are moved with their contents.
	Rename(oldpath, newpath string) error
	Remove(name string) error
	// RemoveAll removes path and any children. A missing path is not an error.
	RemoveAll(path string) error
}
