package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
)

// FileSystem is the read-only view of the disk used to locate and parse a super-repository.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	Abs(path string) (string, error)
	ReadFile(path string) ([]byte, error)
}

// OSFileSystem implements FileSystem using the operating system primitives.
type OSFileSystem struct{}

// Stat retrieves file metadata, following symbolic links.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// Abs resolves an absolute path.
func (OSFileSystem) Abs(path string) (string, error) {
	return filepath.Abs(path)
}

// ReadFile reads file contents.
func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Resolve returns fileSystem, or OSFileSystem when it is nil.
func Resolve(fileSystem FileSystem) FileSystem {
	if fileSystem == nil {
		return OSFileSystem{}
	}
	return fileSystem
}
