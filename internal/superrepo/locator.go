package superrepo

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/temirov/fastrepo/internal/filesystem"
)

const (
	// MarkerDirectoryName is the directory whose presence identifies a super-repository root.
	MarkerDirectoryName = ".repo"

	rootNotFoundMessageConstant         = ".repo not found in the directory tree"
	startDirectoryErrorTemplateConstant = "resolve start directory %s: %w"
	rootNotFoundErrorTemplateConstant   = "%w (searched upward from %s)"
)

// ErrRootNotFound indicates that no ancestor of the start directory holds a .repo directory.
var ErrRootNotFound = errors.New(rootNotFoundMessageConstant)

// Locator finds super-repository roots.
type Locator struct {
	fileSystem filesystem.FileSystem
}

// NewLocator constructs a Locator; a nil fileSystem selects the operating system.
func NewLocator(fileSystem filesystem.FileSystem) *Locator {
	return &Locator{fileSystem: filesystem.Resolve(fileSystem)}
}

// FindRoot returns the nearest directory, starting at startDirectory and moving
// toward the filesystem root, that contains a .repo directory.
func (locator *Locator) FindRoot(startDirectory string) (string, error) {
	searchDirectory, absError := locator.fileSystem.Abs(startDirectory)
	if absError != nil {
		return "", fmt.Errorf(startDirectoryErrorTemplateConstant, startDirectory, absError)
	}

	for {
		if locator.isMarkerDirectory(filepath.Join(searchDirectory, MarkerDirectoryName)) {
			return searchDirectory, nil
		}

		parentDirectory := filepath.Dir(searchDirectory)
		if parentDirectory == searchDirectory {
			return "", fmt.Errorf(rootNotFoundErrorTemplateConstant, ErrRootNotFound, startDirectory)
		}
		searchDirectory = parentDirectory
	}
}

func (locator *Locator) isMarkerDirectory(candidatePath string) bool {
	fileInfo, statError := locator.fileSystem.Stat(candidatePath)
	if statError != nil {
		return false
	}
	return fileInfo.IsDir()
}
