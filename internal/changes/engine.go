package changes

import (
	"context"
	"errors"
)

// ErrRepositoryUnavailable indicates that a checkout path does not hold a usable repository.
var ErrRepositoryUnavailable = errors.New("repository unavailable")

// Engine computes the changed paths of the repository checked out at repositoryPath.
// Ignored paths are never returned.
type Engine interface {
	Probe(executionContext context.Context, repositoryPath string) ([]Record, error)
}
