package gitstatus

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/go-git/go-git/v5"

	"github.com/temirov/fastrepo/internal/changes"
)

const (
	repositoryUnavailableTemplateConstant = "%w: %s: %w"
	bareRepositoryTemplateConstant        = "%w: %s is a bare repository"
	statusReadTemplateConstant            = "read status of %s: %w"
)

// GoGitEngine computes repository status with go-git.
type GoGitEngine struct{}

// NewGoGitEngine constructs a GoGitEngine.
func NewGoGitEngine() *GoGitEngine {
	return &GoGitEngine{}
}

// Probe opens the repository at repositoryPath and returns its changed paths sorted by path.
func (engine *GoGitEngine) Probe(executionContext context.Context, repositoryPath string) ([]changes.Record, error) {
	if contextError := executionContext.Err(); contextError != nil {
		return nil, contextError
	}

	repository, openError := git.PlainOpen(repositoryPath)
	if openError != nil {
		return nil, fmt.Errorf(repositoryUnavailableTemplateConstant, changes.ErrRepositoryUnavailable, repositoryPath, openError)
	}

	worktree, worktreeError := repository.Worktree()
	if worktreeError != nil {
		if errors.Is(worktreeError, git.ErrIsBareRepository) {
			return nil, fmt.Errorf(bareRepositoryTemplateConstant, changes.ErrRepositoryUnavailable, repositoryPath)
		}
		return nil, fmt.Errorf(repositoryUnavailableTemplateConstant, changes.ErrRepositoryUnavailable, repositoryPath, worktreeError)
	}

	worktreeStatus, statusError := worktree.Status()
	if statusError != nil {
		return nil, fmt.Errorf(statusReadTemplateConstant, repositoryPath, statusError)
	}

	records := make([]changes.Record, 0, len(worktreeStatus))
	for changedPath, fileStatus := range worktreeStatus {
		kind := stagingKind(fileStatus.Staging) | worktreeKind(fileStatus.Worktree)
		if fileStatus.Staging == git.UpdatedButUnmerged || fileStatus.Worktree == git.UpdatedButUnmerged {
			kind = changes.KindConflicted
		}
		if kind == changes.KindUnchanged {
			continue
		}
		records = append(records, changes.Record{Path: changedPath, Kind: kind})
	}

	sort.Slice(records, func(leftIndex int, rightIndex int) bool {
		return records[leftIndex].Path < records[rightIndex].Path
	})
	return records, nil
}

func stagingKind(code git.StatusCode) changes.Kind {
	switch code {
	case git.Added, git.Copied:
		return changes.KindIndexNew
	case git.Modified:
		return changes.KindIndexModified
	case git.Deleted:
		return changes.KindIndexDeleted
	case git.Renamed:
		return changes.KindIndexRenamed
	default:
		return changes.KindUnchanged
	}
}

func worktreeKind(code git.StatusCode) changes.Kind {
	switch code {
	case git.Untracked:
		return changes.KindWorktreeNew
	case git.Modified:
		return changes.KindWorktreeModified
	case git.Deleted:
		return changes.KindWorktreeDeleted
	case git.Renamed:
		return changes.KindWorktreeRenamed
	default:
		return changes.KindUnchanged
	}
}
