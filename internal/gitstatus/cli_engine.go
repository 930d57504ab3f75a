package gitstatus

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/temirov/fastrepo/internal/changes"
	"github.com/temirov/fastrepo/internal/execshell"
	"github.com/temirov/fastrepo/internal/filesystem"
)

const (
	gitMetadataEntryNameConstant       = ".git"
	gitStatusSubcommandConstant        = "status"
	gitPorcelainFlagConstant           = "--porcelain=v1"
	gitNullTerminatedFlagConstant      = "-z"
	gitUntrackedFilesFlagConstant      = "--untracked-files=all"
	gitIgnoredFlagConstant             = "--ignored=no"
	gitOptionalLocksVariableConstant   = "GIT_OPTIONAL_LOCKS"
	gitOptionalLocksDisabledConstant   = "0"
	porcelainEntrySeparatorConstant    = "\x00"
	porcelainPathOffsetConstant        = 3
	porcelainUntrackedCodeConstant     = '?'
	porcelainIgnoredCodeConstant       = '!'
	porcelainUnmergedCodeConstant      = 'U'
	porcelainRenamedCodeConstant       = 'R'
	porcelainCopiedCodeConstant        = 'C'
	missingMetadataTemplateConstant    = "%w: %s has no %s entry"
	metadataInspectionTemplateConstant = "%w: %s: %w"
	commandFailureTemplateConstant     = "%w: %s: %w"
	gitNotFoundTemplateConstant        = "%w: %w"
	gitExecutionTemplateConstant       = "run git status in %s: %w"
	gitNotFoundMessageConstant         = "git executable not found"
	porcelainParseTemplateConstant     = "parse git status of %s: %w"
	malformedPorcelainEntryTemplate    = "unexpected git status entry %q"
)

// ErrGitExecutableNotFound indicates that the git executable could not be resolved on PATH.
var ErrGitExecutableNotFound = errors.New(gitNotFoundMessageConstant)

// GitExecutor runs git commands.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// GitCLIEngine computes repository status by running the git executable.
type GitCLIEngine struct {
	executor   GitExecutor
	fileSystem filesystem.FileSystem
}

// NewGitCLIEngine constructs a GitCLIEngine; a nil fileSystem selects the operating system.
func NewGitCLIEngine(executor GitExecutor, fileSystem filesystem.FileSystem) *GitCLIEngine {
	return &GitCLIEngine{executor: executor, fileSystem: filesystem.Resolve(fileSystem)}
}

// Probe runs git status inside repositoryPath and returns its changed paths sorted by path.
func (engine *GitCLIEngine) Probe(executionContext context.Context, repositoryPath string) ([]changes.Record, error) {
	metadataPath := filepath.Join(repositoryPath, gitMetadataEntryNameConstant)
	if _, statError := engine.fileSystem.Stat(metadataPath); statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return nil, fmt.Errorf(missingMetadataTemplateConstant, changes.ErrRepositoryUnavailable, repositoryPath, gitMetadataEntryNameConstant)
		}
		return nil, fmt.Errorf(metadataInspectionTemplateConstant, changes.ErrRepositoryUnavailable, repositoryPath, statError)
	}

	executionResult, executionError := engine.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments: []string{
			gitStatusSubcommandConstant,
			gitPorcelainFlagConstant,
			gitNullTerminatedFlagConstant,
			gitUntrackedFilesFlagConstant,
			gitIgnoredFlagConstant,
		},
		WorkingDirectory:     repositoryPath,
		EnvironmentVariables: map[string]string{gitOptionalLocksVariableConstant: gitOptionalLocksDisabledConstant},
	})
	if executionError != nil {
		return nil, classifyExecutionError(repositoryPath, executionError)
	}

	records, parseError := ParsePorcelain(executionResult.StandardOutput)
	if parseError != nil {
		return nil, fmt.Errorf(porcelainParseTemplateConstant, repositoryPath, parseError)
	}
	return records, nil
}

// classifyExecutionError marks only a git run that exited non-zero as an unavailable repository.
func classifyExecutionError(repositoryPath string, executionError error) error {
	var commandFailure execshell.CommandFailedError
	if errors.As(executionError, &commandFailure) {
		return fmt.Errorf(commandFailureTemplateConstant, changes.ErrRepositoryUnavailable, repositoryPath, executionError)
	}
	if errors.Is(executionError, exec.ErrNotFound) {
		return fmt.Errorf(gitNotFoundTemplateConstant, ErrGitExecutableNotFound, executionError)
	}
	return fmt.Errorf(gitExecutionTemplateConstant, repositoryPath, executionError)
}

// ParsePorcelain decodes NUL-terminated `git status --porcelain=v1 -z` output.
func ParsePorcelain(output string) ([]changes.Record, error) {
	entries := strings.Split(output, porcelainEntrySeparatorConstant)
	records := make([]changes.Record, 0, len(entries))

	for entryIndex := 0; entryIndex < len(entries); entryIndex++ {
		entry := entries[entryIndex]
		if len(entry) == 0 {
			continue
		}
		if len(entry) <= porcelainPathOffsetConstant || entry[2] != ' ' {
			return nil, fmt.Errorf(malformedPorcelainEntryTemplate, entry)
		}

		indexCode := entry[0]
		worktreeCode := entry[1]
		changedPath := entry[porcelainPathOffsetConstant:]

		if indexCode == porcelainRenamedCodeConstant || indexCode == porcelainCopiedCodeConstant ||
			worktreeCode == porcelainRenamedCodeConstant || worktreeCode == porcelainCopiedCodeConstant {
			entryIndex++
		}

		if indexCode == porcelainIgnoredCodeConstant {
			continue
		}

		records = append(records, changes.Record{Path: changedPath, Kind: porcelainKind(indexCode, worktreeCode)})
	}

	sort.Slice(records, func(leftIndex int, rightIndex int) bool {
		return records[leftIndex].Path < records[rightIndex].Path
	})
	return records, nil
}

func porcelainKind(indexCode byte, worktreeCode byte) changes.Kind {
	if isUnmerged(indexCode, worktreeCode) {
		return changes.KindConflicted
	}
	if indexCode == porcelainUntrackedCodeConstant {
		return changes.KindWorktreeNew
	}

	kind := changes.KindUnchanged
	switch indexCode {
	case 'A', porcelainCopiedCodeConstant:
		kind |= changes.KindIndexNew
	case 'M':
		kind |= changes.KindIndexModified
	case 'D':
		kind |= changes.KindIndexDeleted
	case porcelainRenamedCodeConstant:
		kind |= changes.KindIndexRenamed
	case 'T':
		kind |= changes.KindIndexTypeChanged
	}

	switch worktreeCode {
	case 'A':
		kind |= changes.KindWorktreeNew
	case 'M':
		kind |= changes.KindWorktreeModified
	case 'D':
		kind |= changes.KindWorktreeDeleted
	case 'T':
		kind |= changes.KindWorktreeTypeChanged
	case porcelainRenamedCodeConstant:
		kind |= changes.KindWorktreeRenamed
	}
	return kind
}

func isUnmerged(indexCode byte, worktreeCode byte) bool {
	if indexCode == porcelainUnmergedCodeConstant || worktreeCode == porcelainUnmergedCodeConstant {
		return true
	}
	return (indexCode == 'A' && worktreeCode == 'A') || (indexCode == 'D' && worktreeCode == 'D')
}
