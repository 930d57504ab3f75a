package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	pathEnvironmentVariableConstant = "PATH"
	externalToolNotFoundMessage     = "external tool not found"
	externalToolNotFoundTemplate    = "%w: %s is not on PATH: %w"
	externalToolStartTemplate       = "start %s: %w"
	externalToolSignaledTemplate    = "%s terminated without an exit code: %w"
)

// ErrExternalToolNotFound indicates that the delegate executable could not be resolved.
var ErrExternalToolNotFound = errors.New(externalToolNotFoundMessage)

// ProcessLauncher runs an external executable and reports its exit code.
type ProcessLauncher interface {
	Launch(executionContext context.Context, executable string, arguments []string) (int, error)
}

// OSProcessLauncher runs executables found on PATH with the given standard streams.
// An executable resolving to the running binary is skipped so the tool never re-invokes itself.
type OSProcessLauncher struct {
	standardInput  io.Reader
	standardOutput io.Writer
	standardError  io.Writer
	selfPath       string
}

// NewOSProcessLauncher constructs a launcher bound to the provided streams.
func NewOSProcessLauncher(standardInput io.Reader, standardOutput io.Writer, standardError io.Writer) *OSProcessLauncher {
	launcher := &OSProcessLauncher{
		standardInput:  standardInput,
		standardOutput: standardOutput,
		standardError:  standardError,
	}
	if executablePath, executableError := os.Executable(); executableError == nil {
		launcher.selfPath = canonicalPath(executablePath)
	}
	return launcher
}

// Launch runs executable with arguments and returns its exit code.
func (launcher *OSProcessLauncher) Launch(executionContext context.Context, executable string, arguments []string) (int, error) {
	resolvedPath, resolveError := launcher.resolve(executable)
	if resolveError != nil {
		return 0, resolveError
	}

	command := exec.CommandContext(executionContext, resolvedPath, arguments...)
	command.Stdin = launcher.standardInput
	command.Stdout = launcher.standardOutput
	command.Stderr = launcher.standardError

	runError := command.Run()
	if runError == nil {
		return 0, nil
	}

	var exitError *exec.ExitError
	if errors.As(runError, &exitError) {
		exitCode := exitError.ExitCode()
		if exitCode < 0 {
			return 0, fmt.Errorf(externalToolSignaledTemplate, executable, runError)
		}
		return exitCode, nil
	}
	if errors.Is(runError, exec.ErrNotFound) {
		return 0, fmt.Errorf(externalToolNotFoundTemplate, ErrExternalToolNotFound, executable, runError)
	}
	return 0, fmt.Errorf(externalToolStartTemplate, executable, runError)
}

func (launcher *OSProcessLauncher) resolve(executable string) (string, error) {
	if strings.ContainsRune(executable, filepath.Separator) {
		resolvedPath, lookError := exec.LookPath(executable)
		if lookError != nil {
			return "", fmt.Errorf(externalToolNotFoundTemplate, ErrExternalToolNotFound, executable, lookError)
		}
		return resolvedPath, nil
	}

	for _, directory := range filepath.SplitList(os.Getenv(pathEnvironmentVariableConstant)) {
		if !filepath.IsAbs(directory) {
			continue
		}
		candidatePath, lookError := exec.LookPath(filepath.Join(directory, executable))
		if lookError != nil {
			continue
		}
		if len(launcher.selfPath) > 0 && canonicalPath(candidatePath) == launcher.selfPath {
			continue
		}
		return candidatePath, nil
	}
	return "", fmt.Errorf(externalToolNotFoundTemplate, ErrExternalToolNotFound, executable, exec.ErrNotFound)
}

func canonicalPath(candidatePath string) string {
	absolutePath, absError := filepath.Abs(candidatePath)
	if absError != nil {
		return candidatePath
	}
	resolvedPath, resolveError := filepath.EvalSymlinks(absolutePath)
	if resolveError != nil {
		return absolutePath
	}
	return resolvedPath
}
