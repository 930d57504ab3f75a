package dispatch

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

const (
	// DefaultExecutable is the external tool receiving unrecognized commands.
	DefaultExecutable = "repo"

	delegatingMessageConstant      = "delegating to external tool"
	delegatedMessageConstant       = "external tool exited"
	logFieldExecutableConstant     = "executable"
	logFieldArgumentsConstant      = "arguments"
	logFieldExitCodeConstant       = "exit_code"
	launcherMissingMessageConstant = "process launcher not configured"
)

var errLauncherNotConfigured = errors.New(launcherMissingMessageConstant)

// Delegator forwards argument vectors to the external tool.
type Delegator struct {
	logger     *zap.Logger
	launcher   ProcessLauncher
	executable string
}

// NewDelegator constructs a Delegator; an empty executable selects DefaultExecutable.
func NewDelegator(logger *zap.Logger, launcher ProcessLauncher, executable string) (*Delegator, error) {
	if launcher == nil {
		return nil, errLauncherNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	trimmedExecutable := strings.TrimSpace(executable)
	if len(trimmedExecutable) == 0 {
		trimmedExecutable = DefaultExecutable
	}
	return &Delegator{logger: logger, launcher: launcher, executable: trimmedExecutable}, nil
}

// Delegate runs the external tool with arguments unchanged and returns its exit code.
func (delegator *Delegator) Delegate(executionContext context.Context, arguments []string) (int, error) {
	delegator.logger.Info(delegatingMessageConstant, zap.String(logFieldExecutableConstant, delegator.executable), zap.Strings(logFieldArgumentsConstant, arguments))

	exitCode, launchError := delegator.launcher.Launch(executionContext, delegator.executable, arguments)
	if launchError != nil {
		return 0, launchError
	}

	delegator.logger.Debug(delegatedMessageConstant, zap.String(logFieldExecutableConstant, delegator.executable), zap.Int(logFieldExitCodeConstant, exitCode))
	return exitCode, nil
}
