package execshell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildStartedMessageForGenericGitCommandIncludesArguments(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"rev-parse", "HEAD"},
			WorkingDirectory: "/workspace/repo",
		},
	}

	require.Equal(t, "Running git rev-parse HEAD (in /workspace/repo)", formatter.BuildStartedMessage(command))
}

func TestBuildFailureMessageForStatusWithoutWorkingDirectory(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"status"}}}

	message := formatter.BuildFailureMessage(command, ExecutionResult{ExitCode: 1})

	require.Equal(t, "Failed to review working tree status in current directory (exit code 1)", message)
}

func TestBuildExecutionFailureMessageForGenericCommand(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"--version"}}}

	message := formatter.BuildExecutionFailureMessage(command, errors.New("boom"))

	require.Equal(t, "git --version failed: boom", message)
}
