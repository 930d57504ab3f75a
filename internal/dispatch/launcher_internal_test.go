package dispatch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOSProcessLauncherSkipsRunningExecutable(testInstance *testing.T) {
	if runtime.GOOS == "windows" {
		testInstance.Skip("requires a POSIX shell")
	}

	selfDirectory := testInstance.TempDir()
	delegateDirectory := testInstance.TempDir()
	selfScript := filepath.Join(selfDirectory, DefaultExecutable)
	require.NoError(testInstance, os.WriteFile(selfScript, []byte("#!/bin/sh\nexit 9\n"), 0o755))
	require.NoError(testInstance, os.WriteFile(filepath.Join(delegateDirectory, DefaultExecutable), []byte("#!/bin/sh\nexit 4\n"), 0o755))
	testInstance.Setenv(pathEnvironmentVariableConstant, strings.Join([]string{selfDirectory, delegateDirectory}, string(os.PathListSeparator)))

	launcher := NewOSProcessLauncher(nil, &bytes.Buffer{}, &bytes.Buffer{})
	launcher.selfPath = canonicalPath(selfScript)

	exitCode, launchError := launcher.Launch(context.Background(), DefaultExecutable, nil)
	require.NoError(testInstance, launchError)
	require.Equal(testInstance, 4, exitCode)
}
