package dispatch_test

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/temirov/fastrepo/internal/dispatch"
)

const testSubcommandConstant = "status"

func newGlobalFlags() (*pflag.FlagSet, *string) {
	globalFlags := pflag.NewFlagSet("global", pflag.ContinueOnError)
	colorValue := globalFlags.String("color", "auto", "color mode")
	globalFlags.String("config", "", "configuration file")
	globalFlags.String("log-level", "", "log level")
	return globalFlags, colorValue
}

func TestClassifierClassify(testInstance *testing.T) {
	testCases := []struct {
		name         string
		arguments    []string
		expectedMode dispatch.Mode
	}{
		{name: "bare_status", arguments: []string{"status"}, expectedMode: dispatch.ModeRecognized},
		{name: "global_flag_before_status", arguments: []string{"--color", "never", "status"}, expectedMode: dispatch.ModeRecognized},
		{name: "global_flag_after_status", arguments: []string{"status", "--log-level=debug"}, expectedMode: dispatch.ModeRecognized},
		{name: "terminator_after_status", arguments: []string{"status", "--"}, expectedMode: dispatch.ModeRecognized},
		{name: "no_arguments", arguments: nil, expectedMode: dispatch.ModeDelegate},
		{name: "other_subcommand", arguments: []string{"sync", "--force"}, expectedMode: dispatch.ModeDelegate},
		{name: "status_with_project", arguments: []string{"status", "platform/lib"}, expectedMode: dispatch.ModeDelegate},
		{name: "status_help", arguments: []string{"status", "--help"}, expectedMode: dispatch.ModeDelegate},
		{name: "short_help", arguments: []string{"-h"}, expectedMode: dispatch.ModeDelegate},
		{name: "unknown_flag", arguments: []string{"status", "-j4"}, expectedMode: dispatch.ModeDelegate},
		{name: "missing_flag_value", arguments: []string{"status", "--color"}, expectedMode: dispatch.ModeDelegate},
		{name: "status_after_terminator", arguments: []string{"--", "status", "extra"}, expectedMode: dispatch.ModeDelegate},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			globalFlags, colorValue := newGlobalFlags()
			decision := dispatch.NewClassifier(testSubcommandConstant, globalFlags).Classify(testCase.arguments)
			require.Equal(testInstance, testCase.expectedMode, decision.Mode, decision.Mode.String())
			require.Equal(testInstance, len(testCase.arguments), len(decision.Arguments))
			for argumentIndex, argument := range testCase.arguments {
				require.Equal(testInstance, argument, decision.Arguments[argumentIndex])
			}
			require.Equal(testInstance, "auto", *colorValue)
			require.False(testInstance, globalFlags.Changed("color"))
		})
	}
}

func TestClassifierWithoutGlobalFlags(testInstance *testing.T) {
	classifier := dispatch.NewClassifier(testSubcommandConstant, nil)
	require.Equal(testInstance, dispatch.ModeRecognized, classifier.Classify([]string{"status"}).Mode)
	require.Equal(testInstance, dispatch.ModeDelegate, classifier.Classify([]string{"--color", "never", "status"}).Mode)
}
