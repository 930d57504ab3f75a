package status

import (
	"fmt"
	"strings"

	"github.com/temirov/fastrepo/internal/utils"
)

const (
	// EngineGoGit computes status in process with go-git.
	EngineGoGit = "go-git"
	// EngineGitCLI computes status by running the git executable.
	EngineGitCLI = "git"

	configurationColorKeyConstant         = "color"
	configurationEngineKeyConstant        = "engine"
	configurationFailurePolicyKeyConstant = "failure_policy"
	configurationMaxParallelKeyConstant   = "max_parallel"
	configurationKeySeparatorConstant     = "."
	unsupportedEngineTemplateConstant     = "unsupported status engine: %s"
	negativeMaxParallelTemplateConstant   = "max_parallel must not be negative: %d"
	invalidConfigurationTemplateConstant  = "invalid status configuration: %w"
)

// CommandConfiguration captures configuration values for the status command.
type CommandConfiguration struct {
	Color         string `mapstructure:"color"`
	Engine        string `mapstructure:"engine"`
	FailurePolicy string `mapstructure:"failure_policy"`
	MaxParallel   int    `mapstructure:"max_parallel"`
}

// Options are validated status command settings.
type Options struct {
	ColorMode     utils.ColorMode
	Engine        string
	FailurePolicy FailurePolicy
	MaxParallel   int
}

// DefaultCommandConfiguration provides baseline configuration values for the status command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Color:         string(utils.ColorModeAuto),
		Engine:        EngineGoGit,
		FailurePolicy: string(FailurePolicyAbort),
		MaxParallel:   0,
	}
}

// DefaultConfigurationValues produces Viper defaults for the status command below rootKey.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparatorConstant + configurationColorKeyConstant:         defaults.Color,
		rootKey + configurationKeySeparatorConstant + configurationEngineKeyConstant:        defaults.Engine,
		rootKey + configurationKeySeparatorConstant + configurationFailurePolicyKeyConstant: defaults.FailurePolicy,
		rootKey + configurationKeySeparatorConstant + configurationMaxParallelKeyConstant:   defaults.MaxParallel,
	}
}

// Options validates the configuration.
func (configuration CommandConfiguration) Options() (Options, error) {
	colorMode, colorError := utils.ParseColorMode(configuration.Color)
	if colorError != nil {
		return Options{}, fmt.Errorf(invalidConfigurationTemplateConstant, colorError)
	}

	engineName := strings.ToLower(strings.TrimSpace(configuration.Engine))
	if engineName != EngineGoGit && engineName != EngineGitCLI {
		return Options{}, fmt.Errorf(invalidConfigurationTemplateConstant, fmt.Errorf(unsupportedEngineTemplateConstant, configuration.Engine))
	}

	failurePolicy, policyError := ParseFailurePolicy(configuration.FailurePolicy)
	if policyError != nil {
		return Options{}, fmt.Errorf(invalidConfigurationTemplateConstant, policyError)
	}

	if configuration.MaxParallel < 0 {
		return Options{}, fmt.Errorf(invalidConfigurationTemplateConstant, fmt.Errorf(negativeMaxParallelTemplateConstant, configuration.MaxParallel))
	}

	return Options{
		ColorMode:     colorMode,
		Engine:        engineName,
		FailurePolicy: failurePolicy,
		MaxParallel:   configuration.MaxParallel,
	}, nil
}
