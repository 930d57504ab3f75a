package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/fastrepo/internal/changes"
	"github.com/temirov/fastrepo/internal/dispatch"
	"github.com/temirov/fastrepo/internal/status"
	"github.com/temirov/fastrepo/internal/utils"
)

const (
	applicationNameConstant                 = "repo"
	applicationShortDescriptionConstant     = "Fast parallel status for multi-repository workspaces"
	applicationLongDescriptionConstant      = "repo reports the status of every project of a manifest-based super-repository in parallel and hands every other command to the external repo tool."
	applicationDirectoryNameConstant        = "fastrepo"
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format (structured or console)."
	colorFlagNameConstant                   = "color"
	colorFlagUsageConstant                  = "Override the configured color mode (auto, always or never)."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	statusConfigurationKeyConstant          = "status"
	delegateConfigurationKeyConstant        = "delegate"
	delegateExecutableConfigKeyConstant     = delegateConfigurationKeyConstant + ".executable"
	environmentPrefixConstant               = "FASTREPO"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	delegateConfigurationMessageConstant    = "configuration unavailable, delegating with defaults"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	logFieldErrorConstant                   = "error"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	errorLabelConstant                      = "Error:"
	errorReportedMessageConstant            = "command failed"
	errorLineTemplateConstant               = "%s %s\n"
	exitCodeSuccessConstant                 = 0
	exitCodeFailureConstant                 = 1
)

var errorLabelColor = lipgloss.Color("1")

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common   ApplicationCommonConfiguration   `mapstructure:"common"`
	Status   status.CommandConfiguration      `mapstructure:"status"`
	Delegate ApplicationDelegateConfiguration `mapstructure:"delegate"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ApplicationDelegateConfiguration names the external tool receiving unrecognized commands.
type ApplicationDelegateConfiguration struct {
	Executable string `mapstructure:"executable"`
}

// ApplicationDependencies overrides process-wide collaborators; zero values select the operating system.
type ApplicationDependencies struct {
	Input            io.Reader
	Output           io.Writer
	ErrorOutput      io.Writer
	Launcher         dispatch.ProcessLauncher
	StatusEngine     changes.Engine
	WorkingDirectory string
}

// Application wires the Cobra root command, configuration loader, structured logger and delegation.
type Application struct {
	rootCommand           *cobra.Command
	configurationLoader   *utils.ConfigurationLoader
	loggerFactory         *utils.LoggerFactory
	logger                *zap.Logger
	configuration         ApplicationConfiguration
	configurationMetadata utils.LoadedConfiguration
	configurationFilePath string
	logLevelFlagValue     string
	logFormatFlagValue    string
	colorFlagValue        string
	dependencies          ApplicationDependencies
}

// NewApplication assembles an application bound to the process standard streams.
func NewApplication() *Application {
	return NewApplicationWithDependencies(ApplicationDependencies{})
}

// NewApplicationWithDependencies assembles a fully wired CLI application instance.
func NewApplicationWithDependencies(dependencies ApplicationDependencies) *Application {
	if dependencies.Input == nil {
		dependencies.Input = os.Stdin
	}
	if dependencies.Output == nil {
		dependencies.Output = os.Stdout
	}
	if dependencies.ErrorOutput == nil {
		dependencies.ErrorOutput = os.Stderr
	}
	if dependencies.Launcher == nil {
		dependencies.Launcher = dispatch.NewOSProcessLauncher(dependencies.Input, dependencies.Output, dependencies.ErrorOutput)
	}

	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		utils.DefaultSearchPaths(applicationDirectoryNameConstant),
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader: configurationLoader,
		loggerFactory:       utils.NewLoggerFactory(),
		logger:              zap.NewNop(),
		configuration:       defaultApplicationConfiguration(),
		dependencies:        dependencies,
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
	}

	cobraCommand.SetIn(dependencies.Input)
	cobraCommand.SetOut(dependencies.Output)
	cobraCommand.SetErr(dependencies.ErrorOutput)
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.colorFlagValue, colorFlagNameConstant, "", colorFlagUsageConstant)

	statusBuilder := status.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		ConfigurationProvider: func() status.CommandConfiguration {
			return application.configuration.Status
		},
		Engine:           dependencies.StatusEngine,
		WorkingDirectory: dependencies.WorkingDirectory,
	}
	cobraCommand.AddCommand(statusBuilder.Build())

	application.rootCommand = cobraCommand

	return application
}

// Execute builds a fresh application instance, runs arguments and returns the process exit code.
func Execute(arguments []string) int {
	return NewApplication().Run(context.Background(), arguments)
}

// Run executes arguments in process when they request a status report and delegates them to
// the external tool otherwise. It returns the process exit code.
func (application *Application) Run(executionContext context.Context, arguments []string) int {
	decision := dispatch.NewClassifier(status.CommandName, application.rootCommand.PersistentFlags()).Classify(arguments)
	if decision.Mode == dispatch.ModeDelegate {
		return application.delegate(executionContext, decision.Arguments)
	}

	application.rootCommand.SetArgs(decision.Arguments)
	executionError := application.rootCommand.ExecuteContext(executionContext)
	if syncError := application.flushLogger(); syncError != nil && executionError == nil {
		executionError = fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	if executionError != nil {
		application.reportError(executionError)
		return exitCodeFailureConstant
	}
	return exitCodeSuccessConstant
}

func (application *Application) delegate(executionContext context.Context, arguments []string) int {
	configurationError := application.loadConfiguration()
	if configurationError != nil {
		application.configuration = defaultApplicationConfiguration()
	}
	if loggerError := application.createLogger(); loggerError != nil {
		application.logger = zap.NewNop()
	}
	if configurationError != nil {
		application.logger.Warn(delegateConfigurationMessageConstant, zap.String(logFieldErrorConstant, configurationError.Error()))
	}

	delegator, delegatorError := dispatch.NewDelegator(application.logger, application.dependencies.Launcher, application.configuration.Delegate.Executable)
	if delegatorError != nil {
		application.reportError(delegatorError)
		return exitCodeFailureConstant
	}

	exitCode, delegateError := delegator.Delegate(executionContext, arguments)
	_ = application.flushLogger()
	if delegateError != nil {
		application.reportError(delegateError)
		return exitCodeFailureConstant
	}
	return exitCode
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	if loadError := application.loadConfiguration(); loadError != nil {
		return loadError
	}

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	if application.persistentFlagChanged(command, colorFlagNameConstant) {
		application.configuration.Status.Color = application.colorFlagValue
	}

	if loggerError := application.createLogger(); loggerError != nil {
		return loggerError
	}

	application.logger.Info(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	return nil
}

func (application *Application) loadConfiguration() error {
	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultConfigurationValues(), &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration
	return nil
}

func (application *Application) createLogger() error {
	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
		application.dependencies.ErrorOutput,
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger
	return nil
}

func (application *Application) reportError(failure error) {
	application.logger.Debug(errorReportedMessageConstant, zap.Error(failure))

	colorMode, colorError := utils.ParseColorMode(application.configuration.Status.Color)
	if colorError != nil {
		colorMode = utils.ColorModeAuto
	}
	renderer := utils.NewRenderer(utils.ColorEnabled(colorMode, application.dependencies.ErrorOutput))
	errorLabel := renderer.NewStyle().Foreground(errorLabelColor).Render(errorLabelConstant)
	fmt.Fprintf(application.dependencies.ErrorOutput, errorLineTemplateConstant, errorLabel, strings.TrimSpace(failure.Error()))
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}

func defaultApplicationConfiguration() ApplicationConfiguration {
	return ApplicationConfiguration{
		Common: ApplicationCommonConfiguration{
			LogLevel:  string(utils.LogLevelWarn),
			LogFormat: string(utils.LogFormatConsole),
		},
		Status:   status.DefaultCommandConfiguration(),
		Delegate: ApplicationDelegateConfiguration{Executable: dispatch.DefaultExecutable},
	}
}

func defaultConfigurationValues() map[string]any {
	defaults := defaultApplicationConfiguration()
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:     defaults.Common.LogLevel,
		commonLogFormatConfigKeyConstant:    defaults.Common.LogFormat,
		delegateExecutableConfigKeyConstant: defaults.Delegate.Executable,
	}
	for configurationKey, configurationValue := range status.DefaultConfigurationValues(statusConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}
	return defaultValues
}
