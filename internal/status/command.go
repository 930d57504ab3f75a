package status

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/fastrepo/internal/changes"
	"github.com/temirov/fastrepo/internal/execshell"
	"github.com/temirov/fastrepo/internal/filesystem"
	"github.com/temirov/fastrepo/internal/gitstatus"
	"github.com/temirov/fastrepo/internal/manifest"
	"github.com/temirov/fastrepo/internal/superrepo"
	"github.com/temirov/fastrepo/internal/utils"
)

const (
	// CommandName is the subcommand token handled by this package.
	CommandName = "status"

	commandShortDescriptionConstant = "Show the working tree status of every project"
	commandLongDescriptionConstant  = "status reports staged and unstaged changes of every project listed in the super-repository manifest, probing projects in parallel."
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the status command configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the Cobra command for status reporting.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	Engine                changes.Engine
	FileSystem            filesystem.FileSystem
	WorkingDirectory      string
}

// Build constructs the status command.
func (builder *CommandBuilder) Build() *cobra.Command {
	return &cobra.Command{
		Use:   CommandName,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	options, optionsError := builder.resolveConfiguration().Options()
	if optionsError != nil {
		return optionsError
	}

	logger := builder.resolveLogger()
	engine, engineError := builder.resolveEngine(logger, options.Engine)
	if engineError != nil {
		return engineError
	}

	workingDirectory, workingDirectoryError := builder.resolveWorkingDirectory()
	if workingDirectoryError != nil {
		return workingDirectoryError
	}

	renderer := NewReportRenderer(utils.NewRenderer(utils.ColorEnabled(options.ColorMode, command.OutOrStdout())))
	prober, proberError := NewProber(logger, engine, renderer)
	if proberError != nil {
		return proberError
	}

	fileSystem := filesystem.Resolve(builder.FileSystem)
	service, serviceError := NewService(Dependencies{
		Logger:      logger,
		Locator:     superrepo.NewLocator(fileSystem),
		Loader:      manifest.NewLoader(fileSystem),
		Aggregator:  NewAggregator(prober, options.MaxParallel, options.FailurePolicy),
		Renderer:    renderer,
		Output:      command.OutOrStdout(),
		ErrorOutput: command.ErrOrStderr(),
	})
	if serviceError != nil {
		return serviceError
	}

	return service.Run(command.Context(), workingDirectory)
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}

func (builder *CommandBuilder) resolveEngine(logger *zap.Logger, engineName string) (changes.Engine, error) {
	if builder.Engine != nil {
		return builder.Engine, nil
	}

	if engineName != EngineGitCLI {
		return gitstatus.NewGoGitEngine(), nil
	}

	shellExecutor, creationError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner())
	if creationError != nil {
		return nil, creationError
	}
	return gitstatus.NewGitCLIEngine(shellExecutor, builder.FileSystem), nil
}

func (builder *CommandBuilder) resolveWorkingDirectory() (string, error) {
	if len(builder.WorkingDirectory) > 0 {
		return builder.WorkingDirectory, nil
	}
	return os.Getwd()
}
