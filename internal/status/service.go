package status

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/temirov/fastrepo/internal/manifest"
)

const (
	rootLocatedMessageConstant         = "super-repository root located"
	manifestLoadedMessageConstant      = "manifest loaded"
	reportWrittenMessageConstant       = "status report written"
	logFieldRootConstant               = "root"
	logFieldProjectCountConstant       = "projects"
	logFieldFailureCountConstant       = "failures"
	probeFailuresTemplateConstant      = "%w for %d of %d projects"
	writeReportErrorTemplateConstant   = "write status report: %w"
	writeFailuresErrorTemplateConstant = "write probe failures: %w"
	probeFailuresMessageConstant       = "status probe failed"
	locatorMissingMessageConstant      = "root locator not configured"
	loaderMissingMessageConstant       = "manifest loader not configured"
	aggregatorMissingMessageConstant   = "aggregator not configured"
	reportTerminatorConstant           = "\n"
)

// Errors returned by Service.
var (
	ErrProbeFailures           = errors.New(probeFailuresMessageConstant)
	errLocatorNotConfigured    = errors.New(locatorMissingMessageConstant)
	errLoaderNotConfigured     = errors.New(loaderMissingMessageConstant)
	errAggregatorNotConfigured = errors.New(aggregatorMissingMessageConstant)
)

// RootLocator finds the super-repository root enclosing a directory.
type RootLocator interface {
	FindRoot(startDirectory string) (string, error)
}

// ManifestLoader reads the manifest of a super-repository root.
type ManifestLoader interface {
	Load(rootDirectory string) (manifest.Manifest, error)
}

// Dependencies enumerates collaborators consumed by Service.
type Dependencies struct {
	Logger      *zap.Logger
	Locator     RootLocator
	Loader      ManifestLoader
	Aggregator  *Aggregator
	Renderer    *ReportRenderer
	Output      io.Writer
	ErrorOutput io.Writer
}

// Service runs the status pipeline.
type Service struct {
	logger      *zap.Logger
	locator     RootLocator
	loader      ManifestLoader
	aggregator  *Aggregator
	renderer    *ReportRenderer
	output      io.Writer
	errorOutput io.Writer
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.Locator == nil {
		return nil, errLocatorNotConfigured
	}
	if dependencies.Loader == nil {
		return nil, errLoaderNotConfigured
	}
	if dependencies.Aggregator == nil {
		return nil, errAggregatorNotConfigured
	}

	service := &Service{
		logger:      dependencies.Logger,
		locator:     dependencies.Locator,
		loader:      dependencies.Loader,
		aggregator:  dependencies.Aggregator,
		renderer:    dependencies.Renderer,
		output:      dependencies.Output,
		errorOutput: dependencies.ErrorOutput,
	}
	if service.logger == nil {
		service.logger = zap.NewNop()
	}
	if service.renderer == nil {
		service.renderer = NewReportRenderer(nil)
	}
	if service.output == nil {
		service.output = io.Discard
	}
	if service.errorOutput == nil {
		service.errorOutput = io.Discard
	}
	return service, nil
}

// Run reports the status of every project of the super-repository enclosing workingDirectory.
// Nothing is written when every project is clean.
func (service *Service) Run(executionContext context.Context, workingDirectory string) error {
	rootDirectory, locateError := service.locator.FindRoot(workingDirectory)
	if locateError != nil {
		return locateError
	}
	service.logger.Debug(rootLocatedMessageConstant, zap.String(logFieldRootConstant, rootDirectory))

	loadedManifest, loadError := service.loader.Load(rootDirectory)
	if loadError != nil {
		return loadError
	}
	service.logger.Debug(manifestLoadedMessageConstant, zap.Int(logFieldProjectCountConstant, len(loadedManifest.Projects)))

	outcomes, aggregateError := service.aggregator.Aggregate(executionContext, rootDirectory, loadedManifest.Projects)
	if aggregateError != nil {
		return aggregateError
	}

	report := JoinReports(outcomes)
	if len(report) > 0 {
		if _, writeError := io.WriteString(service.output, report+reportTerminatorConstant); writeError != nil {
			return fmt.Errorf(writeReportErrorTemplateConstant, writeError)
		}
	}

	failedOutcomes := Failures(outcomes)
	service.logger.Debug(reportWrittenMessageConstant, zap.Int(logFieldProjectCountConstant, len(outcomes)), zap.Int(logFieldFailureCountConstant, len(failedOutcomes)))
	if len(failedOutcomes) == 0 {
		return nil
	}

	for _, failedOutcome := range failedOutcomes {
		failureLine := service.renderer.RenderFailure(failedOutcome.Project.EffectivePath(), failedOutcome.Failure)
		if _, writeError := io.WriteString(service.errorOutput, failureLine+reportTerminatorConstant); writeError != nil {
			return fmt.Errorf(writeFailuresErrorTemplateConstant, writeError)
		}
	}
	return fmt.Errorf(probeFailuresTemplateConstant, ErrProbeFailures, len(failedOutcomes), len(outcomes))
}
