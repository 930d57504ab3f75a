package status

import (
	"context"
	"errors"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/fastrepo/internal/changes"
	"github.com/temirov/fastrepo/internal/manifest"
)

const (
	probeStartedMessageConstant   = "probing project"
	probeCompletedMessageConstant = "probed project"
	logFieldProjectConstant       = "project"
	logFieldRepositoryConstant    = "repository"
	logFieldChangeCountConstant   = "changes"
	engineMissingMessageConstant  = "status engine not configured"
)

// ErrEngineNotConfigured indicates that a Prober was built without a status engine.
var ErrEngineNotConfigured = errors.New(engineMissingMessageConstant)

// Prober renders the status report of a single project.
type Prober struct {
	logger   *zap.Logger
	engine   changes.Engine
	renderer *ReportRenderer
}

// NewProber constructs a Prober.
func NewProber(logger *zap.Logger, engine changes.Engine, renderer *ReportRenderer) (*Prober, error) {
	if engine == nil {
		return nil, ErrEngineNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if renderer == nil {
		renderer = NewReportRenderer(nil)
	}
	return &Prober{logger: logger, engine: engine, renderer: renderer}, nil
}

// Probe queries the checkout of project below rootDirectory and returns its rendered report.
func (prober *Prober) Probe(executionContext context.Context, rootDirectory string, project manifest.Project) (string, error) {
	projectPath := project.EffectivePath()
	repositoryPath := filepath.Join(rootDirectory, filepath.FromSlash(projectPath))

	prober.logger.Debug(probeStartedMessageConstant, zap.String(logFieldProjectConstant, projectPath), zap.String(logFieldRepositoryConstant, repositoryPath))

	records, probeError := prober.engine.Probe(executionContext, repositoryPath)
	if probeError != nil {
		return "", probeError
	}

	prober.logger.Debug(probeCompletedMessageConstant, zap.String(logFieldProjectConstant, projectPath), zap.Int(logFieldChangeCountConstant, len(records)))

	return prober.renderer.RenderProject(projectPath, records), nil
}
