package status

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/temirov/fastrepo/internal/manifest"
)

const (
	// FailurePolicyReport probes every project and reports failures next to the healthy projects.
	FailurePolicyReport FailurePolicy = "report"
	// FailurePolicyAbort fails the whole run on the first probe failure.
	FailurePolicyAbort FailurePolicy = "abort"

	unsupportedFailurePolicyTemplateConstant = "unsupported failure policy: %s"
	projectFailureTemplateConstant           = "project %s/: %w"
)

// FailurePolicy selects how the Aggregator treats projects that cannot be probed.
// FailurePolicyAbort is the default.
type FailurePolicy string

// ParseFailurePolicy normalizes a configured failure policy.
func ParseFailurePolicy(value string) (FailurePolicy, error) {
	switch FailurePolicy(strings.ToLower(strings.TrimSpace(value))) {
	case FailurePolicyReport:
		return FailurePolicyReport, nil
	case FailurePolicyAbort:
		return FailurePolicyAbort, nil
	default:
		return "", fmt.Errorf(unsupportedFailurePolicyTemplateConstant, value)
	}
}

// ProjectProber renders the report of one project.
type ProjectProber interface {
	Probe(executionContext context.Context, rootDirectory string, project manifest.Project) (string, error)
}

// ProjectOutcome holds the result of probing one project. Failure is nil when Report is valid.
type ProjectOutcome struct {
	Project manifest.Project
	Report  string
	Failure error
}

// Aggregator probes projects concurrently and keeps their results in manifest order.
type Aggregator struct {
	prober      ProjectProber
	maxParallel int
	policy      FailurePolicy
}

// NewAggregator constructs an Aggregator. A maxParallel of zero or less leaves fan-out unbounded,
// and an empty policy selects FailurePolicyAbort.
func NewAggregator(prober ProjectProber, maxParallel int, policy FailurePolicy) *Aggregator {
	if len(policy) == 0 {
		policy = FailurePolicyAbort
	}
	return &Aggregator{prober: prober, maxParallel: maxParallel, policy: policy}
}

// Aggregate probes every project and returns one outcome per project at its manifest position.
// Under FailurePolicyAbort the first failure is returned instead and no outcomes are produced.
func (aggregator *Aggregator) Aggregate(executionContext context.Context, rootDirectory string, projects []manifest.Project) ([]ProjectOutcome, error) {
	outcomes := make([]ProjectOutcome, len(projects))
	probeGroup, groupContext := errgroup.WithContext(executionContext)
	if aggregator.maxParallel > 0 {
		probeGroup.SetLimit(aggregator.maxParallel)
	}

	for projectIndex, project := range projects {
		probeGroup.Go(func() error {
			report, probeError := aggregator.prober.Probe(groupContext, rootDirectory, project)
			if probeError != nil && aggregator.policy == FailurePolicyAbort {
				return fmt.Errorf(projectFailureTemplateConstant, project.EffectivePath(), probeError)
			}
			outcomes[projectIndex] = ProjectOutcome{Project: project, Report: report, Failure: probeError}
			return nil
		})
	}

	if waitError := probeGroup.Wait(); waitError != nil {
		return nil, waitError
	}
	return outcomes, nil
}

// JoinReports concatenates the non-empty reports of successful outcomes with newlines.
func JoinReports(outcomes []ProjectOutcome) string {
	reports := make([]string, 0, len(outcomes))
	for _, outcome := range outcomes {
		if outcome.Failure != nil || len(outcome.Report) == 0 {
			continue
		}
		reports = append(reports, outcome.Report)
	}
	return strings.Join(reports, reportLineSeparatorConstant)
}

// Failures returns the outcomes whose probe failed, in manifest order.
func Failures(outcomes []ProjectOutcome) []ProjectOutcome {
	failed := make([]ProjectOutcome, 0)
	for _, outcome := range outcomes {
		if outcome.Failure != nil {
			failed = append(failed, outcome)
		}
	}
	return failed
}
