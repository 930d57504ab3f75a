package status_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/temirov/fastrepo/internal/manifest"
	"github.com/temirov/fastrepo/internal/status"
)

const testRootDirectoryConstant = "/workspace"

type scriptedProbe struct {
	delay   time.Duration
	report  string
	failure error
}

type scriptedProber struct {
	probes        map[string]scriptedProbe
	activeProbes  atomic.Int32
	peakMutex     sync.Mutex
	peakActive    int32
	observedRoots sync.Map
}

func (prober *scriptedProber) Probe(executionContext context.Context, rootDirectory string, project manifest.Project) (string, error) {
	active := prober.activeProbes.Add(1)
	defer prober.activeProbes.Add(-1)
	prober.peakMutex.Lock()
	if active > prober.peakActive {
		prober.peakActive = active
	}
	prober.peakMutex.Unlock()
	prober.observedRoots.Store(rootDirectory, struct{}{})

	probe, found := prober.probes[project.Name]
	if !found {
		return "", fmt.Errorf("unexpected project %s", project.Name)
	}
	time.Sleep(probe.delay)
	return probe.report, probe.failure
}

func projectsNamed(names ...string) []manifest.Project {
	projects := make([]manifest.Project, 0, len(names))
	for _, name := range names {
		projects = append(projects, manifest.Project{Name: name})
	}
	return projects
}

func TestAggregatorPreservesManifestOrder(testInstance *testing.T) {
	defer goleak.VerifyNone(testInstance)

	prober := &scriptedProber{probes: map[string]scriptedProbe{
		"first":  {delay: 60 * time.Millisecond, report: "project first/"},
		"second": {delay: 0, report: ""},
		"third":  {delay: 30 * time.Millisecond, report: "project third/"},
		"fourth": {delay: 1 * time.Millisecond, report: "project fourth/"},
	}}

	outcomes, aggregateError := status.NewAggregator(prober, 0, status.FailurePolicyReport).Aggregate(context.Background(), testRootDirectoryConstant, projectsNamed("first", "second", "third", "fourth"))
	require.NoError(testInstance, aggregateError)
	require.Len(testInstance, outcomes, 4)
	for outcomeIndex, expectedName := range []string{"first", "second", "third", "fourth"} {
		require.Equal(testInstance, expectedName, outcomes[outcomeIndex].Project.Name)
	}
	require.Equal(testInstance, "project first/\nproject third/\nproject fourth/", status.JoinReports(outcomes))
	require.Empty(testInstance, status.Failures(outcomes))

	_, rootObserved := prober.observedRoots.Load(testRootDirectoryConstant)
	require.True(testInstance, rootObserved)
	require.Greater(testInstance, prober.peakActive, int32(1))
}

func TestAggregatorFailurePolicies(testInstance *testing.T) {
	probeFailure := errors.New("checkout unreadable")

	testCases := []struct {
		name             string
		policy           status.FailurePolicy
		expectError      bool
		expectedReport   string
		expectedFailures []string
	}{
		{
			name:             "report_lists_failures_and_keeps_healthy_projects",
			policy:           status.FailurePolicyReport,
			expectedReport:   "project healthy/",
			expectedFailures: []string{"broken"},
		},
		{
			name:        "abort_discards_every_report",
			policy:      status.FailurePolicyAbort,
			expectError: true,
		},
		{
			name:        "empty_policy_aborts",
			policy:      "",
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			defer goleak.VerifyNone(testInstance)

			prober := &scriptedProber{probes: map[string]scriptedProbe{
				"healthy": {delay: 5 * time.Millisecond, report: "project healthy/"},
				"broken":  {failure: probeFailure},
				"clean":   {},
			}}

			outcomes, aggregateError := status.NewAggregator(prober, 0, testCase.policy).Aggregate(context.Background(), testRootDirectoryConstant, projectsNamed("healthy", "broken", "clean"))
			if testCase.expectError {
				require.ErrorIs(testInstance, aggregateError, probeFailure)
				require.EqualError(testInstance, aggregateError, "project broken/: checkout unreadable")
				require.Nil(testInstance, outcomes)
				return
			}

			require.NoError(testInstance, aggregateError)
			require.Equal(testInstance, testCase.expectedReport, status.JoinReports(outcomes))
			failedNames := make([]string, 0)
			for _, failedOutcome := range status.Failures(outcomes) {
				require.ErrorIs(testInstance, failedOutcome.Failure, probeFailure)
				failedNames = append(failedNames, failedOutcome.Project.Name)
			}
			require.Equal(testInstance, testCase.expectedFailures, failedNames)
		})
	}
}

func TestAggregatorHonorsParallelLimit(testInstance *testing.T) {
	defer goleak.VerifyNone(testInstance)

	probes := map[string]scriptedProbe{}
	names := make([]string, 0, 8)
	for projectIndex := 0; projectIndex < 8; projectIndex++ {
		name := fmt.Sprintf("project-%d", projectIndex)
		names = append(names, name)
		probes[name] = scriptedProbe{delay: 5 * time.Millisecond}
	}
	prober := &scriptedProber{probes: probes}

	outcomes, aggregateError := status.NewAggregator(prober, 2, status.FailurePolicyReport).Aggregate(context.Background(), testRootDirectoryConstant, projectsNamed(names...))
	require.NoError(testInstance, aggregateError)
	require.Len(testInstance, outcomes, 8)
	require.LessOrEqual(testInstance, prober.peakActive, int32(2))
	require.Empty(testInstance, status.JoinReports(outcomes))
}

func TestAggregatorHandlesEmptyManifest(testInstance *testing.T) {
	outcomes, aggregateError := status.NewAggregator(&scriptedProber{}, 0, "").Aggregate(context.Background(), testRootDirectoryConstant, nil)
	require.NoError(testInstance, aggregateError)
	require.Empty(testInstance, outcomes)
	require.Empty(testInstance, status.JoinReports(outcomes))
}

func TestParseFailurePolicy(testInstance *testing.T) {
	policy, parseError := status.ParseFailurePolicy(" Abort ")
	require.NoError(testInstance, parseError)
	require.Equal(testInstance, status.FailurePolicyAbort, policy)

	_, parseError = status.ParseFailurePolicy("ignore")
	require.EqualError(testInstance, parseError, "unsupported failure policy: ignore")
}
