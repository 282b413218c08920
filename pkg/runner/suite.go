package runner

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ThreatPilot/SentinelRail/pkg/groundtruth"
	"github.com/ThreatPilot/SentinelRail/pkg/infra/prometheus"
	"github.com/ThreatPilot/SentinelRail/pkg/pipeline"
	"github.com/ThreatPilot/SentinelRail/pkg/resolver"
	"github.com/ThreatPilot/SentinelRail/pkg/scoring"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

// TestCase is one labelled suite input. ExpectedAnswer, when present and a
// model runs, triggers ground-truth scoring of the model response.
type TestCase struct {
	ID                 string `json:"id,omitempty"`
	Input              string `json:"input"`
	SourceContent      string `json:"source_content,omitempty"`
	ExpectedShouldPass bool   `json:"expected_should_pass"`
	ExpectedAnswer     string `json:"expected_answer,omitempty"`
	Notes              string `json:"notes,omitempty"`
}

// SuiteRequest runs every case against one function's resolved set. UseModel
// switches from input-only pipelines to full model round trips.
type SuiteRequest struct {
	FunctionID string
	Platform   string
	UseModel   bool
	Cases      []TestCase
	Set        *resolver.EffectiveSet
}

type SuiteCase struct {
	Index              int                 `json:"index"`
	ID                 string              `json:"id,omitempty"`
	ExpectedShouldPass bool                `json:"expected_should_pass"`
	ActualPassed       *bool               `json:"actual_passed"`
	Classification     scoring.Class       `json:"classification,omitempty"`
	Error              bool                `json:"error,omitempty"`
	Message            string              `json:"message,omitempty"`
	Pipeline           *pipeline.Result    `json:"pipeline,omitempty"`
	GroundTruth        *groundtruth.Result `json:"ground_truth,omitempty"`
}

type SuiteReport struct {
	RunID      string          `json:"run_id"`
	FunctionID string          `json:"function_id"`
	Platform   string          `json:"platform,omitempty"`
	Cases      []SuiteCase     `json:"cases"`
	Metrics    scoring.Metrics `json:"metrics"`
	LatencyMs  int64           `json:"latency_ms"`
}

// Suite runs every case through the pipeline concurrently and scores the
// outcomes against their labels. Case order in the report follows the
// request, whatever order the workers finished in.
func (r *Runner) Suite(ctx context.Context, req *SuiteRequest) (*SuiteReport, error) {
	if req == nil || req.Set == nil {
		return nil, fmt.Errorf("suite request requires a resolved effective set")
	}

	started := time.Now()
	report := &SuiteReport{
		RunID:      uuid.NewString(),
		FunctionID: req.FunctionID,
		Platform:   req.Platform,
		Cases:      make([]SuiteCase, len(req.Cases)),
	}

	sem := semaphore.NewWeighted(r.suiteConcurrency)
	var wg sync.WaitGroup

	for i, tc := range req.Cases {
		if err := sem.Acquire(ctx, 1); err != nil {
			report.Cases[i] = SuiteCase{
				Index:              i,
				ID:                 tc.ID,
				ExpectedShouldPass: tc.ExpectedShouldPass,
				Error:              true,
				Message:            fmt.Sprintf("suite aborted: %v", err),
			}
			continue
		}

		wg.Add(1)
		go func(idx int, tc TestCase) {
			defer wg.Done()
			defer sem.Release(1)
			report.Cases[idx] = r.runCase(ctx, req, idx, tc)
		}(i, tc)
	}

	wg.Wait()

	sort.Slice(report.Cases, func(a, b int) bool {
		return report.Cases[a].Index < report.Cases[b].Index
	})

	samples := make([]scoring.Sample, 0, len(report.Cases))
	errorCount := 0
	for _, c := range report.Cases {
		if c.Error || c.ActualPassed == nil {
			errorCount++
			continue
		}
		samples = append(samples, scoring.Sample{
			ExpectedShouldPass: c.ExpectedShouldPass,
			ActualPassed:       *c.ActualPassed,
		})
	}
	report.Metrics = scoring.Compute(samples, errorCount)
	prometheus.SuiteRunsTotal.WithLabelValues(req.FunctionID, string(report.Metrics.Quality)).Inc()

	report.LatencyMs = time.Since(started).Milliseconds()
	return report, nil
}

func (r *Runner) runCase(ctx context.Context, req *SuiteRequest, idx int, tc TestCase) (sc SuiteCase) {
	sc = SuiteCase{
		Index:              idx,
		ID:                 tc.ID,
		ExpectedShouldPass: tc.ExpectedShouldPass,
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.WithFields(logrus.Fields{
				"case":  idx,
				"panic": fmt.Sprintf("%v", rec),
			}).Error("recovered from suite case panic")
			sc = SuiteCase{
				Index:              idx,
				ID:                 tc.ID,
				ExpectedShouldPass: tc.ExpectedShouldPass,
				Error:              true,
				Message:            "internal error while running test case",
			}
		}
	}()

	res, err := r.pipeline.Run(ctx, &pipeline.Request{
		FunctionID:    req.FunctionID,
		Platform:      req.Platform,
		Input:         tc.Input,
		SourceContent: tc.SourceContent,
		SkipModel:     !req.UseModel,
		Set:           req.Set,
	})
	if err != nil {
		sc.Error = true
		sc.Message = err.Error()
		return sc
	}

	actual := res.OverallPassed
	sc.ActualPassed = &actual
	sc.Classification = scoring.Classify(tc.ExpectedShouldPass, actual)
	sc.Pipeline = res

	if tc.ExpectedAnswer != "" && res.Model.Invoked && res.Model.Error == "" {
		gt := groundtruth.Validate(tc.Input, tc.ExpectedAnswer, res.Model.Response)
		sc.GroundTruth = &gt
	}

	return sc
}
