package runner

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ThreatPilot/SentinelRail/pkg/domain/guardrail"
	"github.com/ThreatPilot/SentinelRail/pkg/evaluator"
	"github.com/ThreatPilot/SentinelRail/pkg/pipeline"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

// Evaluator is the slice of the executor the runner needs. Narrowing it here
// lets tests inject misbehaving implementations.
type Evaluator interface {
	Evaluate(ctx context.Context, def *guardrail.Guardrail, text string, evalCtx *evaluator.Context) evaluator.Outcome
}

// PipelineRunner is the slice of the pipeline the suite runner needs.
type PipelineRunner interface {
	Run(ctx context.Context, req *pipeline.Request) (*pipeline.Result, error)
}

// Runner fans test evaluations out over a bounded worker pool. Every
// per-item failure is isolated into an error entry; a batch or suite never
// aborts early because one case misbehaved.
type Runner struct {
	logger           *logrus.Logger
	evaluator        Evaluator
	pipeline         PipelineRunner
	batchConcurrency int64
	suiteConcurrency int64
}

func NewRunner(logger *logrus.Logger, eval Evaluator, pipe PipelineRunner, batchConcurrency, suiteConcurrency int) *Runner {
	if batchConcurrency <= 0 {
		batchConcurrency = 8
	}
	if suiteConcurrency <= 0 {
		suiteConcurrency = 4
	}
	return &Runner{
		logger:           logger,
		evaluator:        eval,
		pipeline:         pipe,
		batchConcurrency: int64(batchConcurrency),
		suiteConcurrency: int64(suiteConcurrency),
	}
}

// BatchItem pairs a requested guardrail id with its resolved definition. A
// nil definition marks a lookup miss and surfaces as an error entry.
type BatchItem struct {
	GuardrailID string
	Def         *guardrail.Guardrail
}

type BatchEntry struct {
	GuardrailID string             `json:"guardrail_id"`
	Error       bool               `json:"error,omitempty"`
	Message     string             `json:"message,omitempty"`
	Outcome     *evaluator.Outcome `json:"outcome,omitempty"`
}

type BatchSummary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

type BatchReport struct {
	RunID     string       `json:"run_id"`
	Results   []BatchEntry `json:"results"`
	Summary   BatchSummary `json:"summary"`
	LatencyMs int64        `json:"latency_ms"`
}

type indexedEntry struct {
	idx   int
	entry BatchEntry
}

// Batch evaluates one input against every item concurrently. Results come
// back sorted by guardrail id regardless of completion order.
func (r *Runner) Batch(ctx context.Context, input string, items []BatchItem, evalCtx *evaluator.Context) *BatchReport {
	started := time.Now()
	report := &BatchReport{
		RunID:   uuid.NewString(),
		Results: make([]BatchEntry, len(items)),
	}

	sem := semaphore.NewWeighted(r.batchConcurrency)
	entries := make(chan indexedEntry, len(items))
	var wg sync.WaitGroup

	for i, item := range items {
		if err := sem.Acquire(ctx, 1); err != nil {
			entries <- indexedEntry{i, BatchEntry{
				GuardrailID: item.GuardrailID,
				Error:       true,
				Message:     fmt.Sprintf("evaluation aborted: %v", err),
			}}
			continue
		}

		wg.Add(1)
		go func(idx int, item BatchItem) {
			defer wg.Done()
			defer sem.Release(1)
			entries <- indexedEntry{idx, r.evaluateItem(ctx, input, item, evalCtx)}
		}(i, item)
	}

	wg.Wait()
	close(entries)

	for e := range entries {
		report.Results[e.idx] = e.entry
	}

	sort.SliceStable(report.Results, func(a, b int) bool {
		return report.Results[a].GuardrailID < report.Results[b].GuardrailID
	})

	for _, entry := range report.Results {
		report.Summary.Total++
		switch {
		case entry.Error:
			report.Summary.Errors++
		case entry.Outcome == nil:
			report.Summary.Errors++
		case entry.Outcome.Status == evaluator.StatusPass:
			report.Summary.Passed++
		case entry.Outcome.Status == evaluator.StatusFail:
			report.Summary.Failed++
		default:
			report.Summary.Skipped++
		}
	}

	report.LatencyMs = time.Since(started).Milliseconds()
	return report
}

// evaluateItem shields the batch from a misbehaving evaluator: a panic in
// one item becomes that item's error entry.
func (r *Runner) evaluateItem(ctx context.Context, input string, item BatchItem, evalCtx *evaluator.Context) (entry BatchEntry) {
	entry = BatchEntry{GuardrailID: item.GuardrailID}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.WithFields(logrus.Fields{
				"guardrail": item.GuardrailID,
				"panic":     fmt.Sprintf("%v", rec),
			}).Error("recovered from batch item panic")
			entry = BatchEntry{
				GuardrailID: item.GuardrailID,
				Error:       true,
				Message:     "internal error while evaluating guardrail",
			}
		}
	}()

	if item.Def == nil {
		entry.Error = true
		entry.Message = "guardrail not found"
		return entry
	}

	outcome := r.evaluator.Evaluate(ctx, item.Def, input, evalCtx)
	entry.Outcome = &outcome
	return entry
}
