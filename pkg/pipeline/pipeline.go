package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreatPilot/SentinelRail/pkg/domain/guardrail"
	"github.com/ThreatPilot/SentinelRail/pkg/evaluator"
	"github.com/ThreatPilot/SentinelRail/pkg/infra/httpx"
	"github.com/ThreatPilot/SentinelRail/pkg/infra/prometheus"
	"github.com/ThreatPilot/SentinelRail/pkg/infra/providers"
	"github.com/ThreatPilot/SentinelRail/pkg/resolver"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Stage names double as the blockedBy values reported on early exit.
const (
	StageInput  = "input_validation"
	StageModel  = "model_invocation"
	StageOutput = "output_validation"
)

// ModelSettings fixes the model collaborator for every run this pipeline
// serves. Timeout bounds each individual invocation.
type ModelSettings struct {
	Provider    string
	Model       string
	MaxTokens   int
	Temperature float64
	Credentials providers.Credentials
	Timeout     time.Duration
}

// Request is one pipeline run. The caller supplies the already-resolved
// effective set; the pipeline only partitions and executes it. SkipModel
// runs the input stage alone, for suites without a model collaborator.
type Request struct {
	RunID         string
	FunctionID    string
	Platform      string
	Input         string
	SourceContent string
	SystemPrompt  string
	SkipModel     bool
	Set           *resolver.EffectiveSet
}

type StageResult struct {
	Name      string              `json:"name"`
	Passed    bool                `json:"passed"`
	Outcomes  []evaluator.Outcome `json:"outcomes"`
	LatencyMs int64               `json:"latency_ms"`
}

type ModelStage struct {
	Invoked   bool             `json:"invoked"`
	Provider  string           `json:"provider,omitempty"`
	Model     string           `json:"model,omitempty"`
	Response  string           `json:"response,omitempty"`
	Usage     *providers.Usage `json:"usage,omitempty"`
	LatencyMs int64            `json:"latency_ms"`
	Error     string           `json:"error,omitempty"`
}

type Result struct {
	RunID          string       `json:"run_id"`
	FunctionID     string       `json:"function_id"`
	Platform       string       `json:"platform,omitempty"`
	Input          StageResult  `json:"input_stage"`
	Model          ModelStage   `json:"model_stage"`
	Output         *StageResult `json:"output_stage,omitempty"`
	OverallPassed  bool         `json:"overall_passed"`
	BlockedBy      string       `json:"blocked_by,omitempty"`
	BlockedReason  string       `json:"blocked_reason,omitempty"`
	TotalLatencyMs int64        `json:"total_latency_ms"`
	StartedAt      time.Time    `json:"started_at"`
	CompletedAt    time.Time    `json:"completed_at"`
}

type Pipeline struct {
	logger    *logrus.Logger
	evaluator *evaluator.Evaluator
	client    providers.Client
	breaker   httpx.CircuitBreaker
	model     ModelSettings
}

// NewPipeline wires the orchestrator. A nil client degrades every run to
// input-only mode instead of failing, so the engine stays useful without
// model credentials.
func NewPipeline(
	logger *logrus.Logger,
	eval *evaluator.Evaluator,
	client providers.Client,
	breaker httpx.CircuitBreaker,
	model ModelSettings,
) *Pipeline {
	if model.Timeout <= 0 {
		model.Timeout = 60 * time.Second
	}
	return &Pipeline{
		logger:    logger,
		evaluator: eval,
		client:    client,
		breaker:   breaker,
		model:     model,
	}
}

// Run executes INPUT_CHECK -> MODEL_CALL -> OUTPUT_CHECK. A failing input
// stage blocks the run before the model is ever invoked; a failing model call
// blocks before the output stage. Prompt-instruction rule bodies ride along
// as model instructions and are never executed. Blocked runs are normal
// results, not errors; Run errs only on a bad request or a cancelled context.
func (p *Pipeline) Run(ctx context.Context, req *Request) (*Result, error) {
	if req == nil || req.Set == nil {
		return nil, fmt.Errorf("pipeline request requires a resolved effective set")
	}

	started := time.Now()
	res := &Result{
		RunID:      req.RunID,
		FunctionID: req.FunctionID,
		Platform:   req.Platform,
		StartedAt:  started,
	}
	if res.RunID == "" {
		res.RunID = uuid.NewString()
	}

	var inputRules, outputRules []guardrail.Guardrail
	var instructions []string
	for _, entry := range req.Set.Enabled() {
		switch entry.ValidationType {
		case guardrail.ValidationPromptInstruction:
			if entry.RuleBody != "" {
				instructions = append(instructions, entry.RuleBody)
			}
		case guardrail.ValidationInput:
			inputRules = append(inputRules, entry.Guardrail)
		case guardrail.ValidationOutput:
			outputRules = append(outputRules, entry.Guardrail)
		}
	}

	evalCtx := &evaluator.Context{
		FunctionID:    req.FunctionID,
		Platform:      req.Platform,
		SourceContent: req.SourceContent,
	}

	res.Input = p.runStage(ctx, StageInput, inputRules, req.Input, evalCtx)
	if !res.Input.Passed {
		p.block(res, StageInput, firstFailure(res.Input.Outcomes))
		p.finish(res, started)
		return res, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if req.SkipModel || p.client == nil {
		res.Model = ModelStage{Invoked: false}
		res.OverallPassed = true
		p.finish(res, started)
		return res, nil
	}

	res.Model = p.invokeModel(ctx, req, instructions)
	if res.Model.Error != "" {
		p.block(res, StageModel, res.Model.Error)
		p.finish(res, started)
		return res, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	output := p.runStage(ctx, StageOutput, outputRules, res.Model.Response, evalCtx)
	res.Output = &output
	if !output.Passed {
		p.block(res, StageOutput, firstFailure(output.Outcomes))
		p.finish(res, started)
		return res, nil
	}

	res.OverallPassed = true
	p.finish(res, started)
	return res, nil
}

func (p *Pipeline) runStage(
	ctx context.Context,
	name string,
	rules []guardrail.Guardrail,
	text string,
	evalCtx *evaluator.Context,
) StageResult {
	stage := StageResult{Name: name, Passed: true, Outcomes: []evaluator.Outcome{}}
	start := time.Now()

	for i := range rules {
		outcome := p.evaluator.Evaluate(ctx, &rules[i], text, evalCtx)
		stage.Outcomes = append(stage.Outcomes, outcome)
		prometheus.EvaluationsTotal.WithLabelValues(
			evalCtx.FunctionID, string(rules[i].Category), string(outcome.Status),
		).Inc()
		if outcome.Failed() {
			stage.Passed = false
		}
	}

	stage.LatencyMs = time.Since(start).Milliseconds()
	if prometheus.Config.EnableLatency {
		prometheus.StageLatency.WithLabelValues(evalCtx.FunctionID, name).
			Observe(float64(stage.LatencyMs))
	}
	return stage
}

func (p *Pipeline) invokeModel(ctx context.Context, req *Request, instructions []string) ModelStage {
	stage := ModelStage{
		Invoked:  true,
		Provider: p.model.Provider,
		Model:    p.model.Model,
	}

	cfg := &providers.Config{
		Credentials:  p.model.Credentials,
		Model:        p.model.Model,
		MaxTokens:    p.model.MaxTokens,
		Temperature:  p.model.Temperature,
		SystemPrompt: req.SystemPrompt,
		Instructions: instructions,
	}

	callCtx, cancel := context.WithTimeout(ctx, p.model.Timeout)
	defer cancel()

	var resp *providers.CompletionResponse
	start := time.Now()
	err := p.breaker.Execute(func() error {
		var askErr error
		resp, askErr = p.client.Ask(callCtx, cfg, req.Input)
		return askErr
	})
	stage.LatencyMs = time.Since(start).Milliseconds()

	if prometheus.Config.EnableLatency {
		prometheus.ModelInvocationLatency.WithLabelValues(p.model.Provider, p.model.Model).
			Observe(float64(stage.LatencyMs))
	}

	if err != nil {
		invErr := &ModelInvocationError{Provider: p.model.Provider, Model: p.model.Model, Err: err}
		stage.Error = invErr.Error()
		prometheus.ModelInvocationsTotal.WithLabelValues(p.model.Provider, p.model.Model, "error").Inc()
		p.logger.WithError(err).WithFields(logrus.Fields{
			"function_id": req.FunctionID,
			"provider":    p.model.Provider,
		}).Error("model invocation failed")
		return stage
	}

	stage.Response = resp.Response
	stage.Usage = &resp.Usage
	if resp.Model != "" {
		stage.Model = resp.Model
	}
	prometheus.ModelInvocationsTotal.WithLabelValues(p.model.Provider, p.model.Model, "success").Inc()
	return stage
}

func (p *Pipeline) block(res *Result, stage, reason string) {
	res.OverallPassed = false
	res.BlockedBy = stage
	res.BlockedReason = reason
	prometheus.PipelineBlockedTotal.WithLabelValues(res.FunctionID, stage).Inc()
}

func (p *Pipeline) finish(res *Result, started time.Time) {
	res.CompletedAt = time.Now()
	res.TotalLatencyMs = res.CompletedAt.Sub(started).Milliseconds()

	status := "completed"
	if res.BlockedBy != "" {
		status = "blocked"
	}
	prometheus.PipelineRunsTotal.WithLabelValues(res.FunctionID, status).Inc()
}

func firstFailure(outcomes []evaluator.Outcome) string {
	for _, o := range outcomes {
		if o.Failed() {
			if o.Message != "" {
				return fmt.Sprintf("%s: %s", o.GuardrailID, o.Message)
			}
			return o.GuardrailID
		}
	}
	return ""
}
