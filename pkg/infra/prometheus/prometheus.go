package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	// Latency buckets in milliseconds. Local checks sit in the low buckets,
	// model invocations in the upper ones.
	latencyBuckets = []float64{
		1, 5, 10,
		25, 50, 100,
		250, 500, 1000,
		2500, 5000, 15000, 60000,
	}

	EvaluationsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinelrail_evaluations_total",
			Help: "Total number of individual guardrail evaluations",
		},
		[]string{"function_id", "category", "status"},
	)

	PipelineRunsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinelrail_pipeline_runs_total",
			Help: "Total number of pipeline runs by final status",
		},
		[]string{"function_id", "status"},
	)

	PipelineBlockedTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinelrail_pipeline_blocked_total",
			Help: "Pipeline runs blocked, by the stage that blocked them",
		},
		[]string{"function_id", "blocked_by"},
	)

	StageLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentinelrail_stage_latency_ms",
			Help:    "Pipeline stage latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"function_id", "stage"},
	)

	ModelInvocationsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinelrail_model_invocations_total",
			Help: "Model provider invocations by outcome",
		},
		[]string{"provider", "model", "status"},
	)

	ModelInvocationLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentinelrail_model_latency_ms",
			Help:    "Model provider invocation latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"provider", "model"},
	)

	ResolutionsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinelrail_resolutions_total",
			Help: "Effective guardrail set resolutions by source",
		},
		[]string{"function_id", "source"},
	)

	SuiteRunsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinelrail_suite_runs_total",
			Help: "Test suite runs by function and resulting quality tier",
		},
		[]string{"function_id", "tier"},
	)

	HTTPRequestsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinelrail_http_requests_total",
			Help: "Admin API requests by method, route and status class",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentinelrail_http_request_latency_ms",
			Help:    "Admin API request latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"method", "route"},
	)
)

type MetricsConfig struct {
	EnableLatency bool // Stage and model latency histograms
}

func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		EnableLatency: true,
	}
}

var Config MetricsConfig

func Initialize(cfg MetricsConfig) {
	Config = cfg
	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry
}
