package common

type contextKey string

const (
	TraceIdKey         contextKey = "trace_id"
	RunIdContextKey    contextKey = "run_id"
	FunctionContextKey contextKey = "function_id"
	PlatformContextKey contextKey = "platform"
	StageKey           contextKey = "stage"
	LatencyContextKey  contextKey = "__execution_time"
)
