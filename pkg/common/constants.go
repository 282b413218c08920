package common

import "time"

const (
	GuardrailCacheTTL    = 30 * time.Minute
	EffectiveSetCacheTTL = 5 * time.Minute
	OverrideCacheTTL     = 5 * time.Minute
	FunctionCacheTTL     = 1 * time.Hour

	RunIDHeader     = "X-Run-Id"
	RequestIDHeader = "X-Request-Id"
)
