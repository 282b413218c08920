package event

type DeleteFunctionCacheEvent struct {
	FunctionID  string `json:"function_id"`
	GuardrailID string `json:"guardrail_id,omitempty"`
}

func (e DeleteFunctionCacheEvent) Type() string {
	return DeleteFunctionCacheEventType
}
