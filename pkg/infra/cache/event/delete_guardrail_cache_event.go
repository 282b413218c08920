package event

type DeleteGuardrailCacheEvent struct {
	GuardrailID string `json:"guardrail_id"`
}

func (e DeleteGuardrailCacheEvent) Type() string {
	return DeleteGuardrailCacheEventType
}
