package request

import "fmt"

// TestBatchRequest evaluates one input against many guardrails. With explicit
// guardrail ids the listed definitions run as given; without, the function's
// enabled effective set runs.
type TestBatchRequest struct {
	Input         string   `json:"input"`
	FunctionID    string   `json:"function_id"`
	Platform      string   `json:"platform"`
	SourceContent string   `json:"source_content"`
	GuardrailIDs  []string `json:"guardrail_ids"`
}

func (r *TestBatchRequest) Validate() error {
	if r.Input == "" {
		return fmt.Errorf("input is required")
	}
	if r.FunctionID == "" && len(r.GuardrailIDs) == 0 {
		return fmt.Errorf("function_id or guardrail_ids is required")
	}
	return nil
}
