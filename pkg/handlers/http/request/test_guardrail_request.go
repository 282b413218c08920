package request

import "fmt"

type TestGuardrailRequest struct {
	Input         string `json:"input"`
	FunctionID    string `json:"function_id"`
	Platform      string `json:"platform"`
	SourceContent string `json:"source_content"`
}

func (r *TestGuardrailRequest) Validate() error {
	if r.Input == "" {
		return fmt.Errorf("input is required")
	}
	return nil
}
