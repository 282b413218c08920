package request

import "fmt"

type TestPipelineRequest struct {
	FunctionID    string `json:"function_id"`
	Platform      string `json:"platform"`
	Input         string `json:"input"`
	SourceContent string `json:"source_content"`
	SystemPrompt  string `json:"system_prompt"`
	UseModel      bool   `json:"use_model"`
}

func (r *TestPipelineRequest) Validate() error {
	if r.FunctionID == "" {
		return fmt.Errorf("function_id is required")
	}
	if r.Input == "" {
		return fmt.Errorf("input is required")
	}
	return nil
}
