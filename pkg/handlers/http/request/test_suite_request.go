package request

import "fmt"

type SuiteCaseRequest struct {
	ID                 string `json:"id"`
	Input              string `json:"input"`
	SourceContent      string `json:"source_content"`
	ExpectedShouldPass bool   `json:"expected_should_pass"`
	ExpectedAnswer     string `json:"expected_answer"`
	Notes              string `json:"notes"`
}

type TestSuiteRequest struct {
	FunctionID string             `json:"function_id"`
	Platform   string             `json:"platform"`
	UseModel   bool               `json:"use_model"`
	Cases      []SuiteCaseRequest `json:"cases"`
}

func (r *TestSuiteRequest) Validate() error {
	if r.FunctionID == "" {
		return fmt.Errorf("function_id is required")
	}
	if len(r.Cases) == 0 {
		return fmt.Errorf("cases is required")
	}
	for i, c := range r.Cases {
		if c.Input == "" {
			return fmt.Errorf("case input at index %d is required", i)
		}
	}
	return nil
}
