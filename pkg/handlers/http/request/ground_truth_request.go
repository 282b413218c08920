package request

import "fmt"

type GroundTruthRequest struct {
	Query          string `json:"query"`
	ExpectedAnswer string `json:"expected_answer"`
	ActualAnswer   string `json:"actual_answer"`
}

func (r *GroundTruthRequest) Validate() error {
	if r.ExpectedAnswer == "" {
		return fmt.Errorf("expected_answer is required")
	}
	if r.ActualAnswer == "" {
		return fmt.Errorf("actual_answer is required")
	}
	return nil
}
