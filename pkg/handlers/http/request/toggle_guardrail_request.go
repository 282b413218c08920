package request

import "fmt"

type ToggleGuardrailRequest struct {
	Enabled *bool `json:"enabled"`
}

func (r *ToggleGuardrailRequest) Validate() error {
	if r.Enabled == nil {
		return fmt.Errorf("enabled is required")
	}
	return nil
}
