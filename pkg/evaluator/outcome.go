package evaluator

import (
	"encoding/json"
)

// Status is the tri-state result of evaluating one guardrail. Skip is
// reserved for prompt instructions, which are injected as model context and
// never execute.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	StatusSkip Status = "skip"
)

// Outcome reports one guardrail evaluated against one piece of text. On the
// wire `passed` is true, false, or null for pass, fail, and skip.
type Outcome struct {
	GuardrailID string                 `json:"guardrail_id"`
	Status      Status                 `json:"-"`
	Message     string                 `json:"message"`
	Suggestion  string                 `json:"suggestion,omitempty"`
	Details     map[string]interface{} `json:"details,omitempty"`
}

func (o Outcome) Passed() bool {
	return o.Status == StatusPass
}

func (o Outcome) Failed() bool {
	return o.Status == StatusFail
}

type outcomeJSON struct {
	GuardrailID string                 `json:"guardrail_id"`
	Passed      *bool                  `json:"passed"`
	Message     string                 `json:"message"`
	Suggestion  string                 `json:"suggestion,omitempty"`
	Details     map[string]interface{} `json:"details,omitempty"`
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	out := outcomeJSON{
		GuardrailID: o.GuardrailID,
		Message:     o.Message,
		Suggestion:  o.Suggestion,
		Details:     o.Details,
	}
	switch o.Status {
	case StatusPass:
		v := true
		out.Passed = &v
	case StatusFail:
		v := false
		out.Passed = &v
	}
	return json.Marshal(out)
}

func (o *Outcome) UnmarshalJSON(data []byte) error {
	var in outcomeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	o.GuardrailID = in.GuardrailID
	o.Message = in.Message
	o.Suggestion = in.Suggestion
	o.Details = in.Details
	switch {
	case in.Passed == nil:
		o.Status = StatusSkip
	case *in.Passed:
		o.Status = StatusPass
	default:
		o.Status = StatusFail
	}
	return nil
}

func pass(id, message string) Outcome {
	return Outcome{GuardrailID: id, Status: StatusPass, Message: message}
}

func fail(id, message, suggestion string) Outcome {
	return Outcome{GuardrailID: id, Status: StatusFail, Message: message, Suggestion: suggestion}
}

func skip(id, message string) Outcome {
	return Outcome{GuardrailID: id, Status: StatusSkip, Message: message}
}
