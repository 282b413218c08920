package pipeline

import "fmt"

// ModelInvocationError reports a failed model call, whether the provider
// returned an error or the circuit breaker refused the call.
type ModelInvocationError struct {
	Provider string
	Model    string
	Err      error
}

func (e *ModelInvocationError) Error() string {
	return fmt.Sprintf("model invocation failed (provider=%s, model=%s): %v", e.Provider, e.Model, e.Err)
}

func (e *ModelInvocationError) Unwrap() error {
	return e.Err
}
