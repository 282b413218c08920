package httpx

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
)

func TestNewCircuitBreaker(t *testing.T) {
	breaker := NewCircuitBreaker("model-provider", 30*time.Second, 3)

	assert.NotNil(t, breaker)
	assert.IsType(t, &circuitBreakerWrapper{}, breaker)

	wrapper, _ := breaker.(*circuitBreakerWrapper) //nolint:errcheck
	assert.NotNil(t, wrapper.breaker)
	assert.Equal(t, "model-provider", wrapper.breaker.Name())
}

func TestCircuitBreaker_ExecuteSuccess(t *testing.T) {
	breaker := NewCircuitBreaker("success-test", 30*time.Second, 3)

	err := breaker.Execute(func() error {
		return nil
	})

	assert.NoError(t, err)
}

func TestCircuitBreaker_ExecuteFailure(t *testing.T) {
	breaker := NewCircuitBreaker("failure-test", 30*time.Second, 3)
	upstreamErr := errors.New("model timeout")

	err := breaker.Execute(func() error {
		return upstreamErr
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failure-test")
	assert.ErrorIs(t, err, upstreamErr)
}

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	breaker := NewCircuitBreaker("trip-test", time.Minute, 2)
	upstreamErr := errors.New("model unavailable")

	for i := 0; i < 2; i++ {
		err := breaker.Execute(func() error { return upstreamErr })
		assert.ErrorIs(t, err, upstreamErr)
	}

	var called bool
	err := breaker.Execute(func() error {
		called = true
		return nil
	})

	assert.False(t, called)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestCircuitBreaker_RecoversAfterSuccess(t *testing.T) {
	breaker := NewCircuitBreaker("recovery-test", time.Minute, 3)

	err := breaker.Execute(func() error { return errors.New("transient") })
	assert.Error(t, err)

	err = breaker.Execute(func() error { return nil })
	assert.NoError(t, err)

	// A success resets the consecutive-failure count, so two more failures
	// still do not trip the breaker.
	for i := 0; i < 2; i++ {
		err = breaker.Execute(func() error { return errors.New("transient") })
		assert.Error(t, err)
		assert.NotErrorIs(t, err, gobreaker.ErrOpenState)
	}
}
