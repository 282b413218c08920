package http

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	serviceMocks "github.com/ThreatPilot/SentinelRail/pkg/app/guardrail/mocks"
	"github.com/ThreatPilot/SentinelRail/pkg/domain"
	domainGuardrail "github.com/ThreatPilot/SentinelRail/pkg/domain/guardrail"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestToggleGuardrailHandler_Success(t *testing.T) {
	logger := logrus.New()
	toggler := new(serviceMocks.Toggler)

	handler := NewToggleGuardrailHandler(logger, toggler)

	app := fiber.New()
	app.Put("/api/v1/guardrails/:guardrail_id/toggle", handler.Handle)

	updated := &domainGuardrail.Guardrail{
		ID:             "noisy-rule",
		Name:           "Noisy rule",
		Category:       domainGuardrail.CategoryQuality,
		Severity:       domainGuardrail.SeverityLow,
		ValidationType: domainGuardrail.ValidationOutput,
		Scope:          domainGuardrail.ScopeGlobal,
		Enabled:        false,
		Priority:       80,
	}
	toggler.On("Toggle", mock.Anything, "noisy-rule", false).Return(updated, nil)

	body, err := json.Marshal(map[string]interface{}{"enabled": false})
	require.NoError(t, err)

	req := httptest.NewRequest("PUT", "/api/v1/guardrails/noisy-rule/toggle", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var got domainGuardrail.Guardrail
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "noisy-rule", got.ID)
	assert.False(t, got.Enabled)
	toggler.AssertExpectations(t)
}

func TestToggleGuardrailHandler_MissingEnabled(t *testing.T) {
	logger := logrus.New()
	toggler := new(serviceMocks.Toggler)

	handler := NewToggleGuardrailHandler(logger, toggler)

	app := fiber.New()
	app.Put("/api/v1/guardrails/:guardrail_id/toggle", handler.Handle)

	req := httptest.NewRequest("PUT", "/api/v1/guardrails/noisy-rule/toggle", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
	toggler.AssertNotCalled(t, "Toggle", mock.Anything, mock.Anything, mock.Anything)
}

func TestToggleGuardrailHandler_NotFound(t *testing.T) {
	logger := logrus.New()
	toggler := new(serviceMocks.Toggler)

	handler := NewToggleGuardrailHandler(logger, toggler)

	app := fiber.New()
	app.Put("/api/v1/guardrails/:guardrail_id/toggle", handler.Handle)

	toggler.On("Toggle", mock.Anything, "missing-rule", true).
		Return(nil, domain.NewNotFoundError("guardrail", "missing-rule"))

	body, err := json.Marshal(map[string]interface{}{"enabled": true})
	require.NoError(t, err)

	req := httptest.NewRequest("PUT", "/api/v1/guardrails/missing-rule/toggle", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}
