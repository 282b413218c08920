package http

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	serviceMocks "github.com/ThreatPilot/SentinelRail/pkg/app/guardrail/mocks"
	domainGuardrail "github.com/ThreatPilot/SentinelRail/pkg/domain/guardrail"
	guardrailMocks "github.com/ThreatPilot/SentinelRail/pkg/domain/guardrail/mocks"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUpsertGuardrailHandler_Success(t *testing.T) {
	logger := logrus.New()
	upserter := new(serviceMocks.Upserter)
	repo := new(guardrailMocks.Repository)

	handler := NewUpsertGuardrailHandler(logger, upserter, repo)

	app := fiber.New()
	app.Put("/api/v1/guardrails/:guardrail_id", handler.Handle)

	reqBody := map[string]interface{}{
		"name":            "Prompt injection filter",
		"description":     "Blocks instruction-override phrasing",
		"category":        "prompt_safety",
		"severity":        "critical",
		"validation_type": "input_validation",
		"scope":           "global",
		"priority":        10,
	}
	body, err := json.Marshal(reqBody)
	require.NoError(t, err)

	var submitted *domainGuardrail.Guardrail
	upserter.On("Upsert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		submitted, _ = args.Get(1).(*domainGuardrail.Guardrail)
	}).Return(nil)

	stored := &domainGuardrail.Guardrail{
		ID:             "prompt-injection-filter",
		Name:           "Prompt injection filter",
		Category:       domainGuardrail.CategoryPromptSafety,
		Severity:       domainGuardrail.SeverityCritical,
		ValidationType: domainGuardrail.ValidationInput,
		Scope:          domainGuardrail.ScopeGlobal,
		Enabled:        true,
		Priority:       10,
		CreatedAt:      time.Now(),
	}
	repo.On("Get", mock.Anything, "prompt-injection-filter").Return(stored, nil)

	req := httptest.NewRequest("PUT", "/api/v1/guardrails/prompt-injection-filter", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var got domainGuardrail.Guardrail
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "prompt-injection-filter", got.ID)
	assert.Equal(t, "Prompt injection filter", got.Name)

	require.NotNil(t, submitted)
	assert.Equal(t, "prompt-injection-filter", submitted.ID)
	assert.True(t, submitted.Enabled, "enabled should default to true when omitted")
	upserter.AssertExpectations(t)
}

func TestUpsertGuardrailHandler_InvalidCategory(t *testing.T) {
	logger := logrus.New()
	upserter := new(serviceMocks.Upserter)
	repo := new(guardrailMocks.Repository)

	handler := NewUpsertGuardrailHandler(logger, upserter, repo)

	app := fiber.New()
	app.Put("/api/v1/guardrails/:guardrail_id", handler.Handle)

	reqBody := map[string]interface{}{
		"name":            "Bad rule",
		"category":        "arbitrary_code_execution",
		"severity":        "high",
		"validation_type": "input_validation",
		"scope":           "global",
	}
	body, err := json.Marshal(reqBody)
	require.NoError(t, err)

	req := httptest.NewRequest("PUT", "/api/v1/guardrails/bad-rule", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
	upserter.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestUpsertGuardrailHandler_MismatchedBodyID(t *testing.T) {
	logger := logrus.New()
	upserter := new(serviceMocks.Upserter)
	repo := new(guardrailMocks.Repository)

	handler := NewUpsertGuardrailHandler(logger, upserter, repo)

	app := fiber.New()
	app.Put("/api/v1/guardrails/:guardrail_id", handler.Handle)

	reqBody := map[string]interface{}{
		"id":              "some-other-rule",
		"name":            "Mismatch",
		"category":        "prompt_safety",
		"severity":        "high",
		"validation_type": "input_validation",
		"scope":           "global",
	}
	body, err := json.Marshal(reqBody)
	require.NoError(t, err)

	req := httptest.NewRequest("PUT", "/api/v1/guardrails/prompt-injection-filter", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
	upserter.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestUpsertGuardrailHandler_InvalidJSON(t *testing.T) {
	logger := logrus.New()
	upserter := new(serviceMocks.Upserter)
	repo := new(guardrailMocks.Repository)

	handler := NewUpsertGuardrailHandler(logger, upserter, repo)

	app := fiber.New()
	app.Put("/api/v1/guardrails/:guardrail_id", handler.Handle)

	req := httptest.NewRequest("PUT", "/api/v1/guardrails/broken", bytes.NewReader([]byte(`{"name":`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	var payload map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, ErrInvalidJsonPayload, payload["error"])
}

func TestUpsertGuardrailHandler_ServiceError(t *testing.T) {
	logger := logrus.New()
	upserter := new(serviceMocks.Upserter)
	repo := new(guardrailMocks.Repository)

	handler := NewUpsertGuardrailHandler(logger, upserter, repo)

	app := fiber.New()
	app.Put("/api/v1/guardrails/:guardrail_id", handler.Handle)

	reqBody := map[string]interface{}{
		"name":            "Prompt injection filter",
		"category":        "prompt_safety",
		"severity":        "critical",
		"validation_type": "input_validation",
		"scope":           "global",
	}
	body, err := json.Marshal(reqBody)
	require.NoError(t, err)

	upserter.On("Upsert", mock.Anything, mock.Anything).Return(assert.AnError)

	req := httptest.NewRequest("PUT", "/api/v1/guardrails/prompt-injection-filter", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}

func TestUpsertGuardrailHandler_ReadBackFailureStillReturnsDefinition(t *testing.T) {
	logger := logrus.New()
	upserter := new(serviceMocks.Upserter)
	repo := new(guardrailMocks.Repository)

	handler := NewUpsertGuardrailHandler(logger, upserter, repo)

	app := fiber.New()
	app.Put("/api/v1/guardrails/:guardrail_id", handler.Handle)

	reqBody := map[string]interface{}{
		"name":            "Prompt injection filter",
		"category":        "prompt_safety",
		"severity":        "critical",
		"validation_type": "input_validation",
		"scope":           "global",
	}
	body, err := json.Marshal(reqBody)
	require.NoError(t, err)

	upserter.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	repo.On("Get", mock.Anything, "prompt-injection-filter").Return(nil, assert.AnError)

	req := httptest.NewRequest("PUT", "/api/v1/guardrails/prompt-injection-filter", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var got domainGuardrail.Guardrail
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "prompt-injection-filter", got.ID)
}
