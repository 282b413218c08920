package http

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	serviceMocks "github.com/ThreatPilot/SentinelRail/pkg/app/guardrail/mocks"
	"github.com/ThreatPilot/SentinelRail/pkg/domain"
	domainGuardrail "github.com/ThreatPilot/SentinelRail/pkg/domain/guardrail"
	"github.com/ThreatPilot/SentinelRail/pkg/resolver"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetEffectiveSetHandler_Success(t *testing.T) {
	logger := logrus.New()
	setResolver := new(serviceMocks.EffectiveSetResolver)

	handler := NewGetEffectiveSetHandler(logger, setResolver)

	app := fiber.New()
	app.Get("/api/v1/functions/:function_id/effective", handler.Handle)

	set := &resolver.EffectiveSet{
		FunctionID: "hunt_query",
		Platform:   "splunk",
		Entries: []resolver.Entry{
			{
				Guardrail: domainGuardrail.Guardrail{
					ID:             "query-syntax",
					Name:           "Query syntax validation",
					Category:       domainGuardrail.CategoryQueryValidation,
					Severity:       domainGuardrail.SeverityHigh,
					ValidationType: domainGuardrail.ValidationOutput,
					Scope:          domainGuardrail.ScopeFunctionSpecific,
					Enabled:        true,
					Priority:       20,
				},
			},
			{
				Guardrail: domainGuardrail.Guardrail{
					ID:             "no-destructive-commands",
					Name:           "No destructive commands",
					Category:       domainGuardrail.CategoryQueryValidation,
					Severity:       domainGuardrail.SeverityCritical,
					ValidationType: domainGuardrail.ValidationOutput,
					Scope:          domainGuardrail.ScopeFunctionSpecific,
					Enabled:        true,
					Priority:       30,
				},
				Custom: true,
			},
		},
		Counts:     resolver.Counts{Total: 2, Active: 2, OutputOnly: 2, Customized: 1},
		ResolvedAt: time.Now(),
	}
	setResolver.On("Resolve", mock.Anything, "hunt_query", "splunk").Return(set, nil)

	req := httptest.NewRequest("GET", "/api/v1/functions/hunt_query/effective?platform=splunk", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var got resolver.EffectiveSet
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "hunt_query", got.FunctionID)
	assert.Equal(t, "splunk", got.Platform)
	require.Len(t, got.Entries, 2)
	assert.Equal(t, "query-syntax", got.Entries[0].ID)
	assert.True(t, got.Entries[1].Custom)
	assert.Equal(t, 1, got.Counts.Customized)
	setResolver.AssertExpectations(t)
}

func TestGetEffectiveSetHandler_UnknownFunction(t *testing.T) {
	logger := logrus.New()
	setResolver := new(serviceMocks.EffectiveSetResolver)

	handler := NewGetEffectiveSetHandler(logger, setResolver)

	app := fiber.New()
	app.Get("/api/v1/functions/:function_id/effective", handler.Handle)

	setResolver.On("Resolve", mock.Anything, "malware_detonation", "").
		Return(nil, fmt.Errorf("%w: malware_detonation", domain.ErrUnknownFunction))

	req := httptest.NewRequest("GET", "/api/v1/functions/malware_detonation/effective", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestGetEffectiveSetHandler_UnsupportedPlatform(t *testing.T) {
	logger := logrus.New()
	setResolver := new(serviceMocks.EffectiveSetResolver)

	handler := NewGetEffectiveSetHandler(logger, setResolver)

	app := fiber.New()
	app.Get("/api/v1/functions/:function_id/effective", handler.Handle)

	setResolver.On("Resolve", mock.Anything, "ioc_extraction", "splunk").
		Return(nil, fmt.Errorf("%w: ioc_extraction does not support %q", domain.ErrUnsupportedPlatform, "splunk"))

	req := httptest.NewRequest("GET", "/api/v1/functions/ioc_extraction/effective?platform=splunk", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestGetEffectiveSetHandler_ResolutionError(t *testing.T) {
	logger := logrus.New()
	setResolver := new(serviceMocks.EffectiveSetResolver)

	handler := NewGetEffectiveSetHandler(logger, setResolver)

	app := fiber.New()
	app.Get("/api/v1/functions/:function_id/effective", handler.Handle)

	setResolver.On("Resolve", mock.Anything, "report_summary", "").Return(nil, assert.AnError)

	req := httptest.NewRequest("GET", "/api/v1/functions/report_summary/effective", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}
