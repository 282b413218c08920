package router

import (
	"errors"

	handlers "github.com/ThreatPilot/SentinelRail/pkg/handlers/http"
	"github.com/ThreatPilot/SentinelRail/pkg/middleware"
	"github.com/gofiber/fiber/v2"
)

var ErrInvalidHandlerTransport = errors.New("invalid handler transport")

type adminRouter struct {
	middlewareTransport *middleware.Transport
	handlerTransport    *handlers.HandlerTransport
}

func NewAdminRouter(
	middlewareTransport *middleware.Transport,
	handlerTransport *handlers.HandlerTransport,
) ServerRouter {
	return &adminRouter{
		middlewareTransport: middlewareTransport,
		handlerTransport:    handlerTransport,
	}
}

func (r *adminRouter) BuildRoutes(router *fiber.App) error {
	if r.handlerTransport == nil {
		return ErrInvalidHandlerTransport
	}
	ht := r.handlerTransport

	if r.middlewareTransport != nil && r.middlewareTransport.PanicRecoveryMiddleware != nil {
		router.Use(r.middlewareTransport.PanicRecoveryMiddleware.Middleware())
	}

	router.Get("/version", ht.GetVersionHandler.Handle)
	router.Post("/invalidate-cache", ht.InvalidateCacheHandler.Handle)

	v1 := router.Group("/api/v1")
	{
		if r.middlewareTransport != nil {
			if r.middlewareTransport.TraceMiddleware != nil {
				v1.Use(r.middlewareTransport.TraceMiddleware.Middleware())
			}
			if r.middlewareTransport.MetricsMiddleware != nil {
				v1.Use(r.middlewareTransport.MetricsMiddleware.Middleware())
			}
		}

		// Guardrail registry
		guardrails := v1.Group("/guardrails")
		{
			guardrails.Get("", ht.ListGuardrailsHandler.Handle)
			guardrails.Get("/:guardrail_id", ht.GetGuardrailHandler.Handle)
			guardrails.Put("/:guardrail_id", ht.UpsertGuardrailHandler.Handle)
			guardrails.Delete("/:guardrail_id", ht.DeleteGuardrailHandler.Handle)
			guardrails.Put("/:guardrail_id/toggle", ht.ToggleGuardrailHandler.Handle)
		}

		// Function catalog, resolution and overrides
		functions := v1.Group("/functions")
		{
			functions.Get("", ht.ListFunctionsHandler.Handle)
			functions.Get("/:function_id/guardrails", ht.ListFunctionGuardrailsHandler.Handle)
			functions.Get("/:function_id/effective", ht.GetEffectiveSetHandler.Handle)
			functions.Get("/:function_id/overrides", ht.ListOverridesHandler.Handle)
			functions.Put("/:function_id/guardrails/:guardrail_id", ht.UpsertOverrideHandler.Handle)
			functions.Delete("/:function_id/guardrails/:guardrail_id", ht.DeleteOverrideHandler.Handle)
			functions.Delete("/:function_id/guardrails", ht.ResetOverridesHandler.Handle)
		}

		// Evaluation endpoints
		test := v1.Group("/test")
		{
			test.Post("/guardrail/:guardrail_id", ht.TestGuardrailHandler.Handle)
			test.Post("/batch", ht.TestBatchHandler.Handle)
			test.Post("/pipeline", ht.TestPipelineHandler.Handle)
			test.Post("/suite", ht.TestSuiteHandler.Handle)
			test.Post("/groundtruth", ht.TestGroundTruthHandler.Handle)
		}
	}
	return nil
}
