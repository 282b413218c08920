package http

import "github.com/gofiber/fiber/v2"

const ErrInvalidJsonPayload = "invalid json payload"

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

type HandlerTransport struct {
	// Registry
	UpsertGuardrailHandler Handler
	GetGuardrailHandler    Handler
	ListGuardrailsHandler  Handler
	DeleteGuardrailHandler Handler
	ToggleGuardrailHandler Handler

	// Functions
	ListFunctionsHandler          Handler
	ListFunctionGuardrailsHandler Handler
	GetEffectiveSetHandler        Handler

	// Overrides
	UpsertOverrideHandler Handler
	DeleteOverrideHandler Handler
	ResetOverridesHandler Handler
	ListOverridesHandler  Handler

	// Testing
	TestGuardrailHandler   Handler
	TestBatchHandler       Handler
	TestPipelineHandler    Handler
	TestSuiteHandler       Handler
	TestGroundTruthHandler Handler

	// Operational
	GetVersionHandler      Handler
	InvalidateCacheHandler Handler
}
