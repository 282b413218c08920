package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	appGuardrail "github.com/ThreatPilot/SentinelRail/pkg/app/guardrail"
	"github.com/ThreatPilot/SentinelRail/pkg/cache"
	"github.com/ThreatPilot/SentinelRail/pkg/common"
	"github.com/ThreatPilot/SentinelRail/pkg/config"
	"github.com/ThreatPilot/SentinelRail/pkg/evaluator"
	handlers "github.com/ThreatPilot/SentinelRail/pkg/handlers/http"
	infraCache "github.com/ThreatPilot/SentinelRail/pkg/infra/cache"
	"github.com/ThreatPilot/SentinelRail/pkg/infra/cache/channel"
	"github.com/ThreatPilot/SentinelRail/pkg/infra/cache/event"
	"github.com/ThreatPilot/SentinelRail/pkg/infra/cache/subscriber"
	"github.com/ThreatPilot/SentinelRail/pkg/infra/database"
	"github.com/ThreatPilot/SentinelRail/pkg/infra/httpx"
	infraLogger "github.com/ThreatPilot/SentinelRail/pkg/infra/logger"
	_ "github.com/ThreatPilot/SentinelRail/pkg/infra/migrations"
	"github.com/ThreatPilot/SentinelRail/pkg/infra/prometheus"
	"github.com/ThreatPilot/SentinelRail/pkg/infra/providers"
	"github.com/ThreatPilot/SentinelRail/pkg/infra/providers/factory"
	"github.com/ThreatPilot/SentinelRail/pkg/infra/repository"
	"github.com/ThreatPilot/SentinelRail/pkg/middleware"
	"github.com/ThreatPilot/SentinelRail/pkg/pipeline"
	"github.com/ThreatPilot/SentinelRail/pkg/runner"
	"github.com/ThreatPilot/SentinelRail/pkg/server"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// breakerResetTimeout is how long the model-provider breaker stays open
// before letting probe requests through again.
const breakerResetTimeout = 30 * time.Second

func main() {
	ctx := context.Background()
	envFile := os.Getenv("ENV_FILE")

	if envFile == "" {
		envFile = ".env"
	}
	err := godotenv.Load(envFile)
	if err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	logger := infraLogger.NewLogger("engine")

	// Load configuration
	if err := config.Load("../../config"); err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	cfg := config.GetConfig()

	prometheus.Initialize(prometheus.MetricsConfig{
		EnableLatency: cfg.Metrics.EnableLatency,
	})

	// Initialize database
	db, err := database.NewDB(logger, &database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	cacheConfig := common.CacheConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TLS:      cfg.Redis.TLS,
	}
	cacheInstance, err := cache.NewCache(cacheConfig)
	if err != nil {
		logger.Fatalf("Failed to initialize cache: %v", err)
	}

	initializeMemoryCache(cacheInstance)

	// repository
	guardrailRepository := repository.NewGuardrailRepository(db.DB, logger, cacheInstance)

	// redis publisher
	redisPublisher := infraCache.NewRedisEventPublisher(cacheInstance, channel.GuardrailEventsChannel)
	redisListener := infraCache.NewRedisEventListener(logger, cacheInstance, event.Registry)

	// subscribers
	deleteGuardrailSubscriber := subscriber.NewDeleteGuardrailCacheEventSubscriber(logger, cacheInstance)
	deleteFunctionSubscriber := subscriber.NewDeleteFunctionCacheEventSubscriber(logger, cacheInstance)
	flushGuardrailSubscriber := subscriber.NewFlushGuardrailCacheEventSubscriber(logger, cacheInstance)

	infraCache.RegisterEventSubscriber[event.DeleteGuardrailCacheEvent](redisListener, deleteGuardrailSubscriber)
	infraCache.RegisterEventSubscriber[event.DeleteFunctionCacheEvent](redisListener, deleteFunctionSubscriber)
	infraCache.RegisterEventSubscriber[event.FlushGuardrailCacheEvent](redisListener, flushGuardrailSubscriber)

	// service
	effectiveSetCache := appGuardrail.NewEffectiveSetCache(cacheInstance)
	effectiveSetResolver := appGuardrail.NewEffectiveSetResolver(logger, guardrailRepository, effectiveSetCache)
	upserter := appGuardrail.NewUpserter(logger, guardrailRepository, redisPublisher)
	deleter := appGuardrail.NewDeleter(logger, guardrailRepository, redisPublisher)
	toggler := appGuardrail.NewToggler(logger, guardrailRepository, redisPublisher)
	overrideWriter := appGuardrail.NewOverrideWriter(logger, guardrailRepository, redisPublisher)
	seeder := appGuardrail.NewSeeder(logger, guardrailRepository, redisPublisher)

	// evaluation
	eval := evaluator.NewEvaluator(logger)
	modelTimeout := time.Duration(cfg.Engine.ModelTimeoutSeconds) * time.Second

	modelClient := resolveModelClient(cfg, logger)
	var breaker httpx.CircuitBreaker
	if modelClient != nil {
		breaker = httpx.NewCircuitBreaker("model-provider", breakerResetTimeout, uint32(cfg.Engine.BreakerMaxFailures))
	}

	pipe := pipeline.NewPipeline(logger, eval, modelClient, breaker, pipeline.ModelSettings{
		Provider:    cfg.Model.Provider,
		Model:       cfg.Model.Model,
		MaxTokens:   cfg.Model.MaxTokens,
		Temperature: cfg.Model.Temperature,
		Credentials: modelCredentials(cfg),
		Timeout:     modelTimeout,
	})
	run := runner.NewRunner(logger, eval, pipe, cfg.Engine.BatchConcurrency, cfg.Engine.SuiteConcurrency)

	//middleware
	middlewareTransport := &middleware.Transport{
		PanicRecoveryMiddleware: middleware.NewPanicRecoveryMiddleware(logger),
		TraceMiddleware:         middleware.NewTraceMiddleware(),
		MetricsMiddleware:       middleware.NewMetricsMiddleware(logger),
	}

	// Handler Transport
	handlerTransport := &handlers.HandlerTransport{
		// Registry
		UpsertGuardrailHandler: handlers.NewUpsertGuardrailHandler(logger, upserter, guardrailRepository),
		GetGuardrailHandler:    handlers.NewGetGuardrailHandler(logger, guardrailRepository),
		ListGuardrailsHandler:  handlers.NewListGuardrailsHandler(logger, guardrailRepository),
		DeleteGuardrailHandler: handlers.NewDeleteGuardrailHandler(logger, deleter),
		ToggleGuardrailHandler: handlers.NewToggleGuardrailHandler(logger, toggler),
		// Functions
		ListFunctionsHandler:          handlers.NewListFunctionsHandler(logger),
		ListFunctionGuardrailsHandler: handlers.NewListFunctionGuardrailsHandler(logger, guardrailRepository),
		GetEffectiveSetHandler:        handlers.NewGetEffectiveSetHandler(logger, effectiveSetResolver),
		// Overrides
		UpsertOverrideHandler: handlers.NewUpsertOverrideHandler(logger, overrideWriter),
		DeleteOverrideHandler: handlers.NewDeleteOverrideHandler(logger, overrideWriter),
		ResetOverridesHandler: handlers.NewResetOverridesHandler(logger, overrideWriter),
		ListOverridesHandler:  handlers.NewListOverridesHandler(logger, guardrailRepository),
		// Testing
		TestGuardrailHandler:   handlers.NewTestGuardrailHandler(logger, guardrailRepository, eval),
		TestBatchHandler:       handlers.NewTestBatchHandler(logger, guardrailRepository, effectiveSetResolver, run),
		TestPipelineHandler:    handlers.NewTestPipelineHandler(logger, effectiveSetResolver, pipe),
		TestSuiteHandler:       handlers.NewTestSuiteHandler(logger, effectiveSetResolver, run),
		TestGroundTruthHandler: handlers.NewTestGroundTruthHandler(logger),
		// Operational
		GetVersionHandler:      handlers.NewGetVersionHandler(logger),
		InvalidateCacheHandler: handlers.NewInvalidateCacheHandler(logger, cacheInstance, redisPublisher),
	}

	go func() {
		fmt.Println("starting listening redis events...")
		redisListener.Listen(ctx, channel.GuardrailEventsChannel)
	}()

	if cfg.Engine.SeedOnBoot {
		seeded, err := seeder.Seed(ctx)
		if err != nil {
			logger.WithError(err).Error("failed to seed default guardrails")
		} else if seeded > 0 {
			logger.WithField("count", seeded).Info("seeded default guardrails")
		}
	}

	srv := server.NewAdminServer(server.AdminServerDI{
		MiddlewareTransport: middlewareTransport,
		HandlerTransport:    handlerTransport,
		Config:              cfg,
		Logger:              logger,
	})

	go func() {
		if err := srv.Run(); err != nil {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	fmt.Println("shutting down server...")
	if err := srv.Shutdown(); err != nil {
		fmt.Println("error shutting down server:", err)
		os.Exit(1)
	}
	fmt.Println("server gracefully stopped")
}

func initializeMemoryCache(cacheInstance *cache.Cache) {
	// memoryCache
	_ = cacheInstance.CreateTTLMap(cache.GuardrailTTLName, common.GuardrailCacheTTL)
	_ = cacheInstance.CreateTTLMap(cache.EffectiveTTLName, common.EffectiveSetCacheTTL)
	_ = cacheInstance.CreateTTLMap(cache.OverrideTTLName, common.OverrideCacheTTL)
}

// resolveModelClient picks the provider client named in configuration. A
// missing or unknown provider is not fatal: the pipeline degrades to
// input-stage evaluation and every model stage reports skip.
func resolveModelClient(cfg *config.Config, logger *logrus.Logger) providers.Client {
	if cfg.Model.Provider == "" {
		logger.Warn("no model provider configured, pipeline runs input stage only")
		return nil
	}
	client, err := factory.NewProviderLocator().Get(cfg.Model.Provider)
	if err != nil {
		logger.WithError(err).Warn("unknown model provider, pipeline runs input stage only")
		return nil
	}
	return client
}

func modelCredentials(cfg *config.Config) providers.Credentials {
	creds := providers.Credentials{}
	switch cfg.Model.Provider {
	case factory.ProviderOpenAI:
		creds.ApiKey = cfg.Model.Credentials.OpenAIKey
	case factory.ProviderAnthropic:
		creds.ApiKey = cfg.Model.Credentials.AnthropicKey
	case factory.ProviderGemini:
		creds.ApiKey = cfg.Model.Credentials.GeminiKey
	case factory.ProviderBedrock:
		creds.AwsBedrock = &providers.AwsBedrockCredentials{
			AccessKey: cfg.Model.Credentials.AwsAccessKey,
			SecretKey: cfg.Model.Credentials.AwsSecretKey,
			Region:    cfg.Model.Credentials.AwsRegion,
			RoleARN:   cfg.Model.Credentials.AwsRoleARN,
			UseRole:   cfg.Model.Credentials.AwsRoleARN != "",
		}
	}
	return creds
}
