package factory

import (
	"fmt"

	"github.com/ThreatPilot/SentinelRail/pkg/infra/providers"
	"github.com/ThreatPilot/SentinelRail/pkg/infra/providers/anthropic"
	"github.com/ThreatPilot/SentinelRail/pkg/infra/providers/bedrock"
	"github.com/ThreatPilot/SentinelRail/pkg/infra/providers/gemini"
	"github.com/ThreatPilot/SentinelRail/pkg/infra/providers/openai"
)

const (
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderBedrock   = "bedrock"
)

type ProviderLocator interface {
	Get(provider string) (providers.Client, error)
}

type providerLocator struct {
	clients map[string]providers.Client
}

// NewProviderLocator builds one client per provider up front so their
// connection pools are shared across requests.
func NewProviderLocator() ProviderLocator {
	return &providerLocator{
		clients: map[string]providers.Client{
			ProviderOpenAI:    openai.NewOpenaiClient(),
			ProviderGemini:    gemini.NewGeminiClient(),
			ProviderAnthropic: anthropic.NewAnthropicClient(),
			ProviderBedrock:   bedrock.NewBedrockClient(),
		},
	}
}

func (f *providerLocator) Get(provider string) (providers.Client, error) {
	client, ok := f.clients[provider]
	if !ok {
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
	return client, nil
}
