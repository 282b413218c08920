package providers

import "context"

// Config carries everything a provider needs for a single completion:
// credentials, model selection, sampling parameters and the prompt-stage
// guardrail instructions that get injected ahead of the user prompt.
type Config struct {
	Credentials  Credentials `json:"credentials"`
	Model        string      `json:"model"`
	MaxTokens    int         `json:"max_tokens,omitempty"`
	Temperature  float64     `json:"temperature,omitempty"`
	SystemPrompt string      `json:"system_prompt,omitempty"`
	Instructions []string    `json:"instructions,omitempty"`
}

type Credentials struct {
	ApiKey     string                 `json:"api_key,omitempty"`
	AwsBedrock *AwsBedrockCredentials `json:"aws_bedrock,omitempty"`
}

type AwsBedrockCredentials struct {
	AccessKey    string `json:"access_key,omitempty"`
	SecretKey    string `json:"secret_key,omitempty"`
	SessionToken string `json:"session_token,omitempty"`
	Region       string `json:"region,omitempty"`
	UseRole      bool   `json:"use_role,omitempty"`
	RoleARN      string `json:"role_arn,omitempty"`
}

type Client interface {
	Ask(ctx context.Context, config *Config, prompt string) (*CompletionResponse, error)
}
