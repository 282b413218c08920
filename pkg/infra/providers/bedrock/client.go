package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ThreatPilot/SentinelRail/pkg/infra/providers"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	stsTypes "github.com/aws/aws-sdk-go-v2/service/sts/types"
)

const (
	ModelPrefixAnthropicClaude   = "anthropic.claude"
	ModelPrefixAnthropicClaudeV3 = "anthropic.claude-3"
	ModelPrefixAmazonTitan       = "amazon.titan"
	ModelPrefixDeepseek          = "deepseek"
	ModelPrefixMistral           = "mistral"
	ModelPrefixMetaLlama         = "meta.llama"
)

// Request covers the union of per-family invoke payloads. Each prepare helper
// fills only the fields its model family understands.
type Request struct {
	Prompt            string  `json:"prompt,omitempty"`
	MaxTokensToSample int     `json:"max_tokens_to_sample,omitempty"`
	Temperature       float64 `json:"temperature,omitempty"`

	// Anthropic Claude specific fields
	AnthropicVersion string                   `json:"anthropic_version,omitempty"`
	Messages         []map[string]interface{} `json:"messages,omitempty"`
	System           string                   `json:"system,omitempty"`

	// Amazon Titan specific fields
	InputText            string                 `json:"inputText,omitempty"`
	TextGenerationConfig map[string]interface{} `json:"textGenerationConfig,omitempty"`

	// Mistral specific fields
	MaxTokens int     `json:"max_tokens,omitempty"`
	TopP      float64 `json:"top_p,omitempty"`

	// Deepseek specific fields
	FrequencyPenalty float64 `json:"frequency_penalty,omitempty"`
	PresencePenalty  float64 `json:"presence_penalty,omitempty"`
}

type Response struct {
	// Claude specific fields
	Completion string `json:"completion,omitempty"`

	// Claude 3 specific fields
	Content []map[string]interface{} `json:"content,omitempty"`

	// Titan specific fields
	Results    []map[string]interface{} `json:"results,omitempty"`
	OutputText string                   `json:"outputText,omitempty"`

	// Mistral / Llama specific fields
	Generation string `json:"generation,omitempty"`

	Response string `json:"response,omitempty"`
	Text     string `json:"text,omitempty"`
	Output   string `json:"output,omitempty"`
}

type client struct {
	clientPool *sync.Map
}

func NewBedrockClient() providers.Client {
	return &client{
		clientPool: &sync.Map{},
	}
}

func (c *client) Ask(
	ctx context.Context,
	config *providers.Config,
	prompt string,
) (*providers.CompletionResponse, error) {
	if config.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	bedrockCl, err := c.getOrCreateClient(ctx, config.Credentials)
	if err != nil {
		return nil, fmt.Errorf("failed to create Bedrock client: %w", err)
	}

	request, err := c.prepareRequest(config, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare request: %w", err)
	}

	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := bedrockCl.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(config.Model),
		ContentType: aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke model: %w", err)
	}

	responseText, err := c.parseResponse(config.Model, resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &providers.CompletionResponse{
		ID:       fmt.Sprintf("bedrock-%d", time.Now().UnixNano()),
		Model:    config.Model,
		Response: responseText,
		Usage:    providers.Usage{},
	}, nil
}

func (c *client) prepareRequest(config *providers.Config, prompt string) (*Request, error) {
	request := &Request{}

	if config.MaxTokens > 0 {
		request.MaxTokensToSample = config.MaxTokens
	}
	if config.Temperature > 0 {
		request.Temperature = config.Temperature
	}

	switch {
	case isClaudeModel(config.Model):
		return c.prepareClaudeRequest(config, prompt, request)
	case isTitanModel(config.Model):
		return c.prepareTitanRequest(config, prompt, request)
	case isMistralModel(config.Model):
		return c.prepareTextRequest(config, prompt, request)
	case isLlamaModel(config.Model):
		return c.prepareTextRequest(config, prompt, request)
	case isDeepseekModel(config.Model):
		return c.prepareDeepseekRequest(config, prompt, request)
	default:
		request.Prompt = buildFullPrompt(config, prompt)
		return request, nil
	}
}

func (c *client) prepareClaudeRequest(config *providers.Config, prompt string, request *Request) (*Request, error) {
	if config.SystemPrompt != "" {
		request.System = config.SystemPrompt
	}
	if isClaudeV3Model(config.Model) {
		var messages []map[string]interface{}
		if len(config.Instructions) > 0 {
			messages = append(messages, map[string]interface{}{
				"role":    "user",
				"content": providers.FormatInstructions(config.Instructions),
			})
		}

		if prompt != "" {
			messages = append(messages, map[string]interface{}{
				"role":    "user",
				"content": prompt,
			})
		}

		request.Messages = messages
	} else {
		var fullPrompt string
		if len(config.Instructions) > 0 {
			fullPrompt += providers.FormatInstructions(config.Instructions) + "\n\n"
		}
		if prompt != "" {
			fullPrompt += prompt
		}
		request.Prompt = fullPrompt
	}
	return request, nil
}

func (c *client) prepareTitanRequest(config *providers.Config, prompt string, request *Request) (*Request, error) {
	request.InputText = buildFullPrompt(config, prompt)
	request.TextGenerationConfig = map[string]interface{}{
		"maxTokenCount": config.MaxTokens,
		"temperature":   config.Temperature,
	}
	return request, nil
}

// prepareTextRequest covers the Mistral and Llama families, which share the
// same plain-prompt payload shape.
func (c *client) prepareTextRequest(config *providers.Config, prompt string, request *Request) (*Request, error) {
	request.Prompt = buildFullPrompt(config, prompt)
	request.MaxTokens = config.MaxTokens
	request.Temperature = config.Temperature
	request.TopP = 0.9
	return request, nil
}

func (c *client) prepareDeepseekRequest(config *providers.Config, prompt string, request *Request) (*Request, error) {
	request.Prompt = buildFullPrompt(config, prompt)
	request.MaxTokens = config.MaxTokens
	request.Temperature = config.Temperature
	request.TopP = 0.9
	request.FrequencyPenalty = 0.0
	request.PresencePenalty = 0.0
	return request, nil
}

func buildFullPrompt(config *providers.Config, prompt string) string {
	var fullPrompt string
	if config.SystemPrompt != "" {
		fullPrompt += config.SystemPrompt + "\n\n"
	}
	if len(config.Instructions) > 0 {
		fullPrompt += providers.FormatInstructions(config.Instructions) + "\n\n"
	}
	if prompt != "" {
		fullPrompt += prompt
	}
	return fullPrompt
}

func (c *client) parseResponse(model string, responseBody []byte) (string, error) {
	var responseText string
	var err error

	switch {
	case isClaudeModel(model):
		responseText, err = c.parseClaudeResponse(model, responseBody)
	case isTitanModel(model):
		responseText, err = c.parseTitanResponse(responseBody)
	case isMistralModel(model), isLlamaModel(model):
		responseText, err = c.parseGenerationResponse(responseBody)
	case isDeepseekModel(model):
		responseText, err = c.parseDeepseekResponse(responseBody)
	default:
		responseText, err = c.parseDefaultResponse(responseBody)
	}

	if err != nil {
		return "", err
	}

	if responseText == "" {
		return "", fmt.Errorf("no text content returned")
	}

	return responseText, nil
}

func (c *client) parseClaudeResponse(model string, responseBody []byte) (string, error) {
	if isClaudeV3Model(model) {
		var response struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		}

		if err := json.Unmarshal(responseBody, &response); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude 3 response: %w", err)
		}

		for _, content := range response.Content {
			if content.Type == "text" {
				return content.Text, nil
			}
		}
		return "", nil
	}

	var response struct {
		Completion string `json:"completion"`
	}
	if err := json.Unmarshal(responseBody, &response); err != nil {
		return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
	}
	return response.Completion, nil
}

func (c *client) parseTitanResponse(responseBody []byte) (string, error) {
	var response struct {
		OutputText string `json:"outputText"`
	}
	if err := json.Unmarshal(responseBody, &response); err != nil {
		return "", fmt.Errorf("failed to unmarshal Titan response: %w", err)
	}
	return response.OutputText, nil
}

func (c *client) parseGenerationResponse(responseBody []byte) (string, error) {
	var response struct {
		Generation string `json:"generation"`
	}
	if err := json.Unmarshal(responseBody, &response); err != nil {
		return "", fmt.Errorf("failed to unmarshal generation response: %w", err)
	}
	return response.Generation, nil
}

func (c *client) parseDeepseekResponse(responseBody []byte) (string, error) {
	var response struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(responseBody, &response); err != nil {
		var altResponse struct {
			Output string `json:"output"`
		}
		if err2 := json.Unmarshal(responseBody, &altResponse); err2 != nil {
			return "", fmt.Errorf("failed to unmarshal Deepseek response: %w", err2)
		}
		return altResponse.Output, nil
	}
	return response.Response, nil
}

func (c *client) parseDefaultResponse(responseBody []byte) (string, error) {
	var response Response
	if err := json.Unmarshal(responseBody, &response); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	switch {
	case response.Completion != "":
		return response.Completion, nil
	case response.OutputText != "":
		return response.OutputText, nil
	case response.Generation != "":
		return response.Generation, nil
	case response.Response != "":
		return response.Response, nil
	case response.Text != "":
		return response.Text, nil
	case response.Output != "":
		return response.Output, nil
	case len(response.Content) > 0:
		for _, content := range response.Content {
			if text, ok := content["text"].(string); ok {
				return text, nil
			}
		}
	case len(response.Results) > 0:
		for _, result := range response.Results {
			if text, ok := result["outputText"].(string); ok {
				return text, nil
			}
		}
	}

	return "", nil
}

func (c *client) getOrCreateClient(ctx context.Context, credentials providers.Credentials) (*bedrockruntime.Client, error) {
	clientKey := buildClientKey(credentials)
	if clientVal, ok := c.clientPool.Load(clientKey); ok {
		cli, ok := clientVal.(*bedrockruntime.Client)
		if !ok {
			return nil, fmt.Errorf("invalid client type in pool")
		}
		return cli, nil
	}

	cfg, err := buildAwsConfig(ctx, credentials)
	if err != nil {
		return nil, err
	}
	runtimeClient := bedrockruntime.NewFromConfig(cfg)
	c.clientPool.Store(clientKey, runtimeClient)
	return runtimeClient, nil
}

func buildClientKey(credentials providers.Credentials) string {
	if credentials.AwsBedrock == nil {
		return credentials.ApiKey
	}
	return fmt.Sprintf("%s:%s:%s:%v:%s",
		credentials.ApiKey,
		credentials.AwsBedrock.AccessKey,
		credentials.AwsBedrock.Region,
		credentials.AwsBedrock.UseRole,
		credentials.AwsBedrock.RoleARN,
	)
}

func buildAwsConfig(ctx context.Context, credentials providers.Credentials) (aws.Config, error) {
	const defaultRegion = "us-east-1"

	if credentials.AwsBedrock == nil {
		return aws.Config{}, fmt.Errorf("aws credentials are required")
	}

	region := credentials.AwsBedrock.Region
	if region == "" {
		region = defaultRegion
	}

	accessKey := credentials.AwsBedrock.AccessKey
	secretKey := credentials.AwsBedrock.SecretKey

	if credentials.AwsBedrock.UseRole && credentials.AwsBedrock.RoleARN != "" {
		creds, err := assumeRole(ctx, accessKey, secretKey, credentials.AwsBedrock.RoleARN, region)
		if err != nil {
			return aws.Config{}, err
		}
		return loadAWSConfig(ctx, *creds.AccessKeyId, *creds.SecretAccessKey, *creds.SessionToken, region)
	}

	return loadAWSConfig(ctx, accessKey, secretKey, credentials.AwsBedrock.SessionToken, region)
}

func loadAWSConfig(ctx context.Context, accessKey, secretKey, sessionToken, region string) (aws.Config, error) {
	return config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(aws.CredentialsProviderFunc(
			func(ctx context.Context) (aws.Credentials, error) {
				return aws.Credentials{
					AccessKeyID:     accessKey,
					SecretAccessKey: secretKey,
					SessionToken:    sessionToken,
				}, nil
			},
		)),
		config.WithRegion(region),
	)
}

func assumeRole(ctx context.Context, accessKey, secretKey, roleARN, region string) (*stsTypes.Credentials, error) {
	baseCfg, err := loadAWSConfig(ctx, accessKey, secretKey, "", region)
	if err != nil {
		return nil, fmt.Errorf("unable to load base AWS config: %w", err)
	}
	stsClient := sts.NewFromConfig(baseCfg)

	output, err := stsClient.AssumeRole(ctx, &sts.AssumeRoleInput{
		RoleArn:         aws.String(roleARN),
		RoleSessionName: aws.String("GuardrailEngineSession"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to assume role: %w", err)
	}
	return output.Credentials, nil
}

func isClaudeModel(model string) bool {
	return strings.Contains(model, ModelPrefixAnthropicClaude)
}

func isClaudeV3Model(model string) bool {
	return strings.Contains(model, ModelPrefixAnthropicClaudeV3)
}

func isTitanModel(model string) bool {
	return strings.Contains(model, ModelPrefixAmazonTitan)
}

func isDeepseekModel(model string) bool {
	return strings.Contains(model, ModelPrefixDeepseek)
}

func isMistralModel(model string) bool {
	return strings.Contains(model, ModelPrefixMistral)
}

func isLlamaModel(model string) bool {
	return strings.Contains(model, ModelPrefixMetaLlama)
}
