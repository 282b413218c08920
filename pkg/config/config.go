package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Model    ModelConfig    `mapstructure:"model"`
}

type ServerConfig struct {
	AdminPort   int    `mapstructure:"admin_port"`
	MetricsPort int    `mapstructure:"metrics_port"`
	Host        string `mapstructure:"host"`
}

type MetricsConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	EnableLatency bool `mapstructure:"enable_latency"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TLS      bool   `mapstructure:"tls"`
}

// EngineConfig tunes evaluation fan-out and model-call protection.
type EngineConfig struct {
	BatchConcurrency    int  `mapstructure:"batch_concurrency"`
	SuiteConcurrency    int  `mapstructure:"suite_concurrency"`
	ModelTimeoutSeconds int  `mapstructure:"model_timeout_seconds"`
	BreakerMaxFailures  int  `mapstructure:"breaker_max_failures"`
	SeedOnBoot          bool `mapstructure:"seed_on_boot"`
}

// ModelConfig selects the default model collaborator and its credentials.
type ModelConfig struct {
	Provider    string            `mapstructure:"provider"`
	Model       string            `mapstructure:"model"`
	MaxTokens   int               `mapstructure:"max_tokens"`
	Temperature float64           `mapstructure:"temperature"`
	Credentials CredentialsConfig `mapstructure:"credentials"`
}

type CredentialsConfig struct {
	OpenAIKey    string `mapstructure:"openai_key"`
	AnthropicKey string `mapstructure:"anthropic_key"`
	GeminiKey    string `mapstructure:"gemini_key"`
	AwsAccessKey string `mapstructure:"aws_access_key"`
	AwsSecretKey string `mapstructure:"aws_secret_key"`
	AwsRegion    string `mapstructure:"aws_region"`
	AwsRoleARN   string `mapstructure:"aws_role_arn"`
}

var globalConfig Config

func Load(configPath string) error {
	if err := loadConfigFile(configPath, "config", &globalConfig); err != nil {
		return fmt.Errorf("⚠️ Warning: Could not load main config file: %v", err)
	}

	setDefaultValues()

	return nil
}

func loadConfigFile(configPath, fileName string, out interface{}) error {
	viper.SetConfigName(fileName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("config file %s.yaml not found, using only environment variables", fileName)
		}
		return fmt.Errorf("error reading config file %s.yaml: %w", fileName, err)
	}

	if err := viper.Unmarshal(out); err != nil {
		return fmt.Errorf("failed to unmarshal %s config: %w", fileName, err)
	}

	return nil
}

func setDefaultValues() {
	if globalConfig.Database.SSLMode == "" {
		globalConfig.Database.SSLMode = "disable"
	}
	if globalConfig.Server.AdminPort == 0 {
		globalConfig.Server.AdminPort = 8080
	}
	if globalConfig.Server.MetricsPort == 0 {
		globalConfig.Server.MetricsPort = 9090
	}
	if globalConfig.Engine.BatchConcurrency <= 0 {
		globalConfig.Engine.BatchConcurrency = 8
	}
	if globalConfig.Engine.SuiteConcurrency <= 0 {
		globalConfig.Engine.SuiteConcurrency = 4
	}
	if globalConfig.Engine.ModelTimeoutSeconds <= 0 {
		globalConfig.Engine.ModelTimeoutSeconds = 60
	}
	if globalConfig.Engine.BreakerMaxFailures <= 0 {
		globalConfig.Engine.BreakerMaxFailures = 5
	}
}

func GetConfig() *Config {
	return &globalConfig
}
