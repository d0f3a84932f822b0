// Package config loads the command-line tool configuration.
//
// Sources, lowest precedence first:
//   - defaults declared on the struct tags
//   - a .env file in the working directory (variables already set in the
//     environment are kept)
//   - UIGEN_* environment variables
//   - an optional TOML file
//
// When no API key is configured, the provider's conventional variable
// (OPENAI_API_KEY, ANTHROPIC_API_KEY, ...) is used.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/leofalp/uigen/internal/logging"
	"github.com/leofalp/uigen/providers/ai"
	"github.com/leofalp/uigen/providers/factory"
)

// apiKeyVariables are the conventional credential variables of each vendor.
var apiKeyVariables = map[ai.ProviderName]string{
	ai.ProviderOpenAI:      "OPENAI_API_KEY",
	ai.ProviderClaude:      "ANTHROPIC_API_KEY",
	ai.ProviderGemini:      "GEMINI_API_KEY",
	ai.ProviderAzureOpenAI: "AZURE_OPENAI_API_KEY",
	ai.ProviderGroq:        "GROQ_API_KEY",
	ai.ProviderMistral:     "MISTRAL_API_KEY",
	ai.ProviderDeepSeek:    "DEEPSEEK_API_KEY",
	ai.ProviderSiliconFlow: "SILICONFLOW_API_KEY",
}

// Config holds the settings of the uigen command.
type Config struct {
	Provider string `env:"UIGEN_PROVIDER" envDefault:"openai" toml:"provider"`
	APIKey   string `env:"UIGEN_API_KEY" toml:"api_key"`
	BaseURL  string `env:"UIGEN_BASE_URL" toml:"base_url"`
	Model    string `env:"UIGEN_MODEL" toml:"model"`

	Temperature float64 `env:"UIGEN_TEMPERATURE" envDefault:"0.7" toml:"temperature"`
	MaxTokens   int     `env:"UIGEN_MAX_TOKENS" envDefault:"4096" toml:"max_tokens"`

	Timeout           time.Duration `env:"UIGEN_TIMEOUT" envDefault:"30s" toml:"timeout"`
	MaxRetries        int           `env:"UIGEN_MAX_RETRIES" envDefault:"3" toml:"max_retries"`
	RetryDelay        time.Duration `env:"UIGEN_RETRY_DELAY" envDefault:"1s" toml:"retry_delay"`
	RequestsPerSecond float64       `env:"UIGEN_REQUESTS_PER_SECOND" toml:"requests_per_second"`

	Azure AzureConfig `toml:"azure"`

	LogLevel  string `env:"UIGEN_LOG_LEVEL" envDefault:"info" toml:"log_level"`
	LogFormat string `env:"UIGEN_LOG_FORMAT" envDefault:"compact" toml:"log_format"`
}

// AzureConfig holds the deployment coordinates Azure OpenAI needs.
type AzureConfig struct {
	ResourceName   string `env:"UIGEN_AZURE_RESOURCE_NAME" toml:"resource_name"`
	DeploymentName string `env:"UIGEN_AZURE_DEPLOYMENT_NAME" toml:"deployment_name"`
	APIVersion     string `env:"UIGEN_AZURE_API_VERSION" toml:"api_version"`
}

// Override adjusts a loaded configuration before the API key is resolved.
type Override func(*Config)

// WithProvider replaces the configured provider when name is not empty.
func WithProvider(name string) Override {
	return func(cfg *Config) {
		if name != "" {
			cfg.Provider = name
		}
	}
}

// WithModel replaces the configured model when model is not empty.
func WithModel(model string) Override {
	return func(cfg *Config) {
		if model != "" {
			cfg.Model = model
		}
	}
}

// Load reads the configuration. configFile may be empty. Overrides apply
// last, so the API key fallback follows an overridden provider.
func Load(configFile string, overrides ...Override) (*Config, error) {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if configFile != "" {
		if _, err := toml.DecodeFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file %s: %w", configFile, err)
		}
	}

	for _, override := range overrides {
		override(cfg)
	}

	provider, err := cfg.ProviderName()
	if err != nil {
		return nil, err
	}
	if cfg.APIKey == "" {
		if variable, ok := apiKeyVariables[provider]; ok {
			cfg.APIKey = os.Getenv(variable)
		}
	}

	return cfg, nil
}

// ProviderName resolves Provider, accepting the factory aliases.
func (cfg *Config) ProviderName() (ai.ProviderName, error) {
	return factory.ParseProvider(cfg.Provider)
}

// FactoryConfig converts cfg into the client configuration. An explicit
// temperature of 0 is kept.
func (cfg *Config) FactoryConfig(logger *slog.Logger) factory.Config {
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = -1
	}
	return factory.Config{
		ClientConfig: ai.ClientConfig{
			APIKey:            cfg.APIKey,
			BaseURL:           cfg.BaseURL,
			Model:             cfg.Model,
			Temperature:       temperature,
			MaxTokens:         cfg.MaxTokens,
			Timeout:           cfg.Timeout,
			MaxRetries:        cfg.MaxRetries,
			RetryDelay:        cfg.RetryDelay,
			RequestsPerSecond: cfg.RequestsPerSecond,
			Logger:            logger,
		},
		ResourceName:   cfg.Azure.ResourceName,
		DeploymentName: cfg.Azure.DeploymentName,
		APIVersion:     cfg.Azure.APIVersion,
	}
}

// Logger returns the logger described by LogFormat and LogLevel.
func (cfg *Config) Logger(output io.Writer) *slog.Logger {
	return logging.New(output, logging.ParseFormat(cfg.LogFormat), cfg.Level())
}

// Level returns the configured log level, INFO when it cannot be parsed.
func (cfg *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
