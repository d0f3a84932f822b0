package ai

import (
	"log/slog"
	"net/http"
	"slices"
	"time"
)

/*
	##### MESSAGES #####
*/

// MessageRole represents the role of a message; compatible with string
type MessageRole string

const (
	RoleSystem    MessageRole = "system"    // System instructions/configuration
	RoleUser      MessageRole = "user"      // End-user message
	RoleAssistant MessageRole = "assistant" // Previous model response
)

// Message represents a single message in a conversation. The order of a
// message slice is significant: providers may extract or merge system
// messages but never reorder them relative to each other.
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// SystemMessage builds a message with [RoleSystem].
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage builds a message with [RoleUser].
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage builds a message with [RoleAssistant].
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

/*
	##### CONFIGURATION #####
*/

const (
	DefaultTimeout     = 30 * time.Second
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = time.Second
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 4096
)

// DefaultRetryableStatusCodes lists the HTTP status codes that are retried
// unless a RetryConfig overrides them.
var DefaultRetryableStatusCodes = []int{429, 500, 502, 503, 504}

// ClientConfig holds the settings shared by every provider client. Zero values
// are replaced by [ClientConfig.WithDefaults] when a client is constructed; the
// resulting copy is never mutated afterwards.
type ClientConfig struct {
	APIKey  string // Credential; unused by Ollama
	BaseURL string // Optional override of the provider's default endpoint base
	Model   string // Optional; the provider default is used when empty

	Temperature float64 // Sampling temperature, default 0.7. Negative requests 0.
	MaxTokens   int     // Completion budget, default 4096

	Timeout    time.Duration // Time allowed until response headers arrive, default 30s
	MaxRetries int           // Retries after the first attempt, default 3. Negative disables retries.
	RetryDelay time.Duration // Base backoff, doubled per attempt, default 1s

	// RequestsPerSecond throttles outgoing requests of a single client.
	// Zero means unlimited.
	RequestsPerSecond float64

	HTTPClient *http.Client // Optional; a fresh client is used when nil
	Logger     *slog.Logger // Optional; slog.Default() when nil
}

// WithDefaults returns a copy of the config with every unset field filled in.
// defaultBaseURL and defaultModel come from the provider being constructed.
func (c ClientConfig) WithDefaults(defaultBaseURL, defaultModel string) ClientConfig {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.Model == "" {
		c.Model = defaultModel
	}
	if c.Temperature == 0 {
		c.Temperature = DefaultTemperature
	} else if c.Temperature < 0 {
		c.Temperature = 0
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = DefaultMaxRetries
	} else if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{}
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// RetryConfig controls the retry-with-backoff policy applied to HTTP calls.
type RetryConfig struct {
	MaxRetries           int           // Attempts after the first one
	RetryDelay           time.Duration // Delay before retry i is RetryDelay * 2^i
	RetryableStatusCodes []int         // Defaults to DefaultRetryableStatusCodes when nil
}

// RetryConfig derives the retry policy from the client configuration. The
// synthetic request timeout is retried along with the default set.
func (c ClientConfig) RetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:           c.MaxRetries,
		RetryDelay:           c.RetryDelay,
		RetryableStatusCodes: append(slices.Clone(DefaultRetryableStatusCodes), StatusRequestTimeout),
	}
}
