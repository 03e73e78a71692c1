package aigen

import (
	"errors"
	"time"
)

// OpenAIConfig holds configuration for the OpenAI-compatible chat
// completions API used for listing generation.
type OpenAIConfig struct {
	// APIKey is the bearer token
	APIKey string
	// BaseURL is the API root, e.g. https://api.openai.com/v1
	BaseURL string
	// Model is the model identifier sent with every call
	Model string
	// Temperature controls sampling variance
	Temperature float64
	// Timeout bounds every generation call
	Timeout time.Duration
}

// Defaults for the OpenAI configuration
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
)

// Errors for OpenAI configuration
var ErrOpenAIConfigMissingAPIKey = errors.New("aigen: api key is required")

// NewOpenAIConfig creates a new OpenAI configuration with defaults
func NewOpenAIConfig(apiKey string) *OpenAIConfig {
	return &OpenAIConfig{
		APIKey:      apiKey,
		BaseURL:     DefaultBaseURL,
		Model:       DefaultModel,
		Temperature: 0.7,
		Timeout:     120 * time.Second,
	}
}

// Validate validates the OpenAI configuration
func (c *OpenAIConfig) Validate() error {
	if c.APIKey == "" {
		return ErrOpenAIConfigMissingAPIKey
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Timeout <= 0 {
		c.Timeout = 120 * time.Second
	}
	return nil
}
