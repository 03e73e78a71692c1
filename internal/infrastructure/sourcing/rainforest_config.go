package sourcing

import (
	"errors"
	"time"
)

// RainforestConfig holds configuration for the Rainforest structured
// marketplace-data API.
type RainforestConfig struct {
	// APIKey is the account API key
	APIKey string
	// BaseURL is the API endpoint
	BaseURL string
	// Timeout bounds every outbound call
	Timeout time.Duration
}

// RainforestProductionAPIURL is the production API endpoint
const RainforestProductionAPIURL = "https://api.rainforestapi.com"

// Errors for Rainforest configuration
var ErrRainforestConfigMissingAPIKey = errors.New("rainforest: api key is required")

// NewRainforestConfig creates a new Rainforest configuration with defaults
func NewRainforestConfig(apiKey string) *RainforestConfig {
	return &RainforestConfig{
		APIKey:  apiKey,
		BaseURL: RainforestProductionAPIURL,
		Timeout: 60 * time.Second,
	}
}

// Validate validates the Rainforest configuration
func (c *RainforestConfig) Validate() error {
	if c.APIKey == "" {
		return ErrRainforestConfigMissingAPIKey
	}
	if c.BaseURL == "" {
		c.BaseURL = RainforestProductionAPIURL
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	return nil
}
