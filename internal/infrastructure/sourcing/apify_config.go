package sourcing

import (
	"errors"
	"time"
)

// ApifyConfig holds configuration for the Apify scrape-actor API
type ApifyConfig struct {
	// APIKey is the account API token
	APIKey string
	// BaseURL is the API endpoint
	BaseURL string
	// ReviewActor is the actor id used to scrape review pages
	ReviewActor string
	// QAActor is the actor id used to scrape Q&A pages
	QAActor string
	// CatalogActor is the actor id used to scrape a seller's catalog
	CatalogActor string
	// PollInterval is the delay between run status polls
	PollInterval time.Duration
	// Timeout bounds the whole submit-poll-download cycle for one call
	Timeout time.Duration
}

// ApifyProductionAPIURL is the production API endpoint
const ApifyProductionAPIURL = "https://api.apify.com"

// Errors for Apify configuration
var (
	ErrApifyConfigMissingAPIKey = errors.New("apify: api key is required")
	ErrApifyConfigMissingActor  = errors.New("apify: at least one actor id is required")
)

// NewApifyConfig creates a new Apify configuration with defaults
func NewApifyConfig(apiKey, reviewActor, qaActor, catalogActor string) *ApifyConfig {
	return &ApifyConfig{
		APIKey:       apiKey,
		BaseURL:      ApifyProductionAPIURL,
		ReviewActor:  reviewActor,
		QAActor:      qaActor,
		CatalogActor: catalogActor,
		PollInterval: 2 * time.Second,
		Timeout:      60 * time.Second,
	}
}

// Validate validates the Apify configuration
func (c *ApifyConfig) Validate() error {
	if c.APIKey == "" {
		return ErrApifyConfigMissingAPIKey
	}
	if c.ReviewActor == "" && c.QAActor == "" && c.CatalogActor == "" {
		return ErrApifyConfigMissingActor
	}
	if c.BaseURL == "" {
		c.BaseURL = ApifyProductionAPIURL
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 2 * time.Second
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	return nil
}
