package catalog

import (
	"strings"
	"time"

	"github.com/listforge/backend/internal/domain/shared"
)

// Marketplace is one Amazon storefront (US, UK, DE, ...). Every
// marketplace-scoped record references one of these rows.
type Marketplace struct {
	shared.BaseAggregateRoot
	Code     string `gorm:"type:varchar(10);not null;uniqueIndex"`
	Name     string `gorm:"type:varchar(100);not null"`
	Domain   string `gorm:"type:varchar(100);not null"` // e.g. amazon.com, amazon.co.uk
	Currency string `gorm:"type:varchar(3);not null"`
	Language string `gorm:"type:varchar(10);not null"` // BCP 47 tag used in generation prompts
}

// TableName returns the table name for GORM
func (Marketplace) TableName() string {
	return "marketplaces"
}

// NewMarketplace creates a new marketplace
func NewMarketplace(code, name, domain, currency, language string) (*Marketplace, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || len(code) > 10 {
		return nil, shared.NewValidationError("Marketplace code must be 1-10 characters")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewValidationError("Marketplace name cannot be empty")
	}
	if strings.TrimSpace(domain) == "" {
		return nil, shared.NewValidationError("Marketplace domain cannot be empty")
	}
	if len(currency) != 3 {
		return nil, shared.NewValidationError("Marketplace currency must be a 3-letter code")
	}
	if strings.TrimSpace(language) == "" {
		language = "en-US"
	}

	return &Marketplace{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              strings.TrimSpace(name),
		Domain:            strings.ToLower(strings.TrimSpace(domain)),
		Currency:          strings.ToUpper(currency),
		Language:          language,
	}, nil
}

// Update updates the marketplace's mutable fields
func (m *Marketplace) Update(name, domain, currency, language string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewValidationError("Marketplace name cannot be empty")
	}
	if len(currency) != 3 {
		return shared.NewValidationError("Marketplace currency must be a 3-letter code")
	}
	m.Name = strings.TrimSpace(name)
	m.Domain = strings.ToLower(strings.TrimSpace(domain))
	m.Currency = strings.ToUpper(currency)
	if strings.TrimSpace(language) != "" {
		m.Language = language
	}
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
	return nil
}
