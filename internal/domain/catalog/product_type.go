package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/listforge/backend/internal/domain/shared"
)

// CharacterLimits holds per-section maximum lengths enforced by the
// marketplace for a given product type.
type CharacterLimits struct {
	Title       int `json:"title"`
	Bullet      int `json:"bullet"`
	Description int `json:"description"`
	SearchTerms int `json:"search_terms"`
}

// DefaultCharacterLimits returns the stock Amazon limits used when a
// listing has no product type attached.
func DefaultCharacterLimits() CharacterLimits {
	return CharacterLimits{
		Title:       200,
		Bullet:      255,
		Description: 2000,
		SearchTerms: 250,
	}
}

// ProductType is an optional per-category record carrying generation
// defaults (character limits, bullet count) for one kind of product.
type ProductType struct {
	shared.BaseAggregateRoot
	CategoryID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:varchar(200);not null"`
	BulletCount int       `gorm:"not null;default:5"`
	TitleLimit  int       `gorm:"not null;default:200"`
	BulletLimit int       `gorm:"not null;default:255"`
	DescLimit   int       `gorm:"not null;default:2000"`
	SearchLimit int       `gorm:"not null;default:250"`
}

// TableName returns the table name for GORM
func (ProductType) TableName() string {
	return "product_types"
}

// NewProductType creates a new product type with default limits
func NewProductType(categoryID uuid.UUID, name string) (*ProductType, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewValidationError("Product type name cannot be empty")
	}
	limits := DefaultCharacterLimits()
	return &ProductType{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CategoryID:        categoryID,
		Name:              strings.TrimSpace(name),
		BulletCount:       5,
		TitleLimit:        limits.Title,
		BulletLimit:       limits.Bullet,
		DescLimit:         limits.Description,
		SearchLimit:       limits.SearchTerms,
	}, nil
}

// Limits returns the character limits for this product type
func (p *ProductType) Limits() CharacterLimits {
	return CharacterLimits{
		Title:       p.TitleLimit,
		Bullet:      p.BulletLimit,
		Description: p.DescLimit,
		SearchTerms: p.SearchLimit,
	}
}

// SetLimits overrides the character limits
func (p *ProductType) SetLimits(limits CharacterLimits) error {
	if limits.Title <= 0 || limits.Bullet <= 0 || limits.Description <= 0 || limits.SearchTerms <= 0 {
		return shared.NewValidationError("Character limits must be positive")
	}
	p.TitleLimit = limits.Title
	p.BulletLimit = limits.Bullet
	p.DescLimit = limits.Description
	p.SearchLimit = limits.SearchTerms
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}
