package catalog

import (
	"strings"
	"time"

	"github.com/listforge/backend/internal/domain/shared"
)

// CategoryStatus represents the status of a category
type CategoryStatus string

const (
	CategoryStatusActive   CategoryStatus = "active"
	CategoryStatusArchived CategoryStatus = "archived"
)

// Category is a product niche the content team researches and writes
// listings for. Research analyses and listings are owned by a
// (category, marketplace) pair.
type Category struct {
	shared.BaseAggregateRoot
	Code        string         `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string         `gorm:"type:varchar(200);not null"`
	Description string         `gorm:"type:text"`
	Status      CategoryStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new category
func NewCategory(code, name string) (*Category, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" || len(code) > 50 {
		return nil, shared.NewValidationError("Category code must be 1-50 characters")
	}
	if name == "" || len(name) > 200 {
		return nil, shared.NewValidationError("Category name must be 1-200 characters")
	}

	return &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Status:            CategoryStatusActive,
	}, nil
}

// Update updates the category's basic information
func (c *Category) Update(name, description string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 200 {
		return shared.NewValidationError("Category name must be 1-200 characters")
	}
	c.Name = name
	c.Description = description
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// Archive marks the category as archived
func (c *Category) Archive() {
	c.Status = CategoryStatusArchived
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
