package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/listforge/backend/internal/domain/catalog"
)

// CreateCategoryRequest creates a new research category
type CreateCategoryRequest struct {
	Code        string `json:"code" binding:"required,max=50"`
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description"`
}

// UpdateCategoryRequest updates a category's mutable fields
type UpdateCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description"`
}

// CategoryListFilter filters category listings
type CategoryListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active archived"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// CategoryResponse is the API view of a category
type CategoryResponse struct {
	ID          uuid.UUID              `json:"id"`
	Code        string                 `json:"code"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Status      catalog.CategoryStatus `json:"status"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// ToCategoryResponse converts a category to its response view
func ToCategoryResponse(c *catalog.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:          c.ID,
		Code:        c.Code,
		Name:        c.Name,
		Description: c.Description,
		Status:      c.Status,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// CreateMarketplaceRequest registers a new marketplace
type CreateMarketplaceRequest struct {
	Code     string `json:"code" binding:"required,max=10"`
	Name     string `json:"name" binding:"required,max=100"`
	Domain   string `json:"domain" binding:"required,max=100"`
	Currency string `json:"currency" binding:"required,len=3"`
	Language string `json:"language" binding:"omitempty,max=10"`
}

// UpdateMarketplaceRequest updates a marketplace's mutable fields
type UpdateMarketplaceRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Domain   string `json:"domain" binding:"required,max=100"`
	Currency string `json:"currency" binding:"required,len=3"`
	Language string `json:"language" binding:"omitempty,max=10"`
}

// MarketplaceResponse is the API view of a marketplace
type MarketplaceResponse struct {
	ID       uuid.UUID `json:"id"`
	Code     string    `json:"code"`
	Name     string    `json:"name"`
	Domain   string    `json:"domain"`
	Currency string    `json:"currency"`
	Language string    `json:"language"`
}

// ToMarketplaceResponse converts a marketplace to its response view
func ToMarketplaceResponse(m *catalog.Marketplace) *MarketplaceResponse {
	return &MarketplaceResponse{
		ID:       m.ID,
		Code:     m.Code,
		Name:     m.Name,
		Domain:   m.Domain,
		Currency: m.Currency,
		Language: m.Language,
	}
}

// CreateProductTypeRequest creates a product type under a category
type CreateProductTypeRequest struct {
	CategoryID  uuid.UUID `json:"category_id" binding:"required"`
	Name        string    `json:"name" binding:"required,max=200"`
	BulletCount int       `json:"bullet_count" binding:"omitempty,min=1,max=10"`

	TitleLimit  int `json:"title_limit" binding:"omitempty,min=1"`
	BulletLimit int `json:"bullet_limit" binding:"omitempty,min=1"`
	DescLimit   int `json:"desc_limit" binding:"omitempty,min=1"`
	SearchLimit int `json:"search_limit" binding:"omitempty,min=1"`
}

// UpdateProductTypeRequest updates a product type's generation defaults
type UpdateProductTypeRequest struct {
	BulletCount int `json:"bullet_count" binding:"required,min=1,max=10"`
	TitleLimit  int `json:"title_limit" binding:"required,min=1"`
	BulletLimit int `json:"bullet_limit" binding:"required,min=1"`
	DescLimit   int `json:"desc_limit" binding:"required,min=1"`
	SearchLimit int `json:"search_limit" binding:"required,min=1"`
}

// ProductTypeResponse is the API view of a product type
type ProductTypeResponse struct {
	ID          uuid.UUID               `json:"id"`
	CategoryID  uuid.UUID               `json:"category_id"`
	Name        string                  `json:"name"`
	BulletCount int                     `json:"bullet_count"`
	Limits      catalog.CharacterLimits `json:"limits"`
}

// ToProductTypeResponse converts a product type to its response view
func ToProductTypeResponse(p *catalog.ProductType) *ProductTypeResponse {
	return &ProductTypeResponse{
		ID:          p.ID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		BulletCount: p.BulletCount,
		Limits:      p.Limits(),
	}
}
