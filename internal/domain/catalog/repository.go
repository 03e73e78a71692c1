package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/listforge/backend/internal/domain/shared"
)

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindByCode(ctx context.Context, code string) (*Category, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Category, int64, error)
	Save(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// MarketplaceRepository defines the interface for marketplace persistence
type MarketplaceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Marketplace, error)
	FindByCode(ctx context.Context, code string) (*Marketplace, error)
	FindAll(ctx context.Context) ([]Marketplace, error)
	Save(ctx context.Context, marketplace *Marketplace) error
}

// ProductTypeRepository defines the interface for product type persistence
type ProductTypeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductType, error)
	FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]ProductType, error)
	Save(ctx context.Context, productType *ProductType) error
	Delete(ctx context.Context, id uuid.UUID) error
}
