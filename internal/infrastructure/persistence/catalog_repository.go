package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/listforge/backend/internal/domain/catalog"
	"github.com/listforge/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by its ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	var category catalog.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindByCode finds a category by its code
func (r *GormCategoryRepository) FindByCode(ctx context.Context, code string) (*catalog.Category, error) {
	var category catalog.Category
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(code)).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindAll finds all categories matching the filter and returns the total count
func (r *GormCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Category, int64, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Category{})

	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ?", searchPattern, searchPattern)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var categories []catalog.Category
	if err := applyPagination(query, filter, categorySortFields).Find(&categories).Error; err != nil {
		return nil, 0, err
	}
	return categories, total, nil
}

// Save creates or updates a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// Delete deletes a category
func (r *GormCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Category{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormMarketplaceRepository implements MarketplaceRepository using GORM
type GormMarketplaceRepository struct {
	db *gorm.DB
}

// NewGormMarketplaceRepository creates a new GormMarketplaceRepository
func NewGormMarketplaceRepository(db *gorm.DB) *GormMarketplaceRepository {
	return &GormMarketplaceRepository{db: db}
}

// FindByID finds a marketplace by its ID
func (r *GormMarketplaceRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Marketplace, error) {
	var marketplace catalog.Marketplace
	if err := r.db.WithContext(ctx).First(&marketplace, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &marketplace, nil
}

// FindByCode finds a marketplace by its code
func (r *GormMarketplaceRepository) FindByCode(ctx context.Context, code string) (*catalog.Marketplace, error) {
	var marketplace catalog.Marketplace
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(code)).
		First(&marketplace).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &marketplace, nil
}

// FindAll finds all marketplaces ordered by code
func (r *GormMarketplaceRepository) FindAll(ctx context.Context) ([]catalog.Marketplace, error) {
	var marketplaces []catalog.Marketplace
	if err := r.db.WithContext(ctx).
		Order("code ASC").
		Find(&marketplaces).Error; err != nil {
		return nil, err
	}
	return marketplaces, nil
}

// Save creates or updates a marketplace
func (r *GormMarketplaceRepository) Save(ctx context.Context, marketplace *catalog.Marketplace) error {
	return r.db.WithContext(ctx).Save(marketplace).Error
}

// GormProductTypeRepository implements ProductTypeRepository using GORM
type GormProductTypeRepository struct {
	db *gorm.DB
}

// NewGormProductTypeRepository creates a new GormProductTypeRepository
func NewGormProductTypeRepository(db *gorm.DB) *GormProductTypeRepository {
	return &GormProductTypeRepository{db: db}
}

// FindByID finds a product type by its ID
func (r *GormProductTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProductType, error) {
	var productType catalog.ProductType
	if err := r.db.WithContext(ctx).First(&productType, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &productType, nil
}

// FindByCategory finds all product types belonging to a category
func (r *GormProductTypeRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]catalog.ProductType, error) {
	var productTypes []catalog.ProductType
	if err := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("name ASC").
		Find(&productTypes).Error; err != nil {
		return nil, err
	}
	return productTypes, nil
}

// Save creates or updates a product type
func (r *GormProductTypeRepository) Save(ctx context.Context, productType *catalog.ProductType) error {
	return r.db.WithContext(ctx).Save(productType).Error
}

// Delete deletes a product type
func (r *GormProductTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.ProductType{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure the implementations satisfy their interfaces
var (
	_ catalog.CategoryRepository    = (*GormCategoryRepository)(nil)
	_ catalog.MarketplaceRepository = (*GormMarketplaceRepository)(nil)
	_ catalog.ProductTypeRepository = (*GormProductTypeRepository)(nil)
)
