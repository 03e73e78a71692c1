package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/listforge/backend/internal/domain/catalog"
)

// ProductTypeService handles product-type-related business operations
type ProductTypeService struct {
	productTypeRepo catalog.ProductTypeRepository
	categoryRepo    catalog.CategoryRepository
}

// NewProductTypeService creates a new ProductTypeService
func NewProductTypeService(productTypeRepo catalog.ProductTypeRepository, categoryRepo catalog.CategoryRepository) *ProductTypeService {
	return &ProductTypeService{
		productTypeRepo: productTypeRepo,
		categoryRepo:    categoryRepo,
	}
}

// Create creates a product type under an existing category
func (s *ProductTypeService) Create(ctx context.Context, req CreateProductTypeRequest) (*ProductTypeResponse, error) {
	if _, err := s.categoryRepo.FindByID(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	productType, err := catalog.NewProductType(req.CategoryID, req.Name)
	if err != nil {
		return nil, err
	}
	if req.BulletCount > 0 {
		productType.BulletCount = req.BulletCount
	}

	limits := productType.Limits()
	if req.TitleLimit > 0 {
		limits.Title = req.TitleLimit
	}
	if req.BulletLimit > 0 {
		limits.Bullet = req.BulletLimit
	}
	if req.DescLimit > 0 {
		limits.Description = req.DescLimit
	}
	if req.SearchLimit > 0 {
		limits.SearchTerms = req.SearchLimit
	}
	if err := productType.SetLimits(limits); err != nil {
		return nil, err
	}

	if err := s.productTypeRepo.Save(ctx, productType); err != nil {
		return nil, err
	}
	return ToProductTypeResponse(productType), nil
}

// GetByID retrieves a product type by ID
func (s *ProductTypeService) GetByID(ctx context.Context, id uuid.UUID) (*ProductTypeResponse, error) {
	productType, err := s.productTypeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToProductTypeResponse(productType), nil
}

// ListByCategory retrieves the product types of one category
func (s *ProductTypeService) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]ProductTypeResponse, error) {
	productTypes, err := s.productTypeRepo.FindByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	responses := make([]ProductTypeResponse, len(productTypes))
	for i := range productTypes {
		responses[i] = *ToProductTypeResponse(&productTypes[i])
	}
	return responses, nil
}

// Update updates a product type's generation defaults
func (s *ProductTypeService) Update(ctx context.Context, id uuid.UUID, req UpdateProductTypeRequest) (*ProductTypeResponse, error) {
	productType, err := s.productTypeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	productType.BulletCount = req.BulletCount
	if err := productType.SetLimits(catalog.CharacterLimits{
		Title:       req.TitleLimit,
		Bullet:      req.BulletLimit,
		Description: req.DescLimit,
		SearchTerms: req.SearchLimit,
	}); err != nil {
		return nil, err
	}

	if err := s.productTypeRepo.Save(ctx, productType); err != nil {
		return nil, err
	}
	return ToProductTypeResponse(productType), nil
}

// Delete removes a product type
func (s *ProductTypeService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productTypeRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.productTypeRepo.Delete(ctx, id)
}
