package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/listforge/backend/internal/domain/catalog"
	"github.com/listforge/backend/internal/domain/shared"
)

// MarketplaceService handles marketplace-related business operations
type MarketplaceService struct {
	marketplaceRepo catalog.MarketplaceRepository
}

// NewMarketplaceService creates a new MarketplaceService
func NewMarketplaceService(marketplaceRepo catalog.MarketplaceRepository) *MarketplaceService {
	return &MarketplaceService{marketplaceRepo: marketplaceRepo}
}

// Create registers a new marketplace
func (s *MarketplaceService) Create(ctx context.Context, req CreateMarketplaceRequest) (*MarketplaceResponse, error) {
	existing, err := s.marketplaceRepo.FindByCode(ctx, req.Code)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Marketplace with this code already exists")
	}

	marketplace, err := catalog.NewMarketplace(req.Code, req.Name, req.Domain, req.Currency, req.Language)
	if err != nil {
		return nil, err
	}
	if err := s.marketplaceRepo.Save(ctx, marketplace); err != nil {
		return nil, err
	}
	return ToMarketplaceResponse(marketplace), nil
}

// GetByID retrieves a marketplace by ID
func (s *MarketplaceService) GetByID(ctx context.Context, id uuid.UUID) (*MarketplaceResponse, error) {
	marketplace, err := s.marketplaceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToMarketplaceResponse(marketplace), nil
}

// List retrieves all marketplaces
func (s *MarketplaceService) List(ctx context.Context) ([]MarketplaceResponse, error) {
	marketplaces, err := s.marketplaceRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]MarketplaceResponse, len(marketplaces))
	for i := range marketplaces {
		responses[i] = *ToMarketplaceResponse(&marketplaces[i])
	}
	return responses, nil
}

// Update updates a marketplace's mutable fields
func (s *MarketplaceService) Update(ctx context.Context, id uuid.UUID, req UpdateMarketplaceRequest) (*MarketplaceResponse, error) {
	marketplace, err := s.marketplaceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := marketplace.Update(req.Name, req.Domain, req.Currency, req.Language); err != nil {
		return nil, err
	}
	if err := s.marketplaceRepo.Save(ctx, marketplace); err != nil {
		return nil, err
	}
	return ToMarketplaceResponse(marketplace), nil
}
