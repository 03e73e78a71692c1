package listing

import (
	"context"

	"github.com/google/uuid"
	"github.com/listforge/backend/internal/domain/shared"
)

// Repository defines the interface for listing persistence
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Listing, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Listing, int64, error)
	FindByCategory(ctx context.Context, categoryID, marketplaceID uuid.UUID, filter shared.Filter) ([]Listing, int64, error)
	Save(ctx context.Context, l *Listing) error

	// SaveWithVersion persists the listing only if the stored row still has
	// the given version, returning shared.ErrConcurrencyConflict otherwise.
	// Phase transitions go through this to keep two simultaneous
	// regenerations from racing on one listing.
	SaveWithVersion(ctx context.Context, l *Listing, expectedVersion int) error

	Delete(ctx context.Context, id uuid.UUID) error
}

// SectionRepository defines the interface for section persistence
type SectionRepository interface {
	FindByListing(ctx context.Context, listingID uuid.UUID) ([]Section, error)
	FindByListingAndType(ctx context.Context, listingID uuid.UUID, sectionType SectionType) ([]Section, error)
	Save(ctx context.Context, section *Section) error
	SaveBatch(ctx context.Context, sections []*Section) error

	// DeleteByListingAndTypes removes every section of the given types,
	// the single primitive behind cascading invalidation.
	DeleteByListingAndTypes(ctx context.Context, listingID uuid.UUID, types []SectionType) error

	DeleteByListing(ctx context.Context, listingID uuid.UUID) error
}
