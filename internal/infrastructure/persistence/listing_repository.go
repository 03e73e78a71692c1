package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/listforge/backend/internal/domain/listing"
	"github.com/listforge/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormListingRepository implements listing.Repository using GORM
type GormListingRepository struct {
	db *gorm.DB
}

// NewGormListingRepository creates a new GormListingRepository
func NewGormListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

// FindByID finds a listing by its ID
func (r *GormListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	var l listing.Listing
	if err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

// FindAll finds all listings matching the filter and returns the total count
func (r *GormListingRepository) FindAll(ctx context.Context, filter shared.Filter) ([]listing.Listing, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&listing.Listing{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var listings []listing.Listing
	if err := applyPagination(query, filter, listingSortFields).Find(&listings).Error; err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

// FindByCategory finds listings for a category, optionally narrowed to one
// marketplace. A zero marketplaceID matches listings in any marketplace.
func (r *GormListingRepository) FindByCategory(ctx context.Context, categoryID, marketplaceID uuid.UUID, filter shared.Filter) ([]listing.Listing, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&listing.Listing{}), filter).
		Where("category_id = ?", categoryID)
	if marketplaceID != uuid.Nil {
		query = query.Where("marketplace_id = ?", marketplaceID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var listings []listing.Listing
	if err := applyPagination(query, filter, listingSortFields).Find(&listings).Error; err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

// Save creates or updates a listing
func (r *GormListingRepository) Save(ctx context.Context, l *listing.Listing) error {
	return r.db.WithContext(ctx).Save(l).Error
}

// SaveWithVersion persists the listing only if the stored row still carries
// expectedVersion. Zero rows updated means another writer got there first,
// reported as shared.ErrConcurrencyConflict.
func (r *GormListingRepository) SaveWithVersion(ctx context.Context, l *listing.Listing, expectedVersion int) error {
	result := r.db.WithContext(ctx).
		Model(&listing.Listing{}).
		Where("id = ? AND version = ?", l.ID, expectedVersion).
		Select("*").
		Omit("created_at").
		Updates(l)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete deletes a listing and all of its sections
func (r *GormListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&listing.Section{}, "listing_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&listing.Listing{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// applyFilter applies search and field filters without pagination
func (r *GormListingRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("product_name ILIKE ? OR brand ILIKE ? OR asin ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "phase", "status", "category_id", "marketplace_id":
			query = query.Where(key+" = ?", value)
		}
	}
	return query
}

// GormSectionRepository implements listing.SectionRepository using GORM
type GormSectionRepository struct {
	db *gorm.DB
}

// NewGormSectionRepository creates a new GormSectionRepository
func NewGormSectionRepository(db *gorm.DB) *GormSectionRepository {
	return &GormSectionRepository{db: db}
}

// FindByListing finds all sections of a listing ordered by type and position
func (r *GormSectionRepository) FindByListing(ctx context.Context, listingID uuid.UUID) ([]listing.Section, error) {
	var sections []listing.Section
	if err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("type ASC, position ASC").
		Find(&sections).Error; err != nil {
		return nil, err
	}
	return sections, nil
}

// FindByListingAndType finds all sections of one type ordered by position
func (r *GormSectionRepository) FindByListingAndType(ctx context.Context, listingID uuid.UUID, sectionType listing.SectionType) ([]listing.Section, error) {
	var sections []listing.Section
	if err := r.db.WithContext(ctx).
		Where("listing_id = ? AND type = ?", listingID, sectionType).
		Order("position ASC").
		Find(&sections).Error; err != nil {
		return nil, err
	}
	return sections, nil
}

// Save creates or updates a section
func (r *GormSectionRepository) Save(ctx context.Context, section *listing.Section) error {
	return r.db.WithContext(ctx).Save(section).Error
}

// SaveBatch persists a set of sections in one statement
func (r *GormSectionRepository) SaveBatch(ctx context.Context, sections []*listing.Section) error {
	if len(sections) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(sections).Error
}

// DeleteByListingAndTypes removes every section of the given types. Deleting
// zero rows is not an error: invalidation of a phase that never ran is a no-op.
func (r *GormSectionRepository) DeleteByListingAndTypes(ctx context.Context, listingID uuid.UUID, types []listing.SectionType) error {
	if len(types) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Delete(&listing.Section{}, "listing_id = ? AND type IN ?", listingID, types).Error
}

// DeleteByListing removes all sections of a listing
func (r *GormSectionRepository) DeleteByListing(ctx context.Context, listingID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&listing.Section{}, "listing_id = ?", listingID).Error
}

// Ensure the implementations satisfy their interfaces
var (
	_ listing.Repository        = (*GormListingRepository)(nil)
	_ listing.SectionRepository = (*GormSectionRepository)(nil)
)
