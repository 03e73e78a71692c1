package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/listforge/backend/internal/domain/research"
	"github.com/listforge/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAnalysisRepository implements research.AnalysisRepository using GORM
type GormAnalysisRepository struct {
	db *gorm.DB
}

// NewGormAnalysisRepository creates a new GormAnalysisRepository
func NewGormAnalysisRepository(db *gorm.DB) *GormAnalysisRepository {
	return &GormAnalysisRepository{db: db}
}

// FindByID finds an analysis by its ID
func (r *GormAnalysisRepository) FindByID(ctx context.Context, id uuid.UUID) (*research.Analysis, error) {
	var analysis research.Analysis
	if err := r.db.WithContext(ctx).First(&analysis, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &analysis, nil
}

// FindByCategoryAndMarketplace finds all analyses for a (category, marketplace) pair
func (r *GormAnalysisRepository) FindByCategoryAndMarketplace(ctx context.Context, categoryID, marketplaceID uuid.UUID) ([]research.Analysis, error) {
	var analyses []research.Analysis
	if err := r.db.WithContext(ctx).
		Where("category_id = ? AND marketplace_id = ?", categoryID, marketplaceID).
		Order("type ASC, source ASC").
		Find(&analyses).Error; err != nil {
		return nil, err
	}
	return analyses, nil
}

// FindByTuple finds all analyses of one type for a (category, marketplace) pair
func (r *GormAnalysisRepository) FindByTuple(ctx context.Context, categoryID, marketplaceID uuid.UUID, analysisType research.AnalysisType) ([]research.Analysis, error) {
	var analyses []research.Analysis
	if err := r.db.WithContext(ctx).
		Where("category_id = ? AND marketplace_id = ? AND type = ?", categoryID, marketplaceID, analysisType).
		Order("source ASC").
		Find(&analyses).Error; err != nil {
		return nil, err
	}
	return analyses, nil
}

// Upsert inserts the analysis or replaces the payload of the existing row
// with the same (category, marketplace, type, source) tuple.
func (r *GormAnalysisRepository) Upsert(ctx context.Context, analysis *research.Analysis) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "category_id"}, {Name: "marketplace_id"}, {Name: "type"}, {Name: "source"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"schema_version", "payload_json", "completed_at", "updated_at", "version",
		}),
	}).Create(analysis).Error
}

// Delete deletes an analysis
func (r *GormAnalysisRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&research.Analysis{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormReviewSetRepository implements research.ReviewSetRepository using GORM
type GormReviewSetRepository struct {
	db *gorm.DB
}

// NewGormReviewSetRepository creates a new GormReviewSetRepository
func NewGormReviewSetRepository(db *gorm.DB) *GormReviewSetRepository {
	return &GormReviewSetRepository{db: db}
}

// FindByKey finds the aggregated review record for an (ASIN, marketplace) pair
func (r *GormReviewSetRepository) FindByKey(ctx context.Context, asin string, marketplaceID uuid.UUID) (*research.ReviewSet, error) {
	var set research.ReviewSet
	if err := r.db.WithContext(ctx).
		Where("asin = ? AND marketplace_id = ?", strings.ToUpper(strings.TrimSpace(asin)), marketplaceID).
		First(&set).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &set, nil
}

// Upsert inserts or replaces the row with the same (ASIN, marketplace) key
// in a single atomic write.
func (r *GormReviewSetRepository) Upsert(ctx context.Context, set *research.ReviewSet) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "asin"}, {Name: "marketplace_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"items_json", "total_count", "provenance_json", "last_provider", "last_fetched_at", "updated_at", "version",
		}),
	}).Create(set).Error
}

// GormQASetRepository implements research.QASetRepository using GORM
type GormQASetRepository struct {
	db *gorm.DB
}

// NewGormQASetRepository creates a new GormQASetRepository
func NewGormQASetRepository(db *gorm.DB) *GormQASetRepository {
	return &GormQASetRepository{db: db}
}

// FindByKey finds the aggregated Q&A record for an (ASIN, marketplace) pair
func (r *GormQASetRepository) FindByKey(ctx context.Context, asin string, marketplaceID uuid.UUID) (*research.QASet, error) {
	var set research.QASet
	if err := r.db.WithContext(ctx).
		Where("asin = ? AND marketplace_id = ?", strings.ToUpper(strings.TrimSpace(asin)), marketplaceID).
		First(&set).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &set, nil
}

// Upsert inserts or replaces the row with the same (ASIN, marketplace) key
func (r *GormQASetRepository) Upsert(ctx context.Context, set *research.QASet) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "asin"}, {Name: "marketplace_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"items_json", "total_count", "provenance_json", "last_provider", "last_fetched_at", "updated_at", "version",
		}),
	}).Create(set).Error
}

// Ensure the implementations satisfy their interfaces
var (
	_ research.AnalysisRepository  = (*GormAnalysisRepository)(nil)
	_ research.ReviewSetRepository = (*GormReviewSetRepository)(nil)
	_ research.QASetRepository     = (*GormQASetRepository)(nil)
)
