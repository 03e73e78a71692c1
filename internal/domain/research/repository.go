package research

import (
	"context"

	"github.com/google/uuid"
)

// AnalysisRepository defines the interface for analysis persistence
type AnalysisRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Analysis, error)
	FindByCategoryAndMarketplace(ctx context.Context, categoryID, marketplaceID uuid.UUID) ([]Analysis, error)
	FindByTuple(ctx context.Context, categoryID, marketplaceID uuid.UUID, analysisType AnalysisType) ([]Analysis, error)

	// Upsert inserts the analysis or replaces the payload of the existing
	// row with the same (category, marketplace, type, source) tuple.
	Upsert(ctx context.Context, analysis *Analysis) error

	Delete(ctx context.Context, id uuid.UUID) error
}

// ReviewSetRepository defines the interface for aggregated review persistence
type ReviewSetRepository interface {
	FindByKey(ctx context.Context, asin string, marketplaceID uuid.UUID) (*ReviewSet, error)

	// Upsert inserts or replaces the row with the same (ASIN, marketplace)
	// key in a single atomic write.
	Upsert(ctx context.Context, set *ReviewSet) error
}

// QASetRepository defines the interface for aggregated Q&A persistence
type QASetRepository interface {
	FindByKey(ctx context.Context, asin string, marketplaceID uuid.UUID) (*QASet, error)
	Upsert(ctx context.Context, set *QASet) error
}
