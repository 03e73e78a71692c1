package integration

import (
	"context"

	"github.com/listforge/backend/internal/domain/catalog"
	"github.com/listforge/backend/internal/domain/listing"
)

// GenerationRequest is the structured context handed to the AI generation
// service for one phase call.
type GenerationRequest struct {
	Phase       listing.Phase
	ProductName string
	Brand       string
	ASIN        string

	MarketplaceCode string
	Language        string

	Mode          listing.OptimizationMode
	ReferenceText string

	Limits       catalog.CharacterLimits
	BulletCount  int
	VariantCount int

	// AnalysisSummaries holds one flattened summary per analysis type,
	// assembled from the source selector's picks.
	AnalysisSummaries map[string]string

	// Confirmed upstream text, resolved through the final-text-or-selected-
	// variant rule before the call.
	ConfirmedTitle       string
	ConfirmedBullets     []string
	ConfirmedDescription string
	ConfirmedSearchTerms string

	// Coverage carried forward from the previous phase's output.
	Coverage listing.KeywordCoverage
}

// GeneratedSection is one section's worth of fresh variants
type GeneratedSection struct {
	Type     listing.SectionType
	Position int
	Variants []string
}

// GenerationResult is what one phase call produces: new section variants,
// the updated keyword-coverage state, and usage accounting.
type GenerationResult struct {
	Sections   []GeneratedSection
	Coverage   listing.KeywordCoverage
	ModelID    string
	TokensUsed int
}

// ListingGenerator is the stateless AI generation service. Calls are
// idempotent-safe to retry; the adapter has no side effects beyond
// returning text.
type ListingGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) (*GenerationResult, error)
}
