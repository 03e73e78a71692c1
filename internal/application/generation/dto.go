package generation

import (
	"time"

	"github.com/google/uuid"
	"github.com/listforge/backend/internal/domain/batch"
	"github.com/listforge/backend/internal/domain/listing"
)

// DefaultVariantCount is how many candidate texts each phase asks the
// generator for per section.
const DefaultVariantCount = 3

// TitlePhaseRequest starts the phase sequence: it creates the listing and
// generates its title variants.
type TitlePhaseRequest struct {
	CategoryID    uuid.UUID  `json:"category_id" binding:"required"`
	MarketplaceID uuid.UUID  `json:"marketplace_id" binding:"required"`
	ProductTypeID *uuid.UUID `json:"product_type_id"`

	ProductName string `json:"product_name" binding:"required,min=3,max=500"`
	Brand       string `json:"brand" binding:"required,max=200"`
	ASIN        string `json:"asin" binding:"omitempty,max=20"`

	Mode          listing.OptimizationMode `json:"mode" binding:"omitempty,oneof=new optimize based_on"`
	ReferenceText string                   `json:"reference_text"`
}

// PhaseRequest runs or regenerates one later phase for an existing listing
type PhaseRequest struct {
	ListingID uuid.UUID `json:"listing_id" binding:"required"`
}

// UpdateSectionRequest selects a variant or records a human override
type UpdateSectionRequest struct {
	Position      int     `json:"position" binding:"min=0"`
	SelectedIndex *int    `json:"selected_index"`
	FinalText     *string `json:"final_text"`
}

// SectionResponse is the API view of one listing section
type SectionResponse struct {
	ID            uuid.UUID           `json:"id"`
	Type          listing.SectionType `json:"type"`
	Position      int                 `json:"position"`
	Variants      []string            `json:"variants"`
	SelectedIndex int                 `json:"selected_index"`
	FinalText     string              `json:"final_text,omitempty"`
	Approved      bool                `json:"approved"`
	ConfirmedText string              `json:"confirmed_text"`
}

// ListingResponse is the API view of a listing with its sections
type ListingResponse struct {
	ID            uuid.UUID  `json:"id"`
	CategoryID    uuid.UUID  `json:"category_id"`
	MarketplaceID uuid.UUID  `json:"marketplace_id"`
	ProductTypeID *uuid.UUID `json:"product_type_id,omitempty"`

	ProductName string `json:"product_name"`
	Brand       string `json:"brand"`
	ASIN        string `json:"asin,omitempty"`

	Phase  listing.Phase            `json:"phase"`
	Status listing.ListingStatus    `json:"status"`
	Mode   listing.OptimizationMode `json:"mode"`

	Coverage   listing.KeywordCoverage `json:"keyword_coverage"`
	ModelID    string                  `json:"model_id,omitempty"`
	TokensUsed int                     `json:"tokens_used"`

	FinalTitle       string   `json:"final_title,omitempty"`
	FinalBullets     []string `json:"final_bullets,omitempty"`
	FinalDescription string   `json:"final_description,omitempty"`
	FinalSearchTerms string   `json:"final_search_terms,omitempty"`

	Sections  []SectionResponse `json:"sections,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// ToSectionResponse converts a section to its response view
func ToSectionResponse(s *listing.Section) SectionResponse {
	return SectionResponse{
		ID:            s.ID,
		Type:          s.Type,
		Position:      s.Position,
		Variants:      s.Variants(),
		SelectedIndex: s.SelectedIndex,
		FinalText:     s.FinalText,
		Approved:      s.Approved(),
		ConfirmedText: s.ConfirmedText(),
	}
}

// ToListingResponse converts a listing and its sections to the response view
func ToListingResponse(l *listing.Listing, sections []listing.Section) *ListingResponse {
	resp := &ListingResponse{
		ID:               l.ID,
		CategoryID:       l.CategoryID,
		MarketplaceID:    l.MarketplaceID,
		ProductTypeID:    l.ProductTypeID,
		ProductName:      l.ProductName,
		Brand:            l.Brand,
		ASIN:             l.ASIN,
		Phase:            l.Phase,
		Status:           l.Status,
		Mode:             l.Mode,
		Coverage:         l.Coverage(),
		ModelID:          l.ModelID,
		TokensUsed:       l.TokensUsed,
		FinalTitle:       l.FinalTitle,
		FinalBullets:     l.FinalBullets(),
		FinalDescription: l.FinalDescription,
		FinalSearchTerms: l.FinalSearchTerms,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
	for i := range sections {
		resp.Sections = append(resp.Sections, ToSectionResponse(&sections[i]))
	}
	return resp
}

// BatchItemSpec is one operator-supplied product specification
type BatchItemSpec struct {
	ProductName string `json:"product_name" binding:"required"`
	Brand       string `json:"brand" binding:"required"`
	ASIN        string `json:"asin"`
}

// CreateBatchRequest starts a batch generation run
type CreateBatchRequest struct {
	CategoryID    uuid.UUID       `json:"category_id" binding:"required"`
	MarketplaceID uuid.UUID       `json:"marketplace_id" binding:"required"`
	Items         []BatchItemSpec `json:"items" binding:"required,min=1,max=20,dive"`
}

// BatchJobResponse is the pollable batch progress view
type BatchJobResponse struct {
	ID                uuid.UUID           `json:"id"`
	CategoryID        uuid.UUID           `json:"category_id"`
	MarketplaceID     uuid.UUID           `json:"marketplace_id"`
	TotalItems        int                 `json:"total_items"`
	CompletedListings int                 `json:"completed_listings"`
	Failures          []batch.ItemFailure `json:"failures"`
	Status            batch.BatchStatus   `json:"status"`
	TokensUsed        int                 `json:"tokens_used"`
	StartedAt         time.Time           `json:"started_at"`
	CompletedAt       *time.Time          `json:"completed_at,omitempty"`
}

// ToBatchJobResponse converts a batch job to its response view
func ToBatchJobResponse(job *batch.BatchJob) *BatchJobResponse {
	failures := job.Failures()
	if failures == nil {
		failures = []batch.ItemFailure{}
	}
	return &BatchJobResponse{
		ID:                job.ID,
		CategoryID:        job.CategoryID,
		MarketplaceID:     job.MarketplaceID,
		TotalItems:        job.TotalItems,
		CompletedListings: job.CompletedListings,
		Failures:          failures,
		Status:            job.Status,
		TokensUsed:        job.TokensUsed,
		StartedAt:         job.StartedAt,
		CompletedAt:       job.CompletedAt,
	}
}
