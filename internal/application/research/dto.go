package research

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/listforge/backend/internal/domain/batch"
	"github.com/listforge/backend/internal/domain/research"
)

// FetchReviewsRequest asks for a synchronous review pull through the
// provider fallback chain. MaxItems 0 means fetch everything the winning
// provider reports.
type FetchReviewsRequest struct {
	ASIN          string    `json:"asin" binding:"required"`
	MarketplaceID uuid.UUID `json:"marketplace_id" binding:"required"`
	MaxItems      int       `json:"max_items" binding:"min=0"`
}

// FetchReviewsResponse reports the outcome of a review pull
type FetchReviewsResponse struct {
	ASIN       string `json:"asin"`
	Provider   string `json:"provider"`
	Fetched    int    `json:"fetched"`
	Added      int    `json:"added"`
	TotalCount int    `json:"total_count"`
}

// FetchQARequest asks for a synchronous Q&A pull
type FetchQARequest struct {
	ASIN          string    `json:"asin" binding:"required"`
	MarketplaceID uuid.UUID `json:"marketplace_id" binding:"required"`
	MaxItems      int       `json:"max_items" binding:"min=0"`
}

// FetchQAResponse reports the outcome of a Q&A pull
type FetchQAResponse struct {
	ASIN       string `json:"asin"`
	Provider   string `json:"provider"`
	Fetched    int    `json:"fetched"`
	Added      int    `json:"added"`
	TotalCount int    `json:"total_count"`
}

// StartFetchJobRequest dispatches a background pull
type StartFetchJobRequest struct {
	Kind          batch.FetchJobKind `json:"kind" binding:"required"`
	EntityKey     string             `json:"entity_key" binding:"required"`
	MarketplaceID uuid.UUID          `json:"marketplace_id" binding:"required"`
}

// FetchJobResponse is the pollable job-status view
type FetchJobResponse struct {
	ID          uuid.UUID            `json:"id"`
	Kind        batch.FetchJobKind   `json:"kind"`
	EntityKey   string               `json:"entity_key"`
	Status      batch.FetchJobStatus `json:"status"`
	Provider    string               `json:"provider,omitempty"`
	ItemCount   int                  `json:"item_count"`
	Error       string               `json:"error,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	CompletedAt *time.Time           `json:"completed_at,omitempty"`
}

// ToFetchJobResponse converts a fetch job to its response view
func ToFetchJobResponse(job *batch.FetchJob) *FetchJobResponse {
	return &FetchJobResponse{
		ID:          job.ID,
		Kind:        job.Kind,
		EntityKey:   job.EntityKey,
		Status:      job.Status,
		Provider:    job.Provider,
		ItemCount:   job.ItemCount,
		Error:       job.Error,
		CreatedAt:   job.CreatedAt,
		CompletedAt: job.CompletedAt,
	}
}

// UpsertAnalysisRequest writes one analysis for a (category, marketplace,
// type, source) tuple. Payload is decoded into the typed shape matching Type.
type UpsertAnalysisRequest struct {
	CategoryID    uuid.UUID               `json:"category_id" binding:"required"`
	MarketplaceID uuid.UUID               `json:"marketplace_id" binding:"required"`
	Type          research.AnalysisType   `json:"type" binding:"required"`
	Source        research.AnalysisSource `json:"source" binding:"required"`
	Payload       json.RawMessage         `json:"payload" binding:"required"`
}

// AnalysisResponse is the API view of an analysis row
type AnalysisResponse struct {
	ID            uuid.UUID               `json:"id"`
	CategoryID    uuid.UUID               `json:"category_id"`
	MarketplaceID uuid.UUID               `json:"marketplace_id"`
	Type          research.AnalysisType   `json:"type"`
	Source        research.AnalysisSource `json:"source"`
	SchemaVersion int                     `json:"schema_version"`
	Payload       json.RawMessage         `json:"payload"`
	CompletedAt   time.Time               `json:"completed_at"`
}

// ToAnalysisResponse converts an analysis to its response view
func ToAnalysisResponse(a *research.Analysis) *AnalysisResponse {
	return &AnalysisResponse{
		ID:            a.ID,
		CategoryID:    a.CategoryID,
		MarketplaceID: a.MarketplaceID,
		Type:          a.Type,
		Source:        a.Source,
		SchemaVersion: a.SchemaVersion,
		Payload:       json.RawMessage(a.PayloadJSON),
		CompletedAt:   a.CompletedAt,
	}
}

// IngestQARequest is the payload the browser-extension scraping agent posts
// to the ingestion endpoint.
type IngestQARequest struct {
	ASIN          string            `json:"asin" binding:"required"`
	MarketplaceID uuid.UUID         `json:"marketplace_id" binding:"required"`
	Items         []research.QAItem `json:"items" binding:"required,min=1,dive"`
}

// IngestQAResponse reports how the ingested batch merged
type IngestQAResponse struct {
	ASIN       string `json:"asin"`
	Received   int    `json:"received"`
	Added      int    `json:"added"`
	TotalCount int    `json:"total_count"`
}
