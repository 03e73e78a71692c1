package research

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/listforge/backend/internal/domain/catalog"
	"github.com/listforge/backend/internal/domain/research"
	"github.com/listforge/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AnalysisService manages the research analysis records the generation
// pipeline draws on. One row per (category, marketplace, type, source)
// tuple; writing the same tuple again replaces the payload.
type AnalysisService struct {
	analysisRepo    research.AnalysisRepository
	categoryRepo    catalog.CategoryRepository
	marketplaceRepo catalog.MarketplaceRepository
	logger          *zap.Logger
}

// NewAnalysisService creates a new AnalysisService
func NewAnalysisService(
	analysisRepo research.AnalysisRepository,
	categoryRepo catalog.CategoryRepository,
	marketplaceRepo catalog.MarketplaceRepository,
	logger *zap.Logger,
) *AnalysisService {
	return &AnalysisService{
		analysisRepo:    analysisRepo,
		categoryRepo:    categoryRepo,
		marketplaceRepo: marketplaceRepo,
		logger:          logger,
	}
}

// Upsert writes one analysis, decoding the raw payload into the typed shape
// its type demands. A payload that does not decode as that shape is rejected
// rather than stored opaquely.
func (s *AnalysisService) Upsert(ctx context.Context, req UpsertAnalysisRequest) (*AnalysisResponse, error) {
	if _, err := s.categoryRepo.FindByID(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	if _, err := s.marketplaceRepo.FindByID(ctx, req.MarketplaceID); err != nil {
		return nil, err
	}

	payload, err := decodePayload(req.Type, req.Payload)
	if err != nil {
		return nil, err
	}

	analysis, err := research.NewAnalysis(req.CategoryID, req.MarketplaceID, req.Type, req.Source, payload)
	if err != nil {
		return nil, err
	}
	if err := s.analysisRepo.Upsert(ctx, analysis); err != nil {
		return nil, err
	}

	s.logger.Info("analysis upserted",
		zap.String("category_id", req.CategoryID.String()),
		zap.String("type", string(req.Type)),
		zap.String("source", string(req.Source)))
	return ToAnalysisResponse(analysis), nil
}

// decodePayload decodes raw JSON into the typed payload for the analysis
// type, stamping the current schema version.
func decodePayload(analysisType research.AnalysisType, raw json.RawMessage) (any, error) {
	var target any
	switch analysisType {
	case research.AnalysisTypeKeyword:
		target = &research.KeywordPayload{}
	case research.AnalysisTypeReview:
		target = &research.ReviewPayload{}
	case research.AnalysisTypeQA:
		target = &research.QAPayload{}
	case research.AnalysisTypeCompetitor:
		target = &research.CompetitorPayload{}
	case research.AnalysisTypeMarketIntel:
		target = &research.MarketIntelPayload{}
	default:
		return nil, shared.NewValidationError(fmt.Sprintf("Invalid analysis type: %s", analysisType))
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return nil, shared.NewValidationError(fmt.Sprintf("Payload does not match the %s analysis shape: %v", analysisType, err))
	}

	switch p := target.(type) {
	case *research.KeywordPayload:
		p.SchemaVersion = research.CurrentSchemaVersion
	case *research.ReviewPayload:
		p.SchemaVersion = research.CurrentSchemaVersion
	case *research.QAPayload:
		p.SchemaVersion = research.CurrentSchemaVersion
	case *research.CompetitorPayload:
		p.SchemaVersion = research.CurrentSchemaVersion
	case *research.MarketIntelPayload:
		p.SchemaVersion = research.CurrentSchemaVersion
	}
	return target, nil
}

// List returns every analysis of a (category, marketplace) pair
func (s *AnalysisService) List(ctx context.Context, categoryID, marketplaceID uuid.UUID) ([]AnalysisResponse, error) {
	rows, err := s.analysisRepo.FindByCategoryAndMarketplace(ctx, categoryID, marketplaceID)
	if err != nil {
		return nil, err
	}
	responses := make([]AnalysisResponse, len(rows))
	for i := range rows {
		responses[i] = *ToAnalysisResponse(&rows[i])
	}
	return responses, nil
}

// Selected returns the one analysis per type the source selector would hand
// to generation for this pair.
func (s *AnalysisService) Selected(ctx context.Context, categoryID, marketplaceID uuid.UUID) ([]AnalysisResponse, error) {
	rows, err := s.analysisRepo.FindByCategoryAndMarketplace(ctx, categoryID, marketplaceID)
	if err != nil {
		return nil, err
	}
	var responses []AnalysisResponse
	for _, pick := range research.SelectPreferredByType(rows) {
		if pick != nil {
			responses = append(responses, *ToAnalysisResponse(pick))
		}
	}
	return responses, nil
}

// Delete removes one analysis row
func (s *AnalysisService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.analysisRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.analysisRepo.Delete(ctx, id)
}
