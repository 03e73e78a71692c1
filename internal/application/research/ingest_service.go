package research

import (
	"context"

	"github.com/listforge/backend/internal/domain/catalog"
	"github.com/listforge/backend/internal/domain/research"
	"github.com/listforge/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// IngestSource tags Q&A batches delivered by the browser-extension scraping
// agent in the aggregated record's provenance.
const IngestSource = "extension"

// IngestService accepts Q&A payloads from the external scraping agent and
// folds them into the aggregated records through the merge rules. The agent
// is an untrusted producer: everything it sends goes through the same
// dedup path as provider data.
type IngestService struct {
	qaSetRepo       research.QASetRepository
	marketplaceRepo catalog.MarketplaceRepository
	logger          *zap.Logger
}

// NewIngestService creates a new IngestService
func NewIngestService(qaSetRepo research.QASetRepository, marketplaceRepo catalog.MarketplaceRepository, logger *zap.Logger) *IngestService {
	return &IngestService{
		qaSetRepo:       qaSetRepo,
		marketplaceRepo: marketplaceRepo,
		logger:          logger,
	}
}

// IngestQA merges one delivered batch of question/answer pairs into the
// aggregated record for the (ASIN, marketplace) pair.
func (s *IngestService) IngestQA(ctx context.Context, req IngestQARequest) (*IngestQAResponse, error) {
	if _, err := s.marketplaceRepo.FindByID(ctx, req.MarketplaceID); err != nil {
		return nil, err
	}

	set, err := s.qaSetRepo.FindByKey(ctx, req.ASIN, req.MarketplaceID)
	if err != nil {
		if err != shared.ErrNotFound {
			return nil, err
		}
		set, err = research.NewQASet(req.ASIN, req.MarketplaceID)
		if err != nil {
			return nil, err
		}
	}

	added, err := set.Merge(req.Items, IngestSource)
	if err != nil {
		return nil, err
	}
	if err := s.qaSetRepo.Upsert(ctx, set); err != nil {
		return nil, err
	}

	s.logger.Info("qa batch ingested",
		zap.String("asin", set.ASIN),
		zap.Int("received", len(req.Items)),
		zap.Int("added", added))

	return &IngestQAResponse{
		ASIN:       set.ASIN,
		Received:   len(req.Items),
		Added:      added,
		TotalCount: set.TotalCount,
	}, nil
}
