package research

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/listforge/backend/internal/domain/batch"
	"github.com/listforge/backend/internal/domain/catalog"
	"github.com/listforge/backend/internal/domain/integration"
	"github.com/listforge/backend/internal/domain/research"
	"github.com/listforge/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// providerStrategy is one link of a fallback chain: a named way to fetch
// one logical need, page by page.
type providerStrategy[T any] struct {
	name      string
	paginated bool
	// fetch returns one 1-based page of items plus the provider-reported
	// total page count, or zero when the provider does not report one.
	fetch func(ctx context.Context, page int) ([]T, int, error)
}

// runChain tries the strategies in order and accepts the first that returns
// a non-empty first page. An error and an empty result both demote to the
// next provider — but once a provider has produced a non-empty first page it
// is trusted, and a later empty page means "no more pages", never "switch
// provider". If every strategy fails the aggregated error names each
// attempted provider and its failure.
func runChain[T any](ctx context.Context, log *zap.Logger, strategies []providerStrategy[T], maxItems int) (string, []T, error) {
	var attempts []string

	for _, strat := range strategies {
		first, totalPages, err := strat.fetch(ctx, 1)
		if err != nil {
			attempts = append(attempts, fmt.Sprintf("%s: %v", strat.name, err))
			log.Warn("provider attempt failed, demoting to next",
				zap.String("provider", strat.name),
				zap.Error(err))
			continue
		}
		if len(first) == 0 {
			attempts = append(attempts, fmt.Sprintf("%s: %s", strat.name, integration.FailureEmptyResult))
			log.Warn("provider returned no items, demoting to next",
				zap.String("provider", strat.name))
			continue
		}

		items := first
		if strat.paginated {
			items = continuePagination(ctx, log, strat, items, totalPages, maxItems)
		}
		if maxItems > 0 && len(items) > maxItems {
			items = items[:maxItems]
		}
		return strat.name, items, nil
	}

	return "", nil, shared.NewDomainError("PROVIDER_ERROR",
		"All providers failed: "+strings.Join(attempts, "; "))
}

// continuePagination keeps pulling pages from the committed provider until
// a short batch signals the last page, the item budget is reached, or —
// under the fetch-all sentinel — the provider-reported page count runs out.
func continuePagination[T any](ctx context.Context, log *zap.Logger, strat providerStrategy[T], items []T, totalPages, maxItems int) []T {
	page := 1
	for {
		if maxItems > 0 && len(items) >= maxItems {
			break
		}
		if maxItems == integration.FetchAllPages && totalPages > 0 && page >= totalPages {
			break
		}

		page++
		batch, reported, err := strat.fetch(ctx, page)
		if err != nil {
			// A later-page failure (typically a timeout) is retryable on a
			// future pull; the items already collected are kept.
			log.Warn("pagination stopped on page error",
				zap.String("provider", strat.name),
				zap.Int("page", page),
				zap.Error(err))
			break
		}
		if reported > 0 {
			totalPages = reported
		}
		if len(batch) == 0 {
			break
		}
		items = append(items, batch...)
		if len(batch) < integration.PageSize {
			break
		}
	}
	return items
}

// FetchService pulls research data from the external providers through
// fallback chains and merges it into the aggregated records.
type FetchService struct {
	structured      integration.ProductDataSource
	actor           integration.ScrapeActorSource
	marketplaceRepo catalog.MarketplaceRepository
	reviewSetRepo   research.ReviewSetRepository
	qaSetRepo       research.QASetRepository
	fetchJobRepo    batch.FetchJobRepository
	logger          *zap.Logger
}

// NewFetchService creates a new FetchService
func NewFetchService(
	structured integration.ProductDataSource,
	actor integration.ScrapeActorSource,
	marketplaceRepo catalog.MarketplaceRepository,
	reviewSetRepo research.ReviewSetRepository,
	qaSetRepo research.QASetRepository,
	fetchJobRepo batch.FetchJobRepository,
	logger *zap.Logger,
) *FetchService {
	return &FetchService{
		structured:      structured,
		actor:           actor,
		marketplaceRepo: marketplaceRepo,
		reviewSetRepo:   reviewSetRepo,
		qaSetRepo:       qaSetRepo,
		fetchJobRepo:    fetchJobRepo,
		logger:          logger,
	}
}

// reviewStrategies builds the review fallback chain: the structured reviews
// API first, then the scrape actor targeting the reviews page, then the few
// reviews embedded in a basic product lookup.
func (s *FetchService) reviewStrategies(asin, domain string) []providerStrategy[research.Review] {
	return []providerStrategy[research.Review]{
		{
			name:      s.structured.Name() + "-reviews",
			paginated: true,
			fetch: func(ctx context.Context, page int) ([]research.Review, int, error) {
				result, err := s.structured.FetchReviewPage(ctx, asin, domain, page)
				if err != nil {
					return nil, 0, err
				}
				return result.Items, result.TotalPages, nil
			},
		},
		{
			name:      s.actor.Name() + "-reviews",
			paginated: true,
			fetch: func(ctx context.Context, page int) ([]research.Review, int, error) {
				result, err := s.actor.FetchReviewPage(ctx, asin, domain, page)
				if err != nil {
					return nil, 0, err
				}
				return result.Items, result.TotalPages, nil
			},
		},
		{
			name:      s.structured.Name() + "-product-lookup",
			paginated: false,
			fetch: func(ctx context.Context, page int) ([]research.Review, int, error) {
				info, err := s.structured.FetchProduct(ctx, asin, domain)
				if err != nil {
					return nil, 0, err
				}
				return info.TopReviews, 1, nil
			},
		},
	}
}

// qaStrategies builds the Q&A fallback chain
func (s *FetchService) qaStrategies(asin, domain string) []providerStrategy[research.QAItem] {
	return []providerStrategy[research.QAItem]{
		{
			name:      s.structured.Name() + "-qa",
			paginated: true,
			fetch: func(ctx context.Context, page int) ([]research.QAItem, int, error) {
				result, err := s.structured.FetchQAPage(ctx, asin, domain, page)
				if err != nil {
					return nil, 0, err
				}
				return result.Items, result.TotalPages, nil
			},
		},
		{
			name:      s.actor.Name() + "-qa",
			paginated: true,
			fetch: func(ctx context.Context, page int) ([]research.QAItem, int, error) {
				result, err := s.actor.FetchQAPage(ctx, asin, domain, page)
				if err != nil {
					return nil, 0, err
				}
				return result.Items, result.TotalPages, nil
			},
		},
	}
}

// FetchReviews runs the review fallback chain for one ASIN and merges the
// result into the stored aggregated record.
func (s *FetchService) FetchReviews(ctx context.Context, req FetchReviewsRequest) (*FetchReviewsResponse, error) {
	marketplace, err := s.marketplaceRepo.FindByID(ctx, req.MarketplaceID)
	if err != nil {
		return nil, err
	}

	provider, items, err := runChain(ctx, s.logger, s.reviewStrategies(req.ASIN, marketplace.Domain), req.MaxItems)
	if err != nil {
		return nil, err
	}

	set, err := s.reviewSetRepo.FindByKey(ctx, req.ASIN, req.MarketplaceID)
	if err != nil {
		if err != shared.ErrNotFound {
			return nil, err
		}
		set, err = research.NewReviewSet(req.ASIN, req.MarketplaceID)
		if err != nil {
			return nil, err
		}
	}

	added, err := set.Merge(items, provider)
	if err != nil {
		return nil, err
	}
	if err := s.reviewSetRepo.Upsert(ctx, set); err != nil {
		return nil, err
	}

	s.logger.Info("review fetch completed",
		zap.String("asin", set.ASIN),
		zap.String("provider", provider),
		zap.Int("fetched", len(items)),
		zap.Int("added", added))

	return &FetchReviewsResponse{
		ASIN:       set.ASIN,
		Provider:   provider,
		Fetched:    len(items),
		Added:      added,
		TotalCount: set.TotalCount,
	}, nil
}

// FetchQA runs the Q&A fallback chain for one ASIN and merges the result
// into the stored aggregated record.
func (s *FetchService) FetchQA(ctx context.Context, req FetchQARequest) (*FetchQAResponse, error) {
	marketplace, err := s.marketplaceRepo.FindByID(ctx, req.MarketplaceID)
	if err != nil {
		return nil, err
	}

	provider, items, err := runChain(ctx, s.logger, s.qaStrategies(req.ASIN, marketplace.Domain), req.MaxItems)
	if err != nil {
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

	added, err := set.Merge(items, provider)
	if err != nil {
		return nil, err
	}
	if err := s.qaSetRepo.Upsert(ctx, set); err != nil {
		return nil, err
	}

	return &FetchQAResponse{
		ASIN:       set.ASIN,
		Provider:   provider,
		Fetched:    len(items),
		Added:      added,
		TotalCount: set.TotalCount,
	}, nil
}

// StartFetchJob dispatches a full background pull (review history, seller
// catalog or Q&A collection) and returns immediately with the pollable job.
func (s *FetchService) StartFetchJob(ctx context.Context, req StartFetchJobRequest) (*FetchJobResponse, error) {
	job, err := batch.NewFetchJob(req.Kind, req.EntityKey, req.MarketplaceID)
	if err != nil {
		return nil, err
	}
	if err := s.fetchJobRepo.Save(ctx, job); err != nil {
		return nil, err
	}

	go s.runFetchJob(job.ID)

	return ToFetchJobResponse(job), nil
}

// GetFetchJob returns the current state of a background pull
func (s *FetchService) GetFetchJob(ctx context.Context, id uuid.UUID) (*FetchJobResponse, error) {
	job, err := s.fetchJobRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToFetchJobResponse(job), nil
}

// runFetchJob executes a background pull decoupled from the request that
// triggered it. Its budget matches the stale threshold so a hung pull is
// swept rather than running forever.
func (s *FetchService) runFetchJob(jobID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), batch.StaleJobThreshold)
	defer cancel()

	job, err := s.fetchJobRepo.FindByID(ctx, jobID)
	if err != nil {
		s.logger.Error("fetch job vanished before it could run",
			zap.String("job_id", jobID.String()),
			zap.Error(err))
		return
	}
	if err := job.Start(); err != nil {
		s.logger.Error("fetch job could not start", zap.String("job_id", jobID.String()), zap.Error(err))
		return
	}
	if err := s.fetchJobRepo.Save(ctx, job); err != nil {
		s.logger.Error("failed to persist fetch job start", zap.Error(err))
		return
	}

	provider, count, runErr := s.executeFetchJob(ctx, job)
	if runErr != nil {
		_ = job.Fail(runErr.Error())
	} else {
		_ = job.Complete(provider, count)
	}
	if err := s.fetchJobRepo.Save(ctx, job); err != nil {
		s.logger.Error("failed to persist fetch job result",
			zap.String("job_id", jobID.String()),
			zap.Error(err))
	}
}

func (s *FetchService) executeFetchJob(ctx context.Context, job *batch.FetchJob) (string, int, error) {
	switch job.Kind {
	case batch.FetchJobReviewHistory:
		resp, err := s.FetchReviews(ctx, FetchReviewsRequest{
			ASIN:          job.EntityKey,
			MarketplaceID: job.MarketplaceID,
			MaxItems:      integration.FetchAllPages,
		})
		if err != nil {
			return "", 0, err
		}
		return resp.Provider, resp.Fetched, nil
	case batch.FetchJobQACollection:
		resp, err := s.FetchQA(ctx, FetchQARequest{
			ASIN:          job.EntityKey,
			MarketplaceID: job.MarketplaceID,
			MaxItems:      integration.FetchAllPages,
		})
		if err != nil {
			return "", 0, err
		}
		return resp.Provider, resp.Fetched, nil
	case batch.FetchJobSellerCatalog:
		marketplace, err := s.marketplaceRepo.FindByID(ctx, job.MarketplaceID)
		if err != nil {
			return "", 0, err
		}
		products, err := s.actor.FetchSellerCatalog(ctx, job.EntityKey, marketplace.Domain)
		if err != nil {
			return "", 0, err
		}
		return s.actor.Name(), len(products), nil
	}
	return "", 0, shared.NewValidationError(fmt.Sprintf("Unknown fetch job kind: %s", job.Kind))
}

// FailStaleJobs marks every job stuck in a non-terminal state past the
// stale threshold as failed, so crashed background work cannot sit
// "in progress" forever. Returns how many jobs were swept.
func (s *FetchService) FailStaleJobs(ctx context.Context, now time.Time) (int, error) {
	cutoff := now.Add(-batch.StaleJobThreshold)
	stale, err := s.fetchJobRepo.FindNonTerminalBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	swept := 0
	for i := range stale {
		job := &stale[i]
		if !job.IsStale(now) {
			continue
		}
		if err := job.Fail("marked stale: no progress within the job threshold"); err != nil {
			continue
		}
		if err := s.fetchJobRepo.Save(ctx, job); err != nil {
			s.logger.Error("failed to persist stale job sweep",
				zap.String("job_id", job.ID.String()),
				zap.Error(err))
			continue
		}
		swept++
	}
	if swept > 0 {
		s.logger.Info("stale fetch jobs swept", zap.Int("count", swept))
	}
	return swept, nil
}
