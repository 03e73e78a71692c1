package generation

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/listforge/backend/internal/domain/batch"
	"github.com/listforge/backend/internal/domain/listing"
	"github.com/listforge/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// batchRunTimeout bounds one whole batch run in the background
const batchRunTimeout = 30 * time.Minute

// CompleteGenerator is the single-shot generation path a batch run drives
// for each item. Implemented by PhaseService.
type CompleteGenerator interface {
	PrepareBatchContext(ctx context.Context, categoryID, marketplaceID uuid.UUID) (*BatchContext, error)
	GenerateComplete(ctx context.Context, bc *BatchContext, item BatchItemSpec) (*listing.Listing, error)
}

// ProgressCache holds the latest progress snapshot of a running batch so
// polling clients do not hammer the primary store.
type ProgressCache interface {
	SetProgress(ctx context.Context, snapshot *BatchJobResponse) error
	GetProgress(ctx context.Context, jobID uuid.UUID) (*BatchJobResponse, error)
}

// BatchService runs batch generation: N product specs against one
// (category, marketplace) pair, strictly sequential, one item's failure
// never touching the rest. Progress is persisted after every item so a
// client polling mid-batch always sees live counters.
type BatchService struct {
	jobRepo   batch.JobRepository
	generator CompleteGenerator
	progress  ProgressCache
	logger    *zap.Logger
}

// NewBatchService creates a new BatchService. The progress cache is
// optional; without one, polls read the primary store.
func NewBatchService(jobRepo batch.JobRepository, generator CompleteGenerator, progress ProgressCache, logger *zap.Logger) *BatchService {
	return &BatchService{
		jobRepo:   jobRepo,
		generator: generator,
		progress:  progress,
		logger:    logger,
	}
}

// StartBatch validates the request, records the job, and kicks off the run
// in the background. The returned snapshot is the job in processing state.
func (s *BatchService) StartBatch(ctx context.Context, req CreateBatchRequest) (*BatchJobResponse, error) {
	bc, err := s.generator.PrepareBatchContext(ctx, req.CategoryID, req.MarketplaceID)
	if err != nil {
		return nil, err
	}

	job, err := batch.NewBatchJob(req.CategoryID, req.MarketplaceID, len(req.Items))
	if err != nil {
		return nil, err
	}
	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, err
	}
	s.cacheProgress(ctx, job)

	// Snapshot before the run goroutine starts mutating the job
	snapshot := ToBatchJobResponse(job)

	go func() {
		runCtx, cancel := context.WithTimeout(context.Background(), batchRunTimeout)
		defer cancel()
		s.processBatch(runCtx, job, bc, req.Items)
	}()

	return snapshot, nil
}

// processBatch is the sequential item loop. Each item is validated, run
// through all four phases, and recorded; the job row is saved after every
// item so progress survives a crash mid-batch.
func (s *BatchService) processBatch(ctx context.Context, job *batch.BatchJob, bc *BatchContext, items []BatchItemSpec) {
	for i, item := range items {
		if err := validateItem(item); err != nil {
			s.recordFailure(ctx, job, i, item, err)
			continue
		}

		l, err := s.generator.GenerateComplete(ctx, bc, item)
		if err != nil {
			s.recordFailure(ctx, job, i, item, err)
			continue
		}

		job.RecordSuccess(l.TokensUsed)
		s.saveProgress(ctx, job)
		s.logger.Info("batch item completed",
			zap.String("batch_id", job.ID.String()),
			zap.Int("item", i+1),
			zap.String("listing_id", l.ID.String()))
	}

	if err := job.Finalize(); err != nil {
		s.logger.Error("failed to finalize batch",
			zap.String("batch_id", job.ID.String()),
			zap.Error(err))
		return
	}
	s.saveProgress(ctx, job)

	s.logger.Info("batch finished",
		zap.String("batch_id", job.ID.String()),
		zap.String("status", string(job.Status)),
		zap.Int("completed", job.CompletedListings),
		zap.Int("failed", len(job.Failures())))
}

func (s *BatchService) recordFailure(ctx context.Context, job *batch.BatchJob, index int, item BatchItemSpec, cause error) {
	name := strings.TrimSpace(item.ProductName)
	if name == "" {
		name = "(unnamed item)"
	}
	if err := job.RecordFailure(name, cause); err != nil {
		s.logger.Error("failed to record batch item failure",
			zap.String("batch_id", job.ID.String()),
			zap.Error(err))
	}
	s.saveProgress(ctx, job)
	s.logger.Warn("batch item failed",
		zap.String("batch_id", job.ID.String()),
		zap.Int("item", index+1),
		zap.String("product_name", name),
		zap.Error(cause))
}

func (s *BatchService) saveProgress(ctx context.Context, job *batch.BatchJob) {
	if err := s.jobRepo.Save(ctx, job); err != nil {
		s.logger.Error("failed to persist batch progress",
			zap.String("batch_id", job.ID.String()),
			zap.Error(err))
	}
	s.cacheProgress(ctx, job)
}

func (s *BatchService) cacheProgress(ctx context.Context, job *batch.BatchJob) {
	if s.progress == nil {
		return
	}
	if err := s.progress.SetProgress(ctx, ToBatchJobResponse(job)); err != nil {
		s.logger.Warn("failed to cache batch progress",
			zap.String("batch_id", job.ID.String()),
			zap.Error(err))
	}
}

// validateItem checks one product spec the same way listing creation would,
// so a bad item fails fast without burning a generation call.
func validateItem(item BatchItemSpec) error {
	name := strings.TrimSpace(item.ProductName)
	if len(name) < 3 || len(name) > 500 {
		return shared.NewValidationError("Product name must be 3-500 characters")
	}
	if strings.TrimSpace(item.Brand) == "" {
		return shared.NewValidationError("Brand cannot be empty")
	}
	return nil
}

// GetBatch returns the live progress of a batch, preferring the cached
// snapshot over a primary-store read.
func (s *BatchService) GetBatch(ctx context.Context, jobID uuid.UUID) (*BatchJobResponse, error) {
	if s.progress != nil {
		if snapshot, err := s.progress.GetProgress(ctx, jobID); err == nil && snapshot != nil {
			return snapshot, nil
		}
	}

	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return ToBatchJobResponse(job), nil
}

// ListBatches returns batch jobs, newest first
func (s *BatchService) ListBatches(ctx context.Context, filter shared.Filter) ([]BatchJobResponse, int64, error) {
	jobs, total, err := s.jobRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]BatchJobResponse, 0, len(jobs))
	for i := range jobs {
		responses = append(responses, *ToBatchJobResponse(&jobs[i]))
	}
	return responses, total, nil
}
