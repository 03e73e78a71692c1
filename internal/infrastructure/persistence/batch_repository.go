package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/listforge/backend/internal/domain/batch"
	"github.com/listforge/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormBatchJobRepository implements batch.JobRepository using GORM
type GormBatchJobRepository struct {
	db *gorm.DB
}

// NewGormBatchJobRepository creates a new GormBatchJobRepository
func NewGormBatchJobRepository(db *gorm.DB) *GormBatchJobRepository {
	return &GormBatchJobRepository{db: db}
}

// FindByID finds a batch job by its ID
func (r *GormBatchJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*batch.BatchJob, error) {
	var job batch.BatchJob
	if err := r.db.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

// FindAll finds all batch jobs matching the filter and returns the total count
func (r *GormBatchJobRepository) FindAll(ctx context.Context, filter shared.Filter) ([]batch.BatchJob, int64, error) {
	query := r.db.WithContext(ctx).Model(&batch.BatchJob{})

	for key, value := range filter.Filters {
		switch key {
		case "status", "category_id", "marketplace_id":
			query = query.Where(key+" = ?", value)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var jobs []batch.BatchJob
	if err := applyPagination(query, filter, batchJobSortFields).Find(&jobs).Error; err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

// Save creates or updates a batch job
func (r *GormBatchJobRepository) Save(ctx context.Context, job *batch.BatchJob) error {
	return r.db.WithContext(ctx).Save(job).Error
}

// GormFetchJobRepository implements batch.FetchJobRepository using GORM
type GormFetchJobRepository struct {
	db *gorm.DB
}

// NewGormFetchJobRepository creates a new GormFetchJobRepository
func NewGormFetchJobRepository(db *gorm.DB) *GormFetchJobRepository {
	return &GormFetchJobRepository{db: db}
}

// FindByID finds a fetch job by its ID
func (r *GormFetchJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*batch.FetchJob, error) {
	var job batch.FetchJob
	if err := r.db.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

// FindNonTerminalBefore finds fetch jobs still pending or running whose last
// update is older than the cutoff. The stale sweeper fails these.
func (r *GormFetchJobRepository) FindNonTerminalBefore(ctx context.Context, cutoff time.Time) ([]batch.FetchJob, error) {
	var jobs []batch.FetchJob
	if err := r.db.WithContext(ctx).
		Where("status IN ? AND updated_at < ?",
			[]batch.FetchJobStatus{batch.FetchJobPending, batch.FetchJobRunning}, cutoff).
		Order("updated_at ASC").
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// Save creates or updates a fetch job
func (r *GormFetchJobRepository) Save(ctx context.Context, job *batch.FetchJob) error {
	return r.db.WithContext(ctx).Save(job).Error
}

// Ensure the implementations satisfy their interfaces
var (
	_ batch.JobRepository      = (*GormBatchJobRepository)(nil)
	_ batch.FetchJobRepository = (*GormFetchJobRepository)(nil)
)
