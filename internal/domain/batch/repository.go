package batch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/listforge/backend/internal/domain/shared"
)

// JobRepository defines the interface for batch job persistence
type JobRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BatchJob, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]BatchJob, int64, error)
	Save(ctx context.Context, job *BatchJob) error
}

// FetchJobRepository defines the interface for background fetch job persistence
type FetchJobRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*FetchJob, error)
	FindNonTerminalBefore(ctx context.Context, cutoff time.Time) ([]FetchJob, error)
	Save(ctx context.Context, job *FetchJob) error
}
