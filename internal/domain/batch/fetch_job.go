package batch

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/listforge/backend/internal/domain/shared"
)

// StaleJobThreshold is how long a fetch job may sit in a non-terminal state
// before the sweeper declares it dead.
const StaleJobThreshold = 30 * time.Minute

// FetchJobKind identifies what a background fetch job pulls
type FetchJobKind string

const (
	FetchJobReviewHistory FetchJobKind = "review_history"
	FetchJobSellerCatalog FetchJobKind = "seller_catalog"
	FetchJobQACollection  FetchJobKind = "qa_collection"
)

// IsValid checks if the fetch job kind is valid
func (k FetchJobKind) IsValid() bool {
	switch k {
	case FetchJobReviewHistory, FetchJobSellerCatalog, FetchJobQACollection:
		return true
	}
	return false
}

// FetchJobStatus represents the status of a background fetch
type FetchJobStatus string

const (
	FetchJobPending   FetchJobStatus = "pending"
	FetchJobRunning   FetchJobStatus = "running"
	FetchJobCompleted FetchJobStatus = "completed"
	FetchJobFailed    FetchJobStatus = "failed"
)

// IsTerminal returns true if this is a terminal state
func (s FetchJobStatus) IsTerminal() bool {
	return s == FetchJobCompleted || s == FetchJobFailed
}

// FetchJob is a fire-and-forget background research pull. The triggering
// request returns immediately with the job id and the caller polls this
// record for completion.
type FetchJob struct {
	shared.BaseAggregateRoot
	Kind          FetchJobKind   `gorm:"type:varchar(30);not null"`
	EntityKey     string         `gorm:"type:varchar(50);not null;index"` // ASIN or seller id
	MarketplaceID uuid.UUID      `gorm:"type:uuid;not null;index"`
	Status        FetchJobStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	Provider      string         `gorm:"type:varchar(50)"` // provider that satisfied the request
	ItemCount     int            `gorm:"not null;default:0"`
	Error         string         `gorm:"type:text"`
	StartedAt     *time.Time
	CompletedAt   *time.Time
}

// TableName returns the table name for GORM
func (FetchJob) TableName() string {
	return "fetch_jobs"
}

// NewFetchJob creates a pending background fetch job
func NewFetchJob(kind FetchJobKind, entityKey string, marketplaceID uuid.UUID) (*FetchJob, error) {
	if !kind.IsValid() {
		return nil, shared.NewValidationError(fmt.Sprintf("Invalid fetch job kind: %s", kind))
	}
	entityKey = strings.ToUpper(strings.TrimSpace(entityKey))
	if entityKey == "" {
		return nil, shared.NewValidationError("Fetch job entity key cannot be empty")
	}

	return &FetchJob{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Kind:              kind,
		EntityKey:         entityKey,
		MarketplaceID:     marketplaceID,
		Status:            FetchJobPending,
	}, nil
}

// Start marks the job as running
func (j *FetchJob) Start() error {
	if j.Status != FetchJobPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot start fetch job from state %s", j.Status))
	}
	now := time.Now()
	j.Status = FetchJobRunning
	j.StartedAt = &now
	j.UpdatedAt = now
	j.IncrementVersion()
	return nil
}

// Complete records a successful pull and which provider satisfied it
func (j *FetchJob) Complete(provider string, itemCount int) error {
	if j.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Fetch job already terminal as %s", j.Status))
	}
	now := time.Now()
	j.Status = FetchJobCompleted
	j.Provider = provider
	j.ItemCount = itemCount
	j.CompletedAt = &now
	j.UpdatedAt = now
	j.IncrementVersion()
	return nil
}

// Fail records a failed pull
func (j *FetchJob) Fail(message string) error {
	if j.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Fetch job already terminal as %s", j.Status))
	}
	now := time.Now()
	j.Status = FetchJobFailed
	j.Error = message
	j.CompletedAt = &now
	j.UpdatedAt = now
	j.IncrementVersion()
	return nil
}

// IsStale reports whether the job has been non-terminal longer than the
// sweep threshold.
func (j *FetchJob) IsStale(now time.Time) bool {
	if j.Status.IsTerminal() {
		return false
	}
	return now.Sub(j.CreatedAt) > StaleJobThreshold
}
