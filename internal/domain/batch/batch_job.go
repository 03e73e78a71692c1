package batch

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/listforge/backend/internal/domain/shared"
)

// MaxBatchItems bounds how many product specs one batch may carry
const MaxBatchItems = 20

// BatchStatus represents the status of a batch generation run
type BatchStatus string

const (
	BatchStatusProcessing BatchStatus = "processing"
	BatchStatusCompleted  BatchStatus = "completed"
	BatchStatusFailed     BatchStatus = "failed"
)

// IsTerminal returns true if this is a terminal state
func (s BatchStatus) IsTerminal() bool {
	return s == BatchStatusCompleted || s == BatchStatusFailed
}

// ItemFailure records one item that did not make it through generation
type ItemFailure struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// BatchJob tracks one run generating listings for N product specifications
// against a single (category, marketplace) pair. One item failing never
// aborts the batch; the failure list is the record of what didn't make it.
type BatchJob struct {
	shared.BaseAggregateRoot
	CategoryID        uuid.UUID   `gorm:"type:uuid;not null;index"`
	MarketplaceID     uuid.UUID   `gorm:"type:uuid;not null;index"`
	TotalItems        int         `gorm:"not null"`
	CompletedListings int         `gorm:"not null;default:0"`
	FailuresJSON      string      `gorm:"type:jsonb;not null;default:'[]'"`
	Status            BatchStatus `gorm:"type:varchar(20);not null;default:'processing'"`
	TokensUsed        int         `gorm:"not null;default:0"`
	StartedAt         time.Time   `gorm:"not null"`
	CompletedAt       *time.Time
}

// TableName returns the table name for GORM
func (BatchJob) TableName() string {
	return "batch_jobs"
}

// NewBatchJob creates a batch in processing state
func NewBatchJob(categoryID, marketplaceID uuid.UUID, totalItems int) (*BatchJob, error) {
	if totalItems <= 0 {
		return nil, shared.NewValidationError("Batch requires at least one item")
	}
	if totalItems > MaxBatchItems {
		return nil, shared.NewValidationError(fmt.Sprintf("Batch cannot exceed %d items", MaxBatchItems))
	}

	return &BatchJob{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CategoryID:        categoryID,
		MarketplaceID:     marketplaceID,
		TotalItems:        totalItems,
		FailuresJSON:      "[]",
		Status:            BatchStatusProcessing,
		StartedAt:         time.Now(),
	}, nil
}

// Failures returns the per-item failure list
func (b *BatchJob) Failures() []ItemFailure {
	var failures []ItemFailure
	if err := json.Unmarshal([]byte(b.FailuresJSON), &failures); err != nil {
		return nil
	}
	return failures
}

// RecordSuccess bumps the completed counter after one item finishes
func (b *BatchJob) RecordSuccess(tokens int) {
	b.CompletedListings++
	if tokens > 0 {
		b.TokensUsed += tokens
	}
	b.Touch()
	b.IncrementVersion()
}

// RecordFailure appends one item's failure without touching the rest of the
// batch.
func (b *BatchJob) RecordFailure(itemName string, err error) error {
	failures := b.Failures()
	failures = append(failures, ItemFailure{Name: itemName, Message: err.Error()})
	data, marshalErr := json.Marshal(failures)
	if marshalErr != nil {
		return fmt.Errorf("failed to marshal failure list: %w", marshalErr)
	}
	b.FailuresJSON = string(data)
	b.Touch()
	b.IncrementVersion()
	return nil
}

// Finalize computes the terminal status once the item loop has ended.
// Partial success is still completed; failed means nothing succeeded.
func (b *BatchJob) Finalize() error {
	if b.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Batch already finalized as %s", b.Status))
	}
	if b.CompletedListings+len(b.Failures()) != b.TotalItems {
		return shared.NewDomainError("INVALID_STATE", "Batch counters do not add up to the item total")
	}

	if b.CompletedListings == 0 {
		b.Status = BatchStatusFailed
	} else {
		b.Status = BatchStatusCompleted
	}
	now := time.Now()
	b.CompletedAt = &now
	b.UpdatedAt = now
	b.IncrementVersion()
	return nil
}
