package listing

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/listforge/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ListingStatus represents the review status of a listing
type ListingStatus string

const (
	ListingStatusDraft    ListingStatus = "draft"
	ListingStatusReview   ListingStatus = "review"
	ListingStatusApproved ListingStatus = "approved"
	ListingStatusExported ListingStatus = "exported"
)

// OptimizationMode controls how generation treats pre-existing listing text
type OptimizationMode string

const (
	ModeNew           OptimizationMode = "new"
	ModeOptimize      OptimizationMode = "optimize"
	ModeBasedExisting OptimizationMode = "based_on"
)

// IsValid checks if the optimization mode is valid
func (m OptimizationMode) IsValid() bool {
	switch m {
	case ModeNew, ModeOptimize, ModeBasedExisting:
		return true
	}
	return false
}

// KeywordCoverage is the running accumulator threaded through every phase:
// which target keywords have been placed into generated content so far,
// which remain, and a numeric coverage score. Each phase's output coverage
// becomes the next phase's input; it is never recomputed from scratch.
type KeywordCoverage struct {
	Placed    []string        `json:"placed"`
	Remaining []string        `json:"remaining"`
	Score     decimal.Decimal `json:"score"`
}

// EmptyCoverage returns a zero-value coverage state
func EmptyCoverage() KeywordCoverage {
	return KeywordCoverage{
		Placed:    []string{},
		Remaining: []string{},
		Score:     decimal.Zero,
	}
}

// Listing is one generation unit, owned by a (category, marketplace) pair.
// It is the aggregate root for the phased generation workflow.
type Listing struct {
	shared.BaseAggregateRoot
	CategoryID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	MarketplaceID uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProductTypeID *uuid.UUID `gorm:"type:uuid;index"`

	ProductName string `gorm:"type:varchar(500);not null"`
	Brand       string `gorm:"type:varchar(200);not null"`
	ASIN        string `gorm:"type:varchar(20);index"`

	Phase         Phase            `gorm:"type:varchar(20);not null;default:'none'"`
	Status        ListingStatus    `gorm:"type:varchar(20);not null;default:'draft'"`
	Mode          OptimizationMode `gorm:"type:varchar(20);not null;default:'new'"`
	ReferenceText string           `gorm:"type:text"`

	CoverageJSON string `gorm:"type:jsonb;not null;default:'{}'"`

	ModelID     string `gorm:"type:varchar(100)"`
	TokensUsed  int    `gorm:"not null;default:0"`
	PhaseRuns   int    `gorm:"not null;default:0"`

	// Denormalized snapshot of all confirmed text, written by the backend
	// phase so export never has to re-resolve sections.
	FinalTitle       string `gorm:"type:text"`
	FinalBulletsJSON string `gorm:"type:jsonb;not null;default:'[]'"`
	FinalDescription string `gorm:"type:text"`
	FinalSearchTerms string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Listing) TableName() string {
	return "listings"
}

// NewListing creates a listing at phase none, ready for the title phase
func NewListing(categoryID, marketplaceID uuid.UUID, productName, brand string, mode OptimizationMode, referenceText string) (*Listing, error) {
	productName = strings.TrimSpace(productName)
	brand = strings.TrimSpace(brand)
	if len(productName) < 3 || len(productName) > 500 {
		return nil, shared.NewValidationError("Product name must be 3-500 characters")
	}
	if brand == "" {
		return nil, shared.NewValidationError("Brand cannot be empty")
	}
	if mode == "" {
		mode = ModeNew
	}
	if !mode.IsValid() {
		return nil, shared.NewValidationError(fmt.Sprintf("Invalid optimization mode: %s", mode))
	}
	if mode != ModeNew && strings.TrimSpace(referenceText) == "" {
		return nil, shared.NewValidationError("Reference text is required when optimizing an existing listing")
	}

	l := &Listing{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CategoryID:        categoryID,
		MarketplaceID:     marketplaceID,
		ProductName:       productName,
		Brand:             brand,
		Phase:             PhaseNone,
		Status:            ListingStatusDraft,
		Mode:              mode,
		ReferenceText:     strings.TrimSpace(referenceText),
		CoverageJSON:      "{}",
		FinalBulletsJSON:  "[]",
	}
	return l, nil
}

// Coverage returns the accumulated keyword-coverage state
func (l *Listing) Coverage() KeywordCoverage {
	if l.CoverageJSON == "" || l.CoverageJSON == "{}" {
		return EmptyCoverage()
	}
	var coverage KeywordCoverage
	if err := json.Unmarshal([]byte(l.CoverageJSON), &coverage); err != nil {
		return EmptyCoverage()
	}
	if coverage.Placed == nil {
		coverage.Placed = []string{}
	}
	if coverage.Remaining == nil {
		coverage.Remaining = []string{}
	}
	return coverage
}

// SetCoverage persists the coverage state produced by a phase
func (l *Listing) SetCoverage(coverage KeywordCoverage) error {
	data, err := json.Marshal(coverage)
	if err != nil {
		return fmt.Errorf("failed to marshal keyword coverage: %w", err)
	}
	l.CoverageJSON = string(data)
	l.Touch()
	return nil
}

// RecordUsage accumulates model/token usage from one generation call
func (l *Listing) RecordUsage(modelID string, tokens int) {
	if modelID != "" {
		l.ModelID = modelID
	}
	if tokens > 0 {
		l.TokensUsed += tokens
	}
	l.PhaseRuns++
	l.Touch()
}

// AdvanceTo moves the listing forward to the given phase. Moving backward
// is only legal through RegenerateAt, which cascades invalidation.
func (l *Listing) AdvanceTo(phase Phase) error {
	if phase.Rank() <= l.Phase.Rank() {
		return shared.NewPreconditionError(fmt.Sprintf("Cannot advance listing from phase %s to %s", l.Phase, phase))
	}
	l.Phase = phase
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	return nil
}

// RegenerateAt resets the listing to the regenerated phase. Sections
// downstream of it are deleted by the caller via InvalidationSectionTypes;
// the snapshot is cleared because it described content that no longer exists.
func (l *Listing) RegenerateAt(phase Phase) {
	l.Phase = phase
	if phase.Before(PhaseComplete) {
		l.FinalTitle = ""
		l.FinalBulletsJSON = "[]"
		l.FinalDescription = ""
		l.FinalSearchTerms = ""
		if l.Status != ListingStatusDraft {
			l.Status = ListingStatusDraft
		}
	}
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// SetSnapshot writes the denormalized confirmed text onto the listing row
func (l *Listing) SetSnapshot(title string, bullets []string, description, searchTerms string) error {
	data, err := json.Marshal(bullets)
	if err != nil {
		return fmt.Errorf("failed to marshal bullets snapshot: %w", err)
	}
	l.FinalTitle = title
	l.FinalBulletsJSON = string(data)
	l.FinalDescription = description
	l.FinalSearchTerms = searchTerms
	l.Touch()
	return nil
}

// FinalBullets returns the confirmed bullet snapshot
func (l *Listing) FinalBullets() []string {
	var bullets []string
	if err := json.Unmarshal([]byte(l.FinalBulletsJSON), &bullets); err != nil {
		return nil
	}
	return bullets
}

// SetStatus transitions the review status
func (l *Listing) SetStatus(status ListingStatus) error {
	switch status {
	case ListingStatusDraft, ListingStatusReview, ListingStatusApproved, ListingStatusExported:
	default:
		return shared.NewValidationError(fmt.Sprintf("Invalid listing status: %s", status))
	}
	l.Status = status
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	return nil
}
