package research

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/listforge/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Review is the canonical review item shape. Provider-specific field quirks
// (string vs float ratings, helpful counts embedded in prose) are normalized
// away inside the source adapters; nothing above them sees anything else.
type Review struct {
	ReviewID     string          `json:"review_id"`
	Title        string          `json:"title"`
	Body         string          `json:"body"`
	Rating       decimal.Decimal `json:"rating"`
	HelpfulCount int             `json:"helpful_count"`
	Reviewer     string          `json:"reviewer,omitempty"`
	Date         string          `json:"date,omitempty"`
	Verified     bool            `json:"verified"`
}

// ReviewSet is the aggregated review record for one (ASIN, marketplace)
// pair. Repeated merges from different providers and collection passes only
// ever append and dedup; stored reviews are never dropped.
type ReviewSet struct {
	shared.BaseAggregateRoot
	ASIN           string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_review_sets_key,priority:1"`
	MarketplaceID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_sets_key,priority:2"`
	ItemsJSON      string    `gorm:"type:jsonb;not null;default:'{}'"`
	TotalCount     int       `gorm:"not null;default:0"`
	ProvenanceJSON string    `gorm:"type:jsonb;not null;default:'{}'"`
	LastProvider   string    `gorm:"type:varchar(50)"`
	LastFetchedAt  *time.Time
}

// TableName returns the table name for GORM
func (ReviewSet) TableName() string {
	return "review_sets"
}

// NewReviewSet creates an empty aggregated review record
func NewReviewSet(asin string, marketplaceID uuid.UUID) (*ReviewSet, error) {
	asin = strings.ToUpper(strings.TrimSpace(asin))
	if asin == "" {
		return nil, shared.NewValidationError("ASIN cannot be empty")
	}
	return &ReviewSet{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ASIN:              asin,
		MarketplaceID:     marketplaceID,
		ItemsJSON:         "{}",
		ProvenanceJSON:    "{}",
	}, nil
}

// Items returns the stored reviews keyed by provider review id
func (s *ReviewSet) Items() map[string]Review {
	items := make(map[string]Review)
	if s.ItemsJSON != "" {
		_ = json.Unmarshal([]byte(s.ItemsJSON), &items)
	}
	return items
}

// Provenance returns per-source contribution counts
func (s *ReviewSet) Provenance() map[string]int {
	counts := make(map[string]int)
	if s.ProvenanceJSON != "" {
		_ = json.Unmarshal([]byte(s.ProvenanceJSON), &counts)
	}
	return counts
}

// Merge folds freshly fetched reviews into the stored set. Identity is the
// provider-assigned review id; items without one are dropped rather than
// risk duplicating them as falsely "new" on the next pass. Returns the
// number of genuinely new reviews added.
func (s *ReviewSet) Merge(fresh []Review, provider string) (int, error) {
	items := s.Items()
	added := 0
	for _, review := range fresh {
		id := strings.TrimSpace(review.ReviewID)
		if id == "" {
			continue
		}
		if _, exists := items[id]; exists {
			continue
		}
		items[id] = review
		added++
	}

	if err := s.writeItems(items); err != nil {
		return 0, err
	}
	if added > 0 {
		if err := s.recordProvenance(provider, added); err != nil {
			return 0, err
		}
	}
	now := time.Now()
	s.LastProvider = provider
	s.LastFetchedAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()
	return added, nil
}

func (s *ReviewSet) writeItems(items map[string]Review) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal review items: %w", err)
	}
	s.ItemsJSON = string(data)
	s.TotalCount = len(items)
	return nil
}

// recordProvenance adds to the contribution count of one source without
// discarding counts from prior merges.
func (s *ReviewSet) recordProvenance(provider string, added int) error {
	counts := s.Provenance()
	counts[provider] += added
	data, err := json.Marshal(counts)
	if err != nil {
		return fmt.Errorf("failed to marshal provenance: %w", err)
	}
	s.ProvenanceJSON = string(data)
	return nil
}
