package research

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/listforge/backend/internal/domain/shared"
)

// QAItem is one question/answer pair collected for a product
type QAItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Votes    int    `json:"votes,omitempty"`
	AskedAt  string `json:"asked_at,omitempty"`
}

// qaIdentity builds the dedup key for a Q&A pair. Both question and answer
// must match, case-insensitively after trimming: the same question with a
// materially different answer from another collection pass is new signal,
// not a duplicate.
func qaIdentity(item QAItem) string {
	q := strings.ToLower(strings.TrimSpace(item.Question))
	a := strings.ToLower(strings.TrimSpace(item.Answer))
	return q + "\x1f" + a
}

// QASet is the aggregated question/answer record for one (ASIN, marketplace)
// pair, fed by both the scrape providers and the extension ingestion
// endpoint. Append and dedup only; never truncated.
type QASet struct {
	shared.BaseAggregateRoot
	ASIN           string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_qa_sets_key,priority:1"`
	MarketplaceID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_qa_sets_key,priority:2"`
	ItemsJSON      string    `gorm:"type:jsonb;not null;default:'{}'"`
	TotalCount     int       `gorm:"not null;default:0"`
	ProvenanceJSON string    `gorm:"type:jsonb;not null;default:'{}'"`
	LastProvider   string    `gorm:"type:varchar(50)"`
	LastFetchedAt  *time.Time
}

// TableName returns the table name for GORM
func (QASet) TableName() string {
	return "qa_sets"
}

// NewQASet creates an empty aggregated Q&A record
func NewQASet(asin string, marketplaceID uuid.UUID) (*QASet, error) {
	asin = strings.ToUpper(strings.TrimSpace(asin))
	if asin == "" {
		return nil, shared.NewValidationError("ASIN cannot be empty")
	}
	return &QASet{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ASIN:              asin,
		MarketplaceID:     marketplaceID,
		ItemsJSON:         "{}",
		ProvenanceJSON:    "{}",
	}, nil
}

// Items returns the stored Q&A pairs keyed by their identity
func (s *QASet) Items() map[string]QAItem {
	items := make(map[string]QAItem)
	if s.ItemsJSON != "" {
		_ = json.Unmarshal([]byte(s.ItemsJSON), &items)
	}
	return items
}

// Provenance returns per-source contribution counts
func (s *QASet) Provenance() map[string]int {
	counts := make(map[string]int)
	if s.ProvenanceJSON != "" {
		_ = json.Unmarshal([]byte(s.ProvenanceJSON), &counts)
	}
	return counts
}

// Merge folds a freshly collected batch into the stored set using the
// question+answer identity rule. Re-merging the same batch is idempotent.
// Pairs with an empty question are skipped. Returns the number of new pairs.
func (s *QASet) Merge(fresh []QAItem, source string) (int, error) {
	items := s.Items()
	added := 0
	for _, item := range fresh {
		if strings.TrimSpace(item.Question) == "" {
			continue
		}
		key := qaIdentity(item)
		if _, exists := items[key]; exists {
			continue
		}
		items[key] = item
		added++
	}

	if err := s.writeItems(items); err != nil {
		return 0, err
	}
	if added > 0 {
		if err := s.recordProvenance(source, added); err != nil {
			return 0, err
		}
	}
	now := time.Now()
	s.LastProvider = source
	s.LastFetchedAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()
	return added, nil
}

func (s *QASet) writeItems(items map[string]QAItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal Q&A items: %w", err)
	}
	s.ItemsJSON = string(data)
	s.TotalCount = len(items)
	return nil
}

func (s *QASet) recordProvenance(source string, added int) error {
	counts := s.Provenance()
	counts[source] += added
	data, err := json.Marshal(counts)
	if err != nil {
		return fmt.Errorf("failed to marshal provenance: %w", err)
	}
	s.ProvenanceJSON = string(data)
	return nil
}
