package research

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/listforge/backend/internal/domain/shared"
)

// AnalysisType identifies what kind of research an analysis row holds
type AnalysisType string

const (
	AnalysisTypeKeyword      AnalysisType = "keyword"
	AnalysisTypeReview       AnalysisType = "review"
	AnalysisTypeQA           AnalysisType = "qa"
	AnalysisTypeCompetitor   AnalysisType = "competitor"
	AnalysisTypeMarketIntel  AnalysisType = "market_intelligence"
)

// IsValid checks if the analysis type is valid
func (t AnalysisType) IsValid() bool {
	switch t {
	case AnalysisTypeKeyword, AnalysisTypeReview, AnalysisTypeQA,
		AnalysisTypeCompetitor, AnalysisTypeMarketIntel:
		return true
	}
	return false
}

// AnalysisSource tags the input data an analysis was derived from
type AnalysisSource string

const (
	SourceMerged AnalysisSource = "merged" // merged multi-source dataset
	SourceCSV    AnalysisSource = "csv"    // single CSV import
	SourceFile   AnalysisSource = "file"   // single uploaded file
	SourceLinked AnalysisSource = "linked" // externally linked record
)

// IsValid checks if the analysis source is valid
func (s AnalysisSource) IsValid() bool {
	switch s {
	case SourceMerged, SourceCSV, SourceFile, SourceLinked:
		return true
	}
	return false
}

// CurrentSchemaVersion is stamped onto newly written analysis payloads
const CurrentSchemaVersion = 2

// KeywordStat is one ranked keyword with its search volume
type KeywordStat struct {
	Keyword string `json:"keyword"`
	Volume  int    `json:"volume"`
	Rank    int    `json:"rank"`
}

// KeywordPayload is the typed payload of a keyword analysis
type KeywordPayload struct {
	SchemaVersion int           `json:"schema_version"`
	TopKeywords   []KeywordStat `json:"top_keywords"`
	LongTail      []KeywordStat `json:"long_tail,omitempty"`
}

// ReviewPayload is the typed payload of a review analysis
type ReviewPayload struct {
	SchemaVersion int      `json:"schema_version"`
	Themes        []string `json:"themes"`
	Praises       []string `json:"praises"`
	Complaints    []string `json:"complaints"`
	AverageRating string   `json:"average_rating,omitempty"`
}

// QAPayload is the typed payload of a Q&A analysis
type QAPayload struct {
	SchemaVersion   int      `json:"schema_version"`
	CommonQuestions []string `json:"common_questions"`
	BuyerConcerns   []string `json:"buyer_concerns,omitempty"`
}

// CompetitorPayload is the typed payload of a competitor analysis
type CompetitorPayload struct {
	SchemaVersion int      `json:"schema_version"`
	TopFeatures   []string `json:"top_features"`
	Gaps          []string `json:"gaps,omitempty"`
	PriceRange    string   `json:"price_range,omitempty"`
}

// MarketIntelPayload is the typed payload of a market-intelligence analysis
type MarketIntelPayload struct {
	SchemaVersion int      `json:"schema_version"`
	Trends        []string `json:"trends"`
	Audience      string   `json:"audience,omitempty"`
	Seasonality   string   `json:"seasonality,omitempty"`
}

// Analysis is one completed research analysis for a (category, marketplace)
// pair. Multiple rows may exist per type, one per input source; the source
// selector picks exactly one per type when assembling generation input.
type Analysis struct {
	shared.BaseAggregateRoot
	CategoryID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_analyses_tuple,priority:1"`
	MarketplaceID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_analyses_tuple,priority:2"`
	Type          AnalysisType   `gorm:"type:varchar(30);not null;uniqueIndex:idx_analyses_tuple,priority:3"`
	Source        AnalysisSource `gorm:"type:varchar(20);not null;uniqueIndex:idx_analyses_tuple,priority:4"`
	SchemaVersion int            `gorm:"not null;default:1"`
	PayloadJSON   string         `gorm:"type:jsonb;not null;default:'{}'"`
	CompletedAt   time.Time      `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Analysis) TableName() string {
	return "research_analyses"
}

// NewAnalysis creates an analysis row from a typed payload. The payload must
// be one of the *Payload structs matching the analysis type.
func NewAnalysis(categoryID, marketplaceID uuid.UUID, analysisType AnalysisType, source AnalysisSource, payload any) (*Analysis, error) {
	if !analysisType.IsValid() {
		return nil, shared.NewValidationError(fmt.Sprintf("Invalid analysis type: %s", analysisType))
	}
	if !source.IsValid() {
		return nil, shared.NewValidationError(fmt.Sprintf("Invalid analysis source: %s", source))
	}
	if err := checkPayloadType(analysisType, payload); err != nil {
		return nil, err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analysis payload: %w", err)
	}

	return &Analysis{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CategoryID:        categoryID,
		MarketplaceID:     marketplaceID,
		Type:              analysisType,
		Source:            source,
		SchemaVersion:     CurrentSchemaVersion,
		PayloadJSON:       string(data),
		CompletedAt:       time.Now(),
	}, nil
}

// checkPayloadType keeps the tagged union honest: each analysis type only
// ever stores its own payload shape.
func checkPayloadType(analysisType AnalysisType, payload any) error {
	ok := false
	switch payload.(type) {
	case KeywordPayload, *KeywordPayload:
		ok = analysisType == AnalysisTypeKeyword
	case ReviewPayload, *ReviewPayload:
		ok = analysisType == AnalysisTypeReview
	case QAPayload, *QAPayload:
		ok = analysisType == AnalysisTypeQA
	case CompetitorPayload, *CompetitorPayload:
		ok = analysisType == AnalysisTypeCompetitor
	case MarketIntelPayload, *MarketIntelPayload:
		ok = analysisType == AnalysisTypeMarketIntel
	}
	if !ok {
		return shared.NewValidationError(fmt.Sprintf("Payload shape does not match analysis type %s", analysisType))
	}
	return nil
}

// Keyword decodes the payload of a keyword analysis
func (a *Analysis) Keyword() (*KeywordPayload, error) {
	if a.Type != AnalysisTypeKeyword {
		return nil, shared.NewValidationError(fmt.Sprintf("Analysis %s is not a keyword analysis", a.ID))
	}
	var payload KeywordPayload
	if err := json.Unmarshal([]byte(a.PayloadJSON), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode keyword payload: %w", err)
	}
	return &payload, nil
}

// Review decodes the payload of a review analysis
func (a *Analysis) Review() (*ReviewPayload, error) {
	if a.Type != AnalysisTypeReview {
		return nil, shared.NewValidationError(fmt.Sprintf("Analysis %s is not a review analysis", a.ID))
	}
	var payload ReviewPayload
	if err := json.Unmarshal([]byte(a.PayloadJSON), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode review payload: %w", err)
	}
	return &payload, nil
}

// QA decodes the payload of a Q&A analysis
func (a *Analysis) QA() (*QAPayload, error) {
	if a.Type != AnalysisTypeQA {
		return nil, shared.NewValidationError(fmt.Sprintf("Analysis %s is not a Q&A analysis", a.ID))
	}
	var payload QAPayload
	if err := json.Unmarshal([]byte(a.PayloadJSON), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode Q&A payload: %w", err)
	}
	return &payload, nil
}

// Competitor decodes the payload of a competitor analysis
func (a *Analysis) Competitor() (*CompetitorPayload, error) {
	if a.Type != AnalysisTypeCompetitor {
		return nil, shared.NewValidationError(fmt.Sprintf("Analysis %s is not a competitor analysis", a.ID))
	}
	var payload CompetitorPayload
	if err := json.Unmarshal([]byte(a.PayloadJSON), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode competitor payload: %w", err)
	}
	return &payload, nil
}

// MarketIntel decodes the payload of a market-intelligence analysis
func (a *Analysis) MarketIntel() (*MarketIntelPayload, error) {
	if a.Type != AnalysisTypeMarketIntel {
		return nil, shared.NewValidationError(fmt.Sprintf("Analysis %s is not a market-intelligence analysis", a.ID))
	}
	var payload MarketIntelPayload
	if err := json.Unmarshal([]byte(a.PayloadJSON), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode market-intelligence payload: %w", err)
	}
	return &payload, nil
}
