package listing

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/listforge/backend/internal/domain/shared"
)

// SectionType identifies one content slot of a listing
type SectionType string

const (
	SectionTypeTitle             SectionType = "title"
	SectionTypeBullet            SectionType = "bullet"
	SectionTypeDescription       SectionType = "description"
	SectionTypeSearchTerms       SectionType = "search_terms"
	SectionTypeSubjectMatter     SectionType = "subject_matter"
	SectionTypeBackendAttributes SectionType = "backend_attributes"
)

// IsValid checks if the section type is valid
func (t SectionType) IsValid() bool {
	switch t {
	case SectionTypeTitle, SectionTypeBullet, SectionTypeDescription,
		SectionTypeSearchTerms, SectionTypeSubjectMatter, SectionTypeBackendAttributes:
		return true
	}
	return false
}

// Section is one content slot of a listing holding the generated variants
// for that slot. Position disambiguates repeated types (bullets).
type Section struct {
	shared.BaseAggregateRoot
	ListingID     uuid.UUID   `gorm:"type:uuid;not null;index:idx_sections_listing"`
	Type          SectionType `gorm:"type:varchar(30);not null;index:idx_sections_listing"`
	Position      int         `gorm:"not null;default:0"`
	VariantsJSON  string      `gorm:"type:jsonb;not null;default:'[]'"`
	SelectedIndex int         `gorm:"not null;default:0"`
	FinalText     string      `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Section) TableName() string {
	return "listing_sections"
}

// NewSection creates a section holding freshly generated variants.
// A section never exists without at least one variant.
func NewSection(listingID uuid.UUID, sectionType SectionType, position int, variants []string) (*Section, error) {
	if !sectionType.IsValid() {
		return nil, shared.NewValidationError(fmt.Sprintf("Invalid section type: %s", sectionType))
	}
	if len(variants) == 0 {
		return nil, shared.NewValidationError("Section requires at least one generated variant")
	}

	section := &Section{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ListingID:         listingID,
		Type:              sectionType,
		Position:          position,
	}
	if err := section.ReplaceVariants(variants); err != nil {
		return nil, err
	}
	return section, nil
}

// Variants returns the generated text variants
func (s *Section) Variants() []string {
	var variants []string
	if err := json.Unmarshal([]byte(s.VariantsJSON), &variants); err != nil {
		return nil
	}
	return variants
}

// ReplaceVariants overwrites the variants after a phase regeneration.
// The selected index resets and any human override is discarded, since it
// referred to text that no longer exists.
func (s *Section) ReplaceVariants(variants []string) error {
	if len(variants) == 0 {
		return shared.NewValidationError("Section requires at least one generated variant")
	}
	data, err := json.Marshal(variants)
	if err != nil {
		return fmt.Errorf("failed to marshal variants: %w", err)
	}
	s.VariantsJSON = string(data)
	s.SelectedIndex = 0
	s.FinalText = ""
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// SelectVariant changes which generated variant is the active one
func (s *Section) SelectVariant(index int) error {
	if index < 0 || index >= len(s.Variants()) {
		return shared.NewValidationError("Selected variant index is out of range")
	}
	s.SelectedIndex = index
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// SetFinalText records the human-edited override for this section
func (s *Section) SetFinalText(text string) {
	s.FinalText = strings.TrimSpace(text)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// Approved reports whether a human has confirmed this section's text
func (s *Section) Approved() bool {
	return strings.TrimSpace(s.FinalText) != ""
}

// ConfirmedText resolves the text a downstream phase builds on: the human
// override when present, else the currently selected variant, else empty.
func (s *Section) ConfirmedText() string {
	if text := strings.TrimSpace(s.FinalText); text != "" {
		return text
	}
	variants := s.Variants()
	if s.SelectedIndex >= 0 && s.SelectedIndex < len(variants) {
		return strings.TrimSpace(variants[s.SelectedIndex])
	}
	return ""
}
