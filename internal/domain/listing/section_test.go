package listing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSection(t *testing.T) {
	listingID := uuid.New()

	t.Run("creates section with variants", func(t *testing.T) {
		section, err := NewSection(listingID, SectionTypeTitle, 0, []string{"Variant A", "Variant B"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Variant A", "Variant B"}, section.Variants())
		assert.Equal(t, 0, section.SelectedIndex)
		assert.False(t, section.Approved())
	})

	t.Run("rejects empty variants", func(t *testing.T) {
		_, err := NewSection(listingID, SectionTypeTitle, 0, nil)
		assert.Error(t, err)
	})

	t.Run("rejects invalid type", func(t *testing.T) {
		_, err := NewSection(listingID, SectionType("images"), 0, []string{"x"})
		assert.Error(t, err)
	})

	t.Run("accepts every content slot type", func(t *testing.T) {
		for _, sectionType := range []SectionType{
			SectionTypeTitle, SectionTypeBullet, SectionTypeDescription,
			SectionTypeSearchTerms, SectionTypeSubjectMatter, SectionTypeBackendAttributes,
		} {
			_, err := NewSection(listingID, sectionType, 0, []string{"x"})
			assert.NoError(t, err, string(sectionType))
		}
	})
}

func TestSectionConfirmedText(t *testing.T) {
	listingID := uuid.New()

	t.Run("prefers human override", func(t *testing.T) {
		section, err := NewSection(listingID, SectionTypeTitle, 0, []string{"Generated Title"})
		require.NoError(t, err)
		section.SetFinalText("  Edited Title  ")

		assert.Equal(t, "Edited Title", section.ConfirmedText())
		assert.True(t, section.Approved())
	})

	t.Run("falls back to selected variant without override", func(t *testing.T) {
		section, err := NewSection(listingID, SectionTypeTitle, 0, []string{"First", "Second"})
		require.NoError(t, err)
		require.NoError(t, section.SelectVariant(1))

		assert.Equal(t, "Second", section.ConfirmedText())
		assert.False(t, section.Approved())
	})

	t.Run("empty when selected variant is blank", func(t *testing.T) {
		section, err := NewSection(listingID, SectionTypeTitle, 0, []string{"   "})
		require.NoError(t, err)
		assert.Equal(t, "", section.ConfirmedText())
	})
}

func TestSectionReplaceVariants(t *testing.T) {
	t.Run("regeneration discards selection and override", func(t *testing.T) {
		section, err := NewSection(uuid.New(), SectionTypeDescription, 0, []string{"old a", "old b"})
		require.NoError(t, err)
		require.NoError(t, section.SelectVariant(1))
		section.SetFinalText("edited")

		require.NoError(t, section.ReplaceVariants([]string{"new a"}))

		assert.Equal(t, []string{"new a"}, section.Variants())
		assert.Equal(t, 0, section.SelectedIndex)
		assert.Equal(t, "", section.FinalText)
	})
}

func TestSectionSelectVariant(t *testing.T) {
	t.Run("rejects out-of-range index", func(t *testing.T) {
		section, err := NewSection(uuid.New(), SectionTypeBullet, 2, []string{"one"})
		require.NoError(t, err)
		assert.Error(t, section.SelectVariant(3))
		assert.Error(t, section.SelectVariant(-1))
	})
}
