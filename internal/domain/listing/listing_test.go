package listing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewListing(t *testing.T) {
	categoryID := uuid.New()
	marketplaceID := uuid.New()

	t.Run("creates draft listing at phase none", func(t *testing.T) {
		l, err := NewListing(categoryID, marketplaceID, "Yoga Mat Extra Thick", "FlexiBrand", ModeNew, "")
		require.NoError(t, err)
		assert.Equal(t, PhaseNone, l.Phase)
		assert.Equal(t, ListingStatusDraft, l.Status)
		assert.Equal(t, 1, l.GetVersion())
	})

	t.Run("rejects short product name", func(t *testing.T) {
		_, err := NewListing(categoryID, marketplaceID, "ab", "FlexiBrand", ModeNew, "")
		assert.Error(t, err)
	})

	t.Run("rejects missing brand", func(t *testing.T) {
		_, err := NewListing(categoryID, marketplaceID, "Yoga Mat", "  ", ModeNew, "")
		assert.Error(t, err)
	})

	t.Run("optimize mode requires reference text", func(t *testing.T) {
		_, err := NewListing(categoryID, marketplaceID, "Yoga Mat", "FlexiBrand", ModeOptimize, "")
		assert.Error(t, err)

		l, err := NewListing(categoryID, marketplaceID, "Yoga Mat", "FlexiBrand", ModeOptimize, "old title text")
		require.NoError(t, err)
		assert.Equal(t, ModeOptimize, l.Mode)
	})
}

func TestListingPhaseTransitions(t *testing.T) {
	newDraft := func(t *testing.T) *Listing {
		l, err := NewListing(uuid.New(), uuid.New(), "Ceramic Pour Over Coffee Dripper", "BrewCraft", ModeNew, "")
		require.NoError(t, err)
		return l
	}

	t.Run("advances forward only", func(t *testing.T) {
		l := newDraft(t)
		require.NoError(t, l.AdvanceTo(PhaseTitle))
		require.NoError(t, l.AdvanceTo(PhaseBullets))
		assert.Error(t, l.AdvanceTo(PhaseTitle))
		assert.Error(t, l.AdvanceTo(PhaseBullets))
	})

	t.Run("advance bumps version for the CAS write", func(t *testing.T) {
		l := newDraft(t)
		before := l.GetVersion()
		require.NoError(t, l.AdvanceTo(PhaseTitle))
		assert.Equal(t, before+1, l.GetVersion())
	})

	t.Run("regeneration moves phase backward and clears snapshot", func(t *testing.T) {
		l := newDraft(t)
		require.NoError(t, l.AdvanceTo(PhaseTitle))
		require.NoError(t, l.AdvanceTo(PhaseBullets))
		require.NoError(t, l.AdvanceTo(PhaseDescription))
		require.NoError(t, l.AdvanceTo(PhaseComplete))
		require.NoError(t, l.SetSnapshot("Final Title", []string{"b1", "b2"}, "desc", "terms"))

		l.RegenerateAt(PhaseBullets)

		assert.Equal(t, PhaseBullets, l.Phase)
		assert.Equal(t, "", l.FinalTitle)
		assert.Empty(t, l.FinalBullets())
		assert.Equal(t, "", l.FinalDescription)
	})
}

func TestListingCoverage(t *testing.T) {
	t.Run("round-trips coverage state", func(t *testing.T) {
		l, err := NewListing(uuid.New(), uuid.New(), "Stainless Steel Water Bottle", "HydraPeak", ModeNew, "")
		require.NoError(t, err)

		coverage := KeywordCoverage{
			Placed:    []string{"water bottle", "insulated"},
			Remaining: []string{"leak proof"},
			Score:     decimal.NewFromFloat(0.66),
		}
		require.NoError(t, l.SetCoverage(coverage))

		got := l.Coverage()
		assert.Equal(t, coverage.Placed, got.Placed)
		assert.Equal(t, coverage.Remaining, got.Remaining)
		assert.True(t, coverage.Score.Equal(got.Score))
	})

	t.Run("empty coverage on fresh listing", func(t *testing.T) {
		l, err := NewListing(uuid.New(), uuid.New(), "Stainless Steel Water Bottle", "HydraPeak", ModeNew, "")
		require.NoError(t, err)
		got := l.Coverage()
		assert.Empty(t, got.Placed)
		assert.Empty(t, got.Remaining)
		assert.True(t, got.Score.IsZero())
	})
}

func TestListingRecordUsage(t *testing.T) {
	t.Run("accumulates tokens across phases", func(t *testing.T) {
		l, err := NewListing(uuid.New(), uuid.New(), "Bamboo Cutting Board Set", "KitchenWise", ModeNew, "")
		require.NoError(t, err)

		l.RecordUsage("gpt-4o", 1200)
		l.RecordUsage("gpt-4o", 800)

		assert.Equal(t, 2000, l.TokensUsed)
		assert.Equal(t, "gpt-4o", l.ModelID)
		assert.Equal(t, 2, l.PhaseRuns)
	})
}
