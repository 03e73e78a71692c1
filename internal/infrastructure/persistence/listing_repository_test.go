package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/listforge/backend/internal/domain/listing"
	"github.com/listforge/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockGormDB creates a GORM connection backed by a mocked SQL driver
func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormListingRepository_FindByID(t *testing.T) {
	t.Run("finds existing listing", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormListingRepository(gormDB)

		listingID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "version", "product_name", "brand", "phase", "status", "mode", "coverage_json", "final_bullets_json"}).
			AddRow(listingID, 3, "Steel Water Bottle", "Acme", "bullets", "draft", "new", "{}", "[]")

		mock.ExpectQuery(`SELECT \* FROM "listings" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(listingID, 1).
			WillReturnRows(rows)

		l, err := repo.FindByID(context.Background(), listingID)

		require.NoError(t, err)
		assert.Equal(t, listingID, l.ID)
		assert.Equal(t, listing.PhaseBullets, l.Phase)
		assert.Equal(t, 3, l.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing listing", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormListingRepository(gormDB)

		listingID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "listings" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(listingID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		l, err := repo.FindByID(context.Background(), listingID)

		assert.Nil(t, l)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormListingRepository_SaveWithVersion(t *testing.T) {
	newListing := func(t *testing.T) *listing.Listing {
		t.Helper()
		l, err := listing.NewListing(uuid.New(), uuid.New(), "Steel Water Bottle", "Acme", listing.ModeNew, "")
		require.NoError(t, err)
		return l
	}

	t.Run("updates the row when the stored version matches", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormListingRepository(gormDB)

		l := newListing(t)
		expectedVersion := l.GetVersion()
		require.NoError(t, l.AdvanceTo(listing.PhaseTitle))

		mock.ExpectExec(`UPDATE "listings" SET .* WHERE id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SaveWithVersion(context.Background(), l, expectedVersion)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports a concurrency conflict when no row matches", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormListingRepository(gormDB)

		l := newListing(t)
		expectedVersion := l.GetVersion()
		require.NoError(t, l.AdvanceTo(listing.PhaseTitle))

		mock.ExpectExec(`UPDATE "listings" SET .* WHERE id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SaveWithVersion(context.Background(), l, expectedVersion)

		assert.Equal(t, shared.ErrConcurrencyConflict, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormSectionRepository_DeleteByListingAndTypes(t *testing.T) {
	t.Run("deletes all sections of the given types", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormSectionRepository(gormDB)

		listingID := uuid.New()

		mock.ExpectExec(`DELETE FROM "listing_sections" WHERE listing_id = \$1 AND type IN \(\$2,\$3\)`).
			WithArgs(listingID, listing.SectionTypeDescription, listing.SectionTypeSearchTerms).
			WillReturnResult(sqlmock.NewResult(0, 4))

		err := repo.DeleteByListingAndTypes(context.Background(), listingID,
			[]listing.SectionType{listing.SectionTypeDescription, listing.SectionTypeSearchTerms})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty type list is a no-op", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormSectionRepository(gormDB)

		err := repo.DeleteByListingAndTypes(context.Background(), uuid.New(), nil)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
