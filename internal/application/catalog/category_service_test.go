package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/listforge/backend/internal/domain/catalog"
	"github.com/listforge/backend/internal/domain/listing"
	"github.com/listforge/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCategoryRepository is a mock of the category repository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByCode(ctx context.Context, code string) (*catalog.Category, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Category, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]catalog.Category), args.Get(1).(int64), args.Error(2)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockListingRepository is a mock of the listing repository
type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listing.Listing), args.Error(1)
}

func (m *MockListingRepository) FindAll(ctx context.Context, filter shared.Filter) ([]listing.Listing, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]listing.Listing), args.Get(1).(int64), args.Error(2)
}

func (m *MockListingRepository) FindByCategory(ctx context.Context, categoryID, marketplaceID uuid.UUID, filter shared.Filter) ([]listing.Listing, int64, error) {
	args := m.Called(ctx, categoryID, marketplaceID, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]listing.Listing), args.Get(1).(int64), args.Error(2)
}

func (m *MockListingRepository) Save(ctx context.Context, l *listing.Listing) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockListingRepository) SaveWithVersion(ctx context.Context, l *listing.Listing, expectedVersion int) error {
	args := m.Called(ctx, l, expectedVersion)
	return args.Error(0)
}

func (m *MockListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestCategoryService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a category with a unique code", func(t *testing.T) {
		categoryRepo := new(MockCategoryRepository)
		categoryRepo.On("FindByCode", mock.Anything, "DRINKWARE").Return(nil, shared.ErrNotFound)
		categoryRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

		service := NewCategoryService(categoryRepo, new(MockListingRepository))
		resp, err := service.Create(ctx, CreateCategoryRequest{Code: "DRINKWARE", Name: "Drinkware"})
		require.NoError(t, err)

		assert.Equal(t, "DRINKWARE", resp.Code)
		assert.Equal(t, catalog.CategoryStatusActive, resp.Status)
		categoryRepo.AssertExpectations(t)
	})

	t.Run("duplicate code is rejected", func(t *testing.T) {
		existing, err := catalog.NewCategory("DRINKWARE", "Drinkware")
		require.NoError(t, err)

		categoryRepo := new(MockCategoryRepository)
		categoryRepo.On("FindByCode", mock.Anything, "DRINKWARE").Return(existing, nil)

		service := NewCategoryService(categoryRepo, new(MockListingRepository))
		_, err = service.Create(ctx, CreateCategoryRequest{Code: "DRINKWARE", Name: "Drinkware"})

		require.Error(t, err)
		assert.True(t, shared.IsCode(err, "ALREADY_EXISTS"))
		categoryRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCategoryService_Delete(t *testing.T) {
	ctx := context.Background()

	category, err := catalog.NewCategory("DRINKWARE", "Drinkware")
	require.NoError(t, err)

	t.Run("a category with listings cannot be deleted", func(t *testing.T) {
		categoryRepo := new(MockCategoryRepository)
		categoryRepo.On("FindByID", mock.Anything, category.ID).Return(category, nil)

		listingRepo := new(MockListingRepository)
		listingRepo.On("FindByCategory", mock.Anything, category.ID, uuid.Nil, mock.Anything).
			Return([]listing.Listing{}, int64(3), nil)

		service := NewCategoryService(categoryRepo, listingRepo)
		err := service.Delete(ctx, category.ID)

		require.Error(t, err)
		assert.True(t, shared.IsCode(err, "HAS_LISTINGS"))
		categoryRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("an empty category is deleted", func(t *testing.T) {
		categoryRepo := new(MockCategoryRepository)
		categoryRepo.On("FindByID", mock.Anything, category.ID).Return(category, nil)
		categoryRepo.On("Delete", mock.Anything, category.ID).Return(nil)

		listingRepo := new(MockListingRepository)
		listingRepo.On("FindByCategory", mock.Anything, category.ID, uuid.Nil, mock.Anything).
			Return([]listing.Listing{}, int64(0), nil)

		service := NewCategoryService(categoryRepo, listingRepo)
		require.NoError(t, service.Delete(ctx, category.ID))
		categoryRepo.AssertExpectations(t)
	})
}
