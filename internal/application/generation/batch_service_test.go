package generation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/listforge/backend/internal/domain/batch"
	"github.com/listforge/backend/internal/domain/listing"
	"github.com/listforge/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockCompleteGenerator is a mock of the single-shot generation path
type MockCompleteGenerator struct {
	mock.Mock
}

func (m *MockCompleteGenerator) PrepareBatchContext(ctx context.Context, categoryID, marketplaceID uuid.UUID) (*BatchContext, error) {
	args := m.Called(ctx, categoryID, marketplaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*BatchContext), args.Error(1)
}

func (m *MockCompleteGenerator) GenerateComplete(ctx context.Context, bc *BatchContext, item BatchItemSpec) (*listing.Listing, error) {
	args := m.Called(ctx, bc, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listing.Listing), args.Error(1)
}

// MockJobRepository is a mock of the batch job repository
type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*batch.BatchJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*batch.BatchJob), args.Error(1)
}

func (m *MockJobRepository) FindAll(ctx context.Context, filter shared.Filter) ([]batch.BatchJob, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]batch.BatchJob), args.Get(1).(int64), args.Error(2)
}

func (m *MockJobRepository) Save(ctx context.Context, job *batch.BatchJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func completedListing(t *testing.T, categoryID, marketplaceID uuid.UUID, name string, tokens int) *listing.Listing {
	t.Helper()
	l, err := listing.NewListing(categoryID, marketplaceID, name, "Acme", listing.ModeNew, "")
	require.NoError(t, err)
	l.Phase = listing.PhaseComplete
	l.TokensUsed = tokens
	return l
}

func itemNamed(name string) interface{} {
	return mock.MatchedBy(func(item BatchItemSpec) bool { return item.ProductName == name })
}

func TestProcessBatch(t *testing.T) {
	ctx := context.Background()
	categoryID := uuid.New()
	marketplaceID := uuid.New()

	t.Run("one failing item does not abort the rest", func(t *testing.T) {
		items := []BatchItemSpec{
			{ProductName: "Item A", Brand: "Acme"},
			{ProductName: "Item B", Brand: "Acme"},
			{ProductName: "Item C", Brand: "Acme"},
			{ProductName: "Item D", Brand: "Acme"},
			{ProductName: "Item E", Brand: "Acme"},
		}

		generator := new(MockCompleteGenerator)
		bc := &BatchContext{}
		for _, name := range []string{"Item A", "Item B", "Item D", "Item E"} {
			generator.On("GenerateComplete", mock.Anything, bc, itemNamed(name)).
				Return(completedListing(t, categoryID, marketplaceID, name, 400), nil)
		}
		generator.On("GenerateComplete", mock.Anything, bc, itemNamed("Item C")).
			Return(nil, shared.NewDomainError("PROVIDER_ERROR", "generation failed"))

		jobRepo := new(MockJobRepository)
		jobRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

		job, err := batch.NewBatchJob(categoryID, marketplaceID, len(items))
		require.NoError(t, err)

		service := NewBatchService(jobRepo, generator, nil, zap.NewNop())
		service.processBatch(ctx, job, bc, items)

		assert.Equal(t, batch.BatchStatusCompleted, job.Status)
		assert.Equal(t, 4, job.CompletedListings)
		require.Len(t, job.Failures(), 1)
		assert.Equal(t, "Item C", job.Failures()[0].Name)
		assert.Equal(t, "generation failed", job.Failures()[0].Message)
		assert.Equal(t, 1600, job.TokensUsed)
		assert.NotNil(t, job.CompletedAt)

		// persisted after every item plus once at finalization
		jobRepo.AssertNumberOfCalls(t, "Save", len(items)+1)
	})

	t.Run("every item failing makes the batch failed", func(t *testing.T) {
		items := []BatchItemSpec{
			{ProductName: "Item A", Brand: "Acme"},
			{ProductName: "Item B", Brand: "Acme"},
		}

		generator := new(MockCompleteGenerator)
		bc := &BatchContext{}
		generator.On("GenerateComplete", mock.Anything, bc, mock.Anything).
			Return(nil, shared.ErrProviderTimeout)

		jobRepo := new(MockJobRepository)
		jobRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

		job, err := batch.NewBatchJob(categoryID, marketplaceID, len(items))
		require.NoError(t, err)

		service := NewBatchService(jobRepo, generator, nil, zap.NewNop())
		service.processBatch(ctx, job, bc, items)

		assert.Equal(t, batch.BatchStatusFailed, job.Status)
		assert.Zero(t, job.CompletedListings)
		assert.Len(t, job.Failures(), 2)
	})

	t.Run("invalid items fail fast without a generation call", func(t *testing.T) {
		items := []BatchItemSpec{
			{ProductName: "Item A", Brand: "Acme"},
			{ProductName: "X", Brand: "Acme"},  // name too short
			{ProductName: "Item C", Brand: ""}, // missing brand
		}

		generator := new(MockCompleteGenerator)
		bc := &BatchContext{}
		generator.On("GenerateComplete", mock.Anything, bc, itemNamed("Item A")).
			Return(completedListing(t, categoryID, marketplaceID, "Item A", 400), nil)

		jobRepo := new(MockJobRepository)
		jobRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

		job, err := batch.NewBatchJob(categoryID, marketplaceID, len(items))
		require.NoError(t, err)

		service := NewBatchService(jobRepo, generator, nil, zap.NewNop())
		service.processBatch(ctx, job, bc, items)

		assert.Equal(t, batch.BatchStatusCompleted, job.Status)
		assert.Equal(t, 1, job.CompletedListings)
		assert.Len(t, job.Failures(), 2)
		generator.AssertNumberOfCalls(t, "GenerateComplete", 1)
	})
}

func TestStartBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown pair is rejected before a job is recorded", func(t *testing.T) {
		generator := new(MockCompleteGenerator)
		generator.On("PrepareBatchContext", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, shared.ErrNotFound)

		jobRepo := new(MockJobRepository)

		service := NewBatchService(jobRepo, generator, nil, zap.NewNop())
		_, err := service.StartBatch(ctx, CreateBatchRequest{
			CategoryID:    uuid.New(),
			MarketplaceID: uuid.New(),
			Items:         []BatchItemSpec{{ProductName: "Item A", Brand: "Acme"}},
		})

		assert.Equal(t, shared.ErrNotFound, err)
		jobRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("returned snapshot is decoupled from the background run", func(t *testing.T) {
		categoryID := uuid.New()
		marketplaceID := uuid.New()

		generator := new(MockCompleteGenerator)
		bc := &BatchContext{}
		generator.On("PrepareBatchContext", mock.Anything, categoryID, marketplaceID).Return(bc, nil)
		generator.On("GenerateComplete", mock.Anything, bc, mock.Anything).
			Return(completedListing(t, categoryID, marketplaceID, "Item A", 400), nil)

		finished := make(chan struct{})
		var once sync.Once
		jobRepo := new(MockJobRepository)
		jobRepo.On("Save", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			if args.Get(1).(*batch.BatchJob).Status != batch.BatchStatusProcessing {
				once.Do(func() { close(finished) })
			}
		}).Return(nil)

		service := NewBatchService(jobRepo, generator, nil, zap.NewNop())
		resp, err := service.StartBatch(ctx, CreateBatchRequest{
			CategoryID:    categoryID,
			MarketplaceID: marketplaceID,
			Items: []BatchItemSpec{
				{ProductName: "Item A", Brand: "Acme"},
				{ProductName: "Item B", Brand: "Acme"},
			},
		})
		require.NoError(t, err)

		// the response reflects the job as recorded, even while the run
		// is already mutating it in the background
		assert.Equal(t, batch.BatchStatusProcessing, resp.Status)
		assert.Zero(t, resp.CompletedListings)
		assert.Empty(t, resp.Failures)

		select {
		case <-finished:
		case <-time.After(5 * time.Second):
			t.Fatal("batch run did not finish")
		}

		assert.Equal(t, batch.BatchStatusProcessing, resp.Status)
		assert.Zero(t, resp.CompletedListings)
	})

	t.Run("oversized batches are rejected", func(t *testing.T) {
		generator := new(MockCompleteGenerator)
		generator.On("PrepareBatchContext", mock.Anything, mock.Anything, mock.Anything).
			Return(&BatchContext{}, nil)

		items := make([]BatchItemSpec, batch.MaxBatchItems+1)
		for i := range items {
			items[i] = BatchItemSpec{ProductName: "Item", Brand: "Acme"}
		}

		service := NewBatchService(new(MockJobRepository), generator, nil, zap.NewNop())
		_, err := service.StartBatch(ctx, CreateBatchRequest{
			CategoryID:    uuid.New(),
			MarketplaceID: uuid.New(),
			Items:         items,
		})

		require.Error(t, err)
		assert.True(t, shared.IsCode(err, "VALIDATION_ERROR"))
	})
}

func TestGetBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("prefers the cached progress snapshot", func(t *testing.T) {
		jobID := uuid.New()
		cached := &BatchJobResponse{ID: jobID, TotalItems: 5, CompletedListings: 2, Status: batch.BatchStatusProcessing}

		jobRepo := new(MockJobRepository)
		service := NewBatchService(jobRepo, new(MockCompleteGenerator), stubProgressCache{snapshot: cached}, zap.NewNop())

		resp, err := service.GetBatch(ctx, jobID)
		require.NoError(t, err)
		assert.Equal(t, cached, resp)
		jobRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("falls back to the primary store on a cache miss", func(t *testing.T) {
		job, err := batch.NewBatchJob(uuid.New(), uuid.New(), 3)
		require.NoError(t, err)

		jobRepo := new(MockJobRepository)
		jobRepo.On("FindByID", mock.Anything, job.ID).Return(job, nil)

		service := NewBatchService(jobRepo, new(MockCompleteGenerator), stubProgressCache{}, zap.NewNop())

		resp, err := service.GetBatch(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, job.ID, resp.ID)
		assert.Equal(t, 3, resp.TotalItems)
	})
}

// stubProgressCache serves one canned snapshot
type stubProgressCache struct {
	snapshot *BatchJobResponse
}

func (c stubProgressCache) SetProgress(_ context.Context, _ *BatchJobResponse) error { return nil }

func (c stubProgressCache) GetProgress(_ context.Context, _ uuid.UUID) (*BatchJobResponse, error) {
	if c.snapshot == nil {
		return nil, shared.ErrNotFound
	}
	return c.snapshot, nil
}
