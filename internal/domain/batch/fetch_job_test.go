package batch

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchJobLifecycle(t *testing.T) {
	t.Run("pending to running to completed", func(t *testing.T) {
		job, err := NewFetchJob(FetchJobReviewHistory, "b0test1234", uuid.New())
		require.NoError(t, err)
		assert.Equal(t, "B0TEST1234", job.EntityKey)

		require.NoError(t, job.Start())
		assert.Equal(t, FetchJobRunning, job.Status)

		require.NoError(t, job.Complete("rainforest", 120))
		assert.Equal(t, FetchJobCompleted, job.Status)
		assert.Equal(t, "rainforest", job.Provider)
		assert.Equal(t, 120, job.ItemCount)
	})

	t.Run("cannot restart or re-terminate", func(t *testing.T) {
		job, err := NewFetchJob(FetchJobSellerCatalog, "A1SELLER", uuid.New())
		require.NoError(t, err)
		require.NoError(t, job.Start())
		assert.Error(t, job.Start())

		require.NoError(t, job.Fail("actor run errored"))
		assert.Error(t, job.Complete("apify", 1))
		assert.Error(t, job.Fail("again"))
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		_, err := NewFetchJob(FetchJobKind("images"), "B0TEST1234", uuid.New())
		assert.Error(t, err)
	})
}

func TestFetchJobIsStale(t *testing.T) {
	t.Run("non-terminal job past threshold is stale", func(t *testing.T) {
		job, err := NewFetchJob(FetchJobReviewHistory, "B0TEST1234", uuid.New())
		require.NoError(t, err)
		require.NoError(t, job.Start())

		assert.False(t, job.IsStale(job.CreatedAt.Add(StaleJobThreshold-time.Minute)))
		assert.True(t, job.IsStale(job.CreatedAt.Add(StaleJobThreshold+time.Minute)))
	})

	t.Run("terminal job is never stale", func(t *testing.T) {
		job, err := NewFetchJob(FetchJobReviewHistory, "B0TEST1234", uuid.New())
		require.NoError(t, err)
		require.NoError(t, job.Start())
		require.NoError(t, job.Complete("rainforest", 10))

		assert.False(t, job.IsStale(job.CreatedAt.Add(2*StaleJobThreshold)))
	})
}
