package batch

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBatchJob(t *testing.T) {
	t.Run("creates processing batch", func(t *testing.T) {
		job, err := NewBatchJob(uuid.New(), uuid.New(), 5)
		require.NoError(t, err)
		assert.Equal(t, BatchStatusProcessing, job.Status)
		assert.Equal(t, 5, job.TotalItems)
		assert.Empty(t, job.Failures())
	})

	t.Run("rejects empty and oversized batches", func(t *testing.T) {
		_, err := NewBatchJob(uuid.New(), uuid.New(), 0)
		assert.Error(t, err)
		_, err = NewBatchJob(uuid.New(), uuid.New(), MaxBatchItems+1)
		assert.Error(t, err)
	})
}

func TestBatchJobFinalize(t *testing.T) {
	t.Run("partial success finalizes as completed", func(t *testing.T) {
		job, err := NewBatchJob(uuid.New(), uuid.New(), 5)
		require.NoError(t, err)

		job.RecordSuccess(100)
		job.RecordSuccess(100)
		require.NoError(t, job.RecordFailure("item 3", errors.New("generation timed out")))
		job.RecordSuccess(100)
		job.RecordSuccess(100)

		require.NoError(t, job.Finalize())

		assert.Equal(t, BatchStatusCompleted, job.Status)
		assert.Equal(t, 4, job.CompletedListings)
		failures := job.Failures()
		require.Len(t, failures, 1)
		assert.Equal(t, "item 3", failures[0].Name)
		assert.Equal(t, "generation timed out", failures[0].Message)
		assert.NotNil(t, job.CompletedAt)
	})

	t.Run("all failed finalizes as failed", func(t *testing.T) {
		job, err := NewBatchJob(uuid.New(), uuid.New(), 2)
		require.NoError(t, err)

		require.NoError(t, job.RecordFailure("a", errors.New("boom")))
		require.NoError(t, job.RecordFailure("b", errors.New("boom")))
		require.NoError(t, job.Finalize())

		assert.Equal(t, BatchStatusFailed, job.Status)
	})

	t.Run("refuses to finalize with dangling items", func(t *testing.T) {
		job, err := NewBatchJob(uuid.New(), uuid.New(), 3)
		require.NoError(t, err)
		job.RecordSuccess(0)

		assert.Error(t, job.Finalize())
	})

	t.Run("refuses double finalize", func(t *testing.T) {
		job, err := NewBatchJob(uuid.New(), uuid.New(), 1)
		require.NoError(t, err)
		job.RecordSuccess(0)
		require.NoError(t, job.Finalize())
		assert.Error(t, job.Finalize())
	})
}
