package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeSweeperService counts calls and returns a fixed sweep result
type fakeSweeperService struct {
	calls atomic.Int32
	swept int
	err   error
}

func (f *fakeSweeperService) FailStaleJobs(_ context.Context, _ time.Time) (int, error) {
	f.calls.Add(1)
	return f.swept, f.err
}

func TestStaleJobSweeperConfig_Validate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		cfg := DefaultStaleJobSweeperConfig()
		assert.NoError(t, cfg.Validate())
		assert.Equal(t, 5*time.Minute, cfg.Interval)
	})

	t.Run("zero interval rejected", func(t *testing.T) {
		cfg := DefaultStaleJobSweeperConfig()
		cfg.Interval = 0
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("zero sweep timeout rejected", func(t *testing.T) {
		cfg := DefaultStaleJobSweeperConfig()
		cfg.SweepTimeout = 0
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})
}

func TestStaleJobSweeper_SweepLoop(t *testing.T) {
	service := &fakeSweeperService{swept: 2}
	cfg := DefaultStaleJobSweeperConfig()
	cfg.Interval = 10 * time.Millisecond

	sweeper, err := NewStaleJobSweeper(cfg, service, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, sweeper.Start(context.Background()))

	// Wait for at least one tick to fire
	assert.Eventually(t, func() bool {
		return service.calls.Load() >= 1
	}, time.Second, 5*time.Millisecond)

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, sweeper.Stop(stopCtx))

	status := sweeper.GetStatus()
	assert.Equal(t, false, status["is_running"])
	assert.GreaterOrEqual(t, status["total_swept"].(int), 2)
}

func TestStaleJobSweeper_ServiceErrorDoesNotStopLoop(t *testing.T) {
	service := &fakeSweeperService{err: errors.New("db unavailable")}
	cfg := DefaultStaleJobSweeperConfig()
	cfg.Interval = 10 * time.Millisecond

	sweeper, err := NewStaleJobSweeper(cfg, service, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, sweeper.Start(context.Background()))

	assert.Eventually(t, func() bool {
		return service.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, sweeper.Stop(stopCtx))
}

func TestStaleJobSweeper_TriggerManualSweep(t *testing.T) {
	service := &fakeSweeperService{swept: 1}
	cfg := DefaultStaleJobSweeperConfig()
	cfg.Interval = time.Hour // ticker never fires during the test

	sweeper, err := NewStaleJobSweeper(cfg, service, zap.NewNop())
	require.NoError(t, err)

	t.Run("not running", func(t *testing.T) {
		assert.ErrorIs(t, sweeper.TriggerManualSweep(), ErrSweeperNotRunning)
	})

	t.Run("running", func(t *testing.T) {
		require.NoError(t, sweeper.Start(context.Background()))
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = sweeper.Stop(stopCtx)
		}()

		require.NoError(t, sweeper.TriggerManualSweep())

		assert.Eventually(t, func() bool {
			return service.calls.Load() == 1
		}, time.Second, 5*time.Millisecond)
	})
}

func TestStaleJobSweeper_StartIsIdempotent(t *testing.T) {
	service := &fakeSweeperService{}
	cfg := DefaultStaleJobSweeperConfig()
	cfg.Interval = time.Hour

	sweeper, err := NewStaleJobSweeper(cfg, service, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, sweeper.Start(context.Background()))
	require.NoError(t, sweeper.Start(context.Background()))

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, sweeper.Stop(stopCtx))
	require.NoError(t, sweeper.Stop(stopCtx))
}
