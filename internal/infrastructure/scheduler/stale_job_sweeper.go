package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// StaleJobSweeperService is the application service the sweeper drives.
// It marks fetch jobs stuck in a non-terminal state as failed and reports
// how many jobs were swept.
type StaleJobSweeperService interface {
	FailStaleJobs(ctx context.Context, now time.Time) (int, error)
}

// StaleJobSweeperConfig holds configuration for the background sweeper
type StaleJobSweeperConfig struct {
	// Enabled indicates if the sweeper is enabled
	Enabled bool
	// Interval is how often the sweep runs
	Interval time.Duration
	// SweepTimeout is the maximum time a single sweep can run
	SweepTimeout time.Duration
}

// DefaultStaleJobSweeperConfig returns default sweeper configuration
func DefaultStaleJobSweeperConfig() StaleJobSweeperConfig {
	return StaleJobSweeperConfig{
		Enabled:      true,
		Interval:     5 * time.Minute,
		SweepTimeout: 1 * time.Minute,
	}
}

// Validate validates the configuration
func (c *StaleJobSweeperConfig) Validate() error {
	if c.Interval <= 0 {
		return ErrInvalidConfig
	}
	if c.SweepTimeout <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// StaleJobSweeper periodically fails fetch jobs that have sat in a
// non-terminal state past the stale threshold, so a crashed worker cannot
// leave a job "running" forever.
type StaleJobSweeper struct {
	config  StaleJobSweeperConfig
	service StaleJobSweeperService
	logger  *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	lastRunAt   *time.Time
	lastSweptAt *time.Time
	totalSwept  int
}

// NewStaleJobSweeper creates a new sweeper
func NewStaleJobSweeper(config StaleJobSweeperConfig, service StaleJobSweeperService, logger *zap.Logger) (*StaleJobSweeper, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &StaleJobSweeper{
		config:  config,
		service: service,
		logger:  logger,
	}, nil
}

// Start starts the background sweep loop
func (s *StaleJobSweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.sweepLoop(ctx)

	s.logger.Info("Stale job sweeper started",
		zap.Duration("interval", s.config.Interval),
		zap.Duration("sweep_timeout", s.config.SweepTimeout),
	)

	return nil
}

// Stop gracefully stops the sweeper
func (s *StaleJobSweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Stale job sweeper stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Stale job sweeper stop timed out")
		return ctx.Err()
	}
}

// sweepLoop runs the periodic sweep
func (s *StaleJobSweeper) sweepLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.runSweep(ctx, now)
		}
	}
}

// runSweep executes a single sweep pass
func (s *StaleJobSweeper) runSweep(ctx context.Context, now time.Time) {
	s.mu.Lock()
	s.lastRunAt = &now
	s.mu.Unlock()

	sweepCtx, cancel := context.WithTimeout(ctx, s.config.SweepTimeout)
	defer cancel()

	swept, err := s.service.FailStaleJobs(sweepCtx, now)
	if err != nil {
		s.logger.Error("Stale job sweep failed", zap.Error(err))
		return
	}

	if swept > 0 {
		s.mu.Lock()
		s.lastSweptAt = &now
		s.totalSwept += swept
		s.mu.Unlock()

		s.logger.Info("Stale job sweep completed",
			zap.Int("swept", swept),
		)
	}
}

// TriggerManualSweep runs one sweep immediately.
// Uses a background context so the sweep is not cancelled when the caller's
// HTTP request completes.
func (s *StaleJobSweeper) TriggerManualSweep() error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSweeperNotRunning
	}
	s.mu.Unlock()

	go s.runSweep(context.Background(), time.Now())
	return nil
}

// GetStatus returns the current status of the sweeper
func (s *StaleJobSweeper) GetStatus() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]any{
		"enabled":       s.config.Enabled,
		"is_running":    s.isRunning,
		"interval":      s.config.Interval.String(),
		"last_run_at":   s.lastRunAt,
		"last_swept_at": s.lastSweptAt,
		"total_swept":   s.totalSwept,
	}
}
