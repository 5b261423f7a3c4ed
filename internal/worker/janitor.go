package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/yessgo/yesspay/internal/usecase"
)

// Maintenance exposes the subset of application functionality the janitor
// needs.
type Maintenance interface {
	Sweep(ctx context.Context) (usecase.SweepStats, error)
}

// Janitor periodically garbage-collects expired redemption tokens and
// stale idempotency keys. Sweeps are single-flight: a tick that arrives
// while the previous sweep is still running is skipped.
type Janitor struct {
	facade   Maintenance
	interval time.Duration
	logger   *slog.Logger

	sweeping sync.Mutex
	wg       sync.WaitGroup
	cancel   context.CancelFunc
	mu       sync.Mutex
}

// NewJanitor constructs the maintenance worker.
func NewJanitor(facade Maintenance, interval time.Duration, logger *slog.Logger) *Janitor {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Janitor{facade: facade, interval: interval, logger: logger}
}

// Start launches background sweeping.
func (j *Janitor) Start(ctx context.Context) {
	j.mu.Lock()
	defer j.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel

	j.wg.Add(1)
	go j.run(runCtx)
}

// Stop waits for an in-flight sweep to finish.
func (j *Janitor) Stop() {
	j.mu.Lock()
	if j.cancel != nil {
		j.cancel()
		j.cancel = nil
	}
	j.mu.Unlock()

	j.wg.Wait()
}

func (j *Janitor) run(ctx context.Context) {
	defer j.wg.Done()
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.wg.Add(1)
			go func() {
				defer j.wg.Done()
				j.sweep(ctx)
			}()
		}
	}
}

func (j *Janitor) sweep(ctx context.Context) {
	if !j.sweeping.TryLock() {
		j.logger.Debug("maintenance sweep already running, skipping tick")
		return
	}
	defer j.sweeping.Unlock()

	stats, err := j.facade.Sweep(ctx)
	if err != nil {
		j.logger.Error("maintenance sweep failed", slog.String("error", err.Error()))
		return
	}
	if stats.ExpiredTokens > 0 || stats.ReleasedKeys > 0 {
		j.logger.Info("maintenance sweep completed",
			slog.Int64("expired_tokens", stats.ExpiredTokens),
			slog.Int64("released_keys", stats.ReleasedKeys),
		)
	}
}
