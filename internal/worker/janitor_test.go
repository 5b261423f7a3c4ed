package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yessgo/yesspay/internal/usecase"
)

type maintenanceStub struct {
	calls   atomic.Int64
	stats   usecase.SweepStats
	err     error
	blockCh chan struct{}
}

func (s *maintenanceStub) Sweep(ctx context.Context) (usecase.SweepStats, error) {
	s.calls.Add(1)
	if s.blockCh != nil {
		<-s.blockCh
	}
	return s.stats, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}

func TestJanitorSweepsPeriodically(t *testing.T) {
	stub := &maintenanceStub{stats: usecase.SweepStats{ExpiredTokens: 2, ReleasedKeys: 1}}
	janitor := NewJanitor(stub, 20*time.Millisecond, discardLogger())

	janitor.Start(context.Background())
	waitFor(t, time.Second, func() bool { return stub.calls.Load() >= 2 })
	janitor.Stop()
}

func TestJanitorStopBeforeFirstTick(t *testing.T) {
	stub := &maintenanceStub{}
	janitor := NewJanitor(stub, time.Hour, discardLogger())

	janitor.Start(context.Background())
	janitor.Stop()
	if stub.calls.Load() != 0 {
		t.Fatalf("no sweep expected before first tick, got %d", stub.calls.Load())
	}
}

func TestJanitorKeepsRunningAfterError(t *testing.T) {
	stub := &maintenanceStub{err: errors.New("db down")}
	janitor := NewJanitor(stub, 15*time.Millisecond, discardLogger())

	janitor.Start(context.Background())
	waitFor(t, time.Second, func() bool { return stub.calls.Load() >= 3 })
	janitor.Stop()
}

func TestJanitorSkipsOverlappingSweeps(t *testing.T) {
	release := make(chan struct{})
	stub := &maintenanceStub{blockCh: release}
	janitor := NewJanitor(stub, 10*time.Millisecond, discardLogger())

	janitor.Start(context.Background())
	waitFor(t, time.Second, func() bool { return stub.calls.Load() == 1 })

	// Several ticks pass while the first sweep is blocked; they must all be
	// skipped instead of queueing up.
	time.Sleep(60 * time.Millisecond)
	if got := stub.calls.Load(); got != 1 {
		t.Fatalf("expected single in-flight sweep, got %d", got)
	}

	close(release)
	janitor.Stop()
}

func TestJanitorDefaultInterval(t *testing.T) {
	janitor := NewJanitor(&maintenanceStub{}, 0, discardLogger())
	if janitor.interval != 5*time.Minute {
		t.Fatalf("unexpected default interval %s", janitor.interval)
	}
}
