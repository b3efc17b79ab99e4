package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MKhiriev/go-salon-sync/internal/logger"
)

// DefaultRefreshInterval is used when a non-positive interval is configured.
const DefaultRefreshInterval = 5 * time.Minute

// RefreshJob pulls a [Refresher] on a fixed interval. Change notifications
// already keep collections current; the job only heals missed notifications
// and pulls that failed while the remote store was unreachable.
type RefreshJob struct {
	target   Refresher
	interval time.Duration
	log      *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRefreshJob creates a RefreshJob. The job is idle until Start or Run is
// called.
func NewRefreshJob(target Refresher, interval time.Duration, log *logger.Logger) *RefreshJob {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &RefreshJob{target: target, interval: interval, log: log}
}

// Start stops any previous run and launches the ticker goroutine. It exits
// when ctx is cancelled or Stop is called.
func (j *RefreshJob) Start(ctx context.Context) {
	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		j.loop(jobCtx)
	}()
}

// Stop cancels the running goroutine and waits for it. It is a no-op when
// the job is not running.
func (j *RefreshJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

// Run blocks until ctx is cancelled. It lets the job run under a worker
// group.
func (j *RefreshJob) Run(ctx context.Context) error {
	j.loop(ctx)
	return nil
}

func (j *RefreshJob) loop(ctx context.Context) {
	t := time.NewTicker(j.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := j.target.Refresh(ctx); err != nil && !errors.Is(err, context.Canceled) {
				j.log.Warn().Err(err).Msg("periodic refresh failed")
			}
		}
	}
}
