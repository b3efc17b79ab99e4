package adapter

import (
	"context"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-salon-sync/internal/logger"
)

const (
	watchBackoffBase = 250 * time.Millisecond
	watchBackoffCap  = 30 * time.Second
)

// watchFunc waits for writes to key newer than since and reports every
// version it observes to seen. Implementations return after one long-poll
// (HTTP) or when their stream ends (gRPC).
type watchFunc func(ctx context.Context, key string, since int64, seen func(version int64)) error

// subscriptions runs one watch loop per Subscribe call and tears them all
// down on close.
type subscriptions struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *logger.Logger
}

func newSubscriptions(logger *logger.Logger) *subscriptions {
	ctx, cancel := context.WithCancel(context.Background())
	return &subscriptions{ctx: ctx, cancel: cancel, logger: logger}
}

func (s *subscriptions) subscribe(key string, watch watchFunc, onChange func()) (func(), error) {
	if s.ctx.Err() != nil {
		return nil, ErrClosed
	}

	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan struct{})

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(done)
		s.loop(ctx, key, watch, onChange)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}, nil
}

// loop starts from version -1 so the first observation establishes a
// baseline. That first observation and the first one after every failure
// fire onChange too: writes made while the loop was not watching are never
// lost, at the price of one redundant pull.
func (s *subscriptions) loop(ctx context.Context, key string, watch watchFunc, onChange func()) {
	log := s.logger.ForCollection(key)
	since := int64(-1)
	backoff := newWatchBackoff()

	seen := func(version int64) {
		if version == since {
			return
		}
		since = version
		onChange()
	}

	for {
		err := watch(ctx, key, since, seen)
		if ctx.Err() != nil {
			return
		}
		if err == nil {
			backoff = newWatchBackoff()
			continue
		}

		delay, _ := backoff.Next()
		log.Warn().Err(err).Dur("retry_in", delay).Msg("watch failed")
		since = -1

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (s *subscriptions) close() {
	s.cancel()
	s.wg.Wait()
}

func (s *subscriptions) closed() bool {
	return s.ctx.Err() != nil
}

func newWatchBackoff() retry.Backoff {
	return retry.WithCappedDuration(watchBackoffCap, retry.WithJitterPercent(10, retry.NewExponential(watchBackoffBase)))
}
