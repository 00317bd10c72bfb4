// Package scheduler wires up the cron job that periodically closes job
// postings whose application deadline has passed.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Closer closes expired postings and reports how many it closed.
type Closer interface {
	CloseExpired(ctx context.Context, now time.Time) (int, error)
}

// ExpirySweeper wraps robfig/cron and runs the deadline sweep.
type ExpirySweeper struct {
	cron   *cron.Cron
	closer Closer
	logger *zap.Logger
	now    func() time.Time
	spec   string // cron spec, e.g. "@every 1h0m0s"

	wg sync.WaitGroup
}

// New creates a sweeper that fires every interval.
func New(closer Closer, logger *zap.Logger, interval time.Duration) *ExpirySweeper {
	return &ExpirySweeper{
		cron:   cron.New(cron.WithLogger(cron.PrintfLogger(zap.NewStdLog(logger)))),
		closer: closer,
		logger: logger,
		now:    time.Now,
		spec:   fmt.Sprintf("@every %s", interval),
	}
}

// Start registers the job and starts the scheduler. It also runs one sweep
// immediately so postings that expired while the service was down are closed
// without waiting for the first tick.
func (s *ExpirySweeper) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Info("expiry sweep scheduled", zap.String("spec", s.spec))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.RunOnce(ctx)
	}()

	return nil
}

// Stop waits for running sweeps to finish and shuts down the scheduler.
func (s *ExpirySweeper) Stop() {
	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.logger.Info("expiry sweep stopped")
}

// RunOnce performs a single sweep. Errors are logged, never returned.
func (s *ExpirySweeper) RunOnce(ctx context.Context) int {
	n, err := s.closer.CloseExpired(ctx, s.now())
	if err != nil {
		s.logger.Warn("expiry sweep failed", zap.Error(err))
		return 0
	}
	if n > 0 {
		s.logger.Info("closed expired postings", zap.Int("count", n))
	}
	return n
}
