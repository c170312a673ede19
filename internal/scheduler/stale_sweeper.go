package scheduler

import (
	"context"
	"time"

	"dealer_portal_backend/platform/logger"
)

const defaultStaleSweepInterval = 24 * time.Hour

// StaleSweeper periodically enqueues a journey stale sweep so recency decay
// in the insights shows up for leads with no inbound traffic.
type StaleSweeper struct {
	client   *Client
	log      *logger.Logger
	interval time.Duration
	olderTh  int
}

func NewStaleSweeper(client *Client, log *logger.Logger, interval time.Duration, olderThanHours int) *StaleSweeper {
	if interval <= 0 {
		interval = defaultStaleSweepInterval
	}
	if olderThanHours <= 0 {
		olderThanHours = defaultStaleSweepHours
	}

	return &StaleSweeper{
		client:   client,
		log:      log,
		interval: interval,
		olderTh:  olderThanHours,
	}
}

func (s *StaleSweeper) Run(ctx context.Context) {
	if s == nil || s.client == nil {
		return
	}

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *StaleSweeper) sweep(ctx context.Context) {
	if err := s.client.EnqueueStaleSweep(ctx, s.olderTh); err != nil {
		s.log.Warn("stale sweep enqueue failed", "error", err)
		return
	}
	s.log.Info("stale journey sweep scheduled", "olderThanHours", s.olderTh)
}
