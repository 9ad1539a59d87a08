package jobs

import (
	"context"
	"time"

	"ar-market.backend/internal/metrics"
	"ar-market.backend/pkg/logger"
	"go.uber.org/zap"
)

type expirySweeper interface {
	SweepExpired(ctx context.Context) (int, error)
}

// ListingExpiryJob periodically resolves open listings past their expiry
// date, refunding any active bids.
type ListingExpiryJob struct {
	sweeper  expirySweeper
	metrics  *metrics.Metrics
	interval time.Duration
	stop     chan struct{}
}

// NewListingExpiryJob creates a new listing expiry job
func NewListingExpiryJob(sweeper expirySweeper, m *metrics.Metrics, interval time.Duration) *ListingExpiryJob {
	return &ListingExpiryJob{
		sweeper:  sweeper,
		metrics:  m,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start runs the sweep loop until the context is cancelled or Stop is called
func (j *ListingExpiryJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting listing expiry job", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Listing expiry job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Listing expiry job stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

// Stop signals the loop to exit
func (j *ListingExpiryJob) Stop() {
	close(j.stop)
}

func (j *ListingExpiryJob) sweep(ctx context.Context) {
	swept, err := j.sweeper.SweepExpired(ctx)
	if err != nil {
		logger.Error(ctx, "Listing expiry sweep failed", zap.Error(err))
		return
	}
	if swept == 0 {
		return
	}
	if j.metrics != nil {
		j.metrics.ListingsSweptTotal.Add(float64(swept))
	}
	logger.Info(ctx, "Expired listings resolved", zap.Int("count", swept))
}
