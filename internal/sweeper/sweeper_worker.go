package sweeper

import (
	"context"
	"time"

	"go-foresthr/internal/shared/clock"

	"go.uber.org/zap"
)

// Run executes Sweep on every tick until the context is cancelled. The
// sweep itself is idempotent, so overlapping deployments running this loop
// concurrently stay harmless.
func Run(
	ctx context.Context,
	service Service,
	clk clock.Clock,
	logger *zap.Logger,
	interval time.Duration,
) {
	if interval <= 0 {
		interval = time.Minute
	}
	if clk == nil {
		clk = clock.System()
	}

	log := logger.Named("sweeper.worker")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("deadline sweeper started", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			log.Info("deadline sweeper stopped")
			return
		case <-ticker.C:
			if _, err := service.Sweep(ctx, clk.Now()); err != nil {
				log.Error("sweep failed", zap.Error(err))
			}
		}
	}
}
