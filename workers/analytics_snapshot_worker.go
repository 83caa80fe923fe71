package workers

import (
	"context"
	"time"

	"civiceye/models"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// SnapshotPersister computes analytics and stores the result.
type SnapshotPersister interface {
	Persist(ctx context.Context) (models.AnalyticsData, error)
}

// AnalyticsSnapshotWorker periodically refreshes analytics and stores the
// snapshot so offline tools and dashboards can read it.
type AnalyticsSnapshotWorker struct {
	analytics SnapshotPersister
	interval  time.Duration
	clock     clockwork.Clock
	log       *zap.Logger
}

func NewAnalyticsSnapshotWorker(analytics SnapshotPersister, interval time.Duration, clock clockwork.Clock, log *zap.Logger) *AnalyticsSnapshotWorker {
	return &AnalyticsSnapshotWorker{
		analytics: analytics,
		interval:  interval,
		clock:     clock,
		log:       log,
	}
}

func (w *AnalyticsSnapshotWorker) Start(ctx context.Context) {
	w.log.Info("analytics_worker_started", zap.Duration("interval", w.interval))
	go w.run(ctx)
}

func (w *AnalyticsSnapshotWorker) run(ctx context.Context) {
	w.syncOnce(ctx)

	ticker := w.clock.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("analytics_worker_stopped")
			return
		case <-ticker.Chan():
			w.syncOnce(ctx)
		}
	}
}

func (w *AnalyticsSnapshotWorker) syncOnce(ctx context.Context) {
	start := w.clock.Now()
	data, err := w.analytics.Persist(ctx)
	if err != nil {
		w.log.Error("analytics_snapshot_failed", zap.Error(err))
		return
	}
	w.log.Debug("analytics_snapshot_stored",
		zap.Int("publications", data.TotalPublications),
		zap.Duration("took", w.clock.Since(start)),
	)
}
