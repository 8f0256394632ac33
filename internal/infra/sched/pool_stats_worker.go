package sched

import (
	"context"
	"time"

	"telegram-admin-backend/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// PoolStatser reports connection pool gauges; ok is false before the first connection.
type PoolStatser interface {
	Stats() (total, idle, inUse int32, ok bool)
}

// PoolStatsWorker publishes database pool gauges on a fixed interval.
type PoolStatsWorker struct {
	interval time.Duration
	db       PoolStatser
	log      *zerolog.Logger
}

func NewPoolStatsWorker(interval time.Duration, db PoolStatser, logger *zerolog.Logger) *PoolStatsWorker {
	compLog := logger.With().Str("component", "PoolStatsWorker").Logger()
	if interval <= 0 {
		interval = time.Minute
	}
	return &PoolStatsWorker{
		interval: interval,
		db:       db,
		log:      &compLog,
	}
}

func (w *PoolStatsWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting pool stats worker")
	// Run once on startup, then on every tick
	w.collect()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping pool stats worker")
			return ctx.Err()
		case <-ticker.C:
			w.collect()
		}
	}
}

func (w *PoolStatsWorker) collect() {
	total, idle, inUse, ok := w.db.Stats()
	if !ok {
		metrics.SetDBPoolDisconnected()
		w.log.Debug().Msg("database pool not connected yet")
		return
	}
	metrics.SetDBPoolStats(total, idle, inUse)
	w.log.Debug().Int32("total", total).Int32("idle", idle).Int32("in_use", inUse).Msg("pool stats")
}
