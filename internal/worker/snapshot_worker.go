package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cardwise/coach_api/internal/cache"
	"github.com/cardwise/coach_api/internal/service"
)

// SnapshotWorker periodically recomputes the network-wide card performance
// snapshot and stores it in Redis so the cards endpoint serves warm data.
type SnapshotWorker struct {
	cardService *service.CardService
	perfCache   *cache.PerformanceCache
	interval    time.Duration
}

// NewSnapshotWorker constructs a SnapshotWorker.
func NewSnapshotWorker(cardService *service.CardService, perfCache *cache.PerformanceCache, interval time.Duration) *SnapshotWorker {
	return &SnapshotWorker{
		cardService: cardService,
		perfCache:   perfCache,
		interval:    interval,
	}
}

// Start begins the periodic snapshot loop and listens for context cancellation.
func (w *SnapshotWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting snapshot worker")

	// Run immediately on start
	w.run(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Snapshot worker stopped")
			return
		}
	}
}

func (w *SnapshotWorker) run(ctx context.Context) {
	start := time.Now()

	snap, err := w.cardService.ComputeSnapshot()
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute performance snapshot")
		return
	}

	if err := w.perfCache.Set(ctx, snap); err != nil {
		log.Error().Err(err).Msg("Failed to store performance snapshot")
		return
	}

	log.Info().
		Int("cards", len(snap.Cards)).
		Dur("duration", time.Since(start)).
		Msg("Performance snapshot refreshed")
}
