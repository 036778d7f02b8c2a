package cmd

import (
	"context"
	"sync"
	"time"

	"gamebot/service"

	log "github.com/sirupsen/logrus"
)

// StartPruneWorker periodically deletes games that no longer have outcomes.
// It returns a cleanup function that stops the worker. A non-positive interval
// disables the worker.
func StartPruneWorker(ctx context.Context, games service.GameService, interval time.Duration) func() {
	if interval <= 0 {
		log.Info("Isolated game prune worker disabled")
		return func() {}
	}

	ticker := time.NewTicker(interval)
	stopChan := make(chan struct{})
	done := make(chan struct{})

	prune := func() {
		count, err := games.PruneIsolatedGames(ctx)
		if err != nil {
			log.Errorf("Error pruning isolated games: %v", err)
			return
		}
		if count > 0 {
			log.WithField("count", count).Info("Pruned isolated games")
		}
	}

	go func() {
		defer close(done)
		log.WithField("interval", interval).Info("Isolated game prune worker started")

		// Run immediately on startup
		prune()

		for {
			select {
			case <-ctx.Done():
				log.Info("Prune worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Prune worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				prune()
			}
		}
	}()

	var stopOnce sync.Once
	return func() {
		stopOnce.Do(func() {
			ticker.Stop()
			close(stopChan)
			<-done
		})
	}
}
