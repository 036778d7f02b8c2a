package cmd

import (
	"context"

	"gamebot/events"

	log "github.com/sirupsen/logrus"
)

// subscribeEventLogging logs every store event once its transaction has committed
func subscribeEventLogging(bus *events.Bus) {
	bus.Subscribe(events.EventTypeGameRecorded, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.GameRecordedEvent)
		if !ok {
			return
		}
		log.WithFields(log.Fields{
			"gameID":   e.GameID,
			"gameType": e.GameType,
			"endDate":  e.EndDate,
			"players":  len(e.UserIDs),
		}).Info("Game recorded")
	})

	bus.Subscribe(events.EventTypeGameDeleted, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.GameDeletedEvent); ok {
			log.WithField("gameID", e.GameID).Info("Game deleted")
		}
	})

	bus.Subscribe(events.EventTypeUserDeleted, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.UserDeletedEvent); ok {
			log.WithField("userID", e.UserID).Info("User deleted")
		}
	})

	bus.Subscribe(events.EventTypeIsolatedGamesPruned, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.IsolatedGamesPrunedEvent); ok {
			log.WithField("count", e.Count).Info("Isolated games pruned")
		}
	})
}
