package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gamebot/events"
	"gamebot/models"

	log "github.com/sirupsen/logrus"
)

// MaxGameTypeLength matches the width of game.game_type
const MaxGameTypeLength = 255

type gameService struct {
	uowFactory UnitOfWorkFactory
}

// NewGameService creates a new game service
func NewGameService(uowFactory UnitOfWorkFactory) GameService {
	return &gameService{
		uowFactory: uowFactory,
	}
}

// RecordGame stores a finished game and one outcome per player in a single transaction.
// Players without a discord_user row get one.
func (s *gameService) RecordGame(ctx context.Context, gameType string, endDate time.Time, players []models.PlayerResult) (*models.Game, error) {
	gameType = strings.TrimSpace(gameType)
	if gameType == "" {
		return nil, fmt.Errorf("game type is required")
	}
	if len(gameType) > MaxGameTypeLength {
		return nil, fmt.Errorf("game type is longer than %d characters", MaxGameTypeLength)
	}
	if endDate.IsZero() {
		return nil, fmt.Errorf("end date is required")
	}
	if len(players) == 0 {
		return nil, fmt.Errorf("a game needs at least one player")
	}

	seen := make(map[int64]bool, len(players))
	userIDs := make([]int64, 0, len(players))
	for _, p := range players {
		if !p.Result.Valid() {
			return nil, fmt.Errorf("invalid result %q for user %d", p.Result, p.UserID)
		}
		if seen[p.UserID] {
			return nil, fmt.Errorf("user %d appears more than once", p.UserID)
		}
		if err := models.ValidateDiscordID(p.UserID, endDate); err != nil {
			return nil, err
		}
		seen[p.UserID] = true
		userIDs = append(userIDs, p.UserID)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	for _, id := range userIDs {
		if _, err := uow.UserRepository().EnsureExists(ctx, id); err != nil {
			return nil, err
		}
	}

	game := &models.Game{
		GameType: gameType,
		EndDate:  endDate,
	}
	if err := uow.GameRepository().Create(ctx, game); err != nil {
		return nil, err
	}

	for _, p := range players {
		outcome := models.NewGameOutcome(p.UserID, game.ID, p.Result)
		if err := uow.GameOutcomeRepository().Create(ctx, outcome); err != nil {
			return nil, err
		}
	}

	uow.EventBus().Publish(events.GameRecordedEvent{
		GameID:   game.ID,
		GameType: game.GameType,
		EndDate:  game.EndDate,
		UserIDs:  userIDs,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"gameID":   game.ID,
		"gameType": game.GameType,
		"players":  len(players),
	}).Debug("Recorded game")

	return game, nil
}

// GetGame returns a game with its outcomes
func (s *gameService) GetGame(ctx context.Context, gameID int64) (*models.Game, []*models.GameOutcome, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	game, err := uow.GameRepository().GetByID(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	if game == nil {
		return nil, nil, fmt.Errorf("game %d: %w", gameID, ErrGameNotFound)
	}

	outcomes, err := uow.GameOutcomeRepository().GetByGame(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}

	return game, outcomes, nil
}

// DeleteGame removes a game and its outcomes. It reports false when the game did not exist.
func (s *gameService) DeleteGame(ctx context.Context, gameID int64) (bool, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	deleted, err := uow.GameRepository().Delete(ctx, gameID)
	if err != nil {
		return false, err
	}
	if deleted {
		uow.EventBus().Publish(events.GameDeletedEvent{GameID: gameID})
	}

	if err := uow.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return deleted, nil
}

// PruneIsolatedGames deletes games that no longer have any outcomes
func (s *gameService) PruneIsolatedGames(ctx context.Context) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	count, err := uow.GameRepository().DeleteIsolated(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		uow.EventBus().Publish(events.IsolatedGamesPrunedEvent{Count: count})
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return count, nil
}
