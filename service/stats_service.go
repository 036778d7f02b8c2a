package service

import (
	"context"
	"fmt"

	"gamebot/models"
)

// MaxStatsLimit caps how many rows a single stats query returns
const MaxStatsLimit = 100

type statsService struct {
	uowFactory UnitOfWorkFactory
}

// NewStatsService creates a new stats service
func NewStatsService(uowFactory UnitOfWorkFactory) StatsService {
	return &statsService{
		uowFactory: uowFactory,
	}
}

// normalizeLimit defaults to a single row and caps at MaxStatsLimit
func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 1
	}
	if limit > MaxStatsLimit {
		return MaxStatsLimit
	}
	return limit
}

// RecentGames returns the user's most recent games with their outcome, newest first
func (s *statsService) RecentGames(ctx context.Context, userID int64, limit int) ([]*models.RecentGame, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.StatsRepository().RecentGames(ctx, userID, normalizeLimit(limit))
}

// MostPlayedGames returns the game types the user played most
func (s *statsService) MostPlayedGames(ctx context.Context, userID int64, limit int) ([]*models.GameTypeCount, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.StatsRepository().MostPlayedGames(ctx, userID, normalizeLimit(limit))
}

// MostPlayedWithUsers returns the users the given user shared the most games with
func (s *statsService) MostPlayedWithUsers(ctx context.Context, userID int64, limit int) ([]*models.PlayedWithCount, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.StatsRepository().MostPlayedWithUsers(ctx, userID, normalizeLimit(limit))
}

// GetRecord returns the user's win/tie/loss totals
func (s *statsService) GetRecord(ctx context.Context, userID int64) (*models.GameRecord, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.StatsRepository().GetRecord(ctx, userID)
}
