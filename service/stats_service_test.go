package service

import (
	"context"
	"testing"
	"time"

	"gamebot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, 1, normalizeLimit(-3))
	assert.Equal(t, 1, normalizeLimit(0))
	assert.Equal(t, 5, normalizeLimit(5))
	assert.Equal(t, MaxStatsLimit, normalizeLimit(MaxStatsLimit))
	assert.Equal(t, MaxStatsLimit, normalizeLimit(MaxStatsLimit+1))
}

func newStatsMocks(ctx context.Context) (*MockUnitOfWorkFactory, *MockUnitOfWork, *MockStatsRepository) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockStatsRepo := new(MockStatsRepository)
	mockUoW.SetRepositories(nil, nil, nil, mockStatsRepo, nil)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	return mockFactory, mockUoW, mockStatsRepo
}

func TestStatsService_RecentGames(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockStatsRepo := newStatsMocks(ctx)

	recent := []*models.RecentGame{
		{
			Game:    models.Game{ID: 2, GameType: "chess", EndDate: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
			Outcome: models.GameOutcome{UserID: testUserID, GameID: 2, Won: true},
		},
	}
	mockStatsRepo.On("RecentGames", ctx, testUserID, 10).Return(recent, nil)

	result, err := NewStatsService(mockFactory).RecentGames(ctx, testUserID, 10)

	require.NoError(t, err)
	assert.Equal(t, recent, result)
	mockUoW.AssertNotCalled(t, "Commit")
	mockStatsRepo.AssertExpectations(t)
}

func TestStatsService_MostPlayedGames_ClampsLimit(t *testing.T) {
	ctx := context.Background()
	mockFactory, _, mockStatsRepo := newStatsMocks(ctx)

	counts := []*models.GameTypeCount{{GameType: "chess", Count: 4}}
	mockStatsRepo.On("MostPlayedGames", ctx, testUserID, MaxStatsLimit).Return(counts, nil)

	result, err := NewStatsService(mockFactory).MostPlayedGames(ctx, testUserID, 1000)

	require.NoError(t, err)
	assert.Equal(t, counts, result)
	mockStatsRepo.AssertExpectations(t)
}

func TestStatsService_MostPlayedWithUsers_DefaultsLimit(t *testing.T) {
	ctx := context.Background()
	mockFactory, _, mockStatsRepo := newStatsMocks(ctx)

	counts := []*models.PlayedWithCount{{UserID: testUserID2, Count: 2}}
	mockStatsRepo.On("MostPlayedWithUsers", ctx, testUserID, 1).Return(counts, nil)

	result, err := NewStatsService(mockFactory).MostPlayedWithUsers(ctx, testUserID, 0)

	require.NoError(t, err)
	assert.Equal(t, counts, result)
	mockStatsRepo.AssertExpectations(t)
}

func TestStatsService_GetRecord(t *testing.T) {
	ctx := context.Background()
	mockFactory, _, mockStatsRepo := newStatsMocks(ctx)

	record := &models.GameRecord{UserID: testUserID, Wins: 3, Ties: 1, Losses: 2}
	mockStatsRepo.On("GetRecord", ctx, testUserID).Return(record, nil)

	result, err := NewStatsService(mockFactory).GetRecord(ctx, testUserID)

	require.NoError(t, err)
	assert.Equal(t, int64(6), result.Total())
	mockStatsRepo.AssertExpectations(t)
}
