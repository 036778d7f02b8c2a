package service

import (
	"context"
	"time"

	"gamebot/events"
	"gamebot/models"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, userID int64) (*models.DiscordUser, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DiscordUser), args.Error(1)
}

func (m *MockUserRepository) EnsureExists(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, userID int64) (*models.DiscordUser, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DiscordUser), args.Error(1)
}

func (m *MockUserRepository) SetSubscription(ctx context.Context, userID int64, sub models.Subscription) error {
	args := m.Called(ctx, userID, sub)
	return args.Error(0)
}

func (m *MockUserRepository) ClearSubscription(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) GetActiveSubscribers(ctx context.Context, at time.Time) ([]*models.DiscordUser, error) {
	args := m.Called(ctx, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.DiscordUser), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

// MockGameRepository is a mock implementation of GameRepository
type MockGameRepository struct {
	mock.Mock
}

func (m *MockGameRepository) Create(ctx context.Context, game *models.Game) error {
	args := m.Called(ctx, game)
	return args.Error(0)
}

func (m *MockGameRepository) GetByID(ctx context.Context, gameID int64) (*models.Game, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Game), args.Error(1)
}

func (m *MockGameRepository) Delete(ctx context.Context, gameID int64) (bool, error) {
	args := m.Called(ctx, gameID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGameRepository) DeleteIsolated(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockGameOutcomeRepository is a mock implementation of GameOutcomeRepository
type MockGameOutcomeRepository struct {
	mock.Mock
}

func (m *MockGameOutcomeRepository) Create(ctx context.Context, outcome *models.GameOutcome) error {
	args := m.Called(ctx, outcome)
	return args.Error(0)
}

func (m *MockGameOutcomeRepository) GetByGame(ctx context.Context, gameID int64) ([]*models.GameOutcome, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.GameOutcome), args.Error(1)
}

// MockStatsRepository is a mock implementation of StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) RecentGames(ctx context.Context, userID int64, limit int) ([]*models.RecentGame, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RecentGame), args.Error(1)
}

func (m *MockStatsRepository) MostPlayedGames(ctx context.Context, userID int64, limit int) ([]*models.GameTypeCount, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.GameTypeCount), args.Error(1)
}

func (m *MockStatsRepository) MostPlayedWithUsers(ctx context.Context, userID int64, limit int) ([]*models.PlayedWithCount, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PlayedWithCount), args.Error(1)
}

func (m *MockStatsRepository) GetRecord(ctx context.Context, userID int64) (*models.GameRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GameRecord), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
	userRepo        UserRepository
	gameRepo        GameRepository
	gameOutcomeRepo GameOutcomeRepository
	statsRepo       StatsRepository
	eventBus        EventPublisher
}

// SetRepositories wires the repositories returned by the getters
func (m *MockUnitOfWork) SetRepositories(userRepo UserRepository, gameRepo GameRepository, gameOutcomeRepo GameOutcomeRepository, statsRepo StatsRepository, eventBus EventPublisher) {
	m.userRepo = userRepo
	m.gameRepo = gameRepo
	m.gameOutcomeRepo = gameOutcomeRepo
	m.statsRepo = statsRepo
	m.eventBus = eventBus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) UserRepository() UserRepository {
	return m.userRepo
}

func (m *MockUnitOfWork) GameRepository() GameRepository {
	return m.gameRepo
}

func (m *MockUnitOfWork) GameOutcomeRepository() GameOutcomeRepository {
	return m.gameOutcomeRepo
}

func (m *MockUnitOfWork) StatsRepository() StatsRepository {
	return m.statsRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
