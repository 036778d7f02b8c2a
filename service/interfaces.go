package service

import (
	"context"
	"errors"
	"time"

	"gamebot/events"
	"gamebot/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrGameNotFound = errors.New("game not found")
)

// UserRepository defines the interface for discord_user data access
type UserRepository interface {
	// Create inserts a new user with no subscription
	Create(ctx context.Context, userID int64) (*models.DiscordUser, error)

	// EnsureExists inserts the user if missing; it reports whether a row was created
	EnsureExists(ctx context.Context, userID int64) (bool, error)

	// GetByID retrieves a user, returning nil when not found
	GetByID(ctx context.Context, userID int64) (*models.DiscordUser, error)

	// SetSubscription replaces the user's subscription window
	SetSubscription(ctx context.Context, userID int64, sub models.Subscription) error

	// ClearSubscription sets both subscription dates to null
	ClearSubscription(ctx context.Context, userID int64) error

	// GetActiveSubscribers returns users whose subscription covers the given time
	GetActiveSubscribers(ctx context.Context, at time.Time) ([]*models.DiscordUser, error)

	// Delete removes the user and, by cascade, their outcomes
	Delete(ctx context.Context, userID int64) (bool, error)
}

// GameRepository defines the interface for game data access
type GameRepository interface {
	// Create inserts the game and sets its ID
	Create(ctx context.Context, game *models.Game) error

	// GetByID retrieves a game, returning nil when not found
	GetByID(ctx context.Context, gameID int64) (*models.Game, error)

	// Delete removes the game and, by cascade, its outcomes
	Delete(ctx context.Context, gameID int64) (bool, error)

	// DeleteIsolated removes games that have no outcomes
	DeleteIsolated(ctx context.Context) (int64, error)
}

// GameOutcomeRepository defines the interface for game_outcome data access
type GameOutcomeRepository interface {
	// Create inserts one outcome row
	Create(ctx context.Context, outcome *models.GameOutcome) error

	// GetByGame returns all outcomes of a game ordered by user
	GetByGame(ctx context.Context, gameID int64) ([]*models.GameOutcome, error)
}

// StatsRepository defines read-only aggregate queries over games and outcomes
type StatsRepository interface {
	// RecentGames returns the user's games, newest first
	RecentGames(ctx context.Context, userID int64, limit int) ([]*models.RecentGame, error)

	// MostPlayedGames returns game types by how often the user played them
	MostPlayedGames(ctx context.Context, userID int64, limit int) ([]*models.GameTypeCount, error)

	// MostPlayedWithUsers returns the users the given user shared the most games with
	MostPlayedWithUsers(ctx context.Context, userID int64, limit int) ([]*models.PlayedWithCount, error)

	// GetRecord returns the user's win/tie/loss totals
	GetRecord(ctx context.Context, userID int64) (*models.GameRecord, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	UserRepository() UserRepository
	GameRepository() GameRepository
	GameOutcomeRepository() GameOutcomeRepository
	StatsRepository() StatsRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UserService manages discord_user rows and supporter status
type UserService interface {
	EnsureUser(ctx context.Context, userID int64) (*models.DiscordUser, error)
	GetUser(ctx context.Context, userID int64) (*models.DiscordUser, error)
	SupporterStatus(ctx context.Context, userID int64) (*models.Subscription, error)
	SetSubscription(ctx context.Context, userID int64, start, end time.Time) error
	ClearSubscription(ctx context.Context, userID int64) error
	GetActiveSupporters(ctx context.Context, at time.Time) ([]*models.DiscordUser, error)
	DeleteUser(ctx context.Context, userID int64) (bool, error)
}

// GameService records finished games and maintains the game table
type GameService interface {
	RecordGame(ctx context.Context, gameType string, endDate time.Time, players []models.PlayerResult) (*models.Game, error)
	GetGame(ctx context.Context, gameID int64) (*models.Game, []*models.GameOutcome, error)
	DeleteGame(ctx context.Context, gameID int64) (bool, error)
	PruneIsolatedGames(ctx context.Context) (int64, error)
}

// StatsService answers per-user stats questions
type StatsService interface {
	RecentGames(ctx context.Context, userID int64, limit int) ([]*models.RecentGame, error)
	MostPlayedGames(ctx context.Context, userID int64, limit int) ([]*models.GameTypeCount, error)
	MostPlayedWithUsers(ctx context.Context, userID int64, limit int) ([]*models.PlayedWithCount, error)
	GetRecord(ctx context.Context, userID int64) (*models.GameRecord, error)
}
