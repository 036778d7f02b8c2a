package testutil

import (
	"context"
	"testing"
	"time"

	"gamebot/database"
	"gamebot/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"
)

// discordEpochMillis is the first millisecond of 2015, the Discord snowflake epoch
const discordEpochMillis = 1420070400000

// GameTypes are the game names the factories choose from
var GameTypes = []string{"Tic Tac Toe", "Connect Four", "Battleship", "Hangman", "Checkers"}

// Factory builds test rows from a seeded faker so failures are reproducible
type Factory struct {
	faker *gofakeit.Faker
	seed  uint64
}

// NewFactory creates a factory. Without a seed the current time is used.
func NewFactory(seed ...uint64) *Factory {
	s := uint64(time.Now().UnixNano())
	if len(seed) > 0 {
		s = seed[0]
	}
	return &Factory{faker: gofakeit.New(s), seed: s}
}

// Seed returns the seed the factory was created with
func (f *Factory) Seed() uint64 {
	return f.seed
}

// DiscordID returns a valid snowflake for an account created between 2016 and 2023
func (f *Factory) DiscordID() int64 {
	created := f.faker.DateRange(
		time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	)
	increment := int64(f.faker.Number(0, 4095))
	return (created.UnixMilli()-discordEpochMillis)<<22 | increment
}

// DiscordIDs returns n distinct snowflakes
func (f *Factory) DiscordIDs(n int) []int64 {
	seen := make(map[int64]bool, n)
	ids := make([]int64, 0, n)
	for len(ids) < n {
		id := f.DiscordID()
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// GameType returns one of GameTypes
func (f *Factory) GameType() string {
	return f.faker.RandomString(GameTypes)
}

// Game returns an unsaved game that ended within the last year
func (f *Factory) Game() *models.Game {
	now := time.Now().UTC()
	return &models.Game{
		GameType: f.GameType(),
		EndDate:  f.faker.DateRange(now.AddDate(-1, 0, 0), now).Truncate(time.Microsecond),
	}
}

// Subscription returns a valid window starting at start and lasting 1 to 12 months
func (f *Factory) Subscription(start time.Time) models.Subscription {
	start = start.UTC().Truncate(time.Microsecond)
	return models.Subscription{
		Start: start,
		End:   start.AddDate(0, f.faker.Number(1, 12), 0),
	}
}

// InsertUser inserts a bare discord_user row
func InsertUser(t *testing.T, db *database.DB, userID int64) {
	t.Helper()
	_, err := db.Exec(context.Background(), `INSERT INTO discord_user (id) VALUES ($1)`, userID)
	require.NoError(t, err)
}

// InsertGame inserts a game row and returns its ID
func InsertGame(t *testing.T, db *database.DB, gameType string, endDate time.Time) int64 {
	t.Helper()
	var id int64
	err := db.QueryRow(context.Background(),
		`INSERT INTO game (game_type, end_date) VALUES ($1, $2) RETURNING id`,
		gameType, endDate,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

// InsertOutcome inserts a game_outcome row
func InsertOutcome(t *testing.T, db *database.DB, userID, gameID int64, result models.GameResult) {
	t.Helper()
	won, tied := result.Flags()
	_, err := db.Exec(context.Background(),
		`INSERT INTO game_outcome (user_id, game_id, won, tied) VALUES ($1, $2, $3, $4)`,
		userID, gameID, won, tied,
	)
	require.NoError(t, err)
}

// CountRows returns the row count of a table filtered by an optional WHERE clause
func CountRows(t *testing.T, db *database.DB, table, where string, args ...any) int64 {
	t.Helper()
	query := "SELECT COUNT(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}
	var n int64
	require.NoError(t, db.QueryRow(context.Background(), query, args...).Scan(&n))
	return n
}
