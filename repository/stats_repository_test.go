package repository

import (
	"context"
	"sort"
	"testing"
	"time"

	"gamebot/models"
	"gamebot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsRepository_RecentGames(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewStatsRepository(testDB.DB)
	ctx := context.Background()

	const userID = 1
	testutil.InsertUser(t, testDB.DB, userID)
	testutil.InsertUser(t, testDB.DB, 2)

	t.Run("no games", func(t *testing.T) {
		games, err := repo.RecentGames(ctx, userID, 1)
		require.NoError(t, err)
		assert.Empty(t, games)

		games, err = repo.RecentGames(ctx, userID, 10)
		require.NoError(t, err)
		assert.Empty(t, games)
	})

	// One game per day for 20 days, alternating results
	base := time.Now().UTC().AddDate(-1, 0, 0).Truncate(time.Second)
	results := []models.GameResult{models.GameResultWon, models.GameResultTied, models.GameResultLost}
	var gameIDs []int64
	for i := 0; i < 20; i++ {
		id := testutil.InsertGame(t, testDB.DB, "Tic Tac Toe", base.AddDate(0, 0, i))
		testutil.InsertOutcome(t, testDB.DB, userID, id, results[i%len(results)])
		gameIDs = append(gameIDs, id)
	}
	// Another user's game must not show up
	otherGame := testutil.InsertGame(t, testDB.DB, "Hangman", base.AddDate(0, 1, 0))
	testutil.InsertOutcome(t, testDB.DB, 2, otherGame, models.GameResultWon)

	t.Run("most recent first", func(t *testing.T) {
		games, err := repo.RecentGames(ctx, userID, 5)
		require.NoError(t, err)
		require.Len(t, games, 5)

		for i, rg := range games {
			expectedIndex := 19 - i
			assert.Equal(t, gameIDs[expectedIndex], rg.Game.ID)
			assert.Equal(t, rg.Game.ID, rg.Outcome.GameID)
			assert.Equal(t, int64(userID), rg.Outcome.UserID)

			result, err := rg.Outcome.Result()
			require.NoError(t, err)
			assert.Equal(t, results[expectedIndex%len(results)], result)
		}
	})

	t.Run("limit larger than history", func(t *testing.T) {
		games, err := repo.RecentGames(ctx, userID, 100)
		require.NoError(t, err)
		assert.Len(t, games, 20)
	})

	t.Run("same end date prefers later game", func(t *testing.T) {
		end := base.AddDate(1, 0, 0)
		first := testutil.InsertGame(t, testDB.DB, "Checkers", end)
		second := testutil.InsertGame(t, testDB.DB, "Checkers", end)
		testutil.InsertOutcome(t, testDB.DB, 2, first, models.GameResultLost)
		testutil.InsertOutcome(t, testDB.DB, 2, second, models.GameResultLost)

		games, err := repo.RecentGames(ctx, 2, 2)
		require.NoError(t, err)
		require.Len(t, games, 2)
		assert.Equal(t, second, games[0].Game.ID)
		assert.Equal(t, first, games[1].Game.ID)
	})
}

func TestStatsRepository_MostPlayedGames(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewStatsRepository(testDB.DB)
	ctx := context.Background()

	const userID = 1
	testutil.InsertUser(t, testDB.DB, userID)

	t.Run("no games", func(t *testing.T) {
		counts, err := repo.MostPlayedGames(ctx, userID, 10)
		require.NoError(t, err)
		assert.Empty(t, counts)
	})

	plays := map[string]int{"1": 4, "2": 2, "3": 4, "4": 1, "5": 2}
	for gameType, n := range plays {
		for i := 0; i < n; i++ {
			id := testutil.InsertGame(t, testDB.DB, gameType, time.Now())
			testutil.InsertOutcome(t, testDB.DB, userID, id, models.GameResultWon)
		}
	}

	// Sort by count then game type, both descending
	expected := make([]*models.GameTypeCount, 0, len(plays))
	for gameType, n := range plays {
		expected = append(expected, &models.GameTypeCount{GameType: gameType, Count: int64(n)})
	}
	sort.Slice(expected, func(i, j int) bool {
		if expected[i].Count != expected[j].Count {
			return expected[i].Count > expected[j].Count
		}
		return expected[i].GameType > expected[j].GameType
	})

	t.Run("top one", func(t *testing.T) {
		counts, err := repo.MostPlayedGames(ctx, userID, 1)
		require.NoError(t, err)
		require.Len(t, counts, 1)
		assert.Equal(t, &models.GameTypeCount{GameType: "3", Count: 4}, counts[0])
	})

	t.Run("top three", func(t *testing.T) {
		counts, err := repo.MostPlayedGames(ctx, userID, 3)
		require.NoError(t, err)
		assert.Equal(t, expected[:3], counts)
	})

	t.Run("more than available", func(t *testing.T) {
		counts, err := repo.MostPlayedGames(ctx, userID, 50)
		require.NoError(t, err)
		assert.Equal(t, expected, counts)
	})
}

func TestStatsRepository_MostPlayedWithUsers(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewStatsRepository(testDB.DB)
	ctx := context.Background()

	const mainPlayer = 100
	for _, id := range []int64{mainPlayer, 1, 2, 3, 4} {
		testutil.InsertUser(t, testDB.DB, id)
	}

	t.Run("no games", func(t *testing.T) {
		counts, err := repo.MostPlayedWithUsers(ctx, mainPlayer, 10)
		require.NoError(t, err)
		assert.Empty(t, counts)
	})

	// Each entry is the set of other players in a game with the main player
	games := [][]int64{
		{1, 2},
		{1, 3},
		{2, 3},
		{1},
		{3, 4},
	}
	for _, others := range games {
		id := testutil.InsertGame(t, testDB.DB, "Tic Tac Toe", time.Now())
		testutil.InsertOutcome(t, testDB.DB, mainPlayer, id, models.GameResultWon)
		for _, other := range others {
			testutil.InsertOutcome(t, testDB.DB, other, id, models.GameResultLost)
		}
	}
	// A game without the main player does not count
	id := testutil.InsertGame(t, testDB.DB, "Tic Tac Toe", time.Now())
	testutil.InsertOutcome(t, testDB.DB, 4, id, models.GameResultWon)
	testutil.InsertOutcome(t, testDB.DB, 2, id, models.GameResultLost)

	counts, err := repo.MostPlayedWithUsers(ctx, mainPlayer, 10)
	require.NoError(t, err)

	// 1 and 3 tie on three games; the higher id goes first
	assert.Equal(t, []*models.PlayedWithCount{
		{UserID: 3, Count: 3},
		{UserID: 1, Count: 3},
		{UserID: 2, Count: 2},
		{UserID: 4, Count: 1},
	}, counts)

	top, err := repo.MostPlayedWithUsers(ctx, mainPlayer, 1)
	require.NoError(t, err)
	assert.Equal(t, counts[:1], top)
}

func TestStatsRepository_GetRecord(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewStatsRepository(testDB.DB)
	ctx := context.Background()

	testutil.InsertUser(t, testDB.DB, 1)

	record, err := repo.GetRecord(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, &models.GameRecord{UserID: 1}, record)

	for _, result := range []models.GameResult{
		models.GameResultWon, models.GameResultWon, models.GameResultTied,
		models.GameResultLost, models.GameResultLost, models.GameResultLost,
	} {
		id := testutil.InsertGame(t, testDB.DB, "Checkers", time.Now())
		testutil.InsertOutcome(t, testDB.DB, 1, id, result)
	}

	record, err = repo.GetRecord(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, &models.GameRecord{UserID: 1, Wins: 2, Ties: 1, Losses: 3}, record)
}
