package repository

import (
	"context"
	"fmt"

	"gamebot/database"
	"gamebot/models"
	"gamebot/service"
)

// StatsRepository implements service.StatsRepository
type StatsRepository struct {
	q Queryable
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db *database.DB) *StatsRepository {
	return &StatsRepository{q: db.Pool}
}

func newStatsRepositoryWithTx(tx Queryable) service.StatsRepository {
	return &StatsRepository{q: tx}
}

// RecentGames returns the user's games, newest end date first.
// Games that ended at the same time are ordered by the later-inserted game first.
func (r *StatsRepository) RecentGames(ctx context.Context, userID int64, limit int) ([]*models.RecentGame, error) {
	query := `
		SELECT g.id, g.game_type, g.end_date, o.user_id, o.game_id, o.won, o.tied
		FROM game_outcome o
		JOIN game g ON g.id = o.game_id
		WHERE o.user_id = $1
		ORDER BY g.end_date DESC, g.id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent games for user %d: %w", userID, err)
	}
	defer rows.Close()

	var games []*models.RecentGame
	for rows.Next() {
		var rg models.RecentGame
		err := rows.Scan(
			&rg.Game.ID,
			&rg.Game.GameType,
			&rg.Game.EndDate,
			&rg.Outcome.UserID,
			&rg.Outcome.GameID,
			&rg.Outcome.Won,
			&rg.Outcome.Tied,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recent game: %w", err)
		}
		games = append(games, &rg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recent games: %w", err)
	}

	return games, nil
}

// MostPlayedGames returns game types ordered by play count, ties broken by game type descending
func (r *StatsRepository) MostPlayedGames(ctx context.Context, userID int64, limit int) ([]*models.GameTypeCount, error) {
	query := `
		SELECT g.game_type, COUNT(*) AS play_count
		FROM game_outcome o
		JOIN game g ON g.id = o.game_id
		WHERE o.user_id = $1
		GROUP BY g.game_type
		ORDER BY play_count DESC, g.game_type DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get most played games for user %d: %w", userID, err)
	}
	defer rows.Close()

	var counts []*models.GameTypeCount
	for rows.Next() {
		var c models.GameTypeCount
		if err := rows.Scan(&c.GameType, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan game type count: %w", err)
		}
		counts = append(counts, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate game type counts: %w", err)
	}

	return counts, nil
}

// MostPlayedWithUsers returns the other users who shared the most games with
// userID, ties broken by user id descending
func (r *StatsRepository) MostPlayedWithUsers(ctx context.Context, userID int64, limit int) ([]*models.PlayedWithCount, error) {
	query := `
		SELECT other.user_id, COUNT(*) AS play_count
		FROM game_outcome mine
		JOIN game_outcome other ON other.game_id = mine.game_id AND other.user_id <> mine.user_id
		WHERE mine.user_id = $1
		GROUP BY other.user_id
		ORDER BY play_count DESC, other.user_id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get most played with users for user %d: %w", userID, err)
	}
	defer rows.Close()

	var counts []*models.PlayedWithCount
	for rows.Next() {
		var c models.PlayedWithCount
		if err := rows.Scan(&c.UserID, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan played with count: %w", err)
		}
		counts = append(counts, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate played with counts: %w", err)
	}

	return counts, nil
}

// GetRecord returns the user's win/tie/loss totals. A user with no games gets zeros.
func (r *StatsRepository) GetRecord(ctx context.Context, userID int64) (*models.GameRecord, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE won) AS wins,
			COUNT(*) FILTER (WHERE tied) AS ties,
			COUNT(*) FILTER (WHERE NOT won AND NOT tied) AS losses
		FROM game_outcome
		WHERE user_id = $1
	`

	record := &models.GameRecord{UserID: userID}
	err := r.q.QueryRow(ctx, query, userID).Scan(&record.Wins, &record.Ties, &record.Losses)
	if err != nil {
		return nil, fmt.Errorf("failed to get record for user %d: %w", userID, err)
	}

	return record, nil
}
