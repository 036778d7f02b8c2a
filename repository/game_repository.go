package repository

import (
	"context"
	"fmt"

	"gamebot/database"
	"gamebot/models"
	"gamebot/service"

	"github.com/jackc/pgx/v5"
)

// GameRepository implements service.GameRepository over the game table
type GameRepository struct {
	q Queryable
}

// NewGameRepository creates a new game repository
func NewGameRepository(db *database.DB) *GameRepository {
	return &GameRepository{q: db.Pool}
}

func newGameRepositoryWithTx(tx Queryable) service.GameRepository {
	return &GameRepository{q: tx}
}

// Create inserts the game and sets its ID
func (r *GameRepository) Create(ctx context.Context, game *models.Game) error {
	query := `
		INSERT INTO game (game_type, end_date)
		VALUES ($1, $2)
		RETURNING id
	`

	err := r.q.QueryRow(ctx, query, game.GameType, game.EndDate).Scan(&game.ID)
	if err != nil {
		return fmt.Errorf("failed to create game of type %q: %w", game.GameType, database.ClassifyError(err))
	}

	return nil
}

// GetByID retrieves a game by ID
func (r *GameRepository) GetByID(ctx context.Context, gameID int64) (*models.Game, error) {
	query := `SELECT id, game_type, end_date FROM game WHERE id = $1`

	var game models.Game
	err := r.q.QueryRow(ctx, query, gameID).Scan(&game.ID, &game.GameType, &game.EndDate)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game %d: %w", gameID, err)
	}

	return &game, nil
}

// Delete removes the game. Its game_outcome rows go with it by cascade.
func (r *GameRepository) Delete(ctx context.Context, gameID int64) (bool, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM game WHERE id = $1`, gameID)
	if err != nil {
		return false, fmt.Errorf("failed to delete game %d: %w", gameID, err)
	}

	return result.RowsAffected() > 0, nil
}

// DeleteIsolated removes games that have no outcomes left
func (r *GameRepository) DeleteIsolated(ctx context.Context) (int64, error) {
	query := `
		DELETE FROM game g
		WHERE NOT EXISTS (
			SELECT 1 FROM game_outcome o WHERE o.game_id = g.id
		)
	`

	result, err := r.q.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to delete isolated games: %w", err)
	}

	return result.RowsAffected(), nil
}
