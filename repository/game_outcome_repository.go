package repository

import (
	"context"
	"fmt"

	"gamebot/database"
	"gamebot/models"
	"gamebot/service"
)

// GameOutcomeRepository implements service.GameOutcomeRepository
type GameOutcomeRepository struct {
	q Queryable
}

// NewGameOutcomeRepository creates a new game outcome repository
func NewGameOutcomeRepository(db *database.DB) *GameOutcomeRepository {
	return &GameOutcomeRepository{q: db.Pool}
}

func newGameOutcomeRepositoryWithTx(tx Queryable) service.GameOutcomeRepository {
	return &GameOutcomeRepository{q: tx}
}

// Create inserts one outcome row. A second row for the same user and game
// fails with database.ErrUniqueViolation.
func (r *GameOutcomeRepository) Create(ctx context.Context, outcome *models.GameOutcome) error {
	query := `
		INSERT INTO game_outcome (user_id, game_id, won, tied)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.q.Exec(ctx, query, outcome.UserID, outcome.GameID, outcome.Won, outcome.Tied)
	if err != nil {
		return fmt.Errorf("failed to create outcome for user %d in game %d: %w",
			outcome.UserID, outcome.GameID, database.ClassifyError(err))
	}

	return nil
}

// GetByGame returns all outcomes of a game ordered by user
func (r *GameOutcomeRepository) GetByGame(ctx context.Context, gameID int64) ([]*models.GameOutcome, error) {
	query := `
		SELECT user_id, game_id, won, tied
		FROM game_outcome
		WHERE game_id = $1
		ORDER BY user_id
	`

	rows, err := r.q.Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get outcomes for game %d: %w", gameID, err)
	}
	defer rows.Close()

	var outcomes []*models.GameOutcome
	for rows.Next() {
		var outcome models.GameOutcome
		if err := rows.Scan(&outcome.UserID, &outcome.GameID, &outcome.Won, &outcome.Tied); err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		outcomes = append(outcomes, &outcome)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate outcomes: %w", err)
	}

	return outcomes, nil
}
