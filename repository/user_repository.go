package repository

import (
	"context"
	"fmt"
	"time"

	"gamebot/database"
	"gamebot/models"
	"gamebot/service"

	"github.com/jackc/pgx/v5"
)

// UserRepository implements service.UserRepository over discord_user
type UserRepository struct {
	q Queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a user repository bound to a transaction
func newUserRepositoryWithTx(tx Queryable) service.UserRepository {
	return &UserRepository{q: tx}
}

const userColumns = `id, subscription_start_date, subscription_end_date, date_added`

// Create inserts a new user with no subscription
func (r *UserRepository) Create(ctx context.Context, userID int64) (*models.DiscordUser, error) {
	query := `
		INSERT INTO discord_user (id)
		VALUES ($1)
		RETURNING ` + userColumns

	user, err := scanUser(r.q.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to create user %d: %w", userID, database.ClassifyError(err))
	}

	return user, nil
}

// EnsureExists inserts the user if missing and reports whether a row was created
func (r *UserRepository) EnsureExists(ctx context.Context, userID int64) (bool, error) {
	query := `
		INSERT INTO discord_user (id)
		VALUES ($1)
		ON CONFLICT (id) DO NOTHING
	`

	result, err := r.q.Exec(ctx, query, userID)
	if err != nil {
		return false, fmt.Errorf("failed to ensure user %d exists: %w", userID, database.ClassifyError(err))
	}

	return result.RowsAffected() == 1, nil
}

// GetByID retrieves a user by Discord ID
func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*models.DiscordUser, error) {
	query := `SELECT ` + userColumns + ` FROM discord_user WHERE id = $1`

	user, err := scanUser(r.q.QueryRow(ctx, query, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}

	return user, nil
}

// SetSubscription replaces the user's subscription window
func (r *UserRepository) SetSubscription(ctx context.Context, userID int64, sub models.Subscription) error {
	query := `
		UPDATE discord_user
		SET subscription_start_date = $1, subscription_end_date = $2
		WHERE id = $3
	`

	result, err := r.q.Exec(ctx, query, sub.Start, sub.End, userID)
	if err != nil {
		return fmt.Errorf("failed to set subscription for user %d: %w", userID, database.ClassifyError(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", userID, service.ErrUserNotFound)
	}

	return nil
}

// ClearSubscription sets both subscription dates to null
func (r *UserRepository) ClearSubscription(ctx context.Context, userID int64) error {
	query := `
		UPDATE discord_user
		SET subscription_start_date = NULL, subscription_end_date = NULL
		WHERE id = $1
	`

	result, err := r.q.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to clear subscription for user %d: %w", userID, database.ClassifyError(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", userID, service.ErrUserNotFound)
	}

	return nil
}

// GetActiveSubscribers returns users whose subscription window covers at
func (r *UserRepository) GetActiveSubscribers(ctx context.Context, at time.Time) ([]*models.DiscordUser, error) {
	query := `
		SELECT ` + userColumns + `
		FROM discord_user
		WHERE subscription_start_date <= $1 AND subscription_end_date > $1
		ORDER BY subscription_end_date ASC, id ASC
	`

	rows, err := r.q.Query(ctx, query, at)
	if err != nil {
		return nil, fmt.Errorf("failed to get active subscribers: %w", err)
	}
	defer rows.Close()

	var users []*models.DiscordUser
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// Delete removes the user. Their game_outcome rows go with them by cascade.
func (r *UserRepository) Delete(ctx context.Context, userID int64) (bool, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM discord_user WHERE id = $1`, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete user %d: %w", userID, err)
	}

	return result.RowsAffected() > 0, nil
}

func scanUser(row pgx.Row) (*models.DiscordUser, error) {
	var user models.DiscordUser
	var start, end *time.Time

	if err := row.Scan(&user.ID, &start, &end, &user.DateAdded); err != nil {
		return nil, err
	}

	if start != nil && end != nil {
		user.Subscription = &models.Subscription{Start: *start, End: *end}
	}

	return &user, nil
}
