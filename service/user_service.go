package service

import (
	"context"
	"fmt"
	"time"

	"gamebot/events"
	"gamebot/models"

	log "github.com/sirupsen/logrus"
)

type userService struct {
	uowFactory UnitOfWorkFactory
	now        func() time.Time
}

// NewUserService creates a new user service
func NewUserService(uowFactory UnitOfWorkFactory) UserService {
	return &userService{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

// EnsureUser returns the user, creating the row first if it does not exist
func (s *userService) EnsureUser(ctx context.Context, userID int64) (*models.DiscordUser, error) {
	if err := models.ValidateDiscordID(userID, s.now()); err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if _, err := uow.UserRepository().EnsureExists(ctx, userID); err != nil {
		return nil, err
	}

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %d: %w", userID, ErrUserNotFound)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return user, nil
}

// GetUser returns the user or ErrUserNotFound
func (s *userService) GetUser(ctx context.Context, userID int64) (*models.DiscordUser, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %d: %w", userID, ErrUserNotFound)
	}

	return user, nil
}

// SupporterStatus returns the user's subscription window, or nil if they have none
func (s *userService) SupporterStatus(ctx context.Context, userID int64) (*models.Subscription, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Subscription, nil
}

// SetSubscription stores a supporter window, creating the user if needed
func (s *userService) SetSubscription(ctx context.Context, userID int64, start, end time.Time) error {
	sub := models.Subscription{Start: start, End: end}
	if err := sub.Validate(); err != nil {
		return err
	}
	if err := models.ValidateDiscordID(userID, s.now()); err != nil {
		return err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if _, err := uow.UserRepository().EnsureExists(ctx, userID); err != nil {
		return err
	}
	if err := uow.UserRepository().SetSubscription(ctx, userID, sub); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"userID": userID,
		"start":  start,
		"end":    end,
	}).Info("Set supporter subscription")

	return nil
}

// ClearSubscription removes the user's supporter window
func (s *userService) ClearSubscription(ctx context.Context, userID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.UserRepository().ClearSubscription(ctx, userID); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithField("userID", userID).Info("Cleared supporter subscription")
	return nil
}

// GetActiveSupporters returns users whose subscription covers at
func (s *userService) GetActiveSupporters(ctx context.Context, at time.Time) ([]*models.DiscordUser, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.UserRepository().GetActiveSubscribers(ctx, at)
}

// DeleteUser removes the user and all of their outcomes.
// It reports false when the user did not exist.
func (s *userService) DeleteUser(ctx context.Context, userID int64) (bool, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	deleted, err := uow.UserRepository().Delete(ctx, userID)
	if err != nil {
		return false, err
	}
	if deleted {
		uow.EventBus().Publish(events.UserDeletedEvent{UserID: userID})
	}

	if err := uow.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return deleted, nil
}
