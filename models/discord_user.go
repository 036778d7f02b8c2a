package models

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
)

// DiscordUser is a row of discord_user keyed by the user's Discord snowflake
type DiscordUser struct {
	ID           int64         `db:"id"`
	Subscription *Subscription `db:"-"` // nil when both subscription columns are null
	DateAdded    time.Time     `db:"date_added"`
}

// Subscription is a supporter window. Start is inclusive, End exclusive.
type Subscription struct {
	Start time.Time `db:"subscription_start_date"`
	End   time.Time `db:"subscription_end_date"`
}

// Validate checks the window the same way the discord_user CHECK constraints do
func (s Subscription) Validate() error {
	if s.Start.IsZero() || s.End.IsZero() {
		return errors.New("subscription start and end dates must both be set")
	}
	if !s.Start.Before(s.End) {
		return fmt.Errorf("subscription start %s must be before end %s", s.Start.Format(time.RFC3339), s.End.Format(time.RFC3339))
	}
	return nil
}

// Active reports whether at falls inside the window
func (s Subscription) Active(at time.Time) bool {
	return !at.Before(s.Start) && at.Before(s.End)
}

// IsSupporter reports whether the user has a subscription active at the given time
func (u *DiscordUser) IsSupporter(at time.Time) bool {
	return u.Subscription != nil && u.Subscription.Active(at)
}

// AccountCreatedAt derives the Discord account creation time from the snowflake ID
func (u *DiscordUser) AccountCreatedAt() (time.Time, error) {
	return SnowflakeTime(u.ID)
}

// SnowflakeTime returns the creation time encoded in a Discord snowflake
func SnowflakeTime(id int64) (time.Time, error) {
	if id <= 0 {
		return time.Time{}, fmt.Errorf("invalid discord id %d", id)
	}
	return discordgo.SnowflakeTimestamp(strconv.FormatInt(id, 10))
}

// ValidateDiscordID rejects ids that are not positive or that encode a time in the future
func ValidateDiscordID(id int64, now time.Time) error {
	created, err := SnowflakeTime(id)
	if err != nil {
		return err
	}
	if created.After(now) {
		return fmt.Errorf("invalid discord id %d: encodes future time %s", id, created.Format(time.RFC3339))
	}
	return nil
}
