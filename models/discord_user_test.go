package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscription_Validate(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		sub     Subscription
		wantErr bool
	}{
		{name: "valid window", sub: Subscription{Start: start, End: start.Add(24 * time.Hour)}},
		{name: "start equals end", sub: Subscription{Start: start, End: start}, wantErr: true},
		{name: "start after end", sub: Subscription{Start: start.Add(time.Hour), End: start}, wantErr: true},
		{name: "missing start", sub: Subscription{End: start}, wantErr: true},
		{name: "missing end", sub: Subscription{Start: start}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sub.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSubscription_Active(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	sub := Subscription{Start: start, End: start.AddDate(0, 1, 0)}

	assert.False(t, sub.Active(start.Add(-time.Second)))
	assert.True(t, sub.Active(start))
	assert.True(t, sub.Active(start.AddDate(0, 0, 15)))
	assert.False(t, sub.Active(sub.End))
}

func TestDiscordUser_IsSupporter(t *testing.T) {
	now := time.Now()

	user := &DiscordUser{ID: 175928847299117063}
	assert.False(t, user.IsSupporter(now))

	user.Subscription = &Subscription{Start: now.Add(-time.Hour), End: now.Add(time.Hour)}
	assert.True(t, user.IsSupporter(now))

	user.Subscription = &Subscription{Start: now.Add(-2 * time.Hour), End: now.Add(-time.Hour)}
	assert.False(t, user.IsSupporter(now))
}

func TestDiscordUser_AccountCreatedAt(t *testing.T) {
	user := &DiscordUser{ID: 175928847299117063}

	created, err := user.AccountCreatedAt()
	require.NoError(t, err)

	expected := time.Date(2016, 4, 30, 11, 18, 25, 796000000, time.UTC)
	assert.True(t, expected.Equal(created), "got %s", created.UTC())
}

func TestValidateDiscordID(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, ValidateDiscordID(175928847299117063, now))
	assert.Error(t, ValidateDiscordID(0, now))
	assert.Error(t, ValidateDiscordID(-5, now))

	// Snowflake for a timestamp well past now
	future := (now.Add(365*24*time.Hour).UnixMilli() - 1420070400000) << 22
	assert.Error(t, ValidateDiscordID(future, now))
}
