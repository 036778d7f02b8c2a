package database

import (
	"errors"
	"fmt"
	"os"
	"testing"
	"testing/fstest"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListMigrations_Embedded(t *testing.T) {
	files, err := ListMigrations()
	require.NoError(t, err)

	names := make([]string, 0, len(files))
	for i, f := range files {
		assert.True(t, f.HasDown, "migration %s should have a down file", f.Name)
		if i > 0 {
			assert.Greater(t, f.Version, files[i-1].Version)
		}
		names = append(names, f.Name)
	}

	assert.Equal(t, []string{
		"create_discord_user",
		"create_game",
		"create_game_outcome",
		"add_date_added_to_discord_user",
	}, names)
}

func TestListMigrations(t *testing.T) {
	t.Run("orders by version and ignores other files", func(t *testing.T) {
		fsys := fstest.MapFS{
			"m/20230102000000_second.up.sql":   {},
			"m/20230102000000_second.down.sql": {},
			"m/20230101000000_first.up.sql":    {},
			"m/20230101000000_first.down.sql":  {},
			"m/README.md":                      {},
		}

		files, err := listMigrations(fsys, "m")
		require.NoError(t, err)
		assert.Equal(t, []MigrationFile{
			{Version: 20230101000000, Name: "first", HasDown: true},
			{Version: 20230102000000, Name: "second", HasDown: true},
		}, files)
	})

	t.Run("missing down file", func(t *testing.T) {
		fsys := fstest.MapFS{
			"m/20230101000000_first.up.sql": {},
		}

		_, err := listMigrations(fsys, "m")
		assert.ErrorContains(t, err, "no down file")
	})

	t.Run("missing up file", func(t *testing.T) {
		fsys := fstest.MapFS{
			"m/20230101000000_first.down.sql": {},
		}

		_, err := listMigrations(fsys, "m")
		assert.ErrorContains(t, err, "no up file")
	})

	t.Run("duplicate version", func(t *testing.T) {
		fsys := fstest.MapFS{
			"m/20230101000000_first.up.sql":  {},
			"m/20230101000000_other.up.sql":  {},
			"m/20230101000000_first.down.sql": {},
		}

		_, err := listMigrations(fsys, "m")
		assert.ErrorContains(t, err, "duplicate migration version")
	})

	t.Run("unparseable name", func(t *testing.T) {
		fsys := fstest.MapFS{
			"m/first.sql": {},
		}

		_, err := listMigrations(fsys, "m")
		assert.ErrorContains(t, err, "invalid migration file name")
	})
}

func TestSettle(t *testing.T) {
	applied, err := settle(nil)
	assert.NoError(t, err)
	assert.True(t, applied)

	applied, err = settle(migrate.ErrNoChange)
	assert.NoError(t, err)
	assert.False(t, applied)

	applied, err = settle(os.ErrNotExist)
	assert.NoError(t, err)
	assert.False(t, applied)

	applied, err = settle(migrate.ErrShortLimit{Short: 2})
	assert.NoError(t, err)
	assert.True(t, applied)

	boom := errors.New("boom")
	_, err = settle(fmt.Errorf("wrapped: %w", boom))
	assert.ErrorIs(t, err, boom)
}
