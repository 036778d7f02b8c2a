package database

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	now := time.Date(2024, 3, 9, 17, 4, 5, 123456789, time.FixedZone("CST", -6*60*60))

	t.Run("writes up and down pair", func(t *testing.T) {
		dir := t.TempDir()

		upPath, downPath, err := CreateMigration(dir, "Add Game Tags", now)
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(dir, "20240309230405_add_game_tags.up.sql"), upPath)
		assert.Equal(t, filepath.Join(dir, "20240309230405_add_game_tags.down.sql"), downPath)
		assert.FileExists(t, upPath)
		assert.FileExists(t, downPath)

		parsed, err := source.Parse(filepath.Base(upPath))
		require.NoError(t, err)
		assert.Equal(t, uint(20240309230405), parsed.Version)
		assert.Equal(t, "add_game_tags", parsed.Identifier)
		assert.Equal(t, source.Up, parsed.Direction)
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		dir := t.TempDir()

		_, _, err := CreateMigration(dir, "first", now)
		require.NoError(t, err)

		_, _, err = CreateMigration(dir, "first", now)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("empty slug", func(t *testing.T) {
		_, _, err := CreateMigration(t.TempDir(), " -- ", now)
		assert.Error(t, err)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, _, err := CreateMigration(filepath.Join(t.TempDir(), "nope"), "x", now)
		assert.Error(t, err)
	})

	t.Run("path is a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(path, nil, 0o644))

		_, _, err := CreateMigration(path, "x", now)
		assert.Error(t, err)
	})
}

func TestMigrationSlug(t *testing.T) {
	assert.Equal(t, "add_date_added", migrationSlug("add date-added"))
	assert.Equal(t, "drop_v2_index", migrationSlug("  Drop__V2 index!! "))
	assert.Equal(t, "", migrationSlug("???"))
	assert.Equal(t, "caf", migrationSlug("café"))
}
