package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

// MigrationVersionLayout is the timestamp layout used as the version prefix.
// golang-migrate parses versions as uint64, which rules out sub-second precision.
const MigrationVersionLayout = "20060102150405"

// CreateMigration writes an empty up/down migration pair into dir and returns
// the paths written. The version is now in UTC.
func CreateMigration(dir, name string, now time.Time) (string, string, error) {
	slug := migrationSlug(name)
	if slug == "" {
		return "", "", fmt.Errorf("migration name %q has no usable characters", name)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return "", "", fmt.Errorf("migrations directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return "", "", fmt.Errorf("migrations path %s is not a directory", dir)
	}

	base := fmt.Sprintf("%s_%s", now.UTC().Format(MigrationVersionLayout), slug)
	upPath := filepath.Join(dir, base+".up.sql")
	downPath := filepath.Join(dir, base+".down.sql")

	if err := writeNewFile(upPath, "-- Write your migration script here\n"); err != nil {
		return "", "", err
	}
	if err := writeNewFile(downPath, "-- Revert the matching up migration here\n"); err != nil {
		os.Remove(upPath)
		return "", "", err
	}

	return upPath, downPath, nil
}

func writeNewFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("migration file %s already exists", path)
		}
		return fmt.Errorf("failed to create migration file %s: %w", path, err)
	}

	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("failed to write migration file %s: %w", path, err)
	}
	return f.Close()
}

// migrationSlug lowercases name and collapses every run of other characters into one underscore
func migrationSlug(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
			pendingSep = false
			continue
		}
		pendingSep = true
	}
	return b.String()
}
