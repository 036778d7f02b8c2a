package database

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	log "github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// MigrationFile describes one embedded migration version
type MigrationFile struct {
	Version uint
	Name    string
	HasDown bool
}

// MigrationStatus is a snapshot of the schema version relative to the embedded migrations
type MigrationStatus struct {
	Version uint // zero when nothing has been applied
	Applied bool
	Dirty   bool
	Done    []MigrationFile
	Pending []MigrationFile
}

// Migrator applies the embedded migrations to a database
type Migrator struct {
	m *migrate.Migrate
}

// NewMigrator creates a migrator for the given database URL
func NewMigrator(databaseURL string) (*Migrator, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	db := stdlib.OpenDB(*config.ConnConfig)

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	sourceDriver, err := iofs.New(migrationsFS, migrationsDir)
	if err != nil {
		driver.Close()
		return nil, fmt.Errorf("failed to create source driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", driver)
	if err != nil {
		driver.Close()
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	m.Log = migrateLogger{entry: log.WithField("component", "migrate")}

	return &Migrator{m: m}, nil
}

// Up applies pending migrations. steps <= 0 applies all of them, otherwise at
// most steps migrations are applied.
func (mg *Migrator) Up(steps int) error {
	var err error
	if steps <= 0 {
		err = mg.m.Up()
	} else {
		err = mg.m.Steps(steps)
	}

	if applied, err := settle(err); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	} else if !applied {
		log.Info("No new migrations to apply")
		return nil
	}

	version, _, _ := mg.m.Version()
	log.WithField("version", version).Info("Successfully migrated")
	return nil
}

// Down rolls back the given number of applied migrations
func (mg *Migrator) Down(steps int) error {
	if steps < 1 {
		return fmt.Errorf("invalid steps value %d: must be at least 1", steps)
	}

	applied, err := settle(mg.m.Steps(-steps))
	if err != nil {
		return fmt.Errorf("failed to rollback migrations: %w", err)
	}
	if !applied {
		log.Info("No migrations to rollback")
		return nil
	}

	version, _, verr := mg.m.Version()
	if errors.Is(verr, migrate.ErrNilVersion) {
		log.Info("Rolled back all migrations")
		return nil
	}
	log.WithField("version", version).Info("Successfully rolled back")
	return nil
}

// Goto migrates up or down to the given version
func (mg *Migrator) Goto(version uint) error {
	err := mg.m.Migrate(version)
	if errors.Is(err, migrate.ErrNoChange) {
		log.WithField("version", version).Info("Already at requested version")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to migrate to version %d: %w", version, err)
	}
	log.WithField("version", version).Info("Successfully migrated")
	return nil
}

// Force sets the recorded version without running any migration and clears the dirty flag
func (mg *Migrator) Force(version int) error {
	if err := mg.m.Force(version); err != nil {
		return fmt.Errorf("failed to force version %d: %w", version, err)
	}
	log.WithField("version", version).Warn("Forced migration version")
	return nil
}

// Status reports the current version and which embedded migrations are applied
func (mg *Migrator) Status() (*MigrationStatus, error) {
	files, err := ListMigrations()
	if err != nil {
		return nil, err
	}

	status := &MigrationStatus{}
	version, dirty, err := mg.m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
	case err != nil:
		return nil, fmt.Errorf("failed to get migration version: %w", err)
	default:
		status.Version = version
		status.Applied = true
		status.Dirty = dirty
	}

	for _, f := range files {
		if status.Applied && f.Version <= status.Version {
			status.Done = append(status.Done, f)
		} else {
			status.Pending = append(status.Pending, f)
		}
	}

	return status, nil
}

// Close releases the source and database handles
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	if srcErr != nil {
		return fmt.Errorf("failed to close migration source: %w", srcErr)
	}
	if dbErr != nil {
		return fmt.Errorf("failed to close migration database: %w", dbErr)
	}
	return nil
}

// RunMigrationsWithURL runs all pending migrations against databaseURL.
// Test harnesses use it with dynamically created databases.
func RunMigrationsWithURL(databaseURL string) error {
	m, err := NewMigrator(databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	return m.Up(0)
}

// ListMigrations returns the embedded migrations in apply order
func ListMigrations() ([]MigrationFile, error) {
	return listMigrations(migrationsFS, migrationsDir)
}

func listMigrations(fsys fs.FS, dir string) ([]MigrationFile, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	byVersion := make(map[uint]*MigrationFile)
	ups := make(map[uint]bool)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		parsed, err := source.Parse(entry.Name())
		if err != nil {
			return nil, fmt.Errorf("invalid migration file name %q: %w", entry.Name(), err)
		}

		f, ok := byVersion[parsed.Version]
		if !ok {
			f = &MigrationFile{Version: parsed.Version, Name: parsed.Identifier}
			byVersion[parsed.Version] = f
		} else if f.Name != parsed.Identifier {
			return nil, fmt.Errorf("duplicate migration version %d: %q and %q", parsed.Version, f.Name, parsed.Identifier)
		}

		switch parsed.Direction {
		case source.Up:
			if ups[parsed.Version] {
				return nil, fmt.Errorf("duplicate up migration for version %d", parsed.Version)
			}
			ups[parsed.Version] = true
		case source.Down:
			f.HasDown = true
		}
	}

	files := make([]MigrationFile, 0, len(byVersion))
	for version, f := range byVersion {
		if !ups[version] {
			return nil, fmt.Errorf("migration %d_%s has no up file", version, f.Name)
		}
		if !f.HasDown {
			return nil, fmt.Errorf("migration %d_%s has no down file", version, f.Name)
		}
		files = append(files, *f)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Version < files[j].Version
	})

	return files, nil
}

// settle folds the "nothing to do" results of golang-migrate into a bool.
// Asking for more steps than exist applies what is there.
func settle(err error) (bool, error) {
	var short migrate.ErrShortLimit
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, migrate.ErrNoChange), errors.Is(err, os.ErrNotExist):
		return false, nil
	case errors.As(err, &short):
		return true, nil
	default:
		return false, err
	}
}

type migrateLogger struct {
	entry *log.Entry
}

func (l migrateLogger) Printf(format string, v ...interface{}) {
	l.entry.Infof(strings.TrimRight(format, "\n"), v...)
}

func (l migrateLogger) Verbose() bool {
	return l.entry.Logger.IsLevelEnabled(log.DebugLevel)
}
