package cmd

import (
	"context"
	"fmt"
	"time"

	"gamebot/config"
	"gamebot/database"
	"gamebot/events"
	"gamebot/repository"
	"gamebot/service"

	log "github.com/sirupsen/logrus"
)

// App bundles the connection pool and the services built on it
type App struct {
	DB       *database.DB
	EventBus *events.Bus
	Users    service.UserService
	Games    service.GameService
	Stats    service.StatsService
}

// Open connects to the database and wires the services
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established successfully")

	eventBus := events.NewBus()
	subscribeEventLogging(eventBus)

	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	return &App{
		DB:       db,
		EventBus: eventBus,
		Users:    service.NewUserService(uowFactory),
		Games:    service.NewGameService(uowFactory),
		Stats:    service.NewStatsService(uowFactory),
	}, nil
}

// Close releases the connection pool
func (a *App) Close() {
	a.DB.Close()
}

// Run initializes the store and keeps the maintenance worker running until ctx is cancelled
func Run(ctx context.Context) error {
	log.Info("Starting gamebot store...")

	cfg := config.Get()

	if cfg.AutoMigrate {
		log.Info("Applying pending migrations...")
		if err := database.RunMigrationsWithURL(cfg.GetDatabaseURL()); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	app, err := Open(ctx, cfg)
	if err != nil {
		return err
	}

	stopPruneWorker := StartPruneWorker(ctx, app.Games, cfg.PruneInterval)

	log.Infof("Store is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	log.Info("Shutting down...")
	stopPruneWorker()

	// Give in-flight event handlers time to finish
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info("Closing database connection...")
	app.Close()

	select {
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Info("Shutdown completed")
	}

	return nil
}
