package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gamebot/config"
	"gamebot/database"
	"gamebot/service"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// NewCLI builds the gamebot command line. Running it without a command serves.
func NewCLI() *cli.App {
	return &cli.App{
		Name:  "gamebot",
		Usage: "game stats store for the Discord game bot",
		Before: func(c *cli.Context) error {
			// config.Get requires DATABASE_URL, which help and `migrate create` do not
			if level, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
				log.SetLevel(level)
			}
			return nil
		},
		Action: func(c *cli.Context) error {
			return Run(c.Context)
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the store maintenance loop until interrupted",
				Action: func(c *cli.Context) error {
					return Run(c.Context)
				},
			},
			newMigrateCommand(),
			newUserCommand(),
			newGameCommand(),
		},
	}
}

func newMigrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:      "up",
				Usage:     "apply pending migrations",
				ArgsUsage: "[N]",
				Action: func(c *cli.Context) error {
					steps, err := optionalCount(c, 0)
					if err != nil {
						return err
					}
					return withMigrator(func(m *database.Migrator) error {
						return m.Up(steps)
					})
				},
			},
			{
				Name:      "down",
				Usage:     "roll back applied migrations",
				ArgsUsage: "[N]",
				Action: func(c *cli.Context) error {
					steps, err := optionalCount(c, 1)
					if err != nil {
						return err
					}
					return withMigrator(func(m *database.Migrator) error {
						return m.Down(steps)
					})
				},
			},
			{
				Name:  "status",
				Usage: "print migration status",
				Action: func(c *cli.Context) error {
					return withMigrator(func(m *database.Migrator) error {
						status, err := m.Status()
						if err != nil {
							return err
						}
						printMigrationStatus(c.App.Writer, status)
						return nil
					})
				},
			},
			{
				Name:      "goto",
				Usage:     "migrate up or down to a version",
				ArgsUsage: "VERSION",
				Action: func(c *cli.Context) error {
					version, err := strconv.ParseUint(c.Args().First(), 10, 64)
					if err != nil {
						return fmt.Errorf("invalid version %q: %w", c.Args().First(), err)
					}
					return withMigrator(func(m *database.Migrator) error {
						return m.Goto(uint(version))
					})
				},
			},
			{
				Name:      "force",
				Usage:     "set the recorded version without running migrations",
				ArgsUsage: "VERSION",
				Action: func(c *cli.Context) error {
					version, err := strconv.Atoi(c.Args().First())
					if err != nil {
						return fmt.Errorf("invalid version %q: %w", c.Args().First(), err)
					}
					return withMigrator(func(m *database.Migrator) error {
						return m.Force(version)
					})
				},
			},
			{
				Name:      "create",
				Usage:     "create up and down SQL migrations",
				ArgsUsage: "NAME...",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "dir",
						Value:   "database/migrations",
						Usage:   "directory the migration files are written to",
						EnvVars: []string{"MIGRATIONS_DIR"},
					},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return errors.New("migration name is required")
					}
					name := strings.Join(c.Args().Slice(), "_")
					upPath, downPath, err := database.CreateMigration(c.String("dir"), name, time.Now())
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "Created %s\nCreated %s\n", upPath, downPath)
					return nil
				},
			},
		},
	}
}

func newUserCommand() *cli.Command {
	return &cli.Command{
		Name:  "user",
		Usage: "inspect and manage discord users",
		Subcommands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "print a user and their supporter status",
				ArgsUsage: "USER_ID",
				Action: withApp(func(c *cli.Context, app *App) error {
					userID, err := parseID(c.Args().First(), "user")
					if err != nil {
						return err
					}
					user, err := app.Users.GetUser(c.Context, userID)
					if err != nil {
						return err
					}
					created, _ := user.AccountCreatedAt()
					fmt.Fprintf(c.App.Writer, "User %d\n  Account created: %s\n  Added: %s\n",
						user.ID, created.Format(time.RFC3339), user.DateAdded.Format(time.RFC3339))
					if user.Subscription == nil {
						fmt.Fprintln(c.App.Writer, "  Supporter: no")
					} else {
						fmt.Fprintf(c.App.Writer, "  Supporter: %s to %s (active: %t)\n",
							user.Subscription.Start.Format(time.RFC3339),
							user.Subscription.End.Format(time.RFC3339),
							user.IsSupporter(time.Now()))
					}
					return nil
				}),
			},
			{
				Name:      "stats",
				Usage:     "print a user's record and most played games",
				ArgsUsage: "USER_ID",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 5, Usage: "rows per section"},
				},
				Action: withApp(func(c *cli.Context, app *App) error {
					userID, err := parseID(c.Args().First(), "user")
					if err != nil {
						return err
					}
					return printUserStats(c, app.Stats, userID, c.Int("limit"))
				}),
			},
			{
				Name:      "delete",
				Usage:     "delete a user and all of their outcomes",
				ArgsUsage: "USER_ID",
				Action: withApp(func(c *cli.Context, app *App) error {
					userID, err := parseID(c.Args().First(), "user")
					if err != nil {
						return err
					}
					deleted, err := app.Users.DeleteUser(c.Context, userID)
					if err != nil {
						return err
					}
					if !deleted {
						return fmt.Errorf("user %d: %w", userID, service.ErrUserNotFound)
					}
					fmt.Fprintf(c.App.Writer, "Deleted user %d\n", userID)
					return nil
				}),
			},
			{
				Name:      "subscribe",
				Usage:     "set a supporter subscription (RFC3339 dates, end exclusive)",
				ArgsUsage: "USER_ID START END",
				Action: withApp(func(c *cli.Context, app *App) error {
					if c.NArg() != 3 {
						return errors.New("usage: gamebot user subscribe USER_ID START END")
					}
					userID, err := parseID(c.Args().Get(0), "user")
					if err != nil {
						return err
					}
					start, err := parseTime(c.Args().Get(1))
					if err != nil {
						return err
					}
					end, err := parseTime(c.Args().Get(2))
					if err != nil {
						return err
					}
					return app.Users.SetSubscription(c.Context, userID, start, end)
				}),
			},
			{
				Name:      "unsubscribe",
				Usage:     "clear a supporter subscription",
				ArgsUsage: "USER_ID",
				Action: withApp(func(c *cli.Context, app *App) error {
					userID, err := parseID(c.Args().First(), "user")
					if err != nil {
						return err
					}
					return app.Users.ClearSubscription(c.Context, userID)
				}),
			},
		},
	}
}

func newGameCommand() *cli.Command {
	return &cli.Command{
		Name:  "game",
		Usage: "maintain recorded games",
		Subcommands: []*cli.Command{
			{
				Name:  "prune",
				Usage: "delete games that have no outcomes",
				Action: withApp(func(c *cli.Context, app *App) error {
					count, err := app.Games.PruneIsolatedGames(c.Context)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "Pruned %d isolated games\n", count)
					return nil
				}),
			},
			{
				Name:      "delete",
				Usage:     "delete a game and its outcomes",
				ArgsUsage: "GAME_ID",
				Action: withApp(func(c *cli.Context, app *App) error {
					gameID, err := parseID(c.Args().First(), "game")
					if err != nil {
						return err
					}
					deleted, err := app.Games.DeleteGame(c.Context, gameID)
					if err != nil {
						return err
					}
					if !deleted {
						return fmt.Errorf("game %d: %w", gameID, service.ErrGameNotFound)
					}
					fmt.Fprintf(c.App.Writer, "Deleted game %d\n", gameID)
					return nil
				}),
			},
		},
	}
}

func withMigrator(fn func(m *database.Migrator) error) error {
	m, err := database.NewMigrator(config.Get().GetDatabaseURL())
	if err != nil {
		return err
	}
	defer m.Close()
	return fn(m)
}

func withApp(fn func(c *cli.Context, app *App) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		app, err := Open(c.Context, config.Get())
		if err != nil {
			return err
		}
		defer app.Close()
		return fn(c, app)
	}
}

func printMigrationStatus(w io.Writer, status *database.MigrationStatus) {
	if status.Applied {
		fmt.Fprintf(w, "Current version: %d (dirty: %t)\n", status.Version, status.Dirty)
	} else {
		fmt.Fprintln(w, "Current version: none")
	}
	for _, f := range status.Done {
		fmt.Fprintf(w, "  [x] %d_%s\n", f.Version, f.Name)
	}
	for _, f := range status.Pending {
		fmt.Fprintf(w, "  [ ] %d_%s\n", f.Version, f.Name)
	}
}

func printUserStats(c *cli.Context, stats service.StatsService, userID int64, limit int) error {
	w := c.App.Writer

	record, err := stats.GetRecord(c.Context, userID)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Record: %d won, %d tied, %d lost (%.1f%% win rate)\n",
		record.Wins, record.Ties, record.Losses, record.WinRate())

	played, err := stats.MostPlayedGames(c.Context, userID, limit)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Most played games:")
	for _, p := range played {
		fmt.Fprintf(w, "  %s: %d\n", p.GameType, p.Count)
	}

	with, err := stats.MostPlayedWithUsers(c.Context, userID, limit)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Most played with:")
	for _, p := range with {
		fmt.Fprintf(w, "  %d: %d\n", p.UserID, p.Count)
	}

	recent, err := stats.RecentGames(c.Context, userID, limit)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Recent games:")
	for _, r := range recent {
		result, _ := r.Outcome.Result()
		fmt.Fprintf(w, "  %s %s: %s\n", r.Game.EndDate.Format(time.RFC3339), r.Game.GameType, result)
	}

	return nil
}

// optionalCount parses the first argument as a positive count, or returns def when absent
func optionalCount(c *cli.Context, def int) (int, error) {
	if c.NArg() == 0 {
		return def, nil
	}
	n, err := strconv.Atoi(c.Args().First())
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid count %q: must be a positive integer", c.Args().First())
	}
	return n, nil
}

func parseID(arg, what string) (int64, error) {
	if arg == "" {
		return 0, fmt.Errorf("%s id is required", what)
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, arg)
	}
	return id, nil
}

func parseTime(arg string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, arg)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: expected RFC3339: %w", arg, err)
	}
	return t, nil
}
