// Command ingest is the fixture ingestion CLI.
//
// Usage:
//
//	ingest sync [--dry-run] [--league 128]
//	ingest refresh [--date 2025-01-25]
//	ingest list [--limit 3]
//	ingest clear
//	ingest seed
//	ingest rate --fixture 1158661
//	ingest migrate up|down [steps]|version
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"partidos/ingestion/internal/cache"
	"partidos/ingestion/internal/client"
	"partidos/ingestion/internal/competition"
	"partidos/ingestion/internal/config"
	"partidos/ingestion/internal/ingest"
	"partidos/ingestion/internal/logging"
	"partidos/ingestion/internal/models"
	"partidos/ingestion/internal/rating"
	"partidos/ingestion/internal/repository"
	"partidos/ingestion/internal/seed"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "ingest",
		Short:        "Football fixture ingestion CLI",
		SilenceUsage: true,
	}

	root.AddCommand(syncCmd())
	root.AddCommand(refreshCmd())
	root.AddCommand(listCmd())
	root.AddCommand(clearCmd())
	root.AddCommand(seedCmd())
	root.AddCommand(rateCmd())
	root.AddCommand(migrateCmd())

	return root
}

// --------------------------------------------------------------------------
// sync / refresh
// --------------------------------------------------------------------------

func syncCmd() *cobra.Command {
	var dryRun bool
	var league int
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch fixtures of every competition and upsert them into matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequireProvider(); err != nil {
				return err
			}
			competitions := competition.Table
			if league != 0 {
				comp, err := competition.Lookup(league)
				if err != nil {
					return err
				}
				competitions = []competition.Competition{comp}
			}
			apiClient := newAPIClient(cfg)

			if dryRun {
				store := repository.NewMatchStore()
				driver := ingest.NewDriver(apiClient, store)
				driver.Competitions = competitions
				report := driver.Run(ctx)
				fmt.Fprintln(cmd.OutOrStdout(), report.Summary())
				matches, err := store.List(ctx, -1)
				if err != nil {
					return err
				}
				printMatches(cmd.OutOrStdout(), matches)
				return nil
			}

			return withDatabase(ctx, cfg, func(db *repository.Database) error {
				driver := ingest.NewDriver(apiClient, db.Matches)
				driver.Competitions = competitions
				report := driver.Run(ctx)
				fmt.Fprintln(cmd.OutOrStdout(), report.Summary())
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Keep results in memory instead of writing to the database")
	cmd.Flags().IntVar(&league, "league", 0, "Only sync this competition (128, 129, 140 or 39)")
	return cmd
}

func refreshCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Re-upsert finished fixtures of a day that are already stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			day := time.Now().UTC()
			if date != "" {
				parsed, err := time.Parse(competition.DateLayout, date)
				if err != nil {
					return fmt.Errorf("invalid --date %q: %w", date, err)
				}
				day = parsed
			}

			ctx, cancel := signalContext()
			defer cancel()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequireProvider(); err != nil {
				return err
			}

			return withDatabase(ctx, cfg, func(db *repository.Database) error {
				report := ingest.NewDriver(newAPIClient(cfg), db.Matches).RefreshScores(ctx, day)
				fmt.Fprintln(cmd.OutOrStdout(), report.Summary())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Day to refresh (YYYY-MM-DD, default today UTC)")
	return cmd
}

// --------------------------------------------------------------------------
// table commands
// --------------------------------------------------------------------------

func listCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show stored matches with their scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDB(func(ctx context.Context, cfg *config.Config, db *repository.Database) error {
				matches, err := db.Matches.List(ctx, limit)
				if err != nil {
					return err
				}
				printMatches(cmd.OutOrStdout(), matches)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 3, "Number of matches to show")
	return cmd
}

func clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every row of the matches table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDB(func(ctx context.Context, cfg *config.Config, db *repository.Database) error {
				deleted, err := db.Matches.DeleteAll(ctx)
				if err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "Error: %v\n", err)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d matches\n", deleted)
				return nil
			})
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert sample matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDB(func(ctx context.Context, cfg *config.Config, db *repository.Database) error {
				saved, failed := seed.Run(ctx, db.Matches, time.Now())
				fmt.Fprintf(cmd.OutOrStdout(), "Inserted %d/%d sample matches\n", saved, saved+failed)
				return nil
			})
		},
	}
}

func rateCmd() *cobra.Command {
	var fixtureID int64
	var perTeam int
	cmd := &cobra.Command{
		Use:   "rate",
		Short: "Rate the starters of a fixture interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDB(func(ctx context.Context, cfg *config.Config, db *repository.Database) error {
				if err := cfg.RequireProvider(); err != nil {
					return err
				}

				apiClient := newAPIClient(cfg)
				if redisCache, err := cache.NewRedisCache(cache.Config{
					Host:     cfg.RedisHost,
					Port:     strconv.Itoa(cfg.RedisPort),
					Password: cfg.RedisPassword,
					DB:       cfg.RedisDB,
				}); err != nil {
					log.Debug().Err(err).Msg("Redis unavailable, lineups are not cached")
				} else {
					defer redisCache.Close()
					apiClient.WithCache(redisCache, cfg.CacheTTLLineups)
				}

				collector := &rating.Collector{
					Lineups: apiClient,
					Ratings: db.Ratings,
					In:      cmd.InOrStdin(),
					Out:     cmd.OutOrStdout(),
					PerTeam: perTeam,
				}
				res, err := collector.Collect(ctx, fixtureID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\nDone: %d saved, %d skipped, %d failed\n", res.Saved, res.Skipped, res.Failed)
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&fixtureID, "fixture", 1158661, "API-Football fixture id")
	cmd.Flags().IntVar(&perTeam, "per-team", rating.DefaultPerTeam, "Starters to rate per team")
	return cmd
}

// --------------------------------------------------------------------------
// migrate
// --------------------------------------------------------------------------

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the schema migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrator(func(mg *repository.Migrator) error {
				return mg.Up()
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations (default 1)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := parseSteps(args)
			if err != nil {
				return err
			}
			return runMigrator(func(mg *repository.Migrator) error {
				return mg.Down(steps)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied migration version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrator(func(mg *repository.Migrator) error {
				version, dirty, ok, err := mg.Version()
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "version: none")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version: %d\ndirty: %t\n", version, dirty)
				return nil
			})
		},
	})

	return cmd
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	steps, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid down steps %q: %w", args[0], err)
	}
	if steps <= 0 {
		return 0, fmt.Errorf("down steps must be > 0")
	}
	return steps, nil
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logging.Setup(cfg.AppEnv, cfg.LogLevel)
	return cfg, nil
}

func newAPIClient(cfg *config.Config) *client.Client {
	return client.NewClient(cfg.APIFootballBaseURL, cfg.APIFootballHost, cfg.APIFootballKey, cfg.APIFootballTimeout)
}

func databaseConfig(cfg *config.Config) repository.Config {
	return repository.Config{
		URL:      cfg.DatabaseURL,
		Host:     cfg.DatabaseHost,
		Port:     strconv.Itoa(cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	}
}

func withDatabase(ctx context.Context, cfg *config.Config, fn func(db *repository.Database) error) error {
	db, err := repository.NewDatabase(ctx, databaseConfig(cfg))
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()
	return fn(db)
}

// runDB handles config loading, DB connection, and context cancellation.
func runDB(fn func(ctx context.Context, cfg *config.Config, db *repository.Database) error) error {
	ctx, cancel := signalContext()
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	return withDatabase(ctx, cfg, func(db *repository.Database) error {
		return fn(ctx, cfg, db)
	})
}

func runMigrator(fn func(mg *repository.Migrator) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	mg, err := repository.NewMigrator(cfg.DatabaseDSN())
	if err != nil {
		return err
	}
	defer mg.Close()

	return fn(mg)
}

// printMatches writes one score line and one detail line per match
func printMatches(w io.Writer, matches []*models.Match) {
	if len(matches) == 0 {
		fmt.Fprintln(w, "No matches stored")
		return
	}
	for _, m := range matches {
		fmt.Fprintf(w, "%s %d - %d %s\n", m.HomeTeam, m.HomeGoals, m.AwayGoals, m.AwayTeam)
		fixture := "-"
		if m.HasFixtureID() {
			fixture = strconv.FormatInt(m.FixtureID.Int64, 10)
		}
		fmt.Fprintf(w, "  ID: %s, Fixture: %s, Kickoff: %s\n\n", m.ID, fixture, m.KickoffTime.Format(time.RFC3339))
	}
}
