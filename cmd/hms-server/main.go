package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hms/hms/internal/config"
	"github.com/hms/hms/internal/domain/catalog"
	"github.com/hms/hms/internal/platform/db"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "hms-server",
		Short: "Hospital management API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedServicesCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			target, _ := cmd.Flags().GetInt("to")
			return withDatabase(func(ctx context.Context, cfg *config.Config, logger zerolog.Logger, pool *pgxpool.Pool) error {
				m := db.NewMigrator(pool, cfg.MigrationsDir)
				var (
					applied int
					err     error
				)
				if target > 0 {
					applied, err = m.UpTo(ctx, target)
				} else {
					applied, err = m.Up(ctx)
				}
				if err != nil {
					return err
				}
				logger.Info().Int("applied", applied).Str("dir", cfg.MigrationsDir).Msg("migrations complete")
				return nil
			})
		},
	}
	upCmd.Flags().Int("to", 0, "apply migrations up to this version only")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(ctx context.Context, cfg *config.Config, _ zerolog.Logger, pool *pgxpool.Pool) error {
				statuses, err := db.NewMigrator(pool, cfg.MigrationsDir).Status(ctx)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatStatus(statuses))
				return nil
			})
		},
	}

	cmd.AddCommand(upCmd, statusCmd)
	return cmd
}

func seedServicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-services",
		Short: "Load the default service catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(ctx context.Context, _ *config.Config, logger zerolog.Logger, pool *pgxpool.Pool) error {
				svc := catalog.NewService(catalog.NewRepoPG(pool))
				n, err := svc.Seed(ctx, catalog.Defaults)
				if err != nil {
					return err
				}
				logger.Info().Int("inserted", n).Int("defaults", len(catalog.Defaults)).Msg("service catalog seeded")
				return nil
			})
		},
	}
}

// withDatabase loads the configuration and opens a pool for the one-shot
// commands.
func withDatabase(fn func(ctx context.Context, cfg *config.Config, logger zerolog.Logger, pool *pgxpool.Pool) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	return fn(ctx, cfg, logger, pool)
}

func formatStatus(statuses []db.MigrationStatus) string {
	var b strings.Builder
	for _, s := range statuses {
		state := "pending"
		if s.Applied && s.AppliedAt != nil {
			state = "applied " + s.AppliedAt.Format(time.RFC3339)
		} else if s.Applied {
			state = "applied"
		}
		fmt.Fprintf(&b, "%03d  %-40s %s\n", s.Version, s.Name, state)
	}
	return b.String()
}

// newLogger writes JSON to stdout, or a console format in development, at
// the configured level.
func newLogger(cfg *config.Config) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	return logger.Level(level)
}
