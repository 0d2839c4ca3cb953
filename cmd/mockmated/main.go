// mockmated is the mock-interview backend daemon.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/mockmate/interview"
	"github.com/mockmate/interview/auth"
	"github.com/mockmate/interview/cache"
	"github.com/mockmate/interview/httpapi"
	"github.com/mockmate/interview/memstore"
	"github.com/mockmate/interview/openai"
	"github.com/mockmate/interview/postgres"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "mockmated",
	Short:        "Mock-interview practice backend",
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := interview.LoadConfig(configPath)
		if err != nil {
			return err
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		slog.SetDefault(logger)

		store, cleanup, err := openStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		questionCache, err := openCache(cfg, logger)
		if err != nil {
			return err
		}
		defer questionCache.Close()

		completer := openai.New(cfg.OpenAIKey, cfg.Models).
			WithStore(store).
			WithLogger(logger)
		generator := interview.NewQuestionGenerator(completer).
			WithCache(questionCache).
			WithLogger(logger)
		interviewer := interview.NewInterviewer(store, completer, generator).
			WithLogger(logger)

		server := httpapi.New(store, interviewer, auth.NewTokens(cfg.JWTSecret)).
			WithLogger(logger)

		logger.Info("listening", "addr", cfg.HTTPAddr)
		return http.ListenAndServe(cfg.HTTPAddr, server.Handler())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPGStore(cmd.Context(), func(ctx context.Context, store *postgres.PGStore) error {
			if err := store.Migrate(ctx); err != nil {
				return err
			}
			fmt.Println("migrations applied")
			return nil
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the last migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPGStore(cmd.Context(), func(ctx context.Context, store *postgres.PGStore) error {
			if err := store.Rollback(ctx); err != nil {
				return err
			}
			fmt.Println("rolled back")
			return nil
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPGStore(cmd.Context(), func(ctx context.Context, store *postgres.PGStore) error {
			records, err := store.MigrationStatus(ctx)
			if err != nil {
				return err
			}
			for _, rec := range records {
				state := "pending"
				if rec.Applied {
					state = "applied " + rec.AppliedAt.Format("2006-01-02 15:04:05")
				}
				fmt.Printf("%-30s %s\n", rec.Name, state)
			}
			return nil
		})
	},
}

// openStore picks Postgres when configured, otherwise falls back to
// the in-memory store for credential-free development.
func openStore(ctx context.Context, cfg interview.Config, logger *slog.Logger) (interview.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL missing, using in-memory store")
		return memstore.New(), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}

	store := postgres.New(pool)
	if err := store.CreateSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}

	return store, pool.Close, nil
}

// openCache picks Redis when configured, otherwise in-memory.
func openCache(cfg interview.Config, logger *slog.Logger) (cache.Store, error) {
	if cfg.RedisAddr == "" {
		return cache.New(cache.TypeMemory)
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	logger.Info("question cache on redis", "addr", cfg.RedisAddr)
	return cache.New(cache.TypeRedis, cache.WithRedisClient(client))
}

func withPGStore(ctx context.Context, fn func(context.Context, *postgres.PGStore) error) error {
	cfg, err := interview.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for migrations")
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	return fn(ctx, postgres.New(pool))
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
	rootCmd.AddCommand(serveCmd, migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
