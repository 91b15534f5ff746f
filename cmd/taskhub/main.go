// Command taskhub bundles the operational tooling of the service layer:
// schema migrations and a development seeder. The service layer itself is
// consumed as a library by a transport process.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/taskhub/internal/config"
	"github.com/dropDatabas3/taskhub/internal/domain/repository"
	"github.com/dropDatabas3/taskhub/internal/metrics"
	"github.com/dropDatabas3/taskhub/internal/observability/logger"
	"github.com/dropDatabas3/taskhub/internal/store"
)

var (
	configPath string
	cfg        *config.Config
)

func main() {
	root := &cobra.Command{
		Use:   "taskhub",
		Short: "Operational tooling for the taskhub service layer",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env is optional; real deployments use the environment
			_ = godotenv.Load()

			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logger.Init(logger.Config{
				Env:         cfg.App.Env,
				Level:       cfg.Log.Level,
				ServiceName: "taskhub",
			})
			return metrics.RegisterRepo(nil)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to YAML config")
	root.AddCommand(migrateCmd(), seedCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	_ = logger.Sync()
}

func migrateCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "migrate [up|down] [steps]",
		Short: "Apply *_up.sql / *_down.sql migrations in order",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			action := "up"
			steps := 0
			if len(args) >= 1 {
				action = strings.ToLower(args[0])
			}
			if len(args) >= 2 {
				if n, err := strconv.Atoi(args[1]); err == nil && n > 0 {
					steps = n
				}
			}

			ctx := cmd.Context()
			pool, err := store.Open(ctx, poolConfig())
			if err != nil {
				return err
			}
			defer pool.Close()

			switch action {
			case "up":
				return applyMigrations(ctx, pool, dir, "_up.sql", steps, false)
			case "down":
				return applyMigrations(ctx, pool, dir, "_down.sql", steps, true)
			default:
				return fmt.Errorf("unknown action %q, use up|down", action)
			}
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "migrations/postgres", "migrations directory")
	return cmd
}

func applyMigrations(ctx context.Context, db store.DBOps, dir, suffix string, steps int, reverse bool) error {
	files, err := listSQL(dir, suffix)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		logger.L().Info("no migrations found, nothing to do", logger.String("dir", dir))
		return nil
	}
	sort.Strings(files)
	if reverse {
		for i, j := 0, len(files)-1; i < j; i, j = i+1, j-1 {
			files[i], files[j] = files[j], files[i]
		}
	}
	if steps > 0 && steps < len(files) {
		files = files[:steps]
	}

	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}
		start := time.Now()
		if _, err := db.Exec(ctx, string(b)); err != nil {
			return fmt.Errorf("exec %s: %w", f, err)
		}
		logger.L().Info("migration applied",
			logger.String("file", filepath.Base(f)),
			logger.String("took", time.Since(start).Truncate(time.Millisecond).String()),
		)
	}
	return nil
}

func listSQL(dir, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(strings.ToLower(e.Name()), suffix) {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out, nil
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create a demo user, project and task through the stores",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := store.Open(ctx, poolConfig())
			if err != nil {
				return err
			}
			defer pool.Close()

			users := store.NewUserStore(pool)
			users.BlacklistPath = cfg.Security.PasswordBlacklistPath
			projects := store.NewProjectStore(pool)
			tasks := store.NewTaskStore(pool)

			u, err := users.Register(ctx, repository.RegisterUserInput{
				Name:     "Demo User",
				Email:    "demo@taskhub.local",
				Password: "Demo1234",
			})
			if err != nil {
				if repository.IsConflict(err) {
					logger.L().Info("seed user already exists, nothing to do")
					return nil
				}
				return err
			}

			p, err := projects.Create(ctx, repository.CreateProjectInput{
				Name:        "Getting started",
				UserID:      u.ID,
				Description: "A sample project created by the seeder",
			})
			if err != nil {
				return err
			}

			t, err := tasks.Create(ctx, repository.CreateTaskInput{
				ProjectID: p.ID,
				UserID:    u.ID,
				Title:     "Explore taskhub",
			})
			if err != nil {
				return err
			}

			logger.L().Info("seed data created",
				logger.UserID(u.ID), logger.ProjectID(p.ID), logger.TaskID(t.ID))
			return nil
		},
	}
}

func poolConfig() store.Config {
	return store.Config{
		DSN:             cfg.Storage.DSN,
		MaxConns:        cfg.Storage.Postgres.MaxConns,
		MinConns:        cfg.Storage.Postgres.MinConns,
		ConnMaxLifetime: cfg.Storage.Postgres.ConnMaxLifetime,
	}
}
