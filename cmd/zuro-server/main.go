package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/zuro/agenda/internal/config"
	"github.com/zuro/agenda/internal/domain/patient"
	"github.com/zuro/agenda/internal/platform/db"
	"github.com/zuro/agenda/internal/platform/events"
	"github.com/zuro/agenda/internal/platform/scheduling"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "zuro-server",
		Short: "Zuro Agenda API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(sweepCmd())
	rootCmd.AddCommand(seedCmd())

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

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func runServer() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	st, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			logger.Error().Err(err).Msg("closing storage")
		}
	}()

	pub, closePub := newPublisher(cfg, logger)
	defer func() {
		if err := closePub(); err != nil {
			logger.Error().Err(err).Msg("closing event publisher")
		}
	}()

	a, err := newApp(ctx, cfg, logger, st, pub)
	if err != nil {
		return err
	}
	e := a.echo()

	runner := scheduling.NewRunner(logger)
	for _, job := range a.jobs() {
		if err := runner.Add(job); err != nil {
			return err
		}
	}
	runner.Start(ctx)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("backend", st.kv.Backend()).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	stop()
	runner.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run storage migrations for the postgres backend",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, _ := cmd.Flags().GetString("schema")
			dir, _ := cmd.Flags().GetString("dir")
			return withMigrator(dir, func(ctx context.Context, m *db.Migrator) error {
				fmt.Printf("Running migrations on schema: %s\n", schema)
				count, err := m.Up(ctx, schema)
				if err != nil {
					return fmt.Errorf("migration failed: %w", err)
				}
				fmt.Printf("Applied %d migration(s) successfully.\n", count)
				return nil
			})
		},
	}
	upCmd.Flags().String("schema", storageSchema, "Target schema for migrations")
	upCmd.Flags().String("dir", "", "Path to migrations directory (embedded migrations when empty)")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, _ := cmd.Flags().GetString("schema")
			dir, _ := cmd.Flags().GetString("dir")
			return withMigrator(dir, func(ctx context.Context, m *db.Migrator) error {
				statuses, err := m.Status(ctx, schema)
				if err != nil {
					return fmt.Errorf("failed to get migration status: %w", err)
				}
				fmt.Printf("Migration status for schema: %s\n", schema)
				fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
				fmt.Println("---------- ---------------------------------------- ---------- --------------------")
				for _, s := range statuses {
					status := "pending"
					appliedAt := ""
					if s.Applied {
						status = "applied"
						if s.AppliedAt != nil {
							appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
						}
					}
					fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
				}
				return nil
			})
		},
	}
	statusCmd.Flags().String("schema", storageSchema, "Target schema for migrations")
	statusCmd.Flags().String("dir", "", "Path to migrations directory (embedded migrations when empty)")
	cmd.AddCommand(statusCmd)

	return cmd
}

func withMigrator(dir string, fn func(ctx context.Context, m *db.Migrator) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for migrations")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return err
	}
	defer pool.Close()

	src := db.Migrations()
	if dir != "" {
		src = os.DirFS(dir)
	}
	return fn(ctx, db.NewMigrator(pool, src))
}

func sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Recompute patient statuses from their visit dates",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(nil, func(ctx context.Context, a *app) error {
				return runSweep(ctx, a, cmd.OutOrStdout(), time.Now())
			})
		},
	}
}

// runSweep reports the changes made while the store was opened together with
// those of one more sweep at now.
func runSweep(ctx context.Context, a *app, w io.Writer, now time.Time) error {
	changes, err := a.patients.Sweep(ctx, now)
	if err != nil {
		return err
	}
	changes = append(a.patients.OpenSweep(), changes...)
	counts := lo.CountValuesBy(a.patients.List(), func(p patient.Patient) patient.Status {
		return p.Status
	})
	fmt.Fprintf(w, "Updated %d patient(s).\n", len(changes))
	fmt.Fprintf(w, "%-10s %d\n", patient.StatusActive, counts[patient.StatusActive])
	fmt.Fprintf(w, "%-10s %d\n", patient.StatusInactive, counts[patient.StatusInactive])
	return nil
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Write the demo patients and affiliate defaults to empty storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(cfg *config.Config) { cfg.SeedDemoData = true }, func(ctx context.Context, a *app) error {
				if _, err := a.affiliate.Dashboard(ctx); err != nil {
					return err
				}
				fmt.Printf("Storage %s holds %d patient(s).\n", a.storage.kv.Backend(), len(a.patients.List()))
				return nil
			})
		},
	}
}

// withApp opens storage and the domain services without starting the HTTP
// server. Events are not published from one-shot commands.
func withApp(prepare func(*config.Config), fn func(ctx context.Context, a *app) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if prepare != nil {
		prepare(cfg)
	}
	logger := newLogger(cfg)
	ctx := context.Background()

	st, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close(ctx)

	a, err := newApp(ctx, cfg, logger, st, events.Nop{})
	if err != nil {
		return err
	}
	return fn(ctx, a)
}
