package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"fittrack/internal/config"
	"fittrack/internal/database"
	"fittrack/internal/tracker"
)

func main() {
	// Only errors reach the terminal
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	})))

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cli carries the flags shared by every command
type cli struct {
	dbPath string
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "fittrack-cli",
		Short:         "Log meals and exercises and inspect daily totals",
		Long:          "fittrack-cli works directly on the fittrack database. Configuration is read the same way as the server (FITTRACK_CONFIG, then environment).",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&c.dbPath, "db", "", "Path to the SQLite database (overrides DATABASE_PATH)")

	root.AddCommand(
		c.mealCmd(),
		c.exerciseCmd(),
		c.recalcCmd(),
		c.reconcileCmd(),
		c.progressCmd(),
		c.weeklyCmd(),
		c.historyCmd(),
		c.profileCmd(),
		c.plansCmd(),
	)
	return root
}

// withService opens the database and runs fn against a tracker service
func (c *cli) withService(cmd *cobra.Command, fn func(ctx context.Context, svc *tracker.Service, db *database.DB) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if c.dbPath != "" {
		cfg.DatabasePath = c.dbPath
	}

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Init(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	svc := tracker.New(db,
		tracker.WithLocation(cfg.Location),
		tracker.WithDefaultCalorieTarget(cfg.DefaultCalorieTarget),
	)
	return fn(cmd.Context(), svc, db)
}

func dateArg(svc *tracker.Service, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return svc.Today()
}
