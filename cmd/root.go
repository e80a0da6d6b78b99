package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/hurou927/db-catalog/internal/config"
	"github.com/hurou927/db-catalog/internal/db"
	"github.com/hurou927/db-catalog/internal/schema"
)

var (
	cfgPath string
	cfg     *config.Config
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "db-catalog",
	Short: "Catalog table keys and generate SQL statements from them",
	Long: `db-catalog connects to a MySQL, PostgreSQL or SQLite database, records each
table's columns, defaults, primary key and parent/son links, and generates
INSERT, UPDATE, DELETE and SELECT statements from that catalog.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		if cfgPath == "" {
			return fmt.Errorf("--config is required")
		}
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config file (required)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "log catalog progress to stderr")
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// loadCatalog connects with the configured driver and loads the catalog of
// the configured schema.
func loadCatalog(ctx context.Context) (*schema.Catalog, error) {
	conn, err := db.Open(ctx, &cfg.Connection)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	defer conn.Close()

	cat, err := schema.Load(ctx, conn, cfg.Connection.Schema,
		schema.WithConcurrency(cfg.Catalog.Concurrency),
		schema.WithMarker(cfg.Catalog.Marker),
		schema.WithLogger(slog.Default()),
	)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return cat, nil
}
