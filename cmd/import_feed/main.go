package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"infinite-experiment/calllist/internal/common"
	"infinite-experiment/calllist/internal/config"
	"infinite-experiment/calllist/internal/db"
	"infinite-experiment/calllist/internal/logging"
	"infinite-experiment/calllist/internal/metrics"
	"infinite-experiment/calllist/internal/providers"
	"infinite-experiment/calllist/internal/services"
)

var (
	configPath string
	feedPath   string
	editorID   string
)

var rootCmd = &cobra.Command{
	Use:   "import_feed",
	Short: "Merge a station feed CSV into the call list",
	Long: `Reads a station feed CSV and reconciles it against the directory.

Existing stations (matched on market number and feed) are updated and their
phones replaced; new stations are created. Every change is written to the
edit log under the given editor.`,
	SilenceUsage: true,
	RunE:         runImport,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "path to a YAML config file")
	rootCmd.Flags().StringVarP(&feedPath, "file", "f", "", "feed CSV to import")
	rootCmd.Flags().StringVar(&editorID, "editor", "", "user id recorded as the editor")
	_ = rootCmd.MarkFlagRequired("file")
	_ = rootCmd.MarkFlagRequired("editor")
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := logging.Init(cfg.App.Env); err != nil {
		return err
	}
	defer logging.Close()

	orm, err := db.InitORM(cfg.DB.Driver, cfg.DSN())
	if err != nil {
		return err
	}
	read, err := db.ReadDB(orm, cfg.DB.Driver, cfg.DSN())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Minute)
	defer cancel()

	store := services.NewStore(orm, read)
	editor, err := store.Users.FindByID(ctx, editorID)
	if err != nil {
		return err
	}
	if editor == nil {
		return fmt.Errorf("no user with id %s", editorID)
	}

	f, err := os.Open(feedPath)
	if err != nil {
		return fmt.Errorf("open feed: %w", err)
	}
	defer f.Close()

	// The server's cache lives in another process; its TTL covers staleness.
	cache := common.NewCacheService(time.Minute, time.Minute)
	importer := services.NewImportService(store, providers.NewCSVFeedProvider(), cache,
		metrics.NewMetricsRegistry(prometheus.NewRegistry()), nil, cfg.App.Region)

	result, err := importer.ImportCSV(ctx, f, editor.ID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Imported %s as %s\n", feedPath, editor.Name)
	fmt.Fprintf(out, "  created: %d\n  updated: %d\n  errors:  %d\n", result.Created, result.Updated, result.ErrorCount)
	for _, e := range result.Errors {
		fmt.Fprintf(out, "  - %s\n", e)
	}
	if result.ErrorCount > len(result.Errors) {
		fmt.Fprintf(out, "  ... and %d more\n", result.ErrorCount-len(result.Errors))
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
