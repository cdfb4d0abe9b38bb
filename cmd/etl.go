package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fuel-dashboard/core/database"
	"fuel-dashboard/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	etlFile   string
	etlReplay string
	etlDryRun bool
)

// etlCmd runs a single pipeline cycle.
var etlCmd = &cobra.Command{
	Use:   "etl",
	Short: "Run one ingestion cycle",
	Long: `Fetches one payload, reconciles it against the store and prints the report.

Examples:
  # Fetch from the FuelCheck API
  etl

  # Load a payload saved to disk
  etl --file nsw_fuel_data.json

  # Replay an archived payload
  etl --replay payloads/2024/06/02/20240602T100000Z-<id>.json

  # Show what would be written
  etl --dry-run`,
	RunE: runETL,
}

func init() {
	etlCmd.Flags().StringVar(&etlFile, "file", "", "Read the payload from a local JSON file")
	etlCmd.Flags().StringVar(&etlReplay, "replay", "", "Replay an archived payload object")
	etlCmd.Flags().BoolVar(&etlDryRun, "dry-run", false, "Plan only, write nothing")
	RootCmd.AddCommand(etlCmd)
}

func runETL(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap()
	if err != nil {
		return err
	}
	l := rt.logger
	defer l.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(rt.db); err != nil {
		return err
	}

	src, err := rt.source(ctx, etlFile, etlReplay)
	if err != nil {
		return err
	}
	// A replayed payload is already archived.
	pipeline := rt.pipeline(ctx, src, !etlDryRun && etlReplay == "")

	if etlDryRun {
		plan, err := pipeline.DryRun(ctx)
		if err != nil {
			return err
		}
		printSummary(l, "Dry-run report", plan.Summary)
		printRejections(l, plan.Rejected)
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}

	if err := pipeline.Run(ctx); err != nil {
		return fmt.Errorf("pipeline run failed: %w", err)
	}

	report := pipeline.LastReport()
	printSummary(l, "Reconciliation report", report.Result.Summary)
	l.Info("Changes committed",
		zap.Int64("pruned", report.Result.Pruned),
		zap.Int("stations_inserted", report.Result.StationsInserted),
		zap.Int("prices_inserted", report.Result.PricesInserted),
		zap.String("archive_key", report.ArchiveKey),
	)
	return nil
}

func printSummary(l *zap.Logger, msg string, s reconcile.Summary) {
	l.Info(msg,
		zap.Int("incoming_stations", s.IncomingStations),
		zap.Int("new_stations", s.NewStations),
		zap.Int("existing_stations", s.ExistingStations),
		zap.Int("duplicate_stations", s.DuplicateStations),
		zap.Int("invalid_stations", s.InvalidStations),
		zap.Int("incoming_prices", s.IncomingPrices),
		zap.Int("accepted_prices", s.AcceptedPrices),
		zap.Int("skipped_unparseable", s.SkippedUnparseable),
		zap.Int("skipped_stale", s.SkippedStale),
		zap.Int("orphan_prices", s.OrphanPrices),
		zap.Int("malformed_records", s.MalformedRecords),
	)
}

// printRejections logs a sample of skipped observations.
func printRejections(l *zap.Logger, rejected []reconcile.Rejection) {
	maxShow := 5
	if len(rejected) < maxShow {
		maxShow = len(rejected)
	}
	for _, r := range rejected[:maxShow] {
		l.Info("Sample rejection",
			zap.String("station_code", r.StationCode),
			zap.String("fuel_type", r.FuelType),
			zap.String("reported_at", r.ReportedAtRaw),
			zap.String("reason", string(r.Reason)),
		)
	}
	if len(rejected) > maxShow {
		l.Info("Additional rejections not shown", zap.Int("count", len(rejected)-maxShow))
	}
}
