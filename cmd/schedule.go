package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"fuel-dashboard/core/database"
	"fuel-dashboard/core/scheduler"

	"github.com/spf13/cobra"
)

// scheduleCmd runs the ingestion pipeline on its interval without the API.
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the ingestion pipeline on a schedule",
	Long: `Runs the fetch and reconcile pipeline every scheduler.interval plus a
random jitter until interrupted. A trigger that finds the previous run still
active is skipped.`,
	RunE: runSchedule,
}

func init() {
	RootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap()
	if err != nil {
		return err
	}
	defer rt.logger.Sync()

	if err := database.Migrate(rt.db); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := rt.source(ctx, "", "")
	if err != nil {
		return err
	}

	sched := scheduler.New(rt.cfg.Scheduler, rt.pipeline(ctx, src, true), rt.logger)
	if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
