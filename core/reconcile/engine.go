package reconcile

import (
	"context"
	"fmt"
	"time"

	"fuel-dashboard/core/models"
	"fuel-dashboard/core/source"

	"go.uber.org/zap"
)

// Store is the persistence the engine needs. Each call is one scoped unit of work.
type Store interface {
	// StationCodes returns the codes of every stored station.
	StationCodes(ctx context.Context) (map[string]struct{}, error)
	// InsertStations commits the stations atomically.
	InsertStations(ctx context.Context, stations []models.Station) error
	// InsertPrices commits the observations atomically.
	InsertPrices(ctx context.Context, prices []models.Price) error
	// PruneCapturedBefore deletes observations captured before cutoff.
	PruneCapturedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Options tune admission and retention.
type Options struct {
	// StaleAfter is the admission window for reported timestamps.
	StaleAfter time.Duration
	// RetainFor is the retention window for capture timestamps.
	RetainFor time.Duration
	// Layout is the reported timestamp format.
	Layout string
	// Location is the zone reported timestamps are expressed in.
	Location *time.Location
}

// DefaultOptions returns the 30 day admission and 7 day retention windows.
func DefaultOptions() Options {
	return Options{
		StaleAfter: 30 * 24 * time.Hour,
		RetainFor:  7 * 24 * time.Hour,
		Layout:     source.ReportedAtLayout,
		Location:   time.UTC,
	}
}

// OptionsFrom builds options from configuration.
func OptionsFrom(cfg Config, loc *time.Location) Options {
	opts := DefaultOptions()
	if cfg.StaleAfter > 0 {
		opts.StaleAfter = cfg.StaleAfter
	}
	if cfg.RetainFor > 0 {
		opts.RetainFor = cfg.RetainFor
	}
	if loc != nil {
		opts.Location = loc
	}
	return opts
}

// Engine reconciles payload records against the store.
type Engine struct {
	store  Store
	logger *zap.Logger
	opts   Options
	now    func() time.Time
}

// NewEngine creates an engine over an injected store.
func NewEngine(store Store, logger *zap.Logger, opts Options) *Engine {
	if opts.Layout == "" {
		opts.Layout = source.ReportedAtLayout
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Engine{
		store:  store,
		logger: logger,
		opts:   opts,
		now:    time.Now,
	}
}

// SetClock replaces the engine's clock.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// Run plans and applies one cycle at the current time.
func (e *Engine) Run(ctx context.Context, records source.Records) (*Result, error) {
	plan, err := e.Plan(ctx, records, e.now())
	if err != nil {
		return nil, err
	}
	return e.Apply(ctx, plan)
}

// Apply prunes expired observations, then commits staged stations and prices.
// Stations are committed before prices; a failed price commit leaves the
// stations in place.
func (e *Engine) Apply(ctx context.Context, plan *Plan) (*Result, error) {
	result := &Result{RunAt: plan.RunAt, Summary: plan.Summary}

	cutoff := plan.RunAt.Add(-e.opts.RetainFor)
	pruned, err := e.store.PruneCapturedBefore(ctx, cutoff)
	if err != nil {
		return result, fmt.Errorf("failed to prune prices: %w", err)
	}
	result.Pruned = pruned

	if len(plan.Stations) > 0 {
		if err := e.store.InsertStations(ctx, plan.Stations); err != nil {
			return result, fmt.Errorf("failed to insert stations: %w", err)
		}
		result.StationsInserted = len(plan.Stations)
	}

	if len(plan.Prices) > 0 {
		if err := e.store.InsertPrices(ctx, plan.Prices); err != nil {
			return result, fmt.Errorf("failed to insert prices: %w", err)
		}
		result.PricesInserted = len(plan.Prices)
	}

	e.logger.Info("Reconciliation applied",
		zap.Time("run_at", plan.RunAt),
		zap.Int64("pruned", result.Pruned),
		zap.Int("stations_inserted", result.StationsInserted),
		zap.Int("prices_inserted", result.PricesInserted),
		zap.Int("skipped", plan.Summary.Skipped()),
	)
	return result, nil
}
