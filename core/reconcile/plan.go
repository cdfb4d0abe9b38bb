package reconcile

import (
	"context"
	"fmt"
	"time"

	"fuel-dashboard/core/models"
	"fuel-dashboard/core/source"

	"go.uber.org/zap"
)

// Plan stages new stations and admitted prices for a run at runAt.
// It reads the station codes from the store and writes nothing.
func (e *Engine) Plan(ctx context.Context, records source.Records, runAt time.Time) (*Plan, error) {
	runAt = runAt.UTC()

	known, err := e.store.StationCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load station codes: %w", err)
	}
	if known == nil {
		known = make(map[string]struct{})
	}

	plan := &Plan{
		RunAt:    runAt,
		Stations: []models.Station{},
		Prices:   []models.Price{},
		Rejected: []Rejection{},
	}

	plan.Summary.MalformedRecords = records.Malformed
	e.planStations(plan, records.Stations, known)
	e.planPrices(plan, records.Prices, known)

	if records.Malformed > 0 {
		e.logger.Warn("Dropped undecodable payload entries", zap.Int("count", records.Malformed))
	}

	if plan.Summary.OrphanPrices > 0 {
		e.logger.Warn("Admitted prices for unknown stations", zap.Int("count", plan.Summary.OrphanPrices))
	}

	e.logger.Info("Reconciliation planned",
		zap.Int("incoming_stations", plan.Summary.IncomingStations),
		zap.Int("new_stations", plan.Summary.NewStations),
		zap.Int("incoming_prices", plan.Summary.IncomingPrices),
		zap.Int("accepted_prices", plan.Summary.AcceptedPrices),
		zap.Int("skipped_unparseable", plan.Summary.SkippedUnparseable),
		zap.Int("skipped_stale", plan.Summary.SkippedStale),
	)
	return plan, nil
}

// planStations stages every station whose code is not known yet. A code
// seen earlier in the same payload counts as a duplicate, whether or not it
// is already stored. Staged codes join known so price planning sees them.
func (e *Engine) planStations(plan *Plan, stations []source.StationRecord, known map[string]struct{}) {
	s := &plan.Summary
	s.IncomingStations = len(stations)
	seen := make(map[string]struct{}, len(stations))

	for _, st := range stations {
		if st.Code == "" {
			s.InvalidStations++
			continue
		}
		if _, dup := seen[st.Code]; dup {
			s.DuplicateStations++
			continue
		}
		seen[st.Code] = struct{}{}

		if _, ok := known[st.Code]; ok {
			s.ExistingStations++
			continue
		}

		known[st.Code] = struct{}{}
		plan.Stations = append(plan.Stations, models.Station{
			Code:      st.Code,
			Name:      st.Name,
			Brand:     st.Brand,
			Address:   st.Address,
			Latitude:  st.Latitude,
			Longitude: st.Longitude,
		})
		s.NewStations++
	}
}

// planPrices admits observations by reported timestamp. The station set is
// only consulted to count orphans, never to reject.
func (e *Engine) planPrices(plan *Plan, prices []source.PriceRecord, known map[string]struct{}) {
	s := &plan.Summary
	s.IncomingPrices = len(prices)

	for _, p := range prices {
		reported, reason, ok := e.admit(p.ReportedAtRaw, plan.RunAt)
		if !ok {
			plan.Rejected = append(plan.Rejected, Rejection{
				StationCode:   p.StationCode,
				FuelType:      p.FuelType,
				ReportedAtRaw: p.ReportedAtRaw,
				Reason:        reason,
			})
			switch reason {
			case ReasonStale:
				s.SkippedStale++
			default:
				s.SkippedUnparseable++
			}
			e.logger.Debug("Skipped price observation",
				zap.String("station_code", p.StationCode),
				zap.String("fuel_type", p.FuelType),
				zap.String("lastupdated", p.ReportedAtRaw),
				zap.String("reason", string(reason)),
			)
			continue
		}

		if _, found := known[p.StationCode]; !found {
			s.OrphanPrices++
		}

		reportedAt := reported
		plan.Prices = append(plan.Prices, models.Price{
			StationCode: p.StationCode,
			FuelType:    p.FuelType,
			Price:       p.Price,
			LastUpdated: &reportedAt,
			CapturedAt:  plan.RunAt,
		})
		s.AcceptedPrices++
	}
}
