package stations

import (
	"context"

	"fuel-dashboard/core/aggregate"

	"go.uber.org/zap"
)

// Service exposes the read views of the fuel price store.
type Service struct {
	engine *aggregate.Engine
	logger *zap.Logger
}

// NewService creates a service over a query engine.
func NewService(engine *aggregate.Engine, logger *zap.Logger) *Service {
	return &Service{engine: engine, logger: logger}
}

// Stations returns every station with its current prices.
func (s *Service) Stations(ctx context.Context) ([]aggregate.StationView, error) {
	return s.engine.Stations(ctx)
}

// Stats returns the cheapest ranking for fuelType.
func (s *Service) Stats(ctx context.Context, fuelType string) (*aggregate.Ranking, error) {
	return s.engine.Cheapest(ctx, fuelType)
}

// History returns one station's recent price history.
func (s *Service) History(ctx context.Context, code string) (*aggregate.History, error) {
	return s.engine.History(ctx, code)
}
