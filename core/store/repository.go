package store

import (
	"context"
	"fmt"
	"time"

	"fuel-dashboard/core/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// batchSize bounds the rows per INSERT statement.
const batchSize = 500

// Repository is the gorm-backed store for stations and prices.
// Every method opens its own session bound to ctx.
type Repository struct {
	db *gorm.DB
}

// New creates a repository over a connection pool.
func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) session(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// StationCodes returns the codes of every stored station.
func (r *Repository) StationCodes(ctx context.Context) (map[string]struct{}, error) {
	var codes []string
	if err := r.session(ctx).Model(&models.Station{}).Pluck("code", &codes).Error; err != nil {
		return nil, fmt.Errorf("failed to list station codes: %w", err)
	}
	set := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		set[code] = struct{}{}
	}
	return set, nil
}

// InsertStations inserts stations in one transaction. Codes that already
// exist are left untouched.
func (r *Repository) InsertStations(ctx context.Context, stations []models.Station) error {
	if len(stations) == 0 {
		return nil
	}
	return r.session(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoNothing: true,
		}).CreateInBatches(&stations, batchSize).Error
		if err != nil {
			return fmt.Errorf("failed to insert stations: %w", err)
		}
		return nil
	})
}

// InsertPrices inserts observations in one transaction.
func (r *Repository) InsertPrices(ctx context.Context, prices []models.Price) error {
	if len(prices) == 0 {
		return nil
	}
	return r.session(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.CreateInBatches(&prices, batchSize).Error; err != nil {
			return fmt.Errorf("failed to insert prices: %w", err)
		}
		return nil
	})
}

// PruneCapturedBefore deletes observations captured before cutoff.
func (r *Repository) PruneCapturedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.session(ctx).Where("captured_at < ?", cutoff.UTC()).Delete(&models.Price{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to prune prices: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Stations returns every station ordered by code.
func (r *Repository) Stations(ctx context.Context) ([]models.Station, error) {
	var stations []models.Station
	if err := r.session(ctx).Order("code ASC").Find(&stations).Error; err != nil {
		return nil, fmt.Errorf("failed to list stations: %w", err)
	}
	return stations, nil
}

// StationsByCodes resolves stations in one query. Unknown codes are absent from the result.
func (r *Repository) StationsByCodes(ctx context.Context, codes []string) (map[string]models.Station, error) {
	out := make(map[string]models.Station, len(codes))
	if len(codes) == 0 {
		return out, nil
	}
	var stations []models.Station
	if err := r.session(ctx).Where("code IN ?", codes).Find(&stations).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve stations: %w", err)
	}
	for _, s := range stations {
		out[s.Code] = s
	}
	return out, nil
}

// PricesCapturedSince returns observations captured at or after since with
// a price above minPrice, newest first.
func (r *Repository) PricesCapturedSince(ctx context.Context, since time.Time, minPrice float64) ([]models.Price, error) {
	var prices []models.Price
	err := r.session(ctx).
		Where("captured_at >= ? AND price > ?", since.UTC(), minPrice).
		Order("captured_at DESC").Order("id DESC").
		Find(&prices).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent prices: %w", err)
	}
	return prices, nil
}

// CheapestPrices returns up to limit observations of fuelType priced above
// minPrice, cheapest first.
func (r *Repository) CheapestPrices(ctx context.Context, fuelType string, minPrice float64, limit int) ([]models.Price, error) {
	var prices []models.Price
	err := r.session(ctx).
		Where("price > ? AND fuel_type = ?", minPrice, fuelType).
		Order("price ASC").Order("id ASC").
		Limit(limit).
		Find(&prices).Error
	if err != nil {
		return nil, fmt.Errorf("failed to rank prices: %w", err)
	}
	return prices, nil
}

// CountPrices returns the number of stored observations.
func (r *Repository) CountPrices(ctx context.Context) (int64, error) {
	var n int64
	if err := r.session(ctx).Model(&models.Price{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count prices: %w", err)
	}
	return n, nil
}

// LatestCapture returns the newest capture timestamp, or nil for an empty store.
func (r *Repository) LatestCapture(ctx context.Context) (*time.Time, error) {
	var latest models.Price
	err := r.session(ctx).Order("captured_at DESC").Limit(1).Find(&latest).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load latest capture: %w", err)
	}
	if latest.ID == 0 {
		return nil, nil
	}
	t := latest.CapturedAt.UTC()
	return &t, nil
}

// StationHistory returns one station's observations captured at or after
// since, oldest first.
func (r *Repository) StationHistory(ctx context.Context, code string, since time.Time) ([]models.Price, error) {
	var prices []models.Price
	err := r.session(ctx).
		Where("station_code = ? AND captured_at >= ?", code, since.UTC()).
		Order("captured_at ASC").Order("id ASC").
		Find(&prices).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load history for %s: %w", code, err)
	}
	return prices, nil
}
