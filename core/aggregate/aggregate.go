package aggregate

import (
	"context"
	"fmt"
	"sort"
	"time"

	"fuel-dashboard/core/models"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultFuelType is ranked when the caller names none.
	DefaultFuelType = "E10"
	// CurrentWindow is how far back a price still counts as current.
	CurrentWindow = 24 * time.Hour
	// HistoryWindow is how far back station history reaches.
	HistoryWindow = 7 * 24 * time.Hour
	// MinCurrentPrice filters zero and negative placeholders from the map view.
	MinCurrentPrice = 1.0
	// MinRankedPrice filters data-entry errors from the ranking.
	MinRankedPrice = 10.0
	// RankingSize is the number of ranked entries.
	RankingSize = 5

	historyTimeLayout = "2006-01-02 15:04"
)

// Reader is the read side of the store.
type Reader interface {
	Stations(ctx context.Context) ([]models.Station, error)
	StationsByCodes(ctx context.Context, codes []string) (map[string]models.Station, error)
	PricesCapturedSince(ctx context.Context, since time.Time, minPrice float64) ([]models.Price, error)
	CheapestPrices(ctx context.Context, fuelType string, minPrice float64, limit int) ([]models.Price, error)
	CountPrices(ctx context.Context) (int64, error)
	LatestCapture(ctx context.Context) (*time.Time, error)
	StationHistory(ctx context.Context, code string, since time.Time) ([]models.Price, error)
}

// Engine computes read views from the store on every call.
type Engine struct {
	reader Reader
	now    func() time.Time
	group  singleflight.Group
}

// NewEngine creates a query engine over reader.
func NewEngine(reader Reader) *Engine {
	return &Engine{reader: reader, now: time.Now}
}

// SetClock replaces the engine's clock.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// Stations returns every station with its prices from the last 24 hours.
// Concurrent callers share one computation. The shared computation ignores
// cancellation of whichever caller started it; each caller stops waiting
// when its own ctx is done.
func (e *Engine) Stations(ctx context.Context) ([]StationView, error) {
	shared := context.WithoutCancel(ctx)
	ch := e.group.DoChan("stations", func() (interface{}, error) {
		return e.stations(shared)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		// Each caller gets its own slice header; views are not mutated afterwards.
		views := res.Val.([]StationView)
		return append([]StationView(nil), views...), nil
	}
}

func (e *Engine) stations(ctx context.Context) ([]StationView, error) {
	stations, err := e.reader.Stations(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := e.reader.PricesCapturedSince(ctx, e.now().UTC().Add(-CurrentWindow), MinCurrentPrice)
	if err != nil {
		return nil, err
	}

	current := CurrentPrices(recent)

	views := make([]StationView, 0, len(stations))
	for _, s := range stations {
		prices := current[s.Code]
		if prices == nil {
			prices = []FuelPrice{}
		}
		views = append(views, StationView{
			Code:         s.Code,
			Name:         s.Name,
			Brand:        s.Brand,
			Address:      s.Address,
			Latitude:     s.Latitude,
			Longitude:    s.Longitude,
			Prices:       prices,
			DisplayPrice: SelectDisplayPrice(prices),
		})
	}
	return views, nil
}

// CurrentPrices groups observations by station and fuel type, keeping the
// most recently captured one per fuel type. Entries are sorted by fuel type.
func CurrentPrices(prices []models.Price) map[string][]FuelPrice {
	type key struct{ station, fuel string }
	latest := make(map[key]models.Price)

	for _, p := range prices {
		k := key{p.StationCode, p.FuelType}
		if cur, ok := latest[k]; ok {
			if cur.CapturedAt.After(p.CapturedAt) || (cur.CapturedAt.Equal(p.CapturedAt) && cur.ID > p.ID) {
				continue
			}
		}
		latest[k] = p
	}

	out := make(map[string][]FuelPrice)
	for k, p := range latest {
		out[k.station] = append(out[k.station], FuelPrice{
			FuelType: p.FuelType,
			Price:    p.Price,
			Updated:  p.LastUpdated,
		})
	}
	for code := range out {
		entries := out[code]
		sort.Slice(entries, func(i, j int) bool { return entries[i].FuelType < entries[j].FuelType })
	}
	return out
}

// SelectDisplayPrice prefers E10, then the first entry. Entries are expected
// in fuel type order so the fallback is deterministic.
func SelectDisplayPrice(prices []FuelPrice) DisplayPrice {
	for _, p := range prices {
		if p.FuelType == DefaultFuelType {
			return DisplayPrice{Value: p.Price, Valid: true}
		}
	}
	if len(prices) > 0 {
		return DisplayPrice{Value: prices[0].Price, Valid: true}
	}
	return DisplayPrice{}
}

// Cheapest ranks the five cheapest plausible observations of fuelType and
// reports how fresh the store is overall.
func (e *Engine) Cheapest(ctx context.Context, fuelType string) (*Ranking, error) {
	if fuelType == "" {
		fuelType = DefaultFuelType
	}

	var (
		cheapest []models.Price
		total    int64
		latest   *time.Time
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cheapest, err = e.reader.CheapestPrices(gctx, fuelType, MinRankedPrice, RankingSize)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = e.reader.CountPrices(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		latest, err = e.reader.LatestCapture(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(cheapest))
	seen := make(map[string]struct{}, len(cheapest))
	for _, p := range cheapest {
		if _, ok := seen[p.StationCode]; ok {
			continue
		}
		seen[p.StationCode] = struct{}{}
		codes = append(codes, p.StationCode)
	}
	stations, err := e.reader.StationsByCodes(ctx, codes)
	if err != nil {
		return nil, err
	}

	ranked := make([]RankedPrice, 0, len(cheapest))
	for _, p := range cheapest {
		entry := RankedPrice{
			Price:       p.Price,
			FuelType:    p.FuelType,
			StationCode: p.StationCode,
			Station:     "Unknown",
			CapturedAt:  p.CapturedAt.UTC(),
		}
		if s, ok := stations[p.StationCode]; ok {
			entry.Station = s.Name
			entry.Address = s.Address
			if s.Latitude != nil {
				entry.Lat = *s.Latitude
			}
			if s.Longitude != nil {
				entry.Lng = *s.Longitude
			}
		}
		ranked = append(ranked, entry)
	}

	return &Ranking{
		Title:        fmt.Sprintf("Top %d Cheapest %s", RankingSize, fuelType),
		FuelType:     fuelType,
		Cheapest:     ranked,
		TotalRecords: total,
		DataAsOf:     latest,
	}, nil
}

// History returns a station's observations from the last 7 days, oldest first.
func (e *Engine) History(ctx context.Context, code string) (*History, error) {
	prices, err := e.reader.StationHistory(ctx, code, e.now().UTC().Add(-HistoryWindow))
	if err != nil {
		return nil, err
	}

	points := make([]HistoryPoint, 0, len(prices))
	for _, p := range prices {
		points = append(points, HistoryPoint{
			Price:      p.Price,
			CapturedAt: p.CapturedAt.UTC().Format(historyTimeLayout),
			FuelType:   p.FuelType,
		})
	}
	return &History{StationCode: code, History: points}, nil
}
