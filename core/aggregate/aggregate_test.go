package aggregate

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"fuel-dashboard/core/database"
	"fuel-dashboard/core/models"
	"fuel-dashboard/core/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC)

func fp(f float64) *float64 { return &f }

func setupEngine(t *testing.T, stations []models.Station, prices []models.Price) *Engine {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	repo := store.New(db)
	ctx := context.Background()
	require.NoError(t, repo.InsertStations(ctx, stations))
	require.NoError(t, repo.InsertPrices(ctx, prices))

	e := NewEngine(repo)
	e.SetClock(func() time.Time { return now })
	return e
}

func obs(code, fuel string, value float64, age time.Duration) models.Price {
	reported := now.Add(-age - time.Hour)
	return models.Price{StationCode: code, FuelType: fuel, Price: value, LastUpdated: &reported, CapturedAt: now.Add(-age)}
}

func TestStations_CurrentPriceView(t *testing.T) {
	e := setupEngine(t,
		[]models.Station{
			{Code: "A1", Name: "Shell X", Brand: "Shell", Latitude: fp(-33.8), Longitude: fp(151.2)},
			{Code: "B2", Name: "Ampol Y"},
			{Code: "C3", Name: "BP Z"},
			{Code: "D4", Name: "Metro"},
		},
		[]models.Price{
			obs("A1", "E10", 185.0, 3*time.Hour),
			obs("A1", "E10", 189.9, time.Hour), // newer E10 wins
			obs("A1", "P98", 215.0, time.Hour),
			obs("B2", "U91", 195.0, time.Hour),
			obs("B2", "DL", 205.0, time.Hour),
			obs("C3", "E10", 0, time.Hour),        // placeholder
			obs("C3", "E10", 170.0, 25*time.Hour), // outside the window
			obs("D4", "E10", 1.0, time.Hour),      // not above the plausibility floor
		},
	)

	views, err := e.Stations(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 4)

	byCode := make(map[string]StationView)
	for _, v := range views {
		byCode[v.Code] = v
	}

	a := byCode["A1"]
	assert.Equal(t, "Shell X", a.Name)
	assert.Equal(t, "Shell", a.Brand)
	require.Len(t, a.Prices, 2)
	assert.Equal(t, "E10", a.Prices[0].FuelType)
	assert.InDelta(t, 189.9, a.Prices[0].Price, 1e-9)
	assert.Equal(t, "P98", a.Prices[1].FuelType)
	assert.True(t, a.DisplayPrice.Valid)
	assert.InDelta(t, 189.9, a.DisplayPrice.Value, 1e-9)

	// No E10: first fuel type in order
	b := byCode["B2"]
	require.Len(t, b.Prices, 2)
	assert.Equal(t, "DL", b.Prices[0].FuelType)
	assert.InDelta(t, 205.0, b.DisplayPrice.Value, 1e-9)

	for _, code := range []string{"C3", "D4"} {
		v := byCode[code]
		assert.Empty(t, v.Prices, code)
		assert.NotNil(t, v.Prices, code)
		assert.False(t, v.DisplayPrice.Valid, code)
	}
}

func TestStations_JSON(t *testing.T) {
	e := setupEngine(t,
		[]models.Station{{Code: "A1", Name: "One"}, {Code: "B2", Name: "Two"}},
		[]models.Price{obs("A1", "E10", 189.9, time.Hour)},
	)

	views, err := e.Stations(context.Background())
	require.NoError(t, err)

	data, err := json.Marshal(views)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, 189.9, decoded[0]["display_price"])
	assert.Equal(t, "N/A", decoded[1]["display_price"])
	assert.Nil(t, decoded[1]["latitude"])
	assert.Equal(t, []any{}, decoded[1]["prices"])
}

func TestSelectDisplayPrice(t *testing.T) {
	assert.Equal(t, DisplayPrice{}, SelectDisplayPrice(nil))
	assert.Equal(t, DisplayPrice{Value: 1.5, Valid: true}, SelectDisplayPrice([]FuelPrice{{FuelType: "DL", Price: 1.5}}))
	assert.Equal(t, DisplayPrice{Value: 2, Valid: true}, SelectDisplayPrice([]FuelPrice{
		{FuelType: "DL", Price: 1.5},
		{FuelType: "E10", Price: 2},
	}))
}

func TestCheapest(t *testing.T) {
	e := setupEngine(t,
		[]models.Station{
			{Code: "A1", Name: "Shell X", Address: "1 Main St", Latitude: fp(-33.8), Longitude: fp(151.2)},
			{Code: "B2", Name: "Ampol Y", Address: "2 High St"},
		},
		[]models.Price{
			obs("A1", "E10", 189.9, time.Hour),
			obs("A1", "E10", 179.9, 2*time.Hour),
			obs("B2", "E10", 175.0, time.Hour),
			obs("B2", "E10", 9.9, time.Hour),  // data-entry error
			obs("B2", "E10", 10.0, time.Hour), // not above the floor
			obs("GHOST", "E10", 172.0, 30*time.Minute),
			obs("A1", "E10", 199.0, 3*time.Hour),
			obs("A1", "E10", 201.0, 3*time.Hour),
			obs("A1", "E10", 203.0, 3*time.Hour),
			obs("A1", "P98", 150.0, time.Hour),
		},
	)

	r, err := e.Cheapest(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "Top 5 Cheapest E10", r.Title)
	assert.Equal(t, "E10", r.FuelType)
	require.Len(t, r.Cheapest, 5)
	for i, entry := range r.Cheapest {
		assert.Equal(t, "E10", entry.FuelType)
		assert.Greater(t, entry.Price, 10.0)
		if i > 0 {
			assert.LessOrEqual(t, r.Cheapest[i-1].Price, entry.Price)
		}
	}

	assert.InDelta(t, 172.0, r.Cheapest[0].Price, 1e-9)
	assert.Equal(t, "Unknown", r.Cheapest[0].Station)
	assert.Equal(t, "", r.Cheapest[0].Address)
	assert.Zero(t, r.Cheapest[0].Lat)

	assert.Equal(t, "Ampol Y", r.Cheapest[1].Station)
	assert.Equal(t, "Shell X", r.Cheapest[2].Station)
	assert.Equal(t, "1 Main St", r.Cheapest[2].Address)
	assert.InDelta(t, -33.8, r.Cheapest[2].Lat, 1e-9)

	assert.Equal(t, int64(10), r.TotalRecords)
	require.NotNil(t, r.DataAsOf)
	assert.True(t, r.DataAsOf.Equal(now.Add(-30*time.Minute)))
}

func TestCheapest_NoMatchingFuel(t *testing.T) {
	e := setupEngine(t,
		[]models.Station{{Code: "A1", Name: "Shell X"}},
		[]models.Price{obs("A1", "E10", 189.9, time.Hour), obs("A1", "E10", 185.0, 2*time.Hour)},
	)

	r, err := e.Cheapest(context.Background(), "Diesel")
	require.NoError(t, err)

	assert.Equal(t, "Top 5 Cheapest Diesel", r.Title)
	assert.Empty(t, r.Cheapest)
	assert.NotNil(t, r.Cheapest)
	assert.Equal(t, int64(2), r.TotalRecords)
	require.NotNil(t, r.DataAsOf)
	assert.True(t, r.DataAsOf.Equal(now.Add(-time.Hour)))
}

func TestCheapest_EmptyStore(t *testing.T) {
	e := setupEngine(t, nil, nil)

	r, err := e.Cheapest(context.Background(), "E10")
	require.NoError(t, err)
	assert.Empty(t, r.Cheapest)
	assert.Zero(t, r.TotalRecords)
	assert.Nil(t, r.DataAsOf)
}

func TestHistory(t *testing.T) {
	e := setupEngine(t,
		[]models.Station{{Code: "A1"}},
		[]models.Price{
			obs("A1", "E10", 180.0, 8*24*time.Hour),
			obs("A1", "E10", 185.0, 2*time.Hour),
			obs("A1", "E10", 182.0, 3*24*time.Hour),
			obs("B2", "E10", 150.0, time.Hour),
		},
	)

	h, err := e.History(context.Background(), "A1")
	require.NoError(t, err)

	assert.Equal(t, "A1", h.StationCode)
	require.Len(t, h.History, 2)
	assert.InDelta(t, 182.0, h.History[0].Price, 1e-9)
	assert.Equal(t, "2024-05-30 10:00", h.History[0].CapturedAt)
	assert.Equal(t, "2024-06-02 08:00", h.History[1].CapturedAt)
	assert.Equal(t, "E10", h.History[1].FuelType)

	unknown, err := e.History(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.Empty(t, unknown.History)
	assert.NotNil(t, unknown.History)
}

// failingReader fails every read.
type failingReader struct{ err error }

func (f failingReader) Stations(context.Context) ([]models.Station, error) { return nil, f.err }
func (f failingReader) StationsByCodes(context.Context, []string) (map[string]models.Station, error) {
	return nil, f.err
}
func (f failingReader) PricesCapturedSince(context.Context, time.Time, float64) ([]models.Price, error) {
	return nil, f.err
}
func (f failingReader) CheapestPrices(context.Context, string, float64, int) ([]models.Price, error) {
	return nil, f.err
}
func (f failingReader) CountPrices(context.Context) (int64, error)        { return 0, f.err }
func (f failingReader) LatestCapture(context.Context) (*time.Time, error) { return nil, f.err }
func (f failingReader) StationHistory(context.Context, string, time.Time) ([]models.Price, error) {
	return nil, f.err
}

func TestEngine_StoreUnavailable(t *testing.T) {
	boom := errors.New("store unavailable")
	e := NewEngine(failingReader{err: boom})

	_, err := e.Stations(context.Background())
	assert.ErrorIs(t, err, boom)

	_, err = e.Cheapest(context.Background(), "E10")
	assert.ErrorIs(t, err, boom)

	_, err = e.History(context.Background(), "A1")
	assert.ErrorIs(t, err, boom)
}

func TestCurrentPrices_TieBreakByID(t *testing.T) {
	same := now.Add(-time.Hour)
	grouped := CurrentPrices([]models.Price{
		{ID: 2, StationCode: "A1", FuelType: "E10", Price: 181, CapturedAt: same},
		{ID: 1, StationCode: "A1", FuelType: "E10", Price: 180, CapturedAt: same},
	})
	require.Len(t, grouped["A1"], 1)
	assert.InDelta(t, 181, grouped["A1"][0].Price, 1e-9)
}

// blockingReader holds Stations open until released or its ctx ends.
type blockingReader struct {
	failingReader
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
}

func (b *blockingReader) Stations(ctx context.Context) ([]models.Station, error) {
	if b.calls.Add(1) == 1 {
		close(b.entered)
	}
	select {
	case <-b.release:
		return []models.Station{{Code: "A1", Name: "Shell X"}}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (b *blockingReader) PricesCapturedSince(context.Context, time.Time, float64) ([]models.Price, error) {
	return nil, nil
}

func TestStations_CallerCancellationIsIsolated(t *testing.T) {
	r := &blockingReader{
		failingReader: failingReader{err: errors.New("unexpected read")},
		entered:       make(chan struct{}),
		release:       make(chan struct{}),
	}
	e := NewEngine(r)

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := e.Stations(ctx)
		first <- err
	}()
	<-r.entered

	type outcome struct {
		views []StationView
		err   error
	}
	second := make(chan outcome, 1)
	go func() {
		views, err := e.Stations(context.Background())
		second <- outcome{views, err}
	}()
	// Let the second caller join the in-flight computation.
	time.Sleep(20 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-first, context.Canceled)

	close(r.release)
	got := <-second
	require.NoError(t, got.err)
	require.Len(t, got.views, 1)
	assert.Equal(t, "A1", got.views[0].Code)
}
