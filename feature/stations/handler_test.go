package stations

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"fuel-dashboard/core/aggregate"
	"fuel-dashboard/core/database"
	"fuel-dashboard/core/models"
	"fuel-dashboard/core/store"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var now = time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC)

func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	lat, lng := -33.8, 151.2
	repo := store.New(db)
	ctx := context.Background()
	require.NoError(t, repo.InsertStations(ctx, []models.Station{
		{Code: "1001", Name: "Shell X", Brand: "Shell", Address: "1 Main St", Latitude: &lat, Longitude: &lng},
		{Code: "1002", Name: "Ampol Y", Brand: "Ampol"},
	}))
	require.NoError(t, repo.InsertPrices(ctx, []models.Price{
		{StationCode: "1001", FuelType: "E10", Price: 189.9, CapturedAt: now.Add(-time.Hour)},
		{StationCode: "1001", FuelType: "E10", Price: 185.9, CapturedAt: now.Add(-48 * time.Hour)},
	}))

	engine := aggregate.NewEngine(repo)
	engine.SetClock(func() time.Time { return now })

	app := fiber.New()
	feature := NewFeature(engine, zap.NewNop())
	require.NoError(t, feature.Load(app))
	return app, db
}

func getJSON(t *testing.T, app *fiber.App, target string, out any) int {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", target, nil))
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func TestHandleStations(t *testing.T) {
	app, _ := setupTestApp(t)

	var body []map[string]any
	assert.Equal(t, 200, getJSON(t, app, "/api/stations", &body))
	require.Len(t, body, 2)

	assert.Equal(t, "1001", body[0]["code"])
	assert.Equal(t, 189.9, body[0]["display_price"])
	assert.Len(t, body[0]["prices"], 1)

	assert.Equal(t, "1002", body[1]["code"])
	assert.Equal(t, "N/A", body[1]["display_price"])
	assert.Nil(t, body[1]["latitude"])
}

func TestHandleStats(t *testing.T) {
	app, _ := setupTestApp(t)

	var body map[string]any
	assert.Equal(t, 200, getJSON(t, app, "/api/stats", &body))
	assert.Equal(t, "Top 5 Cheapest E10", body["title"])
	assert.Equal(t, float64(2), body["total_records"])
	assert.NotNil(t, body["data_as_of"])

	cheapest := body["cheapest_5"].([]any)
	require.Len(t, cheapest, 2)
	first := cheapest[0].(map[string]any)
	assert.Equal(t, 185.9, first["price"])
	assert.Equal(t, "Shell X", first["station"])
	assert.Equal(t, -33.8, first["lat"])
}

func TestHandleStats_UnknownFuelType(t *testing.T) {
	app, _ := setupTestApp(t)

	var body map[string]any
	assert.Equal(t, 200, getJSON(t, app, "/api/stats?fuel_type=Diesel", &body))
	assert.Equal(t, "Top 5 Cheapest Diesel", body["title"])
	assert.Equal(t, "Diesel", body["fuel_type"])
	assert.Empty(t, body["cheapest_5"])
	assert.Equal(t, float64(2), body["total_records"])
	assert.NotNil(t, body["data_as_of"])
}

func TestHandleHistory(t *testing.T) {
	app, _ := setupTestApp(t)

	var body map[string]any
	assert.Equal(t, 200, getJSON(t, app, "/api/station/1001/history", &body))
	assert.Equal(t, "1001", body["station_code"])

	history := body["history"].([]any)
	require.Len(t, history, 2)
	assert.Equal(t, "2024-05-31 10:00", history[0].(map[string]any)["captured_at"])
	assert.Equal(t, "2024-06-02 09:00", history[1].(map[string]any)["captured_at"])
}

func TestHandlers_StoreFailure(t *testing.T) {
	app, db := setupTestApp(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	for _, target := range []string{"/api/stations", "/api/stats", "/api/station/1001/history"} {
		t.Run(target, func(t *testing.T) {
			var body map[string]any
			assert.Equal(t, 500, getJSON(t, app, target, &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestFeature(t *testing.T) {
	feature := NewFeature(aggregate.NewEngine(nil), zap.NewNop())
	assert.Equal(t, "stations", feature.Name())
	assert.True(t, feature.IsEnabled())
}
