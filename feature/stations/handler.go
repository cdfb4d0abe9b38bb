package stations

import (
	"fuel-dashboard/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the map and ranking views.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the read routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	api := app.Group("/api")
	api.Get("/stations", h.HandleStations)
	api.Get("/stats", h.HandleStats)
	api.Get("/station/:code/history", h.HandleHistory)
}

// HandleStations lists stations with their current prices.
// @Summary List Stations
// @Description Returns every station with the prices observed in the last 24 hours and the price to display on the map.
// @Tags stations
// @Produce json
// @Success 200 {array} aggregate.StationView
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /api/stations [get]
func (h *Handler) HandleStations(c *fiber.Ctx) error {
	views, err := h.service.Stations(c.Context())
	if err != nil {
		return h.fail(c, "Station listing failed", err)
	}
	return c.JSON(views)
}

// HandleStats ranks the cheapest observations of a fuel type.
// @Summary Cheapest Prices
// @Description Returns the five cheapest plausible observations of a fuel type with store freshness.
// @Tags stations
// @Produce json
// @Param fuel_type query string false "Fuel type" default(E10)
// @Success 200 {object} aggregate.Ranking
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /api/stats [get]
func (h *Handler) HandleStats(c *fiber.Ctx) error {
	ranking, err := h.service.Stats(c.Context(), c.Query("fuel_type"))
	if err != nil {
		return h.fail(c, "Ranking failed", err)
	}
	return c.JSON(ranking)
}

// HandleHistory returns a station's price history.
// @Summary Station History
// @Description Returns one station's observations from the last 7 days, oldest first.
// @Tags stations
// @Produce json
// @Param code path string true "Station code"
// @Success 200 {object} aggregate.History
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /api/station/{code}/history [get]
func (h *Handler) HandleHistory(c *fiber.Ctx) error {
	history, err := h.service.History(c.Context(), c.Params("code"))
	if err != nil {
		return h.fail(c, "History lookup failed", err)
	}
	return c.JSON(history)
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	logger.WithRayID(h.service.logger, c).Error(msg, zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
