package etl

import (
	"github.com/gofiber/fiber/v2"
)

// Handler serves the pipeline status route.
type Handler struct {
	pipeline *Pipeline
}

// NewHandler creates a new HTTP handler.
func NewHandler(pipeline *Pipeline) *Handler {
	return &Handler{pipeline: pipeline}
}

// RegisterRoutes registers the etl routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/api/etl/status", h.HandleStatus)
}

// HandleStatus reports the most recent pipeline run.
// @Summary Pipeline Status
// @Description Returns the outcome of the most recent ingestion run in this process.
// @Tags etl
// @Produce json
// @Success 200 {object} etl.Report
// @Router /api/etl/status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(h.pipeline.LastReport())
}
