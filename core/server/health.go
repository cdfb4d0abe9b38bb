package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// WelcomeMessage is reported by the liveness route.
const WelcomeMessage = "Welcome to Fuel Dashboard API"

// Health is the liveness response body.
type Health struct {
	Status  string    `json:"status"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// HealthHandler serves the liveness check.
type HealthHandler struct {
	now func() time.Time
}

// NewHealthHandler creates a liveness handler using now as its clock.
func NewHealthHandler(now func() time.Time) *HealthHandler {
	if now == nil {
		now = time.Now
	}
	return &HealthHandler{now: now}
}

// RegisterRoutes registers the liveness route.
func (h *HealthHandler) RegisterRoutes(app fiber.Router) {
	app.Get("/", h.HandleHealth)
}

// HandleHealth reports that the API is up.
// @Summary Liveness
// @Description Reports that the API process is serving requests.
// @Tags health
// @Produce json
// @Success 200 {object} server.Health
// @Router / [get]
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(Health{
		Status:  "online",
		Message: WelcomeMessage,
		Time:    h.now(),
	})
}
