package etl

import (
	"github.com/gofiber/fiber/v2"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	pipeline *Pipeline
	handler  *Handler
}

// NewFeature exposes the status of pipeline.
func NewFeature(pipeline *Pipeline) *Feature {
	return &Feature{pipeline: pipeline, handler: NewHandler(pipeline)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "etl"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.pipeline != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
