package loader

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubFeature struct {
	name    string
	enabled bool
	err     error
	loaded  bool
}

func (s *stubFeature) Name() string    { return s.name }
func (s *stubFeature) IsEnabled() bool { return s.enabled }
func (s *stubFeature) Load(fiber.Router) error {
	s.loaded = true
	return s.err
}

func TestManager_LoadAll(t *testing.T) {
	on := &stubFeature{name: "stations", enabled: true}
	off := &stubFeature{name: "etl", enabled: false}

	mgr := NewManager(zap.NewNop())
	mgr.Register(on)
	mgr.Register(off)

	assert.Len(t, mgr.Features(), 2)
	assert.NoError(t, mgr.LoadAll(fiber.New()))
	assert.True(t, on.loaded)
	assert.False(t, off.loaded)
}

func TestManager_LoadAllStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	first := &stubFeature{name: "first", enabled: true, err: boom}
	second := &stubFeature{name: "second", enabled: true}

	mgr := NewManager(zap.NewNop())
	mgr.Register(first)
	mgr.Register(second)

	err := mgr.LoadAll(fiber.New())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "first")
	assert.False(t, second.loaded)
}
