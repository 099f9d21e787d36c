package loader_test

import (
	"errors"
	"testing"

	"recon-manager/core/loader"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubFeature struct {
	name    string
	enabled bool
	loadErr error
	loaded  bool
}

func (s *stubFeature) Name() string    { return s.name }
func (s *stubFeature) IsEnabled() bool { return s.enabled }
func (s *stubFeature) Load(fiber.Router) error {
	s.loaded = true
	return s.loadErr
}

func TestManager_LoadAll(t *testing.T) {
	app := fiber.New()

	t.Run("Loads Enabled Skips Disabled", func(t *testing.T) {
		m := loader.NewManager(zap.NewNop())
		enabled := &stubFeature{name: "breaks", enabled: true}
		disabled := &stubFeature{name: "activity", enabled: false}
		m.Register(enabled)
		m.Register(disabled)

		err := m.LoadAll(app)
		assert.NoError(t, err)
		assert.True(t, enabled.loaded)
		assert.False(t, disabled.loaded)
	})

	t.Run("Propagates Load Error", func(t *testing.T) {
		m := loader.NewManager(zap.NewNop())
		m.Register(&stubFeature{name: "broken", enabled: true, loadErr: errors.New("boom")})

		err := m.LoadAll(app)
		assert.Error(t, err)
	})
}
