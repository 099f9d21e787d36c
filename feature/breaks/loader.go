package breaks

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
	db      *gorm.DB
}

// NewFeature creates the breaks feature.
func NewFeature(db *gorm.DB, logger *zap.Logger, activity ActivityRecorder) *Feature {
	svc := NewService(db, logger, activity)
	h := NewHandler(svc, logger)
	return &Feature{service: svc, handler: h, db: db}
}

// Service exposes the workflow service to sibling features.
func (f *Feature) Service() *Service {
	return f.service
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "breaks"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.db != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
