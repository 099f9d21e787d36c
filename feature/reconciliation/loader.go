package reconciliation

import (
	"time"

	"recon-manager/core/storage"

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

// NewFeature creates the reconciliation feature. client may be nil to
// disable snapshot archiving.
func NewFeature(db *gorm.DB, client storage.Client, bucket string, logger *zap.Logger, activity ActivityRecorder, cacheTTL time.Duration) *Feature {
	var archiver *Archiver
	if client != nil {
		archiver = NewArchiver(client, bucket)
	}
	svc := NewService(db, logger, archiver, activity, cacheTTL)
	h := NewHandler(svc, logger)
	return &Feature{service: svc, handler: h, db: db}
}

// Service exposes the run orchestrator, used by the CLI run command.
func (f *Feature) Service() *Service {
	return f.service
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "reconciliation"
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
