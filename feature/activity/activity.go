package activity

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Event is one persisted activity log entry.
type Event struct {
	ID         uint64    `gorm:"column:id;primaryKey" json:"id"`
	EventType  string    `gorm:"column:event_type;size:64;index" json:"eventType"`
	Details    string    `gorm:"column:details" json:"details"`
	RecordedAt time.Time `gorm:"column:recorded_at;index" json:"recordedAt"`
}

// TableName overrides the table name.
func (Event) TableName() string {
	return "recon_activity_events"
}

// Service records and lists activity events.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new activity service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Record persists one activity event. Recording is best-effort: a failed
// write is logged and never fails the operation that produced the event.
func (s *Service) Record(ctx context.Context, eventType, details string) {
	event := Event{
		EventType:  eventType,
		Details:    details,
		RecordedAt: time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&event).Error; err != nil {
		s.logger.Warn("Failed to record activity event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

// Recent returns the newest events, newest first, capped at limit.
func (s *Service) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	var events []Event
	err := s.db.WithContext(ctx).
		Order("recorded_at DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
