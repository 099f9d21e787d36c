package reconciliation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"recon-manager/core/matching"
	"recon-manager/core/metrics"
	"recon-manager/feature/breaks"
	"recon-manager/feature/reconciliation/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Classification tags with a denormalized column on break rows. Breaks
// are scoped and searched by these three dimensions.
const (
	TagProduct    = "product"
	TagSubProduct = "subProduct"
	TagEntityName = "entityName"
)

// ActivityRecorder receives run events for the system activity log.
type ActivityRecorder interface {
	Record(ctx context.Context, eventType, details string)
}

// Service orchestrates matching runs for definitions.
type Service struct {
	db       *gorm.DB
	logger   *zap.Logger
	cache    *contextCache
	archiver *Archiver
	activity ActivityRecorder
}

// NewService creates the run orchestration service. archiver and
// activity may be nil.
func NewService(db *gorm.DB, logger *zap.Logger, archiver *Archiver, activity ActivityRecorder, cacheTTL time.Duration) *Service {
	return &Service{
		db:       db,
		logger:   logger,
		cache:    newContextCache(NewContextLoader(db, logger), cacheTTL),
		archiver: archiver,
		activity: activity,
	}
}

// RunSummary is the API view of a completed run.
type RunSummary struct {
	Run        *models.Run `json:"run"`
	Matched    int         `json:"matched"`
	Mismatched int         `json:"mismatched"`
	Missing    int         `json:"missing"`
	BreakCount int         `json:"breakCount"`
}

// Preview executes the engine for a definition without persisting
// anything. Used by the CLI dry-run mode.
func (s *Service) Preview(ctx context.Context, definitionID uint64) (*matching.MatchingResult, error) {
	mc, err := s.cache.get(ctx, definitionID)
	if err != nil {
		return nil, err
	}
	result := matching.Execute(mc.Schema, mc.Anchor, mc.Others)
	return &result, nil
}

// TriggerRun loads the matching context, executes the engine and
// persists the run together with one break item per candidate. The run
// row and all break rows commit atomically; snapshot archiving is
// best-effort afterwards.
func (s *Service) TriggerRun(ctx context.Context, definitionID uint64, triggerType, triggeredBy, comments string) (*RunSummary, error) {
	start := time.Now()

	mc, err := s.cache.get(ctx, definitionID)
	if err != nil {
		return nil, err
	}

	result := matching.Execute(mc.Schema, mc.Anchor, mc.Others)

	run := &models.Run{
		DefinitionID:  definitionID,
		CorrelationID: uuid.NewString(),
		TriggerType:   triggerType,
		TriggeredBy:   triggeredBy,
		Comments:      comments,
		Matched:       result.Matched,
		Mismatched:    result.Mismatched,
		Missing:       result.Missing,
		RunAt:         start,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return fmt.Errorf("persisting run: %w", err)
		}
		return s.persistBreaks(tx, run, result.Breaks)
	})
	if err != nil {
		return nil, err
	}

	if s.archiver != nil {
		key, archiveErr := s.archiver.ArchiveRun(ctx, mc.Definition, run, &result)
		if archiveErr != nil {
			s.logger.Warn("Run snapshot archiving failed",
				zap.Uint64("run_id", run.ID),
				zap.Error(archiveErr),
			)
		} else {
			run.SnapshotKey = key
			if err := s.db.WithContext(ctx).Model(run).Update("snapshot_key", key).Error; err != nil {
				s.logger.Warn("Failed to store snapshot key", zap.Error(err))
			}
		}
	}

	metrics.RunsTotal.WithLabelValues(triggerType).Inc()
	metrics.RunDuration.Observe(time.Since(start).Seconds())
	for _, b := range result.Breaks {
		metrics.BreaksDetected.WithLabelValues(string(b.Type)).Inc()
	}

	s.logger.Info("Matching run completed",
		zap.String("definition", mc.Definition.Code),
		zap.Uint64("run_id", run.ID),
		zap.Int("matched", result.Matched),
		zap.Int("mismatched", result.Mismatched),
		zap.Int("missing", result.Missing),
	)
	if s.activity != nil {
		s.activity.Record(ctx, "RECONCILIATION_RUN",
			fmt.Sprintf("run %d for %s by %s: %d breaks", run.ID, mc.Definition.Code, triggeredBy, len(result.Breaks)))
	}

	return &RunSummary{
		Run:        run,
		Matched:    result.Matched,
		Mismatched: result.Mismatched,
		Missing:    result.Missing,
		BreakCount: len(result.Breaks),
	}, nil
}

// persistBreaks turns each candidate into a break item, denormalizing
// the three scoping classifications onto the row and flattening the full
// tag set into classification value rows.
func (s *Service) persistBreaks(tx *gorm.DB, run *models.Run, candidates []matching.BreakCandidate) error {
	now := time.Now()
	for _, candidate := range candidates {
		item := breaks.BreakItem{
			RunID:          run.ID,
			DefinitionID:   run.DefinitionID,
			CanonicalKey:   candidate.Key,
			Type:           candidate.Type,
			Status:         breaks.StatusOpen,
			Product:        candidate.Classifications[TagProduct],
			SubProduct:     candidate.Classifications[TagSubProduct],
			EntityName:     candidate.Classifications[TagEntityName],
			MissingSources: strings.Join(candidate.MissingSources, ","),
			DetectedAt:     now,
			UpdatedAt:      now,
		}

		if len(candidate.Sources) > 0 {
			payload, err := json.Marshal(sourcesView(candidate.Sources))
			if err != nil {
				return fmt.Errorf("encoding break sources: %w", err)
			}
			item.SourcesJSON = string(payload)
		}

		if err := tx.Create(&item).Error; err != nil {
			return fmt.Errorf("persisting break for key %s: %w", candidate.Key, err)
		}

		for tag, value := range candidate.Classifications {
			cv := breaks.BreakClassificationValue{
				BreakItemID: item.ID,
				Tag:         tag,
				Value:       value,
			}
			if err := tx.Create(&cv).Error; err != nil {
				return fmt.Errorf("persisting classification %s: %w", tag, err)
			}
		}
	}
	return nil
}

// sourcesView renders records as canonical strings for storage.
func sourcesView(sources map[string]matching.Record) map[string]map[string]string {
	view := make(map[string]map[string]string, len(sources))
	for code, rec := range sources {
		fields := make(map[string]string, len(rec))
		for name, value := range rec {
			fields[name] = value.Canonical()
		}
		view[code] = fields
	}
	return view
}

// ListRuns returns the latest runs of a definition, newest first.
func (s *Service) ListRuns(ctx context.Context, definitionID uint64, limit int) ([]models.Run, error) {
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	var runs []models.Run
	err := s.db.WithContext(ctx).
		Where("definition_id = ?", definitionID).
		Order("run_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, err
	}
	return runs, nil
}

// InvalidateContext drops the cached matching context for a definition,
// forcing the next run to reload staged batches.
func (s *Service) InvalidateContext(definitionID uint64) {
	s.cache.invalidate(definitionID)
}
