package reconciliation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"recon-manager/core/matching"
	"recon-manager/feature/reconciliation/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrDefinitionNotFound signals an unknown definition id.
var ErrDefinitionNotFound = errors.New("definition not found")

// ErrNoAnchorSource signals a definition without an anchor source. The
// authoring tool should prevent this; we refuse to run rather than guess.
var ErrNoAnchorSource = errors.New("definition has no anchor source")

// MatchingContext bundles everything one matching run needs.
type MatchingContext struct {
	Definition *models.Definition
	Schema     *matching.Schema
	Anchor     *matching.Dataset
	Others     []*matching.Dataset
}

// ContextLoader materializes matching contexts from staged batches.
type ContextLoader struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewContextLoader creates a new context loader.
func NewContextLoader(db *gorm.DB, logger *zap.Logger) *ContextLoader {
	return &ContextLoader{db: db, logger: logger}
}

// Load builds the matching context for a definition: the canonical
// schema from its field configs and one dataset per source from the
// latest complete batch. Records arrive already normalized; values are
// converted to typed canonical values here.
func (l *ContextLoader) Load(ctx context.Context, definitionID uint64) (*MatchingContext, error) {
	var def models.Definition
	err := l.db.WithContext(ctx).
		Preload("Sources", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Fields", func(db *gorm.DB) *gorm.DB { return db.Order("display_order ASC") }).
		First(&def, definitionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDefinitionNotFound
		}
		return nil, fmt.Errorf("loading definition %d: %w", definitionID, err)
	}

	schema := buildSchema(&def)

	mc := &MatchingContext{Definition: &def, Schema: schema}
	for _, src := range def.Sources {
		ds, err := l.loadDataset(ctx, &def, schema, src)
		if err != nil {
			return nil, err
		}
		if src.Anchor {
			mc.Anchor = ds
			continue
		}
		mc.Others = append(mc.Others, ds)
	}

	if mc.Anchor == nil {
		return nil, ErrNoAnchorSource
	}
	return mc, nil
}

// buildSchema converts persisted field configs into the engine schema.
func buildSchema(def *models.Definition) *matching.Schema {
	fields := make([]matching.CanonicalField, 0, len(def.Fields))
	for _, fc := range def.Fields {
		fields = append(fields, matching.CanonicalField{
			Name:                fc.Name,
			Role:                matching.FieldRole(fc.Role),
			DataType:            matching.DataType(fc.DataType),
			Comparison:          matching.ComparisonLogic(fc.ComparisonLogic),
			ThresholdPercentage: fc.ThresholdPercentage,
			ClassifierTag:       fc.ClassifierTag,
			Required:            fc.Required,
		})
	}
	return &matching.Schema{Fields: fields}
}

// loadDataset builds one source dataset from the latest complete batch.
// A source with no batch yet yields an empty dataset, which the engine
// reports as missing records rather than an error.
func (l *ContextLoader) loadDataset(ctx context.Context, def *models.Definition, schema *matching.Schema, src models.SourceConfig) (*matching.Dataset, error) {
	ds := matching.NewDataset(src.Code, src.Anchor)

	var batch models.SourceDataBatch
	err := l.db.WithContext(ctx).
		Where("definition_id = ? AND source_code = ? AND status = ?", def.ID, src.Code, models.BatchStatusComplete).
		Order("ingested_at DESC").
		First(&batch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.logger.Warn("No complete batch for source",
				zap.String("definition", def.Code),
				zap.String("source", src.Code),
			)
			return ds, nil
		}
		return nil, fmt.Errorf("loading batch for source %s: %w", src.Code, err)
	}

	var rows []models.SourceDataRecord
	if err := l.db.WithContext(ctx).Where("batch_id = ?", batch.ID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("loading records for source %s: %w", src.Code, err)
	}

	for _, row := range rows {
		rec, err := l.buildRecord(schema, row.Payload)
		if err != nil {
			l.logger.Warn("Skipping unreadable record",
				zap.String("source", src.Code),
				zap.Uint64("record_id", row.ID),
				zap.Error(err),
			)
			continue
		}

		key := row.CanonicalKey
		if key == "" {
			key = schema.BuildKey(rec)
		}
		ds.Put(key, rec)
	}

	return ds, nil
}

// buildRecord converts a raw JSON payload into typed canonical values.
// A value that fails type conversion is kept as its string form so it
// surfaces as a mismatch instead of aborting the run.
func (l *ContextLoader) buildRecord(schema *matching.Schema, payload string) (matching.Record, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, fmt.Errorf("decoding payload: %w", err)
	}

	rec := make(matching.Record, len(schema.Fields))
	for _, f := range schema.Fields {
		rawValue, ok := raw[f.Name]
		if !ok {
			continue
		}
		v, err := matching.Parse(f.DataType, rawValue)
		if err != nil {
			v = matching.String(fmt.Sprint(rawValue))
		}
		rec[f.Name] = v
	}
	return rec, nil
}
