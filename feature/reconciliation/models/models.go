package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Definition is an administrator-authored reconciliation definition.
// Authoring/validation happens in an external tool; this service only
// reads definitions.
type Definition struct {
	ID   uint64 `gorm:"column:id;primaryKey" json:"id"`
	Code string `gorm:"column:code;uniqueIndex;size:64" json:"code"`
	Name string `gorm:"column:name" json:"name"`

	// MakerCheckerEnabled selects the four-state maker/checker workflow
	// for this definition's breaks. When disabled, breaks toggle between
	// OPEN and CLOSED directly.
	MakerCheckerEnabled bool `gorm:"column:maker_checker_enabled" json:"makerCheckerEnabled"`

	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`

	Sources []SourceConfig         `gorm:"foreignKey:DefinitionID" json:"sources"`
	Fields  []CanonicalFieldConfig `gorm:"foreignKey:DefinitionID" json:"fields"`
}

// TableName overrides the table name.
func (Definition) TableName() string {
	return "recon_definitions"
}

// SourceConfig is one configured source dataset of a definition.
// Exactly one source per definition carries the anchor flag.
type SourceConfig struct {
	ID           uint64 `gorm:"column:id;primaryKey" json:"id"`
	DefinitionID uint64 `gorm:"column:definition_id;index" json:"definitionId"`
	Code         string `gorm:"column:code;size:64" json:"code"`
	DisplayName  string `gorm:"column:display_name" json:"displayName"`
	Anchor       bool   `gorm:"column:anchor" json:"anchor"`
}

// TableName overrides the table name.
func (SourceConfig) TableName() string {
	return "recon_sources"
}

// CanonicalFieldConfig is the persisted form of one canonical field.
// DisplayOrder preserves the declared field order, which also fixes the
// KEY concatenation order.
type CanonicalFieldConfig struct {
	ID                  uint64          `gorm:"column:id;primaryKey" json:"id"`
	DefinitionID        uint64          `gorm:"column:definition_id;index" json:"definitionId"`
	Name                string          `gorm:"column:name;size:128" json:"name"`
	Role                string          `gorm:"column:role;size:16" json:"role"`
	DataType            string          `gorm:"column:data_type;size:16" json:"dataType"`
	ComparisonLogic     string          `gorm:"column:comparison_logic;size:32" json:"comparisonLogic"`
	ThresholdPercentage decimal.Decimal `gorm:"column:threshold_percentage;type:decimal(10,6)" json:"thresholdPercentage"`
	ClassifierTag       string          `gorm:"column:classifier_tag;size:64" json:"classifierTag"`
	Required            bool            `gorm:"column:required" json:"required"`
	DisplayOrder        int             `gorm:"column:display_order" json:"displayOrder"`
}

// TableName overrides the table name.
func (CanonicalFieldConfig) TableName() string {
	return "recon_canonical_fields"
}

// SourceDataBatch is one delivery of normalized records for a source,
// staged by the ingestion collaborator. Matching always consumes the
// latest complete batch per source.
type SourceDataBatch struct {
	ID           uint64    `gorm:"column:id;primaryKey" json:"id"`
	DefinitionID uint64    `gorm:"column:definition_id;index" json:"definitionId"`
	SourceCode   string    `gorm:"column:source_code;size:64" json:"sourceCode"`
	Status       string    `gorm:"column:status;size:16" json:"status"`
	RecordCount  int       `gorm:"column:record_count" json:"recordCount"`
	IngestedAt   time.Time `gorm:"column:ingested_at" json:"ingestedAt"`
}

// TableName overrides the table name.
func (SourceDataBatch) TableName() string {
	return "recon_source_batches"
}

// Batch statuses written by the ingestion collaborator.
const (
	BatchStatusComplete = "COMPLETE"
	BatchStatusFailed   = "FAILED"
)

// SourceDataRecord is one normalized record of a batch. Payload holds the
// canonical-field-name to raw-value mapping as JSON; values are converted
// to typed canonical values when the matching context is loaded.
type SourceDataRecord struct {
	ID           uint64 `gorm:"column:id;primaryKey" json:"id"`
	BatchID      uint64 `gorm:"column:batch_id;index" json:"batchId"`
	CanonicalKey string `gorm:"column:canonical_key;size:512;index" json:"canonicalKey"`
	Payload      string `gorm:"column:payload;type:json" json:"payload"`
}

// TableName overrides the table name.
func (SourceDataRecord) TableName() string {
	return "recon_source_records"
}

// Run records one execution of the matching engine for a definition.
type Run struct {
	ID            uint64    `gorm:"column:id;primaryKey" json:"id"`
	DefinitionID  uint64    `gorm:"column:definition_id;index" json:"definitionId"`
	CorrelationID string    `gorm:"column:correlation_id;size:36" json:"correlationId"`
	TriggerType   string    `gorm:"column:trigger_type;size:32" json:"triggerType"`
	TriggeredBy   string    `gorm:"column:triggered_by;size:255" json:"triggeredBy"`
	Comments      string    `gorm:"column:comments" json:"comments"`
	Matched       int       `gorm:"column:matched_count" json:"matched"`
	Mismatched    int       `gorm:"column:mismatched_count" json:"mismatched"`
	Missing       int       `gorm:"column:missing_count" json:"missing"`
	SnapshotKey   string    `gorm:"column:snapshot_key;size:512" json:"snapshotKey"`
	RunAt         time.Time `gorm:"column:run_at" json:"runAt"`
}

// TableName overrides the table name.
func (Run) TableName() string {
	return "recon_runs"
}

// Trigger types recorded on runs.
const (
	TriggerManual    = "MANUAL_API"
	TriggerCLI       = "CLI"
	TriggerScheduled = "SCHEDULED_CRON"
)
