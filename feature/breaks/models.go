package breaks

import (
	"time"

	"recon-manager/core/matching"
)

// BreakStatus is the workflow state of a break.
type BreakStatus string

const (
	// StatusOpen is the initial state of every detected break.
	StatusOpen BreakStatus = "OPEN"
	// StatusPendingApproval means a maker submitted the break for review.
	StatusPendingApproval BreakStatus = "PENDING_APPROVAL"
	// StatusClosed is terminal: a checker approved the closure.
	StatusClosed BreakStatus = "CLOSED"
	// StatusRejected is terminal: a checker rejected the submission.
	StatusRejected BreakStatus = "REJECTED"
)

// AccessRole is the role granted by an access-control entry.
type AccessRole string

const (
	RoleMaker   AccessRole = "MAKER"
	RoleChecker AccessRole = "CHECKER"
	RoleViewer  AccessRole = "VIEWER"
)

// Actor is the acting principal, resolved by the caller from LDAP.
type Actor struct {
	// Dn is the principal's distinguished name, recorded on audits,
	// comments and submissions.
	Dn string `json:"dn"`
	// DisplayName is the human-readable name, if known.
	DisplayName string `json:"displayName"`
	// Groups are the LDAP group DNs the principal belongs to.
	Groups []string `json:"groups"`
}

// AccessControlEntry grants a role on breaks of a definition, optionally
// scoped by classification dimensions. A nil dimension is a wildcard.
type AccessControlEntry struct {
	ID           uint64     `gorm:"column:id;primaryKey" json:"id"`
	DefinitionID uint64     `gorm:"column:definition_id;index" json:"definitionId"`
	LdapGroupDn  string     `gorm:"column:ldap_group_dn;size:255" json:"ldapGroupDn"`
	Role         AccessRole `gorm:"column:role;size:16" json:"role"`
	Product      *string    `gorm:"column:product;size:128" json:"product"`
	SubProduct   *string    `gorm:"column:sub_product;size:128" json:"subProduct"`
	EntityName   *string    `gorm:"column:entity_name;size:128" json:"entityName"`
}

// TableName overrides the table name.
func (AccessControlEntry) TableName() string {
	return "recon_access_entries"
}

// BreakItem is a persisted break. Its status is mutated only through the
// workflow service; breaks are never deleted.
type BreakItem struct {
	ID            uint64             `gorm:"column:id;primaryKey" json:"id"`
	RunID         uint64             `gorm:"column:run_id;index" json:"runId"`
	DefinitionID  uint64             `gorm:"column:definition_id;index" json:"definitionId"`
	CanonicalKey  string             `gorm:"column:canonical_key;size:512" json:"canonicalKey"`
	Type          matching.BreakType `gorm:"column:break_type;size:32" json:"type"`
	Status        BreakStatus        `gorm:"column:status;size:32;index" json:"status"`

	// Denormalized classification attributes used for access scoping and
	// search. The full tag set lives in ClassificationValues.
	Product    string `gorm:"column:product;size:128" json:"product"`
	SubProduct string `gorm:"column:sub_product;size:128" json:"subProduct"`
	EntityName string `gorm:"column:entity_name;size:128" json:"entityName"`

	// SourcesJSON holds the participating records for mismatches and
	// MissingSources the absent source codes, as JSON.
	SourcesJSON    string `gorm:"column:sources_json;type:json" json:"sourcesJson,omitempty"`
	MissingSources string `gorm:"column:missing_sources;size:512" json:"missingSources,omitempty"`

	// Submission metadata, stamped when a maker submits for approval and
	// cleared when the break returns to OPEN.
	SubmittedByDn    *string    `gorm:"column:submitted_by_dn;size:255" json:"submittedByDn"`
	SubmittedByGroup *string    `gorm:"column:submitted_by_group;size:255" json:"submittedByGroup"`
	SubmittedAt      *time.Time `gorm:"column:submitted_at" json:"submittedAt"`

	DetectedAt time.Time `gorm:"column:detected_at" json:"detectedAt"`
	UpdatedAt  time.Time `gorm:"column:updated_at" json:"updatedAt"`

	ClassificationValues []BreakClassificationValue `gorm:"foreignKey:BreakItemID" json:"classificationValues,omitempty"`
	Audits               []BreakWorkflowAudit       `gorm:"foreignKey:BreakItemID" json:"audits,omitempty"`
	Comments             []BreakComment             `gorm:"foreignKey:BreakItemID" json:"comments,omitempty"`
}

// TableName overrides the table name.
func (BreakItem) TableName() string {
	return "recon_breaks"
}

// BreakClassificationValue is one flattened classifier tag/value pair of
// a break, kept as its own row so breaks are searchable by tag.
type BreakClassificationValue struct {
	ID          uint64 `gorm:"column:id;primaryKey" json:"id"`
	BreakItemID uint64 `gorm:"column:break_item_id;index" json:"breakItemId"`
	Tag         string `gorm:"column:tag;size:64" json:"tag"`
	Value       string `gorm:"column:value;size:255" json:"value"`
}

// TableName overrides the table name.
func (BreakClassificationValue) TableName() string {
	return "recon_break_classifications"
}

// BreakWorkflowAudit is the immutable record of one status transition.
// Audit rows are append-only and are the sole source of truth for who
// approved or rejected what and when.
type BreakWorkflowAudit struct {
	ID             uint64      `gorm:"column:id;primaryKey" json:"id"`
	BreakItemID    uint64      `gorm:"column:break_item_id;index" json:"breakItemId"`
	PreviousStatus BreakStatus `gorm:"column:previous_status;size:32" json:"previousStatus"`
	NewStatus      BreakStatus `gorm:"column:new_status;size:32" json:"newStatus"`
	ActorDn        string      `gorm:"column:actor_dn;size:255" json:"actorDn"`
	ActorRole      AccessRole  `gorm:"column:actor_role;size:16" json:"actorRole"`
	Comment        string      `gorm:"column:comment" json:"comment"`
	CorrelationID  string      `gorm:"column:correlation_id;size:36" json:"correlationId"`
	CreatedAt      time.Time   `gorm:"column:created_at" json:"createdAt"`
}

// TableName overrides the table name.
func (BreakWorkflowAudit) TableName() string {
	return "recon_break_audits"
}

// BreakComment is a free-form comment on a break.
type BreakComment struct {
	ID          uint64    `gorm:"column:id;primaryKey" json:"id"`
	BreakItemID uint64    `gorm:"column:break_item_id;index" json:"breakItemId"`
	ActorDn     string    `gorm:"column:actor_dn;size:255" json:"actorDn"`
	Comment     string    `gorm:"column:comment" json:"comment"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"createdAt"`
}

// TableName overrides the table name.
func (BreakComment) TableName() string {
	return "recon_break_comments"
}
