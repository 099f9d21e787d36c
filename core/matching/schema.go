package matching

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FieldRole determines how a canonical field participates in matching.
type FieldRole string

const (
	// RoleKey marks a field as part of the join key.
	RoleKey FieldRole = "KEY"
	// RoleCompare marks a field for value comparison between sources.
	RoleCompare FieldRole = "COMPARE"
	// RoleClassifier marks a field whose value tags resulting breaks.
	RoleClassifier FieldRole = "CLASSIFIER"
	// RoleProduct is a classifier with the reserved "product" tag.
	RoleProduct FieldRole = "PRODUCT"
)

// DataType is the canonical type of a field's normalized values.
type DataType string

const (
	TypeString   DataType = "STRING"
	TypeInteger  DataType = "INTEGER"
	TypeDecimal  DataType = "DECIMAL"
	TypeDate     DataType = "DATE"
	TypeDatetime DataType = "DATETIME"
	TypeBoolean  DataType = "BOOLEAN"
)

// ComparisonLogic selects the rule applied to a COMPARE field.
type ComparisonLogic string

const (
	// CompareExact matches values after canonical-type normalization.
	CompareExact ComparisonLogic = "EXACT_MATCH"
	// CompareCaseInsensitive matches strings ignoring case and surrounding
	// whitespace; non-string types fall back to CompareExact.
	CompareCaseInsensitive ComparisonLogic = "CASE_INSENSITIVE"
	// CompareNumericThreshold matches numbers within a relative tolerance.
	CompareNumericThreshold ComparisonLogic = "NUMERIC_THRESHOLD"
)

// KeyDelimiter joins KEY field values into a canonical key string.
// It must not appear in any key field value.
const KeyDelimiter = "|"

// CanonicalField is one administrator-defined field of a schema.
type CanonicalField struct {
	// Name is unique within a schema.
	Name string

	// Role determines the field's part in matching.
	Role FieldRole

	// DataType is the canonical type of the field's values.
	DataType DataType

	// Comparison is the rule applied when Role is COMPARE.
	Comparison ComparisonLogic

	// ThresholdPercentage is the relative tolerance for
	// CompareNumericThreshold, expressed as a percentage.
	ThresholdPercentage decimal.Decimal

	// ClassifierTag overrides the tag under which this field's value is
	// attached to breaks. Only meaningful for CLASSIFIER/PRODUCT roles.
	ClassifierTag string

	// Required controls null handling: a required field with a value on
	// only one side is a mismatch; an optional field null on both sides
	// is a match.
	Required bool
}

// Tag returns the classification tag for this field: the explicit
// ClassifierTag if set, "product" for PRODUCT fields, the field name
// otherwise.
func (f CanonicalField) Tag() string {
	if f.ClassifierTag != "" {
		return f.ClassifierTag
	}
	if f.Role == RoleProduct {
		return "product"
	}
	return f.Name
}

// Schema is the static description of a reconciliation: its ordered
// canonical fields. The engine assumes the schema was validated upstream
// (at least one KEY field, unique names) and does not re-check.
type Schema struct {
	// Fields holds the canonical fields in declared order.
	Fields []CanonicalField
}

// KeyFields returns the fields with role KEY, in declared order.
func (s *Schema) KeyFields() []CanonicalField {
	return s.fieldsByRole(RoleKey)
}

// CompareFields returns the fields with role COMPARE, in declared order.
func (s *Schema) CompareFields() []CanonicalField {
	return s.fieldsByRole(RoleCompare)
}

// ClassifierFields returns the fields with role CLASSIFIER or PRODUCT,
// in declared order.
func (s *Schema) ClassifierFields() []CanonicalField {
	fields := make([]CanonicalField, 0)
	for _, f := range s.Fields {
		if f.Role == RoleClassifier || f.Role == RoleProduct {
			fields = append(fields, f)
		}
	}
	return fields
}

func (s *Schema) fieldsByRole(role FieldRole) []CanonicalField {
	fields := make([]CanonicalField, 0)
	for _, f := range s.Fields {
		if f.Role == role {
			fields = append(fields, f)
		}
	}
	return fields
}

// BuildKey concatenates the record's KEY field values in declared order
// using KeyDelimiter. Loaders use this to key datasets consistently.
func (s *Schema) BuildKey(rec Record) string {
	parts := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f.Role != RoleKey {
			continue
		}
		parts = append(parts, rec[f.Name].Canonical())
	}
	return strings.Join(parts, KeyDelimiter)
}
