package matching

// BreakType classifies a detected discrepancy.
type BreakType string

const (
	// Mismatch means every source holds the key but at least one COMPARE
	// field failed its comparison rule.
	Mismatch BreakType = "MISMATCH"
	// SourceMissing means the anchor holds the key but one or more
	// comparison sources do not.
	SourceMissing BreakType = "SOURCE_MISSING"
	// AnchorMissing means a comparison source holds a key the anchor
	// does not.
	AnchorMissing BreakType = "ANCHOR_MISSING"
)

// BreakCandidate is one detected discrepancy, not yet persisted.
type BreakCandidate struct {
	// Type classifies the discrepancy.
	Type BreakType `json:"type"`

	// Key is the canonical key the candidate was detected for.
	Key string `json:"key"`

	// Sources maps source code to the full record for that source.
	// Populated only for Mismatch, covering every participating source.
	Sources map[string]Record `json:"sources,omitempty"`

	// MissingSources lists the source codes absent for this key, in
	// dataset order. For AnchorMissing it holds the anchor's code.
	MissingSources []string `json:"missing_sources,omitempty"`

	// Classifications maps classifier tag to value, taken from the
	// anchor's record or, when the anchor is the missing side, from the
	// first source holding the key.
	Classifications map[string]string `json:"classifications"`
}

// MatchingResult aggregates one engine run. It is produced fresh per run
// and never mutated afterward.
type MatchingResult struct {
	// Matched counts anchor keys present in every source with all
	// COMPARE fields passing.
	Matched int `json:"matched"`

	// Mismatched counts anchor keys with at least one failing field.
	Mismatched int `json:"mismatched"`

	// Missing counts keys absent from at least one side, in either
	// direction.
	Missing int `json:"missing"`

	// Breaks holds every detected candidate. Within a break type,
	// iteration order follows the originating dataset's key order.
	Breaks []BreakCandidate `json:"breaks"`
}
