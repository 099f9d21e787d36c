package matching

import (
	"strings"

	"github.com/shopspring/decimal"
)

// one hundred, used to scale threshold percentages.
var hundred = decimal.NewFromInt(100)

// FieldMatches evaluates one COMPARE field between two values under the
// field's comparison rule. Null values short-circuit: both sides null is
// a match only for optional fields, one side null is always a mismatch.
func FieldMatches(f CanonicalField, a, b Value) bool {
	if a.IsNull() || b.IsNull() {
		if a.IsNull() && b.IsNull() {
			return !f.Required
		}
		return false
	}

	switch f.Comparison {
	case CompareCaseInsensitive:
		return equalFold(a, b)
	case CompareNumericThreshold:
		return withinThreshold(a, b, f.ThresholdPercentage)
	default:
		return equalExact(a, b)
	}
}

// equalExact compares after canonical-type normalization: numbers are
// scale-independent, strings are trimmed, dates compare by instant.
func equalExact(a, b Value) bool {
	if an, ok := a.Numeric(); ok {
		if bn, ok := b.Numeric(); ok {
			return an.Equal(bn)
		}
	}
	if a.Kind == KindTime && b.Kind == KindTime {
		return a.Time.Equal(b.Time)
	}
	if a.Kind == KindBool && b.Kind == KindBool {
		return a.Bool == b.Bool
	}
	return a.Canonical() == b.Canonical()
}

// equalFold compares strings ignoring case and surrounding whitespace.
// Non-string pairs fall back to exact comparison.
func equalFold(a, b Value) bool {
	if a.Kind == KindString && b.Kind == KindString {
		return strings.EqualFold(strings.TrimSpace(a.Str), strings.TrimSpace(b.Str))
	}
	return equalExact(a, b)
}

// withinThreshold matches two numeric values under a symmetric relative
// tolerance: |a-b| / max(|a|,|b|) <= pct/100. Both sides zero is a match.
// A non-numeric value is a data error surfaced as a mismatch so one bad
// record cannot abort the run.
func withinThreshold(a, b Value, pct decimal.Decimal) bool {
	an, ok := a.Numeric()
	if !ok {
		return false
	}
	bn, ok := b.Numeric()
	if !ok {
		return false
	}

	denom := decimal.Max(an.Abs(), bn.Abs())
	if denom.IsZero() {
		return true
	}

	ratio := an.Sub(bn).Abs().Div(denom)
	return ratio.LessThanOrEqual(pct.Div(hundred))
}
