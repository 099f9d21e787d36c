package matching

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func thresholdField(pct string) CanonicalField {
	return CanonicalField{
		Name:                "amount",
		Role:                RoleCompare,
		DataType:            TypeDecimal,
		Comparison:          CompareNumericThreshold,
		ThresholdPercentage: decimal.RequireFromString(pct),
		Required:            true,
	}
}

func TestNumericThresholdWithinTolerance(t *testing.T) {
	f := thresholdField("0.5")

	a := Number(decimal.RequireFromString("100"))
	b := Number(decimal.RequireFromString("100.4999"))

	assert.True(t, FieldMatches(f, a, b))
	assert.True(t, FieldMatches(f, b, a), "tolerance must be symmetric")
}

func TestNumericThresholdOutsideTolerance(t *testing.T) {
	f := thresholdField("0.5")

	a := Number(decimal.RequireFromString("100"))
	b := Number(decimal.RequireFromString("100.6"))

	assert.False(t, FieldMatches(f, a, b))
	assert.False(t, FieldMatches(f, b, a))
}

func TestNumericThresholdBothZero(t *testing.T) {
	f := thresholdField("0")

	assert.True(t, FieldMatches(f, Number(decimal.Zero), Number(decimal.Zero)))
}

func TestNumericThresholdNonNumericValueIsMismatch(t *testing.T) {
	f := thresholdField("0.5")

	// A bad record surfaces as a mismatch, never as a panic or error.
	assert.False(t, FieldMatches(f, String("garbage"), Number(decimal.NewFromInt(100))))
	assert.False(t, FieldMatches(f, Number(decimal.NewFromInt(100)), String("garbage")))
}

func TestNumericThresholdParsesNumericStrings(t *testing.T) {
	f := thresholdField("0.5")

	assert.True(t, FieldMatches(f, String(" 100.25 "), Number(decimal.RequireFromString("100.30"))))
}

func TestExactMatchNumbersIgnoreScale(t *testing.T) {
	f := CanonicalField{Name: "qty", Role: RoleCompare, DataType: TypeDecimal, Comparison: CompareExact, Required: true}

	assert.True(t, FieldMatches(f, Number(decimal.RequireFromString("100")), Number(decimal.RequireFromString("100.00"))))
	assert.False(t, FieldMatches(f, Number(decimal.RequireFromString("100")), Number(decimal.RequireFromString("100.01"))))
}

func TestExactMatchTrimsStrings(t *testing.T) {
	f := CanonicalField{Name: "currency", Role: RoleCompare, DataType: TypeString, Comparison: CompareExact, Required: true}

	assert.True(t, FieldMatches(f, String(" USD"), String("USD ")))
	assert.False(t, FieldMatches(f, String("USD"), String("usd")))
}

func TestCaseInsensitiveStrings(t *testing.T) {
	f := CanonicalField{Name: "desk", Role: RoleCompare, DataType: TypeString, Comparison: CompareCaseInsensitive, Required: true}

	assert.True(t, FieldMatches(f, String("FX Desk"), String(" fx desk ")))
	assert.False(t, FieldMatches(f, String("FX Desk"), String("Rates Desk")))
}

func TestCaseInsensitiveFallsBackForNonStrings(t *testing.T) {
	f := CanonicalField{Name: "qty", Role: RoleCompare, DataType: TypeDecimal, Comparison: CompareCaseInsensitive, Required: true}

	assert.True(t, FieldMatches(f, Number(decimal.NewFromInt(5)), Number(decimal.RequireFromString("5.0"))))
}

func TestNullHandling(t *testing.T) {
	required := CanonicalField{Name: "amount", Role: RoleCompare, Comparison: CompareExact, Required: true}
	optional := CanonicalField{Name: "notes", Role: RoleCompare, Comparison: CompareExact, Required: false}

	// Both null: match only when the field is optional.
	assert.False(t, FieldMatches(required, Null(), Null()))
	assert.True(t, FieldMatches(optional, Null(), Null()))

	// One side null is always a mismatch.
	assert.False(t, FieldMatches(required, String("x"), Null()))
	assert.False(t, FieldMatches(optional, Null(), String("x")))
}
