package matching

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tradeSchema() *Schema {
	return &Schema{Fields: []CanonicalField{
		{Name: "tradeId", Role: RoleKey, DataType: TypeString},
		{Name: "amount", Role: RoleCompare, DataType: TypeDecimal, Comparison: CompareNumericThreshold, ThresholdPercentage: decimal.RequireFromString("0.5"), Required: true},
		{Name: "currency", Role: RoleCompare, DataType: TypeString, Comparison: CompareCaseInsensitive, Required: true},
		{Name: "product", Role: RoleProduct, DataType: TypeString},
		{Name: "entity", Role: RoleClassifier, DataType: TypeString, ClassifierTag: "entityName"},
	}}
}

func tradeRecord(amount, currency, product, entity string) Record {
	return Record{
		"amount":   Number(decimal.RequireFromString(amount)),
		"currency": String(currency),
		"product":  String(product),
		"entity":   String(entity),
	}
}

func TestExecuteCashVersusLedger(t *testing.T) {
	schema := tradeSchema()

	cash := NewDataset("CASH", true)
	cash.Put("T1", tradeRecord("100", "USD", "Payments", "EU"))
	cash.Put("T2", tradeRecord("250", "EUR", "Payments", "EU"))
	cash.Put("T3", tradeRecord("75", "GBP", "FX", "UK"))

	ledger := NewDataset("GL", false)
	ledger.Put("T1", tradeRecord("100.25", "usd", "Payments", "EU"))
	ledger.Put("T2", tradeRecord("260", "EUR", "Payments", "EU"))
	ledger.Put("T4", tradeRecord("10", "JPY", "Rates", "JP"))

	result := Execute(schema, cash, []*Dataset{ledger})

	assert.Equal(t, 1, result.Matched)
	assert.Equal(t, 1, result.Mismatched)
	assert.Equal(t, 2, result.Missing)
	require.Len(t, result.Breaks, 3)

	byKey := make(map[string]BreakCandidate)
	for _, b := range result.Breaks {
		byKey[b.Key] = b
	}

	mismatch := byKey["T2"]
	assert.Equal(t, Mismatch, mismatch.Type)
	require.Contains(t, mismatch.Sources, "CASH")
	require.Contains(t, mismatch.Sources, "GL")
	assert.Equal(t, "Payments", mismatch.Classifications["product"])
	assert.Equal(t, "EU", mismatch.Classifications["entityName"])

	sourceMissing := byKey["T3"]
	assert.Equal(t, SourceMissing, sourceMissing.Type)
	assert.Equal(t, []string{"GL"}, sourceMissing.MissingSources)
	assert.Equal(t, "FX", sourceMissing.Classifications["product"])

	anchorMissing := byKey["T4"]
	assert.Equal(t, AnchorMissing, anchorMissing.Type)
	assert.Equal(t, []string{"CASH"}, anchorMissing.MissingSources)
	assert.Equal(t, "Rates", anchorMissing.Classifications["product"], "classifications come from the holding source")
}

func TestExecuteAllMatched(t *testing.T) {
	schema := tradeSchema()

	cash := NewDataset("CASH", true)
	cash.Put("T1", tradeRecord("100", "USD", "Payments", "EU"))

	ledger := NewDataset("GL", false)
	ledger.Put("T1", tradeRecord("100.4999", "USD", "Payments", "EU"))

	result := Execute(schema, cash, []*Dataset{ledger})

	assert.Equal(t, 1, result.Matched)
	assert.Zero(t, result.Mismatched)
	assert.Zero(t, result.Missing)
	assert.Empty(t, result.Breaks)
}

func TestExecuteMissingSubsetOfSources(t *testing.T) {
	schema := tradeSchema()

	cash := NewDataset("CASH", true)
	cash.Put("T1", tradeRecord("100", "USD", "Payments", "EU"))

	ledger := NewDataset("GL", false)
	ledger.Put("T1", tradeRecord("100", "USD", "Payments", "EU"))

	custody := NewDataset("CUSTODY", false)

	result := Execute(schema, cash, []*Dataset{ledger, custody})

	require.Len(t, result.Breaks, 1)
	b := result.Breaks[0]
	assert.Equal(t, SourceMissing, b.Type)
	assert.Equal(t, []string{"CUSTODY"}, b.MissingSources)
	assert.Equal(t, 1, result.Missing)
	assert.Zero(t, result.Matched)
}

func TestExecuteAnchorMissingReportedOncePerKey(t *testing.T) {
	schema := tradeSchema()

	cash := NewDataset("CASH", true)

	ledger := NewDataset("GL", false)
	ledger.Put("T9", tradeRecord("5", "USD", "Payments", "EU"))

	custody := NewDataset("CUSTODY", false)
	custody.Put("T9", tradeRecord("5", "USD", "FX", "UK"))

	result := Execute(schema, cash, []*Dataset{ledger, custody})

	require.Len(t, result.Breaks, 1)
	b := result.Breaks[0]
	assert.Equal(t, AnchorMissing, b.Type)
	assert.Equal(t, []string{"CASH"}, b.MissingSources)
	// First dataset holding the key supplies the classifications.
	assert.Equal(t, "Payments", b.Classifications["product"])
}

func TestExecuteCountsCoverEveryDistinctKey(t *testing.T) {
	schema := tradeSchema()

	cash := NewDataset("CASH", true)
	cash.Put("T1", tradeRecord("1", "USD", "Payments", "EU"))
	cash.Put("T2", tradeRecord("2", "USD", "Payments", "EU"))
	cash.Put("T3", tradeRecord("3", "USD", "Payments", "EU"))

	ledger := NewDataset("GL", false)
	ledger.Put("T1", tradeRecord("1", "USD", "Payments", "EU"))
	ledger.Put("T2", tradeRecord("99", "USD", "Payments", "EU"))
	ledger.Put("T4", tradeRecord("4", "USD", "Payments", "EU"))
	ledger.Put("T5", tradeRecord("5", "USD", "Payments", "EU"))

	result := Execute(schema, cash, []*Dataset{ledger})

	distinct := map[string]struct{}{}
	for _, key := range cash.Keys() {
		distinct[key] = struct{}{}
	}
	for _, key := range ledger.Keys() {
		distinct[key] = struct{}{}
	}

	assert.Equal(t, len(distinct), result.Matched+result.Mismatched+result.Missing)
}

func TestExecutePreservesAnchorOrderWithinCategory(t *testing.T) {
	schema := tradeSchema()

	cash := NewDataset("CASH", true)
	cash.Put("T3", tradeRecord("1", "USD", "Payments", "EU"))
	cash.Put("T1", tradeRecord("2", "USD", "Payments", "EU"))
	cash.Put("T2", tradeRecord("3", "USD", "Payments", "EU"))

	ledger := NewDataset("GL", false)

	result := Execute(schema, cash, []*Dataset{ledger})

	keys := make([]string, 0, len(result.Breaks))
	for _, b := range result.Breaks {
		keys = append(keys, b.Key)
	}
	assert.Equal(t, []string{"T3", "T1", "T2"}, keys)
}

func TestBuildKeyJoinsKeyFieldsInOrder(t *testing.T) {
	schema := &Schema{Fields: []CanonicalField{
		{Name: "tradeId", Role: RoleKey, DataType: TypeString},
		{Name: "leg", Role: RoleKey, DataType: TypeInteger},
		{Name: "amount", Role: RoleCompare, DataType: TypeDecimal, Comparison: CompareExact},
	}}

	rec := Record{
		"tradeId": String("T1"),
		"leg":     Number(decimal.NewFromInt(2)),
	}

	assert.Equal(t, "T1|2", schema.BuildKey(rec))
}
