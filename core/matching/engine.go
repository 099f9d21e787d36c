package matching

// Execute joins the anchor dataset against the comparison datasets and
// returns the aggregated matching result.
//
// Every anchor key is checked for presence in each comparison dataset:
// keys missing from one or more sources yield a SOURCE_MISSING candidate,
// keys present everywhere are compared field by field and yield either a
// match or one MISMATCH candidate covering all participating records.
// A second pass over the comparison datasets yields an ANCHOR_MISSING
// candidate for every key the anchor does not hold.
//
// Execute assumes the schema was validated upstream and performs no I/O.
func Execute(schema *Schema, anchor *Dataset, others []*Dataset) MatchingResult {
	result := MatchingResult{Breaks: []BreakCandidate{}}
	compareFields := schema.CompareFields()
	classifierFields := schema.ClassifierFields()

	for _, key := range anchor.Keys() {
		anchorRec, _ := anchor.Get(key)

		missing := make([]string, 0)
		for _, ds := range others {
			if !ds.Has(key) {
				missing = append(missing, ds.SourceCode)
			}
		}

		if len(missing) > 0 {
			result.Missing++
			result.Breaks = append(result.Breaks, BreakCandidate{
				Type:            SourceMissing,
				Key:             key,
				MissingSources:  missing,
				Classifications: classify(classifierFields, anchorRec),
			})
			continue
		}

		if recordsMatch(compareFields, anchorRec, others, key) {
			result.Matched++
			continue
		}

		sources := map[string]Record{anchor.SourceCode: anchorRec}
		for _, ds := range others {
			rec, _ := ds.Get(key)
			sources[ds.SourceCode] = rec
		}

		result.Mismatched++
		result.Breaks = append(result.Breaks, BreakCandidate{
			Type:            Mismatch,
			Key:             key,
			Sources:         sources,
			Classifications: classify(classifierFields, anchorRec),
		})
	}

	// Keys held by a comparison source but not the anchor. Each key is
	// reported once even when several sources hold it; classifications
	// come from the first holder in dataset order.
	seen := make(map[string]struct{})
	for _, ds := range others {
		for _, key := range ds.Keys() {
			if anchor.Has(key) {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			rec, _ := ds.Get(key)
			result.Missing++
			result.Breaks = append(result.Breaks, BreakCandidate{
				Type:            AnchorMissing,
				Key:             key,
				MissingSources:  []string{anchor.SourceCode},
				Classifications: classify(classifierFields, rec),
			})
		}
	}

	return result
}

// recordsMatch evaluates every COMPARE field of the anchor record against
// each comparison source, pairwise against the anchor. The first failing
// field of any source decides the outcome.
func recordsMatch(compareFields []CanonicalField, anchorRec Record, others []*Dataset, key string) bool {
	for _, ds := range others {
		rec, _ := ds.Get(key)
		for _, f := range compareFields {
			if !FieldMatches(f, anchorRec[f.Name], rec[f.Name]) {
				return false
			}
		}
	}
	return true
}

// classify extracts classifier tag/value pairs from a record.
func classify(classifierFields []CanonicalField, rec Record) map[string]string {
	classifications := make(map[string]string, len(classifierFields))
	for _, f := range classifierFields {
		if v, ok := rec[f.Name]; ok && !v.IsNull() {
			classifications[f.Tag()] = v.Canonical()
		}
	}
	return classifications
}
