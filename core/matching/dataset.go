package matching

// Record maps canonical field names to normalized values.
type Record map[string]Value

// Dataset is a per-source, key-indexed view of already-normalized records.
// Keys preserve insertion order so matching output is deterministic for a
// given ingestion order. Datasets are built once per run and must not be
// mutated while matching.
type Dataset struct {
	// SourceCode identifies the source, unique per schema.
	SourceCode string

	// Anchor marks the dataset whose keys define the matching universe.
	Anchor bool

	keys    []string
	records map[string]Record
}

// NewDataset creates an empty dataset for the given source.
func NewDataset(sourceCode string, anchor bool) *Dataset {
	return &Dataset{
		SourceCode: sourceCode,
		Anchor:     anchor,
		records:    make(map[string]Record),
	}
}

// Put indexes a record under the given canonical key. A second record for
// the same key replaces the first without changing its position.
func (d *Dataset) Put(key string, rec Record) {
	if _, exists := d.records[key]; !exists {
		d.keys = append(d.keys, key)
	}
	d.records[key] = rec
}

// Get returns the record for a key, if present.
func (d *Dataset) Get(key string) (Record, bool) {
	rec, ok := d.records[key]
	return rec, ok
}

// Has reports whether a key is present.
func (d *Dataset) Has(key string) bool {
	_, ok := d.records[key]
	return ok
}

// Keys returns all keys in insertion order. The returned slice is shared;
// callers must not modify it.
func (d *Dataset) Keys() []string {
	return d.keys
}

// Len returns the number of indexed records.
func (d *Dataset) Len() int {
	return len(d.records)
}
