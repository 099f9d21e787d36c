// Package matching implements the dynamic matching engine.
//
// The engine joins one anchor dataset against any number of comparison
// datasets on a canonical key, evaluates every COMPARE field under its
// configured comparison rule, and classifies each discrepancy as a
// break candidate (MISMATCH, SOURCE_MISSING or ANCHOR_MISSING).
//
// # Inputs
//
// A Schema describes the canonical fields of a reconciliation: the KEY
// fields that form the join key, the COMPARE fields with their comparison
// rules, and the CLASSIFIER/PRODUCT fields whose values tag resulting
// breaks for access scoping. Datasets are built by an upstream loader with
// records already normalized and keyed by the concatenated KEY values.
//
// # Purity
//
// Execute is a pure function over immutable inputs. It performs no I/O,
// holds no shared state and is safe to invoke concurrently for
// independent runs. A single run's datasets must not be mutated while
// matching is in progress.
//
// # Usage
//
//	result := matching.Execute(schema, anchor, others)
//	for _, b := range result.Breaks {
//	    // persist b as a break item
//	}
package matching
