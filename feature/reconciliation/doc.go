// Package reconciliation orchestrates matching runs.
//
// A run loads the matching context for a definition (canonical schema
// plus one dataset per source, built from the latest staged batches),
// executes the matching engine, persists the run and every break
// candidate, and archives a JSON snapshot of the result to object
// storage.
//
// Contexts are cached with a TTL and singleflight so concurrent run
// triggers and previews for the same definition do not rebuild the
// datasets in parallel. Persistence of breaks is serialized per run by
// the surrounding database transaction.
package reconciliation
