// Package models contains the persisted entities for reconciliation
// definitions, staged source data and runs.
//
// A Definition is the administrator-authored description of one
// reconciliation: its sources, canonical fields and workflow settings.
// Staged batches hold the already-normalized records an ingestion
// collaborator delivered for each source; a Run records one execution of
// the matching engine over the latest batches.
package models
