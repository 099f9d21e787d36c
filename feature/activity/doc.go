// Package activity records and serves the system activity log.
//
// Run triggers, break status changes, comments and bulk actions are
// recorded as activity events by the other features and exposed
// read-only over HTTP for audit dashboards.
package activity
