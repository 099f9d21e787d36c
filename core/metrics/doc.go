// Package metrics holds the Prometheus collectors for the service.
//
// Collectors are registered on the default registry at init time and
// exposed over HTTP via the /metrics endpoint wired in the start command.
package metrics
