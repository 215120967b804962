// Package prometheus adapts Manager metrics to a prometheus.Collector.
//
// Register the collector on any registry, or call Handler for a ready-made
// scrape endpoint backed by a private registry.
package prometheus
