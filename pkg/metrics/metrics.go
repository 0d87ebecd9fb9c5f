// Package metrics provides centralized Prometheus metrics registry for the crawler.
// All metrics are defined in their respective packages (client, pagination, sink,
// confluence) to maintain modularity and avoid circular dependencies.
//
// A crawl is a batch job with no scrape endpoint, so the registry is exported
// to a node_exporter textfile once the run finishes.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the crawler.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the source WriteTextfile reads from.
var Gatherer prometheus.Gatherer = prometheus.DefaultGatherer

// WriteTextfile writes all gathered metrics to path in the Prometheus text format.
// The file is replaced atomically. An empty path is a no-op.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create metrics dir: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, Gatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - crawler_http_requests_total{status} (Counter): Requests by HTTP status
//   - crawler_http_request_duration_seconds (Histogram): Request duration
//   - crawler_http_errors_total{class} (Counter): Failures by class (client, server, network, decode)
//
// Pagination Metrics (pkg/pagination):
//   - crawler_pages_fetched_total{collection} (Counter): Pages fetched per collection
//   - crawler_items_yielded_total{collection} (Counter): Items received per collection
//   - crawler_empty_pages_total{collection} (Counter): Empty pages that still linked onward
//
// Sink Metrics (pkg/sink):
//   - crawler_sink_records_total{sink} (Counter): Records written by sink (writer, redis)
//   - crawler_sink_bytes_total{sink} (Counter): Payload bytes written by sink
//   - crawler_sink_errors_total{sink} (Counter): Sink write errors
//
// Run Metrics (pkg/confluence):
//   - crawler_runs_total{result} (Counter): Runs by result (success, partial, failed)
//   - crawler_run_duration_seconds (Histogram): Run duration
//   - crawler_content_items_total (Counter): Content items processed
//   - crawler_records_emitted_total{media_type} (Counter): Records emitted by media type
//   - crawler_enumeration_failures_total (Counter): Enumerations skipped under continue-on-error
//
// Example Prometheus Queries:
//
//   # Attachments per content item
//   sum(crawler_records_emitted_total) / crawler_content_items_total
//
//   # Failed runs
//   crawler_runs_total{result="failed"}
//
//   # Empty page ratio
//   crawler_empty_pages_total / crawler_pages_fetched_total
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(crawler_http_request_duration_seconds_bucket[5m]))
