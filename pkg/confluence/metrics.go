package confluence

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for crawl runs.
var (
	crawlRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crawler_runs_total",
		Help: "Total crawl runs by result",
	}, []string{"result"}) // "success", "partial", "failed"

	crawlRunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "crawler_run_duration_seconds",
		Help:    "Crawl run duration in seconds",
		Buckets: []float64{1, 10, 60, 300, 900, 1800, 3600, 7200},
	})

	contentItemsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crawler_content_items_total",
		Help: "Total content items processed",
	})

	recordsEmittedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crawler_records_emitted_total",
		Help: "Total attachment records emitted by media type",
	}, []string{"media_type"})

	enumerationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crawler_enumeration_failures_total",
		Help: "Attachment enumerations skipped under continue-on-error",
	})
)
