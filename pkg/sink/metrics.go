package sink

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// recordsWrittenTotal tracks records accepted by a sink
	recordsWrittenTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawler_sink_records_total",
			Help: "Total number of records written by sink",
		},
		[]string{"sink"}, // "writer", "redis"
	)

	// sinkBytesTotal tracks payload bytes pushed to Redis
	sinkBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawler_sink_bytes_total",
			Help: "Total payload bytes written by sink",
		},
		[]string{"sink"},
	)

	// sinkErrorsTotal tracks failed writes
	sinkErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawler_sink_errors_total",
			Help: "Total number of sink write errors",
		},
		[]string{"sink"},
	)
)
