package record

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rowsWrittenCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "broadside_record_rows_written_total",
		Help: "Rows written to the battle log, by table.",
	}, []string{"table"})
	flushErrorsCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "broadside_record_flush_errors_total",
		Help: "Battle log flushes that failed.",
	})
	flushDurationHistogram = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "broadside_record_flush_duration_seconds",
		Help:    "Time taken to write queued battle log rows.",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	})
)
