package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpsertDuration tracks the end-to-end latency of one upsert, lookup and write included
	// Buckets are wide because retries back off in multiples of seconds
	UpsertDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "baserow_upsert_duration_seconds",
		Help:    "Time taken to upsert a single row, retries included",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
	}, []string{"status", "action", "table"})

	// UpsertsTotal tracks the result of each upsert
	UpsertsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "baserow_upserts_total",
		Help: "Total number of upserts by outcome",
	}, []string{"status", "table"}) // status: created, updated, schema_error, validation_error, integrity_error, transient_error, error

	// Retries tracks how many times a remote call was retried after a transient failure
	Retries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "baserow_retries_total",
		Help: "Number of retries triggered by transient Baserow failures",
	}, []string{"operation"})

	// SchemaFetches counts schema catalog fetches against the remote service
	SchemaFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "baserow_schema_fetches_total",
		Help: "Number of schema catalog fetches",
	}, []string{"status"})
)
