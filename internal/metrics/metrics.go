// Package metrics declares the Prometheus instrumentation of the catalog.
// All metrics are prefixed with "catalog_" and registered on the default
// registry, which the HTTP server exposes at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Job metrics
var (
	JobsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_jobs_started_total",
			Help: "Total number of jobs moved to running, by action",
		},
		[]string{"action"},
	)

	JobsFinished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_jobs_finished_total",
			Help: "Total number of jobs that reached a terminal status, by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	JobTasksAdvanced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_job_tasks_advanced_total",
			Help: "Total number of job tasks reported complete, by action",
		},
		[]string{"action"},
	)

	JobsRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_jobs_running",
			Help: "Number of job runners currently executing in this process",
		},
	)
)

// Index metrics
var (
	FilesUpserted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_files_upserted_total",
			Help: "Total number of file upserts, by result (inserted, updated)",
		},
		[]string{"result"},
	)

	FilesMoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_files_moved_total",
			Help: "Total number of files moved or renamed in the index",
		},
	)

	FilesRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_files_removed_total",
			Help: "Total number of file rows removed by reconciliation",
		},
	)

	ChecksumsComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_checksums_computed_total",
			Help: "Total number of checksums computed, by tier and status",
		},
		[]string{"tier", "status"},
	)

	ScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_scan_duration_seconds",
			Help:    "Duration of location scans in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300, 900, 3600},
		},
	)
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	EventSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_event_subscribers",
			Help: "Number of connected progress event subscribers",
		},
	)
)
