// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	MatchingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_runs_total",
			Help: "Total matching runs by scoring path",
		},
		[]string{"path"}, // remote | local
	)

	MatchingFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_remote_fallbacks_total",
			Help: "Matching runs that fell back from remote to local scoring",
		},
	)

	MatchesPersisted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_matches_persisted_total",
			Help: "Match rows upserted across all runs",
		},
	)

	MatchPersistErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_match_persist_errors_total",
			Help: "Match upserts that failed and were skipped",
		},
	)
)
