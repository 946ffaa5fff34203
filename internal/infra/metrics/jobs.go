package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(jobTransitionsTotal, jobsByStatus, jobsClaimedTotal) }

var (
	jobTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_job_transitions_total",
			Help: "Total job status transitions, labeled by target status.",
		},
		[]string{"status"}, // 'pending', 'processing', 'completed', 'failed'
	)

	jobsByStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "analysis_jobs_by_status",
			Help: "Current number of live jobs per status.",
		},
		[]string{"status"},
	)

	jobsClaimedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "analysis_jobs_claimed_total",
			Help: "Total jobs claimed from the pending queue.",
		},
	)
)

func IncJobTransition(status string) {
	jobTransitionsTotal.WithLabelValues(norm(status)).Inc()
}

func SetJobsByStatus(pending, processing, completed, failed int) {
	jobsByStatus.WithLabelValues("pending").Set(float64(pending))
	jobsByStatus.WithLabelValues("processing").Set(float64(processing))
	jobsByStatus.WithLabelValues("completed").Set(float64(completed))
	jobsByStatus.WithLabelValues("failed").Set(float64(failed))
}

func IncJobClaimed() {
	jobsClaimedTotal.Inc()
}
