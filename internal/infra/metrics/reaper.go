package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(staleJobsReapedTotal) }

var staleJobsReapedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "stale_jobs_reaped_total",
		Help: "Stale processing jobs handled by the reaper, labeled by outcome.",
	},
	[]string{"outcome"}, // 'requeued', 'failed'
)

func AddStaleJobsReaped(outcome string, n int64) {
	staleJobsReapedTotal.WithLabelValues(norm(outcome)).Add(float64(n))
}
