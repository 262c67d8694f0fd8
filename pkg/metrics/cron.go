// Package metrics exposes Prometheus instruments for the background workers.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const jobLabel = "job"

// CronJobMetrics records outcomes for scheduled jobs. The zero value is a
// no-op, which lets tests and one-off tooling skip registration entirely.
type CronJobMetrics struct {
	duration  *prometheus.HistogramVec
	success   *prometheus.CounterVec
	failure   *prometheus.CounterVec
	processed *prometheus.CounterVec
}

// NewCronJobMetrics registers the cron instruments on reg. Passing a nil
// registerer returns a no-op instance.
func NewCronJobMetrics(reg prometheus.Registerer) *CronJobMetrics {
	if reg == nil {
		return &CronJobMetrics{}
	}

	newCounter := func(name, help string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: help}, []string{jobLabel})
	}

	m := &CronJobMetrics{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "job_duration_seconds",
			Help:    "Duration of cron jobs in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{jobLabel}),
		success:   newCounter("job_success", "Successful cron job executions."),
		failure:   newCounter("job_failure", "Failed cron job executions."),
		processed: newCounter("job_records_processed", "Records touched by cron job executions."),
	}
	reg.MustRegister(m.duration, m.success, m.failure, m.processed)
	return m
}

func (c *CronJobMetrics) ObserveDuration(job string, d time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(jobName(job)).Observe(d.Seconds())
}

func (c *CronJobMetrics) IncSuccess(job string) {
	if c == nil || c.success == nil {
		return
	}
	c.success.WithLabelValues(jobName(job)).Inc()
}

func (c *CronJobMetrics) IncFailure(job string) {
	if c == nil || c.failure == nil {
		return
	}
	c.failure.WithLabelValues(jobName(job)).Inc()
}

// AddProcessed adds n to the processed-records counter. Non-positive values
// are ignored.
func (c *CronJobMetrics) AddProcessed(job string, n int) {
	if c == nil || c.processed == nil || n <= 0 {
		return
	}
	c.processed.WithLabelValues(jobName(job)).Add(float64(n))
}

func jobName(job string) string {
	if job == "" {
		return "unknown"
	}
	return job
}
