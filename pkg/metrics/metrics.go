// Package metrics exposes a running scheduler's state as Prometheus
// collectors: a dedicated registry plus one gauge vec per per-process
// counter.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/cfssim/cfssim/pkg/sched"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector snapshots a sched.Table into a dedicated Prometheus registry on
// every scrape, rather than pushing updates on every table mutation: the
// table already serializes reads through Snapshot, so piggybacking on that
// is cheaper than duplicating bookkeeping here.
type Collector struct {
	table *sched.Table

	readySize    prometheus.Gauge
	totalTicks   prometheus.Counter
	vruntime     *prometheus.GaugeVec
	runtime      *prometheus.GaugeVec
	timesliceHst prometheus.Histogram

	lastTicks uint64
}

// NewCollector builds a Collector for table. Call Register before serving
// scrapes.
func NewCollector(table *sched.Table) *Collector {
	return &Collector{
		table: table,
		readySize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cfssim_ready_set_size",
			Help: "Number of RUNNABLE or RUNNING processes in the table.",
		}),
		totalTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cfssim_total_milliticks",
			Help: "Cumulative milliticks of CPU time accounted across all processes.",
		}),
		vruntime: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "cfssim_process_vruntime",
			Help: "Current virtual runtime of a process.",
		}, []string{"pid", "name"}),
		runtime: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "cfssim_process_runtime_milliticks",
			Help: "Current accounted runtime of a process, in milliticks.",
		}, []string{"pid", "name"}),
		timesliceHst: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cfssim_timeslice_milliticks",
			Help:    "Distribution of timeslices awarded by the picker.",
			Buckets: []float64{100, 500, 1000, 2500, 5000, 7500, 10000},
		}),
	}
}

// Register adds the collector's metrics to reg.
func (c *Collector) Register(reg *prometheus.Registry) {
	reg.MustRegister(c.readySize, c.totalTicks, c.vruntime, c.runtime, c.timesliceHst)
}

// ObserveTimeslice records a timeslice returned by Table.Pick. Call this
// from the same loop that calls Pick, since the table itself has no notion
// of a picker's output history.
func (c *Collector) ObserveTimeslice(ts uint32) {
	c.timesliceHst.Observe(float64(ts))
}

// Sample refreshes the gauges from the table's current snapshot. Call it on
// every scrape (via an http.Handler wrapper) or on a fixed tick.
func (c *Collector) Sample() {
	snap := c.table.Snapshot()

	ready := 0
	for _, p := range snap {
		if p.State == sched.Runnable || p.State == sched.Running {
			ready++
		}
		pid := fmt.Sprintf("%d", p.PID)
		c.vruntime.WithLabelValues(pid, p.Name).Set(float64(p.VRuntime))
		c.runtime.WithLabelValues(pid, p.Name).Set(float64(p.Runtime))
	}
	c.readySize.Set(float64(ready))

	total := c.table.TotalTicks()
	if total > c.lastTicks {
		c.totalTicks.Add(float64(total - c.lastTicks))
		c.lastTicks = total
	}
}

// ServeHTTP wraps promhttp's handler for reg, resampling the table on every
// scrape so counters never go stale between pulls.
func ServeHTTP(reg *prometheus.Registry, c *Collector) http.Handler {
	base := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.Sample()
		base.ServeHTTP(w, r)
	})
}
