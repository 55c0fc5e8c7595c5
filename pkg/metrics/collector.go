// Package metrics exposes pool occupancy as Prometheus metrics. A single
// Collector can serve any number of pools; it pulls a Status snapshot from
// each registered pool at scrape time, so no counters have to be threaded
// through the pool's hot path.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ajitpratap0/repool/pkg/pool"
)

// StatusSource is the part of a pool the collector needs. *pool.Pool[T]
// satisfies it for any T.
type StatusSource interface {
	Name() string
	Status() pool.Status
}

// Collector implements prometheus.Collector for a set of pools.
type Collector struct {
	mu      sync.RWMutex
	sources []StatusSource

	maxSize   *prometheus.Desc
	size      *prometheus.Desc
	available *prometheus.Desc
	waiting   *prometheus.Desc
}

// NewCollector creates an empty collector. Register it with a Prometheus
// registry and add pools with Add.
func NewCollector() *Collector {
	labels := []string{"pool"}
	return &Collector{
		maxSize: prometheus.NewDesc(
			"repool_max_size",
			"Configured capacity of the pool.",
			labels, nil),
		size: prometheus.NewDesc(
			"repool_size",
			"Objects alive inside the pool or lent out.",
			labels, nil),
		available: prometheus.NewDesc(
			"repool_available",
			"Idle objects ready for checkout.",
			labels, nil),
		waiting: prometheus.NewDesc(
			"repool_waiting",
			"Callers queued for capacity.",
			labels, nil),
	}
}

// Add registers a pool with the collector.
func (c *Collector) Add(src StatusSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sources = append(c.sources, src)
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.maxSize
	ch <- c.size
	ch <- c.available
	ch <- c.waiting
}

// Collect implements prometheus.Collector. Each pool is snapshotted once
// per scrape; the snapshot is weakly consistent across fields.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	sources := make([]StatusSource, len(c.sources))
	copy(sources, c.sources)
	c.mu.RUnlock()

	for _, src := range sources {
		st := src.Status()
		name := src.Name()
		ch <- prometheus.MustNewConstMetric(c.maxSize, prometheus.GaugeValue, float64(st.MaxSize), name)
		ch <- prometheus.MustNewConstMetric(c.size, prometheus.GaugeValue, float64(st.Size), name)
		ch <- prometheus.MustNewConstMetric(c.available, prometheus.GaugeValue, float64(st.Available), name)
		ch <- prometheus.MustNewConstMetric(c.waiting, prometheus.GaugeValue, float64(st.Waiting), name)
	}
}
