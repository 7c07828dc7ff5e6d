// Package metrics exports set statistics to Prometheus.
package metrics

import (
	"github.com/fzft/go-chainset/set"
	"github.com/prometheus/client_golang/prometheus"
)

// StatsSource is anything that can report set statistics. Implementations
// must be safe to call from the scrape goroutine.
type StatsSource interface {
	Stats() set.Stats
}

// Collector is a prometheus.Collector reading a StatsSource on every scrape.
type Collector struct {
	src StatsSource

	size         *prometheus.Desc
	capacity     *prometheus.Desc
	usedBuckets  *prometheus.Desc
	longestChain *prometheus.Desc
	memory       *prometheus.Desc
	loadFactor   *prometheus.Desc
	rehashes     *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a collector whose metric names start with namespace.
func NewCollector(namespace string, src StatsSource) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "set", name), help, nil, nil)
	}
	return &Collector{
		src:          src,
		size:         desc("size", "Number of keys in the set."),
		capacity:     desc("capacity", "Number of buckets in the table."),
		usedBuckets:  desc("used_buckets", "Number of buckets heading at least one key."),
		longestChain: desc("longest_chain", "Length of the longest bucket chain."),
		memory:       desc("memory_bytes", "Estimated bytes held by buckets and nodes."),
		loadFactor:   desc("load_factor", "Keys per bucket."),
		rehashes:     desc("rehashes_total", "Number of times the table has grown."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.size
	ch <- c.capacity
	ch <- c.usedBuckets
	ch <- c.longestChain
	ch <- c.memory
	ch <- c.loadFactor
	ch <- c.rehashes
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	st := c.src.Stats()
	gauge := func(d *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v)
	}
	gauge(c.size, float64(st.Size))
	gauge(c.capacity, float64(st.Capacity))
	gauge(c.usedBuckets, float64(st.UsedBuckets))
	gauge(c.longestChain, float64(st.LongestChain))
	gauge(c.memory, float64(st.MemoryUsed))
	gauge(c.loadFactor, st.LoadFactor)
	ch <- prometheus.MustNewConstMetric(c.rehashes, prometheus.CounterValue, float64(st.Rehashes))
}
