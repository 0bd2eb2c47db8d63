package metric

import "github.com/prometheus/client_golang/prometheus"

// Sizer reports the number of stored entries.
type Sizer interface {
	Len() int
}

// Collector reports store statistics at scrape time.
type Collector struct {
	source Sizer
	keys   *prometheus.Desc
}

// NewCollector creates a collector reading from source.
func NewCollector(source Sizer) *Collector {
	return &Collector{
		source: source,
		keys: prometheus.NewDesc(
			prometheus.BuildFQName(Namespace, "", "keys"),
			"Number of entries held by the store, including expired entries not yet reclaimed.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.keys
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.keys, prometheus.GaugeValue, float64(c.source.Len()))
}
