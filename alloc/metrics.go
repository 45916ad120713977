package alloc

import "github.com/prometheus/client_golang/prometheus"

// collector adapts an Instrumented allocator to a prometheus.Collector so
// allocator health can sit on the same dashboards as the rest of a service.
type collector struct {
	src Instrumented

	allocs     *prometheus.Desc
	frees      *prometheus.Desc
	failures   *prometheus.Desc
	liveBlocks *prometheus.Desc
	liveBytes  *prometheus.Desc
}

// NewCollector exposes the allocator's counters under the given allocator
// label. Register the result with a prometheus.Registerer.
func NewCollector(name string, src Instrumented) prometheus.Collector {
	labels := prometheus.Labels{"allocator": name}
	return &collector{
		src: src,
		allocs: prometheus.NewDesc("thindst_alloc_blocks_total",
			"Blocks handed out since allocator creation.", nil, labels),
		frees: prometheus.NewDesc("thindst_alloc_frees_total",
			"Blocks returned since allocator creation.", nil, labels),
		failures: prometheus.NewDesc("thindst_alloc_failures_total",
			"Failed allocation attempts.", nil, labels),
		liveBlocks: prometheus.NewDesc("thindst_alloc_live_blocks",
			"Blocks currently outstanding.", nil, labels),
		liveBytes: prometheus.NewDesc("thindst_alloc_live_bytes",
			"Payload bytes currently outstanding.", nil, labels),
	}
}

func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.allocs
	ch <- c.frees
	ch <- c.failures
	ch <- c.liveBlocks
	ch <- c.liveBytes
}

func (c *collector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()
	ch <- prometheus.MustNewConstMetric(c.allocs, prometheus.CounterValue, float64(s.Allocs))
	ch <- prometheus.MustNewConstMetric(c.frees, prometheus.CounterValue, float64(s.Frees))
	ch <- prometheus.MustNewConstMetric(c.failures, prometheus.CounterValue, float64(s.Failures))
	ch <- prometheus.MustNewConstMetric(c.liveBlocks, prometheus.GaugeValue, float64(s.LiveBlocks))
	ch <- prometheus.MustNewConstMetric(c.liveBytes, prometheus.GaugeValue, float64(s.LiveBytes))
}
