// Package metrics bridges the atomic counters of the voltlog pipeline to
// Prometheus. The pipeline packages themselves stay dependency-free of the
// Prometheus client; this package wraps their metrics in a
// prometheus.Collector that callers register where they see fit.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/xinye/go-voltlog/ingest"
	"github.com/xinye/go-voltlog/swv"
)

const namespace = "voltlog"

// Collector exposes parser and session metrics as const metrics.
// It has no registration side effects; register it on the registry of your
// choice.
type Collector struct {
	parser  *swv.ParserMetrics
	session *ingest.SessionMetrics

	linesTotal        *prometheus.Desc
	linesIgnoredTotal *prometheus.Desc
	parseErrsTotal    *prometheus.Desc
	endMarkersTotal   *prometheus.Desc
	runsEmittedTotal  *prometheus.Desc
	runsByDevice      *prometheus.Desc

	chunksTotal        *prometheus.Desc
	chunksDroppedTotal *prometheus.Desc
	bytesTotal         *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a Collector over the given parser metrics and,
// optionally, session metrics. A nil session limits the collector to the
// parser counters.
func NewCollector(parser *swv.ParserMetrics, session *ingest.SessionMetrics) *Collector {
	return &Collector{
		parser:  parser,
		session: session,

		linesTotal: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "parser", "lines_total"),
			"Number of lines processed by the run parser.", nil, nil),
		linesIgnoredTotal: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "parser", "lines_ignored_total"),
			"Number of lines skipped as noise.", nil, nil),
		parseErrsTotal: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "parser", "parse_errors_total"),
			"Number of lines dropped for malformed fields.", nil, nil),
		endMarkersTotal: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "parser", "end_markers_total"),
			"Number of end-of-test markers observed.", nil, nil),
		runsEmittedTotal: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "parser", "runs_emitted_total"),
			"Number of run records emitted to the sink.", nil, nil),
		runsByDevice: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "parser", "runs_emitted_by_device_total"),
			"Number of run records emitted, per device name.", []string{"device"}, nil),

		chunksTotal: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "session", "chunks_total"),
			"Number of raw chunks received.", nil, nil),
		chunksDroppedTotal: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "session", "chunks_dropped_total"),
			"Number of chunks dropped for decode errors.", nil, nil),
		bytesTotal: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "session", "bytes_total"),
			"Number of raw bytes received.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.linesTotal
	ch <- c.linesIgnoredTotal
	ch <- c.parseErrsTotal
	ch <- c.endMarkersTotal
	ch <- c.runsEmittedTotal
	ch <- c.runsByDevice

	if c.session != nil {
		ch <- c.chunksTotal
		ch <- c.chunksDroppedTotal
		ch <- c.bytesTotal
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	counter := func(desc *prometheus.Desc, val uint64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(val), labels...)
	}

	counter(c.linesTotal, c.parser.LineCount.Load())
	counter(c.linesIgnoredTotal, c.parser.LineIgnoredCount.Load())
	counter(c.parseErrsTotal, c.parser.ParseErrCount.Load())
	counter(c.endMarkersTotal, c.parser.EndMarkerCount.Load())
	counter(c.runsEmittedTotal, c.parser.RunEmitCount.Load())

	c.parser.RangeRunsByDevice(func(device string, count uint64) bool {
		counter(c.runsByDevice, count, device)
		return true
	})

	if c.session != nil {
		counter(c.chunksTotal, c.session.ChunkRecvCount.Load())
		counter(c.chunksDroppedTotal, c.session.ChunkDropCount.Load())
		counter(c.bytesTotal, c.session.ByteRecvCount.Load())
	}
}
