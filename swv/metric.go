package swv

import (
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
)

// ParserMetrics contains atomic metrics for a parser.
// Metrics can be used as the value of a prometheus CounterFunc or GaugeFunc.
type ParserMetrics struct {
	// LineCount indicates the number of lines processed.
	LineCount atomic.Uint64
	// LineIgnoredCount indicates the number of lines skipped as noise.
	LineIgnoredCount atomic.Uint64
	// ParseErrCount indicates the number of lines dropped for malformed fields.
	ParseErrCount atomic.Uint64
	// EndMarkerCount indicates the number of end-of-test markers observed.
	EndMarkerCount atomic.Uint64
	// RunEmitCount indicates the number of run records emitted to the sink.
	RunEmitCount atomic.Uint64

	// runsByDevice tracks emitted runs per device name.
	runsByDevice *xsync.MapOf[string, *atomic.Uint64]
}

func (m *ParserMetrics) init() {
	m.runsByDevice = xsync.NewMapOf[string, *atomic.Uint64]()
}

// RunsByDevice returns the number of runs emitted for the given device name.
func (m *ParserMetrics) RunsByDevice(device string) uint64 {
	if counter, ok := m.runsByDevice.Load(device); ok {
		return counter.Load()
	}

	return 0
}

// RangeRunsByDevice calls fn for each device with at least one emitted run.
// Iteration stops when fn returns false.
func (m *ParserMetrics) RangeRunsByDevice(fn func(device string, count uint64) bool) {
	m.runsByDevice.Range(func(device string, counter *atomic.Uint64) bool {
		return fn(device, counter.Load())
	})
}

func (m *ParserMetrics) incLineCount() {
	m.LineCount.Add(1)
}

func (m *ParserMetrics) incLineIgnoredCount() {
	m.LineIgnoredCount.Add(1)
}

func (m *ParserMetrics) incParseErrCount() {
	m.ParseErrCount.Add(1)
}

func (m *ParserMetrics) incEndMarkerCount() {
	m.EndMarkerCount.Add(1)
}

func (m *ParserMetrics) incRunEmitCount(device string) {
	m.RunEmitCount.Add(1)

	counter, _ := m.runsByDevice.LoadOrStore(device, &atomic.Uint64{})
	counter.Add(1)
}
