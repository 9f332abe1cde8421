package sink

import (
	"sync"

	"github.com/xinye/go-voltlog/run"
)

// Collector is a thread-safe in-memory sink that accumulates emitted records.
// It is primarily meant for tests and for consumers that post-process whole
// batches of runs.
type Collector struct {
	mu      sync.Mutex
	records []*run.Record
}

var _ run.Sink = (*Collector)(nil)

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Emit stores the record.
func (c *Collector) Emit(record *run.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records = append(c.records, record)
}

// Records returns the collected records in emission order.
// The returned slice is a copy; the records themselves are shared.
func (c *Collector) Records() []*run.Record {
	c.mu.Lock()
	defer c.mu.Unlock()

	records := make([]*run.Record, len(c.records))
	copy(records, c.records)

	return records
}

// Len returns the number of collected records.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.records)
}

// Reset discards all collected records.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records = nil
}
