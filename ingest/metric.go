package ingest

import (
	"sync/atomic"
)

// SessionMetrics contains atomic metrics for an ingest session.
// Metrics can be used as the value of a prometheus CounterFunc or GaugeFunc.
type SessionMetrics struct {
	// ChunkRecvCount indicates the number of chunks received.
	ChunkRecvCount atomic.Uint64
	// ChunkDropCount indicates the number of chunks dropped for decode errors.
	ChunkDropCount atomic.Uint64
	// ByteRecvCount indicates the number of raw bytes received.
	ByteRecvCount atomic.Uint64
}

func (m *SessionMetrics) incChunkRecvCount(bytes int) {
	m.ChunkRecvCount.Add(1)
	m.ByteRecvCount.Add(uint64(bytes)) //nolint: gosec
}

func (m *SessionMetrics) incChunkDropCount() {
	m.ChunkDropCount.Add(1)
}
