package sink

import (
	"io"
	"sync"

	"github.com/bytedance/sonic"

	"github.com/xinye/go-voltlog/logger"
	"github.com/xinye/go-voltlog/run"
)

var jsonConfig = sonic.ConfigStd

// JSONLWriter exports each emitted run as one JSON object per line.
// Writes are serialized with a mutex, so a JSONLWriter may back several
// sessions at once.
type JSONLWriter struct {
	mu     sync.Mutex
	w      io.Writer
	logger logger.Logger
}

var _ run.Sink = (*JSONLWriter)(nil)

// NewJSONLWriter creates a JSONLWriter writing to w.
// A nil logger selects the global logger instance.
func NewJSONLWriter(w io.Writer, l logger.Logger) *JSONLWriter {
	if l == nil {
		l = logger.GetLogger()
	}

	return &JSONLWriter{
		w:      w,
		logger: l,
	}
}

// Emit marshals the record and writes it followed by a newline.
// Failures are logged, never propagated.
func (s *JSONLWriter) Emit(record *run.Record) {
	data, err := jsonConfig.Marshal(record)
	if err != nil {
		s.logger.Error("failed to marshal run record", "run_id", record.ID, "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.w.Write(append(data, '\n')); err != nil {
		s.logger.Error("failed to write run record", "run_id", record.ID, "error", err)
	}
}
