package ingest

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/xinye/go-voltlog/internal/queue"
)

// LineReassembler buffers raw byte chunks of arbitrary, non-line-aligned size
// and yields complete, trimmed text lines in arrival order.
//
// State is owned per session: multiple concurrent streams each use their own
// reassembler without interference. LineReassembler is NOT goroutine-safe;
// Feed and NextLine must be called from the single consumer goroutine.
//
// No line-length limit is enforced: pathologically long unterminated input
// grows the pending buffer without bound.
// TODO: add an optional pending-buffer cap that discards oversized garbage
// lines from a misbehaving instrument.
type LineReassembler struct {
	pending []byte
	lines   queue.Queue
}

// NewLineReassembler creates an empty LineReassembler.
func NewLineReassembler() *LineReassembler {
	return &LineReassembler{
		lines: queue.NewSliceQueue(16),
	}
}

// Feed appends chunk to the pending buffer and extracts every complete line.
// Extracted lines are queued for NextLine in arrival order; the terminator
// and surrounding whitespace are stripped and blank lines are discarded.
// Any trailing partial line stays buffered until a later chunk completes it.
//
// A chunk that is not valid UTF-8 text is rejected whole with
// ErrInvalidChunk; the pending buffer keeps its existing content.
//
// Returns the number of lines extracted from this chunk.
func (r *LineReassembler) Feed(chunk []byte) (int, error) {
	if len(chunk) == 0 {
		return 0, nil
	}

	if !utf8.Valid(chunk) {
		return 0, ErrInvalidChunk
	}

	r.pending = append(r.pending, chunk...)

	count := 0
	for {
		idx := bytes.IndexByte(r.pending, '\n')
		if idx < 0 {
			break
		}

		line := strings.TrimSpace(string(r.pending[:idx]))
		r.pending = r.pending[idx+1:]

		if line != "" {
			r.lines.Enqueue(line)
			count++
		}
	}

	return count, nil
}

// NextLine pops the next complete line in arrival order.
func (r *LineReassembler) NextLine() (string, bool) {
	item := r.lines.Dequeue()
	if item == nil {
		return "", false
	}

	line, _ := item.(string)

	return line, true
}

// PendingBytes returns the size of the buffered partial line.
func (r *LineReassembler) PendingBytes() int {
	return len(r.pending)
}

// Reset discards all buffered state, re-arming the reassembler for a new
// stream.
func (r *LineReassembler) Reset() {
	r.pending = nil
	r.lines.Reset()
}
