package ingest

import (
	"context"
	"io"
	"sync"
	"sync/atomic"

	"github.com/xinye/go-voltlog/internal/util"
)

const defaultReadBufferSize = 4096

// ChunkSource is an abstract provider of opaque text chunks of arbitrary size
// and boundary alignment. The pipeline does not know or care whether chunks
// arrive from a wireless notification callback or a subprocess's standard
// output stream.
type ChunkSource interface {
	// NextChunk returns the next chunk of the stream. It blocks until a chunk
	// is available, the stream ends, or ctx is done.
	//
	// io.EOF signals a clean end of stream; any other error is a terminal
	// transport failure.
	NextChunk(ctx context.Context) ([]byte, error)
}

// ReaderSource adapts an io.Reader, such as the stdout pipe of a trace-probe
// subprocess, into a ChunkSource.
//
// ReaderSource is NOT goroutine-safe; it is meant to be drained by a single
// pump goroutine.
type ReaderSource struct {
	r   io.Reader
	buf []byte

	// err holds a read error that arrived together with data; it is reported
	// on the following NextChunk call.
	err error
}

var _ ChunkSource = (*ReaderSource)(nil)

// NewReaderSource creates a ChunkSource that reads from r with the given
// buffer size. A bufSize of 0 or less selects the default of 4096 bytes.
func NewReaderSource(r io.Reader, bufSize int) *ReaderSource {
	if bufSize <= 0 {
		bufSize = defaultReadBufferSize
	}

	return &ReaderSource{
		r:   r,
		buf: make([]byte, bufSize),
	}
}

// NextChunk reads the next chunk from the underlying reader. Each returned
// chunk is an owned copy; the internal buffer is reused across calls.
func (s *ReaderSource) NextChunk(ctx context.Context) ([]byte, error) {
	if s.err != nil {
		err := s.err
		s.err = nil

		return nil, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := s.r.Read(s.buf)
		if n > 0 {
			chunk := util.CloneSlice(s.buf[:n], 0)
			if err != nil {
				s.err = err
			}

			return chunk, nil
		}

		if err != nil {
			return nil, err
		}
	}
}

// ChanSource is a push-style ChunkSource for transports that deliver data via
// callbacks, such as wireless notification handlers. The transport side calls
// Push for each received chunk and CloseSend when the link goes down; the
// session side drains it through NextChunk.
//
// ChanSource supports a single producer and a single consumer.
type ChanSource struct {
	ch        chan []byte
	closed    atomic.Bool
	closeOnce sync.Once
}

var _ ChunkSource = (*ChanSource)(nil)

// NewChanSource creates a ChanSource with the given chunk buffer depth.
// A buffer of 0 or less selects an unbuffered handoff.
func NewChanSource(buffer int) *ChanSource {
	if buffer < 0 {
		buffer = 0
	}

	return &ChanSource{
		ch: make(chan []byte, buffer),
	}
}

// Push hands one chunk to the consumer, copying it so the caller may reuse
// its buffer immediately. It blocks while the buffer is full and reports
// whether the chunk was accepted; chunks pushed after CloseSend are dropped.
func (s *ChanSource) Push(chunk []byte) bool {
	if s.closed.Load() {
		return false
	}

	s.ch <- util.CloneSlice(chunk, 0)

	return true
}

// CloseSend signals a clean end of stream. It is safe to call multiple times.
func (s *ChanSource) CloseSend() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.ch)
	})
}

// NextChunk returns the next pushed chunk, io.EOF after CloseSend, or the
// context error when ctx is done first.
func (s *ChanSource) NextChunk(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case chunk, ok := <-s.ch:
		if !ok {
			return nil, io.EOF
		}

		return chunk, nil
	}
}
