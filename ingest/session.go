package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/xinye/go-voltlog/internal/util"
	"github.com/xinye/go-voltlog/logger"
	"github.com/xinye/go-voltlog/swv"
)

// Session owns one instrument stream for its whole lifetime: the chunk
// handoff channel, the line reassembler, and the run parser.
//
// Chunks may be produced from a different goroutine than the consumer; the
// only synchronization between the two is the single-producer/single-consumer
// handoff channel, which preserves chunk arrival order. Reassembly and
// parsing happen on the one consumer goroutine, so the parser's strict line
// ordering holds without further locking.
type Session struct {
	pctx      context.Context
	ctx       context.Context
	ctxCancel context.CancelFunc
	cfg       *SessionConfig
	logger    logger.Logger

	parser  *swv.Parser
	reasm   *LineReassembler
	taskMgr *TaskManager

	chunkChan chan []byte
	feedMu    sync.Mutex // serializes Feed against Close

	opened    atomic.Bool
	closed    atomic.Bool
	flushOnce sync.Once

	metrics SessionMetrics
}

// NewSession creates a new ingest Session with the given context and configuration.
// It initializes the parser, the reassembler, and the task manager.
// Returns an error if the configuration is invalid or if initialization fails.
func NewSession(ctx context.Context, cfg *SessionConfig) (*Session, error) {
	if cfg == nil {
		return nil, ErrSessionConfigNil
	}

	parserOpts := append([]swv.ParserOption{swv.WithParserLogger(cfg.logger)}, cfg.parserOpts...)
	parserCfg, err := swv.NewParserConfig(cfg.sink, parserOpts...)
	if err != nil {
		return nil, fmt.Errorf("create parser config: %w", err)
	}

	parser, err := swv.NewParser(parserCfg)
	if err != nil {
		return nil, fmt.Errorf("create parser: %w", err)
	}

	s := &Session{
		pctx:      ctx,
		cfg:       cfg,
		logger:    cfg.logger,
		parser:    parser,
		reasm:     NewLineReassembler(),
		taskMgr:   NewTaskManager(ctx, cfg.logger),
		chunkChan: make(chan []byte, cfg.chunkQueueSize),
	}
	s.ctx, s.ctxCancel = context.WithCancel(ctx)

	return s, nil
}

// Parser returns the session's run parser for state and metrics inspection.
func (s *Session) Parser() *swv.Parser {
	return s.parser
}

// Metrics returns the session metrics.
func (s *Session) Metrics() *SessionMetrics {
	return &s.metrics
}

// Open starts the consumer goroutine that drains the chunk channel. It is a
// no-op when the session is already open, and fails after Close.
func (s *Session) Open() error {
	if s.closed.Load() {
		return ErrSessionClosed
	}

	if !s.opened.CompareAndSwap(false, true) {
		return nil
	}

	return s.taskMgr.StartChunkConsumer("chunkConsumer",
		func(chunk []byte) bool {
			s.consumeChunk(chunk)
			return true
		},
		s.flush,
		s.chunkChan,
	)
}

// Feed hands one raw chunk to the consumer. The chunk is copied, so the
// caller may reuse its buffer immediately. Feed blocks while the handoff
// channel is full and returns the context error when the session's context
// ends first.
//
// Feed is for push-style transports (notification callbacks); pull-style
// transports use Run instead.
func (s *Session) Feed(chunk []byte) error {
	if len(chunk) == 0 {
		return nil
	}

	s.feedMu.Lock()
	defer s.feedMu.Unlock()

	if s.closed.Load() {
		return ErrSessionClosed
	}

	select {
	case <-s.ctx.Done():
		return s.ctx.Err()
	case s.chunkChan <- util.CloneSlice(chunk, 0):
		return nil
	}
}

// Run opens the session and pumps chunks from src until the source reports
// end of stream, a transport failure, or the session context ends. It then
// closes the session, which performs the final flush, and returns nil on a
// clean end or cancellation, or the transport failure otherwise.
func (s *Session) Run(src ChunkSource) error {
	if src == nil {
		return ErrSourceNil
	}

	if err := s.Open(); err != nil {
		return err
	}

	var srcErr error
	for {
		chunk, err := src.NextChunk(s.ctx)
		if err != nil {
			srcErr = err
			break
		}

		if err := s.Feed(chunk); err != nil {
			// Session closed or context ended; not a transport failure.
			break
		}
	}

	if err := s.Close(); err != nil {
		return err
	}

	if srcErr != nil && !errors.Is(srcErr, io.EOF) &&
		!errors.Is(srcErr, context.Canceled) && !errors.Is(srcErr, context.DeadlineExceeded) {
		return fmt.Errorf("chunk source failure: %w", srcErr)
	}

	return nil
}

// Close stops the session: queued chunks are drained, the final flush runs
// exactly once, and all resources are released. It is safe to call multiple
// times; later calls wait for the shutdown to finish.
func (s *Session) Close() error {
	s.feedMu.Lock()
	alreadyClosed := !s.closed.CompareAndSwap(false, true)
	if !alreadyClosed {
		close(s.chunkChan)
	}
	s.feedMu.Unlock()

	s.taskMgr.Wait()

	if !alreadyClosed {
		// A session that was never opened still owes the final flush.
		s.flush()
		s.ctxCancel()
		s.logger.Debug("session closed",
			"chunks", s.metrics.ChunkRecvCount.Load(),
			"chunks_dropped", s.metrics.ChunkDropCount.Load(),
			"runs", s.parser.Metrics().RunEmitCount.Load(),
		)
	}

	return nil
}

// consumeChunk runs on the single consumer goroutine: reassemble lines from
// the chunk and advance the parser for each one, in order.
func (s *Session) consumeChunk(chunk []byte) {
	s.metrics.incChunkRecvCount(len(chunk))

	if _, err := s.reasm.Feed(chunk); err != nil {
		s.metrics.incChunkDropCount()
		s.logger.Warn("dropping undecodable chunk", "bytes", len(chunk), "error", err)

		return
	}

	for {
		line, ok := s.reasm.NextLine()
		if !ok {
			break
		}

		s.parser.ProcessLine(line)
	}
}

// flush finalizes the in-progress run exactly once, whether the stream ended
// cleanly, was cancelled, or the transport failed.
func (s *Session) flush() {
	s.flushOnce.Do(func() {
		if pending := s.reasm.PendingBytes(); pending > 0 {
			// An unterminated trailing fragment is not a complete line; it is
			// discarded with the stream.
			s.logger.Debug("discarding unterminated trailing data", "bytes", pending)
		}

		s.parser.Flush()
	})
}
