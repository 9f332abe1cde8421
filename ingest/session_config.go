package ingest

import (
	"errors"

	"github.com/xinye/go-voltlog/logger"
	"github.com/xinye/go-voltlog/run"
	"github.com/xinye/go-voltlog/swv"
)

// SessionConfig represents the configuration parameters for an ingest Session.
type SessionConfig struct {
	// sink receives completed run records.
	sink run.Sink

	// chunkQueueSize defines the depth of the single-producer/single-consumer
	// chunk handoff channel between the transport side and the consumer.
	//
	// This option allows you to control the backpressure level for unparsed
	// chunks. A larger queue can accommodate notification bursts but might
	// consume more memory.
	//
	// Defaults to 64.
	chunkQueueSize int

	// parserOpts are passed through to the swv parser of this session.
	parserOpts []swv.ParserOption

	// logger provides a logger instance for logging session events and errors.
	logger logger.Logger
}

// NewSessionConfig creates a new session configuration with the given sink
// and optional functional options.
//
// It initializes a SessionConfig with default values and then applies the
// provided options. See the documentation for SessionOption and the various
// WithXXX functions for available configuration options.
//
// Returns a pointer to the initialized SessionConfig and an error if any
// occurred during the configuration process.
func NewSessionConfig(sink run.Sink, opts ...SessionOption) (*SessionConfig, error) {
	cfg := &SessionConfig{
		chunkQueueSize: 64,
		logger:         logger.GetLogger(),
	}

	if sink == nil {
		return cfg, swv.ErrSinkNil
	}
	cfg.sink = sink

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}

// SessionOption represents a functional option for configuring a SessionConfig.
type SessionOption interface {
	apply(*SessionConfig) error
}

type sessionOptFunc struct {
	name      string
	applyFunc func(*SessionConfig) error
}

func (o *sessionOptFunc) apply(cfg *SessionConfig) error { return o.applyFunc(cfg) }

func newSessionOptFunc(name string, f func(*SessionConfig) error) *sessionOptFunc {
	return &sessionOptFunc{
		name:      name,
		applyFunc: f,
	}
}

// WithChunkQueueSize sets the depth of the chunk handoff channel between the
// transport side and the consumer goroutine.
//
// The queue size must be within the range of 1 to 4096.
// An error is returned if the queue size is invalid or if the provided SessionConfig is nil.
//
// The default value is 64.
func WithChunkQueueSize(size int) SessionOption {
	return newSessionOptFunc("WithChunkQueueSize", func(cfg *SessionConfig) error {
		if cfg == nil {
			return ErrSessionConfigNil
		}
		if size < 1 || size > 4096 {
			return errors.New("the chunk queue size out of range [1, 4096]")
		}

		cfg.chunkQueueSize = size

		return nil
	})
}

// WithParserOptions appends swv parser options applied to the session's
// parser, e.g. the end-marker policy or ignorable prefixes of the channel.
func WithParserOptions(opts ...swv.ParserOption) SessionOption {
	return newSessionOptFunc("WithParserOptions", func(cfg *SessionConfig) error {
		if cfg == nil {
			return ErrSessionConfigNil
		}

		cfg.parserOpts = append(cfg.parserOpts, opts...)

		return nil
	})
}

// WithLogger sets the logger for the ingest session.
// It returns a SessionOption that updates the configuration with the provided logger.
// An error is returned if the logger or the configuration is nil.
//
// The default logger is the global logger instance.
func WithLogger(l logger.Logger) SessionOption {
	return newSessionOptFunc("WithLogger", func(cfg *SessionConfig) error {
		if cfg == nil {
			return ErrSessionConfigNil
		}
		if l == nil {
			return errors.New("logger is nil")
		}

		cfg.logger = l

		return nil
	})
}
