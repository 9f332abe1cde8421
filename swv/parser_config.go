package swv

import (
	"errors"
	"strings"

	"github.com/xinye/go-voltlog/logger"
	"github.com/xinye/go-voltlog/run"
)

// EndMarkerPolicy selects how the parser reacts to the end-of-test marker in
// the data-output phase. Both behaviors are legitimate: whether the marker
// closes a run depends on whether the channel reliably pairs "finished" with
// the next "Device Name:" boundary.
type EndMarkerPolicy uint8

const (
	// EndMarkerContinue logs the marker and keeps the run open; further chunks
	// of the same run may still follow. This matches the wireless notification
	// channel, where each measurement chunk ends with the marker but the run
	// boundary is the next "Device Name:" line.
	EndMarkerContinue EndMarkerPolicy = iota

	// EndMarkerFinalize treats the marker as run completion: the record is
	// emitted immediately, when savable, and the parser resets to
	// WaitingForData with an empty record. This matches the debug-trace
	// channel, where runs may end without a following boundary line.
	EndMarkerFinalize
)

// String returns string representation of the policy.
func (p EndMarkerPolicy) String() string {
	switch p {
	case EndMarkerContinue:
		return "continue"
	case EndMarkerFinalize:
		return "finalize"
	default:
		return "unknown"
	}
}

// ParserConfig represents the configuration parameters for a run Parser.
type ParserConfig struct {
	// sink receives completed run records.
	sink run.Sink

	// endMarker is the end-of-test marker substring. An empty marker disables
	// end-marker handling entirely.
	// Defaults to DefaultEndMarker.
	endMarker string

	// endMarkerPolicy selects the end-marker behavior for this channel.
	// Defaults to EndMarkerContinue.
	endMarkerPolicy EndMarkerPolicy

	// ignorePrefixes lists line prefixes that are always skipped regardless of
	// state, e.g. "[I]" system log tags on the trace channel.
	// Defaults to none.
	ignorePrefixes []string

	// fallbackDeviceName, when non-empty, lets a run that collected samples
	// but never saw a boundary line be finalized under this name.
	// Defaults to empty (such runs are dropped).
	fallbackDeviceName string

	// logger provides a logger instance for parser diagnostics.
	logger logger.Logger
}

// NewParserConfig creates a new parser configuration with the given sink and
// optional functional options.
//
// It initializes a ParserConfig with default values and then applies the
// provided options. See the documentation for ParserOption and the various
// WithXXX functions for available configuration options.
//
// Returns a pointer to the initialized ParserConfig and an error if any
// occurred during the configuration process.
func NewParserConfig(sink run.Sink, opts ...ParserOption) (*ParserConfig, error) {
	cfg := &ParserConfig{
		endMarker:       DefaultEndMarker,
		endMarkerPolicy: EndMarkerContinue,
		logger:          logger.GetLogger(),
	}

	if err := withSink(sink).apply(cfg); err != nil {
		return cfg, err
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}

// EndMarker returns the configured end-of-test marker substring.
func (cfg *ParserConfig) EndMarker() string {
	return cfg.endMarker
}

// EndMarkerPolicy returns the configured end-marker policy.
func (cfg *ParserConfig) EndMarkerPolicy() EndMarkerPolicy {
	return cfg.endMarkerPolicy
}

// ParserOption represents a functional option for configuring a ParserConfig.
type ParserOption interface {
	apply(*ParserConfig) error
}

type parserOptFunc struct {
	name      string
	applyFunc func(*ParserConfig) error
}

func (o *parserOptFunc) apply(cfg *ParserConfig) error { return o.applyFunc(cfg) }

func newParserOptFunc(name string, f func(*ParserConfig) error) *parserOptFunc {
	return &parserOptFunc{
		name:      name,
		applyFunc: f,
	}
}

// withSink sets the run sink for the parser.
// An error is returned if the sink or the configuration is nil.
func withSink(sink run.Sink) ParserOption {
	return newParserOptFunc("withSink", func(cfg *ParserConfig) error {
		if cfg == nil {
			return ErrParserConfigNil
		}
		if sink == nil {
			return ErrSinkNil
		}

		cfg.sink = sink

		return nil
	})
}

// WithEndMarker sets the end-of-test marker substring.
// An empty marker disables end-marker handling.
//
// The default value is DefaultEndMarker.
func WithEndMarker(marker string) ParserOption {
	return newParserOptFunc("WithEndMarker", func(cfg *ParserConfig) error {
		if cfg == nil {
			return ErrParserConfigNil
		}

		cfg.endMarker = marker

		return nil
	})
}

// WithEndMarkerPolicy sets the end-marker behavior for this channel.
// An error is returned if the policy is not a known value.
//
// The default value is EndMarkerContinue.
func WithEndMarkerPolicy(policy EndMarkerPolicy) ParserOption {
	return newParserOptFunc("WithEndMarkerPolicy", func(cfg *ParserConfig) error {
		if cfg == nil {
			return ErrParserConfigNil
		}

		if policy != EndMarkerContinue && policy != EndMarkerFinalize {
			return errors.New("unknown end marker policy")
		}

		cfg.endMarkerPolicy = policy

		return nil
	})
}

// WithIgnorePrefixes adds line prefixes that are always skipped regardless of
// the current state, e.g. bracketed severity tags of system log lines.
// Empty prefixes are rejected.
//
// The default is no ignorable prefixes.
func WithIgnorePrefixes(prefixes ...string) ParserOption {
	return newParserOptFunc("WithIgnorePrefixes", func(cfg *ParserConfig) error {
		if cfg == nil {
			return ErrParserConfigNil
		}

		for _, prefix := range prefixes {
			if strings.TrimSpace(prefix) == "" {
				return errors.New("ignore prefix must not be blank")
			}
		}

		cfg.ignorePrefixes = append(cfg.ignorePrefixes, prefixes...)

		return nil
	})
}

// WithFallbackDeviceName lets runs that collected samples without ever seeing
// a "Device Name:" boundary be finalized under the given name instead of
// being dropped. This mirrors the debug-trace channel, which may start
// mid-run.
//
// The default is empty: unnamed runs are never emitted.
func WithFallbackDeviceName(name string) ParserOption {
	return newParserOptFunc("WithFallbackDeviceName", func(cfg *ParserConfig) error {
		if cfg == nil {
			return ErrParserConfigNil
		}

		cfg.fallbackDeviceName = strings.TrimSpace(name)

		return nil
	})
}

// WithParserLogger sets the logger for parser diagnostics.
// An error is returned if the logger is nil.
//
// The default logger is the global logger instance.
func WithParserLogger(l logger.Logger) ParserOption {
	return newParserOptFunc("WithParserLogger", func(cfg *ParserConfig) error {
		if cfg == nil {
			return ErrParserConfigNil
		}
		if l == nil {
			return errors.New("logger is nil")
		}

		cfg.logger = l

		return nil
	})
}
