package ingest

import "errors"

var (
	// ErrSessionConfigNil indicates that a nil SessionConfig was provided.
	ErrSessionConfigNil = errors.New("session config is nil")

	// ErrSessionClosed indicates that the session has been closed.
	ErrSessionClosed = errors.New("session closed")

	// ErrSourceNil indicates that a nil chunk source was provided.
	ErrSourceNil = errors.New("chunk source is nil")

	// ErrInvalidChunk indicates that a chunk is not valid UTF-8 text and was
	// dropped without touching the pending reassembly buffer.
	ErrInvalidChunk = errors.New("chunk is not valid UTF-8 text")
)
