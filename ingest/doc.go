// Package ingest turns a fragmented instrument byte stream into parsed
// measurement runs.
//
// It composes a small one-directional pipeline: a ChunkSource provides opaque
// byte chunks of arbitrary size and boundary alignment, a LineReassembler
// rebuilds complete trimmed lines from them, and a swv.Parser classifies each
// line and emits completed run records to the configured sink.
//
// The Session ties the pieces together with a single-producer/single-consumer
// chunk handoff: the transport side feeds chunks (push mode via Feed, or pull
// mode via Run with a ChunkSource) and one consumer goroutine drains them in
// arrival order, preserving the strict line ordering the parser depends on.
// On end of stream, transport failure, or cancellation the session performs a
// final flush exactly once, so a savable in-progress run is never lost.
//
// Usage Example:
//
//	cfg, err := ingest.NewSessionConfig(mySink,
//	    ingest.WithParserOptions(swv.WithEndMarkerPolicy(swv.EndMarkerFinalize)),
//	)
//	// ... handle error ...
//	session, err := ingest.NewSession(ctx, cfg)
//	// ... handle error ...
//
//	// Pull mode: drive the pipeline from an io.Reader (e.g. a trace tool's stdout).
//	err = session.Run(ingest.NewReaderSource(stdout, 0))
//
//	// Push mode: feed chunks from a notification callback, then close.
//	_ = session.Open()
//	// ... session.Feed(chunk) from the transport callback ...
//	_ = session.Close()
package ingest
