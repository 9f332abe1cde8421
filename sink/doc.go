// Package sink provides reference run.Sink implementations: an in-memory
// Collector for tests and buffering consumers, a JSONLWriter that exports one
// JSON object per run, and a CSVWriter that mirrors the classic data-logger
// directory layout.
//
// Sinks receive exclusive ownership of each emitted record and never
// propagate their failures back into the parsing pipeline.
package sink
