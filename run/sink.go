package run

// Sink receives completed run records from the parsing pipeline.
//
// Emit is invoked synchronously on the parser goroutine, one record at a
// time, before any further input is processed. Ownership of the record
// transfers to the sink; the caller keeps no reference after the call, so the
// sink is free to mutate or consume the record destructively.
//
// Emit has no error return. A sink that performs fallible work (file I/O,
// network) handles and reports its own failures; a sink failure never aborts
// parsing.
type Sink interface {
	Emit(record *Record)
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(record *Record)

// Emit calls f(record).
func (f SinkFunc) Emit(record *Record) {
	f(record)
}
