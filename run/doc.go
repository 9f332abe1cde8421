// Package run defines the measurement run record produced by the voltlog
// parsing pipeline and the sink contract used to hand completed runs to
// downstream consumers.
//
// A Record accumulates everything one measurement session reports: the device
// name, the declared parameters, the voltage-step ramp, and the (index, value)
// output samples. Records are created by the parser, mutated strictly in
// arrival order, and handed off to a Sink exactly once when the run completes.
// After hand-off the parser never touches the record again; the sink owns it.
package run
