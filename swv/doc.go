// Package swv implements the line protocol emitted by AD5940-based
// square-wave voltammetry instruments and the stateful parser that
// reconstructs measurement runs from it.
//
// The instrument emits a fixed, line-oriented text protocol:
//
//	Device Name: THOR-01
//	Param_RampStartVolt: -200
//	Param_RampPeakVolt: 200
//	Voltage Steps:
//	Voltage Step: -200mV
//	Voltage Step: -190mV
//	Data Output:
//	index: 0, 1.10
//	index: 1, 1.15
//
// The Parser consumes one trimmed line at a time, drives the run-lifecycle
// state machine (WaitingForData -> ParsingParams -> ParsingVoltageSteps ->
// ParsingDataOutput), and hands each completed run.Record to the configured
// sink. A "Device Name:" line is the run boundary: it finalizes the previous
// run, when savable, before any state of the new run becomes observable.
//
// The parser never errors. Malformed numeric fields drop that single line's
// contribution, unrecognized lines are treated as noise, and the end-of-test
// marker behavior is selected per ingestion channel with an EndMarkerPolicy.
//
// Key Features:
//   - Run Boundary Detection: emits the previous run before re-arming for the next.
//   - Phase-Skip Recovery: tolerates a missing "Data Output:" phase marker.
//   - Channel Policies: configurable end-marker handling, ignorable line
//     prefixes, and a fallback device name for trace channels.
//   - Metrics: atomic counters suitable for Prometheus collection.
//   - Post-Processing: square-wave difference currents and ramp axis helpers.
package swv
