package swv

import "sync/atomic"

// State represents the run-lifecycle phase of the parser.
type State uint32

// Run-lifecycle states of the parser. There is no terminal state; the machine
// is re-armed by the next "Device Name:" boundary line or, depending on the
// end-marker policy, by the end-of-test marker.
const (
	// WaitingForData indicates that no run is in progress yet.
	WaitingForData State = iota
	// ParsingParams indicates that parameter declarations are being collected.
	ParsingParams
	// ParsingVoltageSteps indicates that voltage-step declarations are being collected.
	ParsingVoltageSteps
	// ParsingDataOutput indicates that output samples are being collected.
	ParsingDataOutput
)

// IsWaitingForData returns if the current state is waiting for data.
func (s State) IsWaitingForData() bool { return s == WaitingForData }

// IsParsingParams returns if the current state is the parameter phase.
func (s State) IsParsingParams() bool { return s == ParsingParams }

// IsParsingVoltageSteps returns if the current state is the voltage-step phase.
func (s State) IsParsingVoltageSteps() bool { return s == ParsingVoltageSteps }

// IsParsingDataOutput returns if the current state is the data-output phase.
func (s State) IsParsingDataOutput() bool { return s == ParsingDataOutput }

// String returns string representation of the current state.
func (s State) String() string {
	switch s {
	case WaitingForData:
		return "waiting-for-data"
	case ParsingParams:
		return "parsing-params"
	case ParsingVoltageSteps:
		return "parsing-voltage-steps"
	case ParsingDataOutput:
		return "parsing-data-output"
	default:
		return "unknown"
	}
}

// AtomicState is an atomically accessible State.
//
// The parser mutates state only on its single consumer goroutine, but other
// goroutines may observe it for diagnostics.
type AtomicState struct {
	state atomic.Uint32
}

// Get returns the current state of the AtomicState.
func (st *AtomicState) Get() State {
	return State(st.state.Load())
}

// Set sets the state of the AtomicState to the given state.
func (st *AtomicState) Set(state State) {
	st.state.Store(uint32(state))
}

func (st *AtomicState) String() string {
	return st.Get().String()
}
