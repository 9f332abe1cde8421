package run

import (
	"time"

	"github.com/xinye/go-voltlog/internal/ids"
	"github.com/xinye/go-voltlog/internal/util"
)

// Sample represents one output data point reported by the instrument.
//
// Index is the instrument-reported sample index. It is recorded as received
// and is not validated against arrival order or contiguity.
type Sample struct {
	Index int     `json:"index"`
	Value float64 `json:"value"`
}

// Record represents one measurement run collected from the instrument stream.
//
// A Record is built up incrementally by the parser while lines arrive and is
// handed to a Sink when the run completes. All mutation happens on the single
// parser goroutine; a Record needs no internal locking.
type Record struct {
	// ID is a time-sortable ULID assigned when the record is created.
	ID string `json:"id"`

	// StartedAt is the wall-clock time the record was created, i.e. when the
	// run's boundary line was observed.
	StartedAt time.Time `json:"started_at"`

	// DeviceName is the instrument name from the "Device Name:" boundary line.
	DeviceName string `json:"device_name"`

	// Params holds the parameter declarations of the run. Re-declared keys
	// overwrite earlier values.
	Params map[string]string `json:"params"`

	// VoltageSteps holds the declared voltage steps in millivolts, in
	// declaration order.
	VoltageSteps []float64 `json:"voltage_steps"`

	// Samples holds the output data points in arrival order.
	Samples []Sample `json:"samples"`
}

// NewRecord creates a fresh, empty Record with a new ID and creation time.
//
// It is the single reset point of the run lifecycle: the parser replaces its
// in-progress record with a NewRecord result instead of clearing fields in
// place, so a record handed to a sink is never reused.
func NewRecord() *Record {
	return &Record{
		ID:        ids.CreateULID(),
		StartedAt: time.Now(),
		Params:    make(map[string]string),
	}
}

// Savable reports whether the record holds enough data to be worth emitting:
// a non-empty device name and at least one output sample.
func (r *Record) Savable() bool {
	return r.DeviceName != "" && len(r.Samples) > 0
}

// SetParam inserts or overwrites a parameter declaration.
func (r *Record) SetParam(key string, value string) {
	if r.Params == nil {
		r.Params = make(map[string]string)
	}
	r.Params[key] = value
}

// AddVoltageStep appends one voltage step in millivolts.
func (r *Record) AddVoltageStep(mv float64) {
	r.VoltageSteps = append(r.VoltageSteps, mv)
}

// AddSample appends one output sample.
func (r *Record) AddSample(index int, value float64) {
	r.Samples = append(r.Samples, Sample{Index: index, Value: value})
}

// Param returns the value of the named parameter and whether it was declared.
func (r *Record) Param(key string) (string, bool) {
	v, ok := r.Params[key]
	return v, ok
}

// Clone returns a deep copy of the record.
//
// Sinks that retain run data beyond the Emit call while also mutating it
// should operate on a clone.
func (r *Record) Clone() *Record {
	clone := *r
	clone.Params = util.CloneMap(r.Params)
	clone.VoltageSteps = util.CloneSlice(r.VoltageSteps, 0)
	clone.Samples = util.CloneSlice(r.Samples, 0)

	return &clone
}
