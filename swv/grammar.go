package swv

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xinye/go-voltlog/run"
)

// Line grammar of the instrument protocol. Matching is bit-exact and
// case-sensitive.
const (
	// DeviceNamePrefix marks the run boundary line "Device Name: <name>".
	DeviceNamePrefix = "Device Name:"
	// ParamPrefix marks a parameter declaration "Param_<key>: <value>".
	ParamPrefix = "Param_"
	// VoltageStepsPrefix marks the transition into the voltage-step phase.
	VoltageStepsPrefix = "Voltage Steps:"
	// VoltageStepPrefix marks one voltage-step declaration "Voltage Step: <number>mV".
	VoltageStepPrefix = "Voltage Step:"
	// DataOutputPrefix marks the transition into the data-output phase.
	DataOutputPrefix = "Data Output:"
	// IndexPrefix marks one output sample "index: <int>, <float>".
	IndexPrefix = "index:"

	// DefaultEndMarker is the end-of-test phrase the instrument prints after a
	// measurement. Its effect depends on the configured EndMarkerPolicy.
	DefaultEndMarker = "SqrWave Voltammetry test finished"

	voltageUnit = "mV"
)

// parseDeviceName extracts the device name from a boundary line.
// The caller has already verified the DeviceNamePrefix.
func parseDeviceName(line string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, DeviceNamePrefix))
}

// parseParam splits a parameter line on the first colon and returns the
// trimmed key (without the Param_ prefix) and value.
func parseParam(line string) (key, value string, err error) {
	rawKey, rawValue, ok := strings.Cut(line, ":")
	if !ok {
		return "", "", fmt.Errorf("parameter line has no colon")
	}

	key = strings.TrimSpace(strings.TrimPrefix(rawKey, ParamPrefix))
	value = strings.TrimSpace(rawValue)

	return key, value, nil
}

// parseVoltageStep extracts the millivolt value between the first colon and
// the literal "mV" unit suffix.
func parseVoltageStep(line string) (float64, error) {
	_, rest, ok := strings.Cut(line, ":")
	if !ok {
		return 0, fmt.Errorf("voltage step line has no colon")
	}

	num, _, ok := strings.Cut(rest, voltageUnit)
	if !ok {
		return 0, fmt.Errorf("voltage step line has no %q unit", voltageUnit)
	}

	mv, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid voltage step value: %w", err)
	}

	return mv, nil
}

// parseSample parses an "index: <int>, <float>" sample line. Comma-separated
// fields beyond the second are ignored.
func parseSample(line string) (run.Sample, error) {
	head, rest, ok := strings.Cut(line, ",")
	if !ok {
		return run.Sample{}, fmt.Errorf("sample line has no value field")
	}

	_, idxStr, ok := strings.Cut(head, ":")
	if !ok {
		return run.Sample{}, fmt.Errorf("sample line has no index field")
	}

	index, err := strconv.Atoi(strings.TrimSpace(idxStr))
	if err != nil {
		return run.Sample{}, fmt.Errorf("invalid sample index: %w", err)
	}

	valStr, _, _ := strings.Cut(rest, ",")
	value, err := strconv.ParseFloat(strings.TrimSpace(valStr), 64)
	if err != nil {
		return run.Sample{}, fmt.Errorf("invalid sample value: %w", err)
	}

	return run.Sample{Index: index, Value: value}, nil
}
