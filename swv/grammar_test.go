package swv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xinye/go-voltlog/run"
)

func TestParseDeviceName(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("THOR-01", parseDeviceName("Device Name: THOR-01"))
	assert.Equal("THOR-01", parseDeviceName("Device Name:   THOR-01  "))
	assert.Equal("", parseDeviceName("Device Name:"))
}

func TestParseParam(t *testing.T) {
	tests := []struct {
		name          string
		line          string
		expectedKey   string
		expectedValue string
		expectErr     bool
	}{
		{
			name:          "Plain",
			line:          "Param_RampStartVolt: -200",
			expectedKey:   "RampStartVolt",
			expectedValue: "-200",
		},
		{
			name:          "ValueWithColon",
			line:          "Param_Note: a:b",
			expectedKey:   "Note",
			expectedValue: "a:b",
		},
		{
			name:          "EmptyValue",
			line:          "Param_Flag:",
			expectedKey:   "Flag",
			expectedValue: "",
		},
		{
			name:      "NoColon",
			line:      "Param_Broken",
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			key, value, err := parseParam(tt.line)
			if tt.expectErr {
				require.Error(err)
				return
			}

			require.NoError(err)
			require.Equal(tt.expectedKey, key)
			require.Equal(tt.expectedValue, value)
		})
	}
}

func TestParseVoltageStep(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		expected  float64
		expectErr bool
	}{
		{name: "Positive", line: "Voltage Step: 250mV", expected: 250},
		{name: "Negative", line: "Voltage Step: -190mV", expected: -190},
		{name: "Fractional", line: "Voltage Step: 12.5mV", expected: 12.5},
		{name: "SpaceBeforeUnit", line: "Voltage Step: 250 mV", expected: 250},
		{name: "NonNumeric", line: "Voltage Step: abcmV", expectErr: true},
		{name: "MissingUnit", line: "Voltage Step: 250", expectErr: true},
		{name: "MissingValue", line: "Voltage Step: mV", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			mv, err := parseVoltageStep(tt.line)
			if tt.expectErr {
				require.Error(err)
				return
			}

			require.NoError(err)
			require.Equal(tt.expected, mv)
		})
	}
}

func TestParseSample(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		expected  run.Sample
		expectErr bool
	}{
		{name: "Plain", line: "index: 0, 1.10", expected: run.Sample{Index: 0, Value: 1.10}},
		{name: "NegativeValue", line: "index: 7, -0.25", expected: run.Sample{Index: 7, Value: -0.25}},
		{name: "ExtraFields", line: "index: 2, 3.5, 99", expected: run.Sample{Index: 2, Value: 3.5}},
		{name: "NoComma", line: "index: 0", expectErr: true},
		{name: "BadIndex", line: "index: a, 1.0", expectErr: true},
		{name: "BadValue", line: "index: 0, x", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			sample, err := parseSample(tt.line)
			if tt.expectErr {
				require.Error(err)
				return
			}

			require.NoError(err)
			require.Equal(tt.expected, sample)
		})
	}
}
