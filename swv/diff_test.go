package swv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xinye/go-voltlog/run"
)

func recordWithSamples(values ...float64) *run.Record {
	rec := run.NewRecord()
	for i, v := range values {
		rec.AddSample(i, v)
	}

	return rec
}

func TestDifferences(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected []float64
	}{
		{
			name:     "PairedSamples",
			values:   []float64{1.0, 1.5, 2.0, 1.8},
			expected: []float64{0.5, -0.2},
		},
		{
			name:     "TrailingUnpairedDiscarded",
			values:   []float64{1.0, 1.5, 9.9},
			expected: []float64{0.5},
		},
		{
			name:     "SingleSample",
			values:   []float64{1.0},
			expected: nil,
		},
		{
			name:     "NoSamples",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := recordWithSamples(tt.values...)
			assert.InDeltaSlice(t, tt.expected, Differences(rec), 1e-9)

			if tt.expected == nil {
				assert.Nil(t, Differences(rec))
			}
		})
	}
}

func TestDifferences_DoesNotMutateRecord(t *testing.T) {
	require := require.New(t)

	rec := recordWithSamples(1.0, 1.5, 9.9)
	_ = Differences(rec)

	require.Len(rec.Samples, 3, "the odd trailing sample must stay on the record")
}

func TestRampRange(t *testing.T) {
	require := require.New(t)

	rec := run.NewRecord()
	rec.SetParam(ParamRampStartVolt, "-200")
	rec.SetParam(ParamRampPeakVolt, "200")

	start, peak, err := RampRange(rec)
	require.NoError(err)
	require.Equal(-200.0, start)
	require.Equal(200.0, peak)
}

func TestRampRange_Errors(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]string
	}{
		{name: "MissingStart", params: map[string]string{ParamRampPeakVolt: "200"}},
		{name: "MissingPeak", params: map[string]string{ParamRampStartVolt: "-200"}},
		{name: "BadStart", params: map[string]string{ParamRampStartVolt: "x", ParamRampPeakVolt: "200"}},
		{name: "BadPeak", params: map[string]string{ParamRampStartVolt: "-200", ParamRampPeakVolt: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := run.NewRecord()
			for key, value := range tt.params {
				rec.SetParam(key, value)
			}

			_, _, err := RampRange(rec)
			require.Error(t, err)
		})
	}
}

func TestRampAxis(t *testing.T) {
	assert := assert.New(t)

	assert.InDeltaSlice([]float64{-200, -100, 0, 100}, RampAxis(-200, 200, 4), 1e-9)
	assert.InDeltaSlice([]float64{0}, RampAxis(0, 100, 1), 1e-9)
	assert.Nil(RampAxis(-200, 200, 0))
	assert.Nil(RampAxis(-200, 200, -1))
}
