package swv

import (
	"fmt"
	"strconv"

	"github.com/xinye/go-voltlog/internal/util"
	"github.com/xinye/go-voltlog/run"
)

// Parameter keys used by the ramp helpers.
const (
	ParamRampStartVolt = "RampStartVolt"
	ParamRampPeakVolt  = "RampPeakVolt"
)

// Differences computes the square-wave difference currents of a run: the
// instrument samples each step twice (forward and reverse pulse), and the
// voltammogram is the pairwise difference value[2i+1]-value[2i].
//
// A trailing unpaired sample is discarded. Returns nil when the run holds
// fewer than two samples.
func Differences(rec *run.Record) []float64 {
	samples := rec.Samples
	if len(samples)%2 != 0 {
		samples = util.CloneSlice(samples, 0)
		samples = samples[:len(samples)-1]
	}

	if len(samples) < 2 {
		return nil
	}

	diffs := make([]float64, 0, len(samples)/2)
	for i := 0; i+1 < len(samples); i += 2 {
		diffs = append(diffs, samples[i+1].Value-samples[i].Value)
	}

	return diffs
}

// RampRange extracts the ramp start and peak voltages, in millivolts, from
// the run's RampStartVolt and RampPeakVolt parameters.
func RampRange(rec *run.Record) (startMV, peakMV float64, err error) {
	startStr, ok := rec.Param(ParamRampStartVolt)
	if !ok {
		return 0, 0, fmt.Errorf("parameter %s not declared", ParamRampStartVolt)
	}

	peakStr, ok := rec.Param(ParamRampPeakVolt)
	if !ok {
		return 0, 0, fmt.Errorf("parameter %s not declared", ParamRampPeakVolt)
	}

	startMV, err = strconv.ParseFloat(startStr, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid %s: %w", ParamRampStartVolt, err)
	}

	peakMV, err = strconv.ParseFloat(peakStr, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid %s: %w", ParamRampPeakVolt, err)
	}

	return startMV, peakMV, nil
}

// RampAxis returns the voltage coordinate of each difference point, spreading
// points evenly across [startMV, peakMV).
func RampAxis(startMV, peakMV float64, points int) []float64 {
	if points <= 0 {
		return nil
	}

	scale := peakMV - startMV
	axis := make([]float64, points)
	for i := range axis {
		axis[i] = startMV + float64(i)*scale/float64(points)
	}

	return axis
}
