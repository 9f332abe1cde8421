package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xinye/go-voltlog/run"
)

func TestCSVWriter(t *testing.T) {
	require := require.New(t)

	baseDir := t.TempDir()
	w := NewCSVWriter(baseDir, nil)

	rec := run.NewRecord()
	rec.StartedAt = time.Date(2026, 8, 23, 14, 30, 5, 0, time.UTC)
	rec.DeviceName = "THOR-01"
	rec.SetParam("RampStartVolt", "-200")
	rec.SetParam("Frequency", "25")
	rec.AddVoltageStep(-200)
	rec.AddVoltageStep(-190)
	rec.AddSample(0, 1.10)
	rec.AddSample(1, 1.15)

	w.Emit(rec)

	dir := filepath.Join(baseDir, "2026-08-23_14-30-05_THOR-01")
	require.DirExists(dir)

	params, err := os.ReadFile(filepath.Join(dir, "parameters.txt"))
	require.NoError(err)
	require.Equal(
		"Device Name: THOR-01\nFrequency: 25\nRampStartVolt: -200\n",
		string(params),
		"parameters are sorted by key")

	steps := readCSVFile(t, filepath.Join(dir, "voltage_steps.csv"))
	require.Equal([][]string{
		{"Voltage (mV)"},
		{"-200"},
		{"-190"},
	}, steps)

	samples := readCSVFile(t, filepath.Join(dir, "output_data.csv"))
	require.Equal([][]string{
		{"Index", "Value"},
		{"0", "1.1"},
		{"1", "1.15"},
	}, samples)
}

func TestCSVWriter_OneDirectoryPerRun(t *testing.T) {
	require := require.New(t)

	baseDir := t.TempDir()
	w := NewCSVWriter(baseDir, nil)

	base := time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		rec := run.NewRecord()
		rec.StartedAt = base.Add(time.Duration(i) * time.Second)
		rec.DeviceName = fmt.Sprintf("THOR-%02d", i)
		rec.AddSample(0, 1.0)
		w.Emit(rec)
	}

	entries, err := os.ReadDir(baseDir)
	require.NoError(err)
	require.Len(entries, 3)
}

func TestCSVWriter_UnwritableBaseDoesNotPanic(t *testing.T) {
	w := NewCSVWriter(filepath.Join(t.TempDir(), "missing", "\x00bad"), nil)

	rec := run.NewRecord()
	rec.DeviceName = "THOR-01"
	rec.AddSample(0, 1.0)

	require.NotPanics(t, func() { w.Emit(rec) })
}

func readCSVFile(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	return rows
}
