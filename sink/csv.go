package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/xinye/go-voltlog/logger"
	"github.com/xinye/go-voltlog/run"
)

const runDirTimeLayout = "2006-01-02_15-04-05"

// CSVWriter exports each emitted run into its own directory under a base
// path, using the classic data-logger layout:
//
//	<baseDir>/<timestamp>_<device>/
//	    parameters.txt
//	    voltage_steps.csv
//	    output_data.csv
//
// Failures are logged, never propagated.
type CSVWriter struct {
	baseDir string
	logger  logger.Logger
}

var _ run.Sink = (*CSVWriter)(nil)

// NewCSVWriter creates a CSVWriter rooted at baseDir. The directory is
// created on demand. A nil logger selects the global logger instance.
func NewCSVWriter(baseDir string, l logger.Logger) *CSVWriter {
	if l == nil {
		l = logger.GetLogger()
	}

	return &CSVWriter{
		baseDir: baseDir,
		logger:  l,
	}
}

// Emit writes the run's parameters, voltage steps, and output samples.
func (s *CSVWriter) Emit(record *run.Record) {
	dirName := fmt.Sprintf("%s_%s", record.StartedAt.Format(runDirTimeLayout), record.DeviceName)
	dir := filepath.Join(s.baseDir, dirName)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.logger.Error("failed to create run directory", "dir", dir, "error", err)
		return
	}

	if err := s.writeParameters(dir, record); err != nil {
		s.logger.Error("failed to write parameters", "dir", dir, "error", err)
	}

	if err := s.writeVoltageSteps(dir, record); err != nil {
		s.logger.Error("failed to write voltage steps", "dir", dir, "error", err)
	}

	if err := s.writeSamples(dir, record); err != nil {
		s.logger.Error("failed to write output data", "dir", dir, "error", err)
	}

	s.logger.Info("run saved", "device", record.DeviceName, "run_id", record.ID, "dir", dir)
}

func (s *CSVWriter) writeParameters(dir string, record *run.Record) error {
	f, err := os.Create(filepath.Join(dir, "parameters.txt"))
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "Device Name: %s\n", record.DeviceName); err != nil {
		return err
	}

	// Deterministic parameter order for diff-friendly output.
	keys := make([]string, 0, len(record.Params))
	for key := range record.Params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, err := fmt.Fprintf(f, "%s: %s\n", key, record.Params[key]); err != nil {
			return err
		}
	}

	return f.Close()
}

func (s *CSVWriter) writeVoltageSteps(dir string, record *run.Record) error {
	f, err := os.Create(filepath.Join(dir, "voltage_steps.csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Voltage (mV)"}); err != nil {
		return err
	}

	for _, mv := range record.VoltageSteps {
		if err := w.Write([]string{strconv.FormatFloat(mv, 'g', -1, 64)}); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	return f.Close()
}

func (s *CSVWriter) writeSamples(dir string, record *run.Record) error {
	f, err := os.Create(filepath.Join(dir, "output_data.csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Index", "Value"}); err != nil {
		return err
	}

	for _, sample := range record.Samples {
		row := []string{
			strconv.Itoa(sample.Index),
			strconv.FormatFloat(sample.Value, 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	return f.Close()
}
