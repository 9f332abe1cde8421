package swv

import (
	"strings"

	"github.com/xinye/go-voltlog/logger"
	"github.com/xinye/go-voltlog/run"
)

// Parser is the run-lifecycle state machine. It consumes complete, trimmed
// lines one at a time, classifies each against the current state, mutates the
// in-progress run record, and emits the record to the configured sink when
// the run completes.
//
// Parser is NOT goroutine-safe. Lines must be processed strictly in arrival
// order on a single goroutine; the boundary-detection logic depends on seeing
// "Device Name:" after all lines of the prior run. State and metrics may be
// observed concurrently.
//
// The parser itself never errors: malformed fields drop that single line's
// contribution, unrecognized lines are noise, and its only externally
// observable effects are state transitions and emitted records.
type Parser struct {
	cfg    *ParserConfig
	logger logger.Logger

	state   AtomicState
	record  *run.Record
	metrics ParserMetrics
}

// NewParser creates a new Parser with the given configuration.
// Returns an error if the configuration is nil.
func NewParser(cfg *ParserConfig) (*Parser, error) {
	if cfg == nil {
		return nil, ErrParserConfigNil
	}
	if cfg.sink == nil {
		return nil, ErrSinkNil
	}

	p := &Parser{
		cfg:    cfg,
		logger: cfg.logger,
		record: run.NewRecord(),
	}
	p.metrics.init()
	p.state.Set(WaitingForData)

	return p, nil
}

// State returns the current run-lifecycle state.
func (p *Parser) State() State {
	return p.state.Get()
}

// Record returns the in-progress run record. The record is owned by the
// parser until it is emitted; callers that retain data across further
// ProcessLine calls should Clone it.
func (p *Parser) Record() *run.Record {
	return p.record
}

// Metrics returns the parser metrics.
func (p *Parser) Metrics() *ParserMetrics {
	return &p.metrics
}

// ProcessLine advances the state machine by one line.
//
// Classification precedence:
//  1. "Device Name:" boundary line, regardless of state.
//  2. Configured ignorable prefixes, regardless of state.
//  3. Phase-skip guard: an "index:" line during the voltage-step phase
//     corrects the state and is re-dispatched under the corrected state.
//  4. Phase-scoped grammar for the current state.
//
// Anything else is noise and leaves record and state unchanged.
func (p *Parser) ProcessLine(line string) {
	p.metrics.incLineCount()

	if strings.HasPrefix(line, DeviceNamePrefix) {
		p.startRun(line)
		return
	}

	for _, prefix := range p.cfg.ignorePrefixes {
		if strings.HasPrefix(line, prefix) {
			p.metrics.incLineIgnoredCount()
			return
		}
	}

	state := p.state.Get()

	// The instrument sometimes omits the "Data Output:" phase marker. Correct
	// the state and process this line under the corrected state.
	if state.IsParsingVoltageSteps() && strings.HasPrefix(line, IndexPrefix) {
		p.logger.Info("sample line during voltage-step phase, switching to data output",
			"device", p.record.DeviceName)
		p.state.Set(ParsingDataOutput)
		state = ParsingDataOutput
	}

	switch state {
	case ParsingParams:
		p.processParamsLine(line)
	case ParsingVoltageSteps:
		p.processVoltageStepLine(line)
	case ParsingDataOutput:
		p.processDataOutputLine(line)
	case WaitingForData:
		p.metrics.incLineIgnoredCount()
	}
}

// Flush finalizes the in-progress run at end of stream: the record is emitted
// when savable, and the parser resets to WaitingForData with a fresh record.
//
// Flush is idempotent; a flushed parser holds an empty, unsavable record, so
// repeated calls emit nothing.
func (p *Parser) Flush() {
	p.emitIfSavable("end of stream")

	p.record = run.NewRecord()
	p.state.Set(WaitingForData)
}

// startRun handles a "Device Name:" boundary line: the previous record is
// emitted when savable, then the parser re-arms for the new run. The emit
// happens before any mutation for the new run is observable.
func (p *Parser) startRun(line string) {
	p.emitIfSavable("run boundary")

	name := parseDeviceName(line)

	rec := run.NewRecord()
	rec.DeviceName = name
	p.record = rec
	p.state.Set(ParsingParams)

	p.logger.Info("new run detected", "device", name, "run_id", rec.ID)
}

func (p *Parser) processParamsLine(line string) {
	switch {
	case strings.HasPrefix(line, ParamPrefix):
		key, value, err := parseParam(line)
		if err != nil {
			p.metrics.incParseErrCount()
			p.logger.Debug("malformed parameter line dropped", "line", line, "error", err)
			return
		}
		p.record.SetParam(key, value)

	case strings.HasPrefix(line, VoltageStepsPrefix):
		p.state.Set(ParsingVoltageSteps)
		p.logger.Debug("parsing voltage steps", "device", p.record.DeviceName)

	default:
		p.metrics.incLineIgnoredCount()
	}
}

func (p *Parser) processVoltageStepLine(line string) {
	switch {
	case strings.HasPrefix(line, VoltageStepPrefix):
		mv, err := parseVoltageStep(line)
		if err != nil {
			p.metrics.incParseErrCount()
			p.logger.Debug("malformed voltage step dropped", "line", line, "error", err)
			return
		}
		p.record.AddVoltageStep(mv)

	case strings.HasPrefix(line, DataOutputPrefix):
		p.state.Set(ParsingDataOutput)
		p.logger.Debug("parsing data output", "device", p.record.DeviceName)

	default:
		p.metrics.incLineIgnoredCount()
	}
}

func (p *Parser) processDataOutputLine(line string) {
	if strings.HasPrefix(line, IndexPrefix) {
		sample, err := parseSample(line)
		if err != nil {
			p.metrics.incParseErrCount()
			p.logger.Debug("malformed sample line dropped", "line", line, "error", err)
			return
		}
		p.record.AddSample(sample.Index, sample.Value)

		return
	}

	if p.cfg.endMarker != "" && strings.Contains(line, p.cfg.endMarker) {
		p.metrics.incEndMarkerCount()
		p.handleEndMarker()

		return
	}

	p.metrics.incLineIgnoredCount()
}

// handleEndMarker applies the configured channel policy to the end-of-test
// marker.
func (p *Parser) handleEndMarker() {
	switch p.cfg.endMarkerPolicy {
	case EndMarkerContinue:
		// More chunks of the same run may still follow; the run stays open
		// until the next boundary line.
		p.logger.Debug("end-of-test marker observed, run stays open",
			"device", p.record.DeviceName, "samples", len(p.record.Samples))

	case EndMarkerFinalize:
		p.emitIfSavable("end-of-test marker")
		p.record = run.NewRecord()
		p.state.Set(WaitingForData)
	}
}

// emitIfSavable hands the in-progress record to the sink when it holds enough
// data. The emit is synchronous; ownership of the record transfers to the
// sink, and every caller replaces p.record afterwards. Returns whether a
// record was emitted.
func (p *Parser) emitIfSavable(reason string) bool {
	rec := p.record

	if !rec.Savable() {
		if p.cfg.fallbackDeviceName == "" || len(rec.Samples) == 0 {
			p.logger.Debug("run not savable, skipping emit",
				"reason", reason, "device", rec.DeviceName, "samples", len(rec.Samples))
			return false
		}

		rec.DeviceName = p.cfg.fallbackDeviceName
	}

	// Capture identifying fields before Emit; the sink may consume the record
	// destructively.
	device := rec.DeviceName
	runID := rec.ID
	samples := len(rec.Samples)
	steps := len(rec.VoltageSteps)

	p.cfg.sink.Emit(rec)
	p.metrics.incRunEmitCount(device)

	p.logger.Info("run emitted",
		"reason", reason, "device", device, "run_id", runID,
		"samples", samples, "voltage_steps", steps)

	return true
}
