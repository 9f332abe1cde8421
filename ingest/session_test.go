package ingest

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xinye/go-voltlog/run"
	"github.com/xinye/go-voltlog/swv"
)

// captureSink is a goroutine-safe run sink; records are emitted from the
// session's consumer goroutine while the test asserts from its own.
type captureSink struct {
	mu      sync.Mutex
	records []*run.Record
}

func (s *captureSink) Emit(record *run.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
}

func (s *captureSink) Records() []*run.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*run.Record(nil), s.records...)
}

func newTestSession(t *testing.T, ctx context.Context, opts ...SessionOption) (*Session, *captureSink) {
	t.Helper()

	capture := &captureSink{}
	cfg, err := NewSessionConfig(capture, opts...)
	require.NoError(t, err)

	session, err := NewSession(ctx, cfg)
	require.NoError(t, err)

	return session, capture
}

const captureStream = "Device Name: THOR-01\n" +
	"Param_RampStartVolt: -200\n" +
	"Param_RampPeakVolt: 200\n" +
	"Voltage Steps:\n" +
	"Voltage Step: -200mV\n" +
	"Voltage Step: -190mV\n" +
	"Data Output:\n" +
	"index: 0, 1.10\n" +
	"index: 1, 1.15\n"

func TestSession_RunReaderSource(t *testing.T) {
	require := require.New(t)

	session, capture := newTestSession(t, context.Background())

	// A tiny read buffer forces chunk boundaries in the middle of lines.
	err := session.Run(NewReaderSource(strings.NewReader(captureStream), 7))
	require.NoError(err)

	records := capture.Records()
	require.Len(records, 1, "end of stream must flush the in-progress run")

	rec := records[0]
	require.Equal("THOR-01", rec.DeviceName)
	require.Equal(map[string]string{"RampStartVolt": "-200", "RampPeakVolt": "200"}, rec.Params)
	require.Equal([]float64{-200, -190}, rec.VoltageSteps)
	require.Equal([]run.Sample{{Index: 0, Value: 1.10}, {Index: 1, Value: 1.15}}, rec.Samples)

	require.Equal(uint64(9), session.Parser().Metrics().LineCount.Load())
	require.Equal(uint64(len(captureStream)), session.Metrics().ByteRecvCount.Load())
}

func TestSession_PushMode(t *testing.T) {
	require := require.New(t)

	session, capture := newTestSession(t, context.Background(),
		WithChunkQueueSize(8),
		WithParserOptions(swv.WithEndMarkerPolicy(swv.EndMarkerFinalize)),
	)

	require.NoError(session.Open())
	require.NoError(session.Open(), "opening twice is a no-op")

	// Notification-sized fragments, split without regard for line boundaries.
	for _, fragment := range []string{
		"Device Name: TH",
		"OR-01\nVoltage Steps:\nData Out",
		"put:\nindex: 0, 1.10\nSqrWave Voltammetry",
		" test finished\n",
	} {
		require.NoError(session.Feed([]byte(fragment)))
	}

	require.NoError(session.Close())

	records := capture.Records()
	require.Len(records, 1)
	require.Equal("THOR-01", records[0].DeviceName)
	require.Equal([]run.Sample{{Index: 0, Value: 1.10}}, records[0].Samples)

	require.ErrorIs(session.Feed([]byte("x")), ErrSessionClosed)
	require.ErrorIs(session.Open(), ErrSessionClosed)
	require.NoError(session.Close(), "closing twice is safe")
}

func TestSession_UndecodableChunkDropped(t *testing.T) {
	require := require.New(t)

	session, capture := newTestSession(t, context.Background())

	require.NoError(session.Open())
	require.NoError(session.Feed([]byte("Device Name: THOR-01\nVoltage Steps:\n")))
	require.NoError(session.Feed([]byte{0xff, 0xfe}))
	require.NoError(session.Feed([]byte("index: 0, 1.10\n")))
	require.NoError(session.Close())

	require.Equal(uint64(3), session.Metrics().ChunkRecvCount.Load())
	require.Equal(uint64(1), session.Metrics().ChunkDropCount.Load())

	records := capture.Records()
	require.Len(records, 1, "the stream must survive a dropped chunk")
	require.Equal("THOR-01", records[0].DeviceName)
}

func TestSession_RunTransportFailure(t *testing.T) {
	require := require.New(t)

	transportErr := errors.New("link lost")
	src := &scriptedSource{
		chunks: [][]byte{[]byte(captureStream)},
		err:    transportErr,
	}

	session, capture := newTestSession(t, context.Background())

	err := session.Run(src)
	require.ErrorIs(err, transportErr)

	require.Len(capture.Records(), 1,
		"chunks delivered before the failure must still produce their run")
}

func TestSession_RunContextCancelled(t *testing.T) {
	require := require.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	session, capture := newTestSession(t, ctx)

	src := NewChanSource(4)
	require.True(src.Push([]byte(captureStream)))

	done := make(chan error, 1)
	go func() { done <- session.Run(src) }()

	// Wait until the consumer has processed the pushed data, then cancel.
	require.Eventually(func() bool {
		return session.Parser().Metrics().LineCount.Load() == 9
	}, time.Second, time.Millisecond)

	cancel()

	select {
	case err := <-done:
		require.NoError(err, "cancellation is a clean shutdown, not a transport failure")
	case <-time.After(time.Second):
		t.Fatal("session.Run did not return after cancellation")
	}

	require.Len(capture.Records(), 1, "cancellation must still flush the in-progress run")
}

func TestSession_NilArguments(t *testing.T) {
	require := require.New(t)

	_, err := NewSession(context.Background(), nil)
	require.ErrorIs(err, ErrSessionConfigNil)

	session, _ := newTestSession(t, context.Background())
	require.ErrorIs(session.Run(nil), ErrSourceNil)
}

func TestSession_CloseWithoutOpen(t *testing.T) {
	require := require.New(t)

	session, capture := newTestSession(t, context.Background())
	require.NoError(session.Close())
	require.Empty(capture.Records())
}

// scriptedSource replays a fixed chunk sequence and then a terminal error.
type scriptedSource struct {
	chunks [][]byte
	err    error
	pos    int
}

func (s *scriptedSource) NextChunk(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if s.pos >= len(s.chunks) {
		return nil, s.err
	}

	chunk := s.chunks[s.pos]
	s.pos++

	return chunk, nil
}
