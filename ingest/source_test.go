package ingest

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReaderSource(t *testing.T) {
	require := require.New(t)

	src := NewReaderSource(strings.NewReader("Device Name: THOR-01\n"), 8)
	ctx := context.Background()

	var got []byte
	for {
		chunk, err := src.NextChunk(ctx)
		if err != nil {
			require.ErrorIs(err, io.EOF)
			break
		}

		require.LessOrEqual(len(chunk), 8)
		got = append(got, chunk...)
	}

	require.Equal("Device Name: THOR-01\n", string(got))
}

func TestReaderSource_ChunkIsOwnedCopy(t *testing.T) {
	require := require.New(t)

	src := NewReaderSource(strings.NewReader("abcdef"), 3)
	ctx := context.Background()

	first, err := src.NextChunk(ctx)
	require.NoError(err)

	second, err := src.NextChunk(ctx)
	require.NoError(err)

	require.Equal("abc", string(first), "the reused internal buffer must not alias earlier chunks")
	require.Equal("def", string(second))
}

func TestReaderSource_DeferredError(t *testing.T) {
	require := require.New(t)

	// DataErrReader reports EOF together with the final data; the data must be
	// delivered first and the error on the following call.
	src := NewReaderSource(iotest.DataErrReader(strings.NewReader("tail")), 16)
	ctx := context.Background()

	chunk, err := src.NextChunk(ctx)
	require.NoError(err)
	require.Equal("tail", string(chunk))

	_, err = src.NextChunk(ctx)
	require.ErrorIs(err, io.EOF)
}

func TestReaderSource_TransportError(t *testing.T) {
	require := require.New(t)

	transportErr := errors.New("probe disconnected")
	src := NewReaderSource(iotest.ErrReader(transportErr), 16)

	_, err := src.NextChunk(context.Background())
	require.ErrorIs(err, transportErr)
}

func TestReaderSource_ContextCancelled(t *testing.T) {
	require := require.New(t)

	src := NewReaderSource(strings.NewReader("data"), 16)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.NextChunk(ctx)
	require.ErrorIs(err, context.Canceled)
}

func TestChanSource(t *testing.T) {
	require := require.New(t)

	src := NewChanSource(4)
	ctx := context.Background()

	buf := []byte("Device Name: THOR-01\n")
	require.True(src.Push(buf))

	// The producer may reuse its buffer immediately after Push.
	buf[0] = 'X'

	chunk, err := src.NextChunk(ctx)
	require.NoError(err)
	require.Equal("Device Name: THOR-01\n", string(chunk))

	src.CloseSend()
	src.CloseSend() // safe to repeat

	_, err = src.NextChunk(ctx)
	require.ErrorIs(err, io.EOF)

	require.False(src.Push([]byte("late")), "chunks after CloseSend are dropped")
}

func TestChanSource_ContextCancelled(t *testing.T) {
	require := require.New(t)

	src := NewChanSource(0)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := src.NextChunk(ctx)
	require.ErrorIs(err, context.DeadlineExceeded)
}
