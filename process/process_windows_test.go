//go:build windows

package process_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/windows"

	"github.com/a2y-d5l/popen3/process"
)

// S1 on Windows: defaults inherit all streams, exit code round-trips.
func TestStartInheritExitsZeroWindows(t *testing.T) {
	t.Parallel()

	p, err := process.Start([]string{"cmd.exe", "/C", "exit 0"}, process.Options{})
	require.NoError(t, err)
	defer p.Close()

	status, err := p.Wait(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Success())
}

// S5: overlapped named pipes on stdin/stdout, driven via the exposed
// manual-reset events and WaitForSingleObject instead of blocking reads.
func TestStartOverlappedPipeRoundTripWindows(t *testing.T) {
	t.Parallel()

	opts := process.Options{
		Stdin:        process.StreamSpec{Mode: process.Pipe},
		Stdout:       process.StreamSpec{Mode: process.Pipe},
		OverlappedIO: true,
	}
	// findstr echoes every line it reads from stdin back to stdout.
	p, err := process.Start([]string{"findstr", "^"}, opts)
	require.NoError(t, err)
	defer p.Close()

	_, err = p.WriteStdin([]byte("hello\r\n"))
	require.NoError(t, err)
	require.NoError(t, p.CloseStdin())

	evt, ok := p.StdoutEvent()
	require.True(t, ok, "stdout should be an overlapped stream with an event")

	var out []byte
	buf := make([]byte, 256)
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		r, werr := windows.WaitForSingleObject(evt, 200)
		require.NoError(t, werr)
		if r == windows.WAIT_TIMEOUT {
			continue
		}
		n, rerr := p.ReadStdout(buf)
		require.NoError(t, rerr)
		if n == 0 {
			break
		}
		out = append(out, buf[:n]...)
	}
	assert.Contains(t, string(out), "hello")

	_, err = p.Wait(context.Background())
	require.NoError(t, err)
}

func TestCollectWaitHandlesIncludesProcessAndStreamEvents(t *testing.T) {
	t.Parallel()

	opts := process.Options{
		Stdout:       process.StreamSpec{Mode: process.Pipe},
		Stderr:       process.StreamSpec{Mode: process.Pipe},
		OverlappedIO: true,
	}
	p, err := process.Start([]string{"cmd.exe", "/C", "exit 0"}, opts)
	require.NoError(t, err)
	defer p.Close()

	handles := p.CollectWaitHandles(false)
	assert.GreaterOrEqual(t, len(handles), 3, "expected process handle plus stdout/stderr events")

	_, err = p.Wait(context.Background())
	require.NoError(t, err)
}

func TestStdinWritePendingAndFinalize(t *testing.T) {
	t.Parallel()

	opts := process.Options{
		Stdin:        process.StreamSpec{Mode: process.Pipe},
		OverlappedIO: true,
	}
	p, err := process.Start([]string{"findstr", "^"}, opts)
	require.NoError(t, err)
	defer p.Close()

	assert.False(t, p.StdinWritePending())
	_, err = p.WriteStdin([]byte("x\r\n"))
	require.NoError(t, err)

	deadline := time.Now().Add(2 * time.Second)
	for p.StdinWritePending() && time.Now().Before(deadline) {
		done, _, ferr := p.FinalizeStdinWrite()
		require.NoError(t, ferr)
		if done {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	assert.False(t, p.StdinWritePending())

	require.NoError(t, p.CloseStdin())
}

func TestTerminateIsNoopWithoutChildWindows(t *testing.T) {
	t.Parallel()

	p := &process.Process{}
	assert.NoError(t, p.Terminate())
}
