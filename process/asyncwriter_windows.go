//go:build windows

package process

import "golang.org/x/sys/windows"

// asyncWriter is the overlapped-I/O write side of stdin when
// Options.OverlappedIO is set: at most one WriteFile may be pending at
// a time (spec.md §4.5), observed through the same manual-reset-event
// pattern as asyncReader. Ported from ov_write_t/write_stdin_async/
// try_finalize_stdin_write in the Windows reference implementation.
type asyncWriter struct {
	h   windows.Handle
	evt windows.Handle
	ov  windows.Overlapped

	buf     []byte
	pending bool
	lastN   int
}

func newAsyncWriter(h windows.Handle) (*asyncWriter, error) {
	evt, err := windows.CreateEvent(nil, 1, 0, nil)
	if err != nil {
		return nil, err
	}
	return &asyncWriter{h: h, evt: evt}, nil
}

func (w *asyncWriter) event() windows.Handle { return w.evt }

// write starts a new overlapped WriteFile. It returns ErrWouldBlock
// immediately if a previous write is still pending (the one-at-a-time
// invariant); callers must finalize() the prior write first.
func (w *asyncWriter) write(p []byte) (int, error) {
	if w.h == 0 {
		return 0, newError("write", KindNotAvailable, 0, nil)
	}
	if w.pending {
		return 0, newError("write", KindWouldBlock, 0, nil)
	}
	if len(p) == 0 {
		return 0, nil
	}

	w.buf = append(w.buf[:0], p...)
	windows.ResetEvent(w.evt)
	w.ov = windows.Overlapped{HEvent: w.evt}

	var n uint32
	err := windows.WriteFile(w.h, w.buf, &n, &w.ov)
	if err == nil {
		w.pending, w.lastN = false, int(n)
		windows.SetEvent(w.evt)
		return int(n), nil
	}
	if err == windows.ERROR_IO_PENDING {
		w.pending = true
		return 0, nil
	}
	return 0, newError("write", KindIO, 0, err)
}

// finalize reports whether the pending write (if any) has completed,
// and if so its byte count. Called false with no error means still
// pending; called true always clears pending.
func (w *asyncWriter) finalize() (done bool, n int, err error) {
	if !w.pending {
		return true, w.lastN, nil
	}
	var got uint32
	werr := windows.GetOverlappedResult(w.h, &w.ov, &got, false)
	if werr == nil {
		w.pending, w.lastN = false, int(got)
		return true, w.lastN, nil
	}
	switch werr {
	case windows.ERROR_IO_INCOMPLETE:
		return false, 0, nil
	case windows.ERROR_BROKEN_PIPE:
		w.pending, w.lastN = false, 0
		windows.SetEvent(w.evt)
		return true, 0, nil
	default:
		w.pending, w.lastN = false, 0
		return true, 0, newError("write", KindIO, 0, werr)
	}
}

func (w *asyncWriter) close() error {
	if w.h == 0 {
		return nil
	}
	if w.pending {
		windows.CancelIo(w.h)
	}
	h, evt := w.h, w.evt
	w.h, w.evt = 0, 0
	err := windows.CloseHandle(h)
	if evt != 0 {
		windows.CloseHandle(evt)
	}
	if err != nil {
		return newError("close", KindIO, 0, err)
	}
	return nil
}
