//go:build windows

package process

import "golang.org/x/sys/windows"

// asyncReader is the overlapped-I/O read side of an output stream
// (stdout/stderr) when Options.OverlappedIO is set. It implements the
// idle -> pending -> buffered -> eof state machine from spec.md §4.3,
// ported from ov_read_t/post_read_/acquire_completed_read_/
// read_from_ov_ in the Windows reference implementation: at most one
// ReadFile is ever in flight, completion is observed by a manual-reset
// event the caller can also wait on directly (Event()), and the
// completed buffer is doled out to callers of read() a slice at a time
// before the next ReadFile is posted.
type asyncReader struct {
	h    windows.Handle
	evt  windows.Handle
	ov   windows.Overlapped
	buf  []byte
	have int
	pos  int

	pending bool
	eof     bool
}

func newAsyncReader(h windows.Handle, bufSize int) (*asyncReader, error) {
	evt, err := windows.CreateEvent(nil, 1, 0, nil)
	if err != nil {
		return nil, err
	}
	if bufSize <= 0 {
		bufSize = 64 * 1024
	}
	r := &asyncReader{h: h, evt: evt, buf: make([]byte, bufSize)}
	return r, nil
}

// event returns the manual-reset completion event a caller's own
// WaitForMultipleObjects loop can wait on alongside other handles.
func (r *asyncReader) event() windows.Handle { return r.evt }

// postRead issues the next ReadFile against the pipe, or is a no-op if
// one is already pending or EOF has been reached.
func (r *asyncReader) postRead() error {
	if r.pending || r.eof || r.h == 0 {
		return nil
	}
	windows.ResetEvent(r.evt)
	r.ov = windows.Overlapped{HEvent: r.evt}

	var n uint32
	err := windows.ReadFile(r.h, r.buf, &n, &r.ov)
	if err == nil {
		r.have, r.pos, r.pending = int(n), 0, false
		if n == 0 {
			r.eof = true
		}
		windows.SetEvent(r.evt)
		return nil
	}
	switch err {
	case windows.ERROR_IO_PENDING:
		r.pending = true
		return nil
	case windows.ERROR_BROKEN_PIPE:
		r.have, r.pos, r.pending, r.eof = 0, 0, false, true
		windows.SetEvent(r.evt)
		return nil
	default:
		return err
	}
}

// acquireCompleted checks (non-blockingly) whether a pending ReadFile
// has finished, folding its result into have/pos/eof. It reports
// whether a result is now available to drain (buffered data or EOF).
func (r *asyncReader) acquireCompleted() (bool, error) {
	if !r.pending {
		return r.have > r.pos || r.eof, nil
	}
	var n uint32
	err := windows.GetOverlappedResult(r.h, &r.ov, &n, false)
	if err == nil {
		r.have, r.pos, r.pending = int(n), 0, false
		if n == 0 {
			r.eof = true
		}
		return true, nil
	}
	switch err {
	case windows.ERROR_IO_INCOMPLETE:
		return false, nil
	case windows.ERROR_BROKEN_PIPE:
		r.have, r.pos, r.pending, r.eof = 0, 0, false, true
		return true, nil
	default:
		r.have, r.pos, r.pending, r.eof = 0, 0, false, true
		return true, err
	}
}

// read drains any buffered bytes into p, or, once drained, checks for a
// newly completed read and drains that. It never blocks: 0 bytes with a
// nil error means either "nothing completed yet" or EOF, matching the
// spec's non-blocking-read contract.
func (r *asyncReader) read(p []byte) (int, error) {
	if r.h == 0 {
		return 0, newError("read", KindNotAvailable, 0, nil)
	}

	if r.have > r.pos {
		return r.drain(p), nil
	}
	if r.eof {
		return 0, nil
	}

	ready, err := r.acquireCompleted()
	if err != nil {
		return 0, newError("read", KindIO, 0, err)
	}
	if !ready {
		return 0, nil
	}
	if r.have > r.pos {
		return r.drain(p), nil
	}
	// Completed with 0 bytes: EOF.
	r.eof = true
	windows.ResetEvent(r.evt)
	return 0, nil
}

func (r *asyncReader) drain(p []byte) int {
	avail := r.have - r.pos
	n := len(p)
	if n > avail {
		n = avail
	}
	copy(p, r.buf[r.pos:r.pos+n])
	r.pos += n
	if r.pos == r.have {
		r.have, r.pos = 0, 0
		if !r.eof {
			r.postRead()
		} else {
			windows.ResetEvent(r.evt)
		}
	}
	return n
}

func (r *asyncReader) close() error {
	if r.h == 0 {
		return nil
	}
	if r.pending {
		windows.CancelIo(r.h)
	}
	h, evt := r.h, r.evt
	r.h, r.evt = 0, 0
	r.eof = true
	err := windows.CloseHandle(h)
	if evt != 0 {
		windows.CloseHandle(evt)
	}
	if err != nil {
		return newError("close", KindIO, 0, err)
	}
	return nil
}
