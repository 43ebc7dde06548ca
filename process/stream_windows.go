//go:build windows

package process

import "golang.org/x/sys/windows"

// syncPipe is the non-overlapped Pipe-mode stream implementation: plain
// blocking ReadFile/WriteFile, optionally gated by PeekNamedPipe when
// Options.ParentNonblock is set so a read with no data available
// returns (0, nil) instead of blocking. Ported from read_sync_ in the
// Windows reference implementation.
type syncPipe struct {
	h        windows.Handle
	nonblock bool
}

func (s *syncPipe) read(p []byte) (int, error) {
	if s.h == 0 {
		return 0, newError("read", KindNotAvailable, 0, nil)
	}
	toRead := p
	if s.nonblock {
		var avail uint32
		if err := windows.PeekNamedPipe(s.h, nil, 0, nil, &avail, nil); err != nil {
			if err == windows.ERROR_BROKEN_PIPE {
				return 0, newError("read", KindBrokenPipe, 0, nil)
			}
			return 0, newError("read", KindIO, 0, err)
		}
		if avail == 0 {
			return 0, nil
		}
		if int(avail) < len(toRead) {
			toRead = toRead[:avail]
		}
	}
	var n uint32
	err := windows.ReadFile(s.h, toRead, &n, nil)
	if err != nil {
		if err == windows.ERROR_BROKEN_PIPE {
			return 0, newError("read", KindBrokenPipe, 0, nil)
		}
		return int(n), newError("read", KindIO, 0, err)
	}
	return int(n), nil
}

func (s *syncPipe) write(p []byte) (int, error) {
	if s.h == 0 {
		return 0, newError("write", KindNotAvailable, 0, nil)
	}
	var n uint32
	err := windows.WriteFile(s.h, p, &n, nil)
	if err != nil {
		if err == windows.ERROR_BROKEN_PIPE {
			return int(n), newError("write", KindBrokenPipe, 0, nil)
		}
		return int(n), newError("write", KindIO, 0, err)
	}
	return int(n), nil
}

func (s *syncPipe) close() error {
	if s.h == 0 {
		return nil
	}
	h := s.h
	s.h = 0
	if err := windows.CloseHandle(h); err != nil {
		return newError("close", KindIO, 0, err)
	}
	return nil
}

// StdinEvent returns the manual-reset event signaled when a pending
// overlapped stdin write completes, or (0, false) if stdin is not an
// overlapped stream.
func (p *Process) StdinEvent() (windows.Handle, bool) {
	w, ok := p.stdin.(*asyncWriter)
	if !ok || w.h == 0 {
		return 0, false
	}
	return w.event(), true
}

// StdoutEvent returns the manual-reset event signaled when stdout has a
// completed overlapped read (data or EOF) ready to drain, or (0, false)
// if stdout is not an overlapped stream.
func (p *Process) StdoutEvent() (windows.Handle, bool) {
	r, ok := p.stdout.(*asyncReader)
	if !ok || r.h == 0 {
		return 0, false
	}
	return r.event(), true
}

// StderrEvent mirrors StdoutEvent for stderr.
func (p *Process) StderrEvent() (windows.Handle, bool) {
	r, ok := p.stderr.(*asyncReader)
	if !ok || r.h == 0 {
		return 0, false
	}
	return r.event(), true
}

// ProcessHandle returns the child's process handle, for use in a
// caller-driven WaitForMultipleObjects loop, or (0, false) if no child
// was ever started.
func (p *Process) ProcessHandle() (windows.Handle, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.plat.procHandle == 0 {
		return 0, false
	}
	return p.plat.procHandle, true
}

// CollectWaitHandles returns the process handle plus the event handles
// of any overlapped output streams, suitable for a single
// WaitForMultipleObjects call. includeStdinWrite additionally includes
// the stdin write-completion event, when stdin is an overlapped stream
// with a write pending.
func (p *Process) CollectWaitHandles(includeStdinWrite bool) []windows.Handle {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []windows.Handle
	if p.plat.procHandle != 0 {
		out = append(out, p.plat.procHandle)
	}
	if r, ok := p.stdout.(*asyncReader); ok && r.h != 0 {
		out = append(out, r.evt)
	}
	if r, ok := p.stderr.(*asyncReader); ok && r.h != 0 {
		out = append(out, r.evt)
	}
	if includeStdinWrite {
		if w, ok := p.stdin.(*asyncWriter); ok && w.h != 0 && w.pending {
			out = append(out, w.evt)
		}
	}
	return out
}

// StdinWritePending reports whether an overlapped stdin write is still
// in flight. It is always false for non-overlapped stdin.
func (p *Process) StdinWritePending() bool {
	w, ok := p.stdin.(*asyncWriter)
	return ok && w.pending
}

// FinalizeStdinWrite polls the pending overlapped stdin write (if any)
// and reports whether it has completed, along with the byte count from
// the most recently completed write. Call after StdinEvent signals, or
// after CollectWaitHandles's wait returns the stdin event index.
func (p *Process) FinalizeStdinWrite() (done bool, n int, err error) {
	w, ok := p.stdin.(*asyncWriter)
	if !ok {
		return true, 0, p.setErr(newError("finalize_stdin_write", KindNotAvailable, 0, nil))
	}
	done, n, ferr := w.finalize()
	if ferr != nil {
		return done, n, p.setErr(ferr)
	}
	return done, n, nil
}
