//go:build windows

package process

import (
	"context"

	"golang.org/x/sys/windows"
)

// Alive reports whether the child has not yet exited, per
// WaitForSingleObject(proc_, 0) in the reference implementation.
func (p *Process) Alive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != stateStarted || p.plat.procHandle == 0 {
		return false
	}
	r, err := windows.WaitForSingleObject(p.plat.procHandle, 0)
	if err != nil {
		return false
	}
	if r == windows.WAIT_TIMEOUT {
		return true
	}
	p.recordExit()
	return false
}

// recordExit fetches the child's exit code and marks it reaped. Caller
// must hold p.mu.
func (p *Process) recordExit() {
	p.state = stateReaped
	var code uint32
	if err := windows.GetExitCodeProcess(p.plat.procHandle, &code); err == nil {
		p.exitStatus = &ExitStatus{ExitCode: int(int32(code))}
	} else {
		p.exitStatus = &ExitStatus{}
	}
	if p.waitDone != nil {
		select {
		case <-p.waitDone:
		default:
			close(p.waitDone)
		}
	}
}

// Wait blocks until the child exits or ctx is done, whichever comes
// first. As on POSIX, repeated/concurrent calls share one underlying
// blocking wait; once reaped, Wait returns the cached ExitStatus
// immediately regardless of ctx.
func (p *Process) Wait(ctx context.Context) (*ExitStatus, error) {
	p.mu.Lock()
	if p.state == stateReaped {
		es := p.exitStatus
		p.mu.Unlock()
		return es, nil
	}
	if p.state != stateStarted || p.plat.procHandle == 0 {
		p.mu.Unlock()
		return nil, p.setErr(newError("wait", KindNotAvailable, 0, nil))
	}

	if !p.waitStarted {
		p.waitStarted = true
		p.waitDone = make(chan struct{})
		go p.blockingWait()
	}
	done := p.waitDone
	p.mu.Unlock()

	select {
	case <-done:
		p.mu.Lock()
		es, werr := p.exitStatus, p.waitErr
		p.mu.Unlock()
		if werr != nil {
			return nil, p.setErr(werr)
		}
		return es, nil
	case <-ctx.Done():
		return nil, p.setErr(newError("wait", KindNotAvailable, 0, ctx.Err()))
	}
}

func (p *Process) blockingWait() {
	p.mu.Lock()
	h := p.plat.procHandle
	p.mu.Unlock()

	_, err := windows.WaitForSingleObject(h, windows.INFINITE)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.waitErr = newError("wait", KindIO, 0, err)
		if p.waitDone != nil {
			select {
			case <-p.waitDone:
			default:
				close(p.waitDone)
			}
		}
		return
	}
	p.recordExit()
}

// Terminate is the Windows equivalent of Kill: a best-effort hard
// terminate (TerminateProcess) with no POSIX-style signal disposition
// to choose from, reported via an arbitrary fixed exit code. It is a
// no-op, not an error, if the child is not running.
func (p *Process) Terminate() error {
	p.mu.Lock()
	h := p.plat.procHandle
	started := p.state == stateStarted
	p.mu.Unlock()
	if !started || h == 0 {
		return nil
	}
	const terminatedExitCode = 1
	if err := windows.TerminateProcess(h, terminatedExitCode); err != nil {
		return p.setErr(newError("terminate", KindIO, 0, err))
	}
	return nil
}

// Close releases all resources held by p: both ends of any pipes are
// closed (canceling any pending overlapped I/O first), and if the
// child is still running a best-effort non-blocking check is made so
// Close can record an already-finished child without blocking on one
// that is still running.
func (p *Process) Close() error {
	var errs []error

	if err := p.CloseStdin(); err != nil {
		errs = append(errs, err)
	}
	if err := p.CloseStdout(); err != nil {
		errs = append(errs, err)
	}
	if err := p.CloseStderr(); err != nil {
		errs = append(errs, err)
	}

	p.mu.Lock()
	if p.state == stateStarted && p.plat.procHandle != 0 {
		if r, err := windows.WaitForSingleObject(p.plat.procHandle, 0); err == nil && r == windows.WAIT_OBJECT_0 {
			p.recordExit()
		}
	}
	if p.plat.threadHandle != 0 {
		windows.CloseHandle(p.plat.threadHandle)
		p.plat.threadHandle = 0
	}
	if p.plat.procHandle != 0 {
		windows.CloseHandle(p.plat.procHandle)
		p.plat.procHandle = 0
	}
	p.mu.Unlock()

	if len(errs) == 0 {
		return nil
	}
	return errs[0]
}
