//go:build !windows

package process

import (
	"context"
	"syscall"

	"golang.org/x/sys/unix"
)

// Alive reports whether the child has not yet been reaped. It performs a
// non-blocking WNOHANG wait; if the child has already exited, Alive
// records the exit status for a later Wait to pick up without calling
// wait4 again (a second wait4 on an already-reaped pid returns ECHILD).
func (p *Process) Alive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != stateStarted {
		return false
	}

	var ws unix.WaitStatus
	pid, err := unix.Wait4(p.pid, &ws, unix.WNOHANG, nil)
	if err != nil || pid == 0 {
		// err == ECHILD is possible if something else reaped it; either
		// way we can't confirm exit here, so report alive optimistically
		// only when wait4 genuinely found nothing to report.
		return err == nil
	}

	p.recordExit(ws)
	return false
}

// recordExit stores ws as the child's terminal status and wakes up any
// goroutine blocked in a concurrent Wait. Caller must hold p.mu.
func (p *Process) recordExit(ws unix.WaitStatus) {
	p.state = stateReaped
	p.exitStatus = &ExitStatus{
		ExitCode: ws.ExitStatus(),
		Signaled: ws.Signaled(),
	}
	if ws.Signaled() {
		p.exitStatus.Signal = int(ws.Signal())
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
// first. A ctx that can never be done (context.Background/TODO, or any
// context derived without a deadline or cancel) is waited on directly by
// the calling goroutine, with no helper spawned. A ctx that can be
// canceled needs a way to stop waiting without stopping wait4, so Wait
// spawns a goroutine scoped to that one call; it runs until the child
// exits (which ends it) regardless of whether this particular Wait call
// is the one that observes that, and a later call of either kind joins
// the same completion channel rather than starting a second wait4.
// Once the child has been reaped, Wait returns the cached ExitStatus
// immediately regardless of ctx.
func (p *Process) Wait(ctx context.Context) (*ExitStatus, error) {
	p.mu.Lock()
	if p.state == stateReaped {
		es := p.exitStatus
		p.mu.Unlock()
		return es, nil
	}
	if p.state != stateStarted {
		p.mu.Unlock()
		return nil, p.setErr(newError("wait", KindNotAvailable, 0, nil))
	}

	if p.waitStarted {
		done := p.waitDone
		p.mu.Unlock()
		return p.awaitDone(ctx, done)
	}

	p.waitStarted = true
	p.waitDone = make(chan struct{})
	done := p.waitDone

	if ctx.Done() == nil {
		p.mu.Unlock()
		p.blockingWait()
		p.mu.Lock()
		es, werr := p.exitStatus, p.waitErr
		p.mu.Unlock()
		if werr != nil {
			return nil, p.setErr(werr)
		}
		return es, nil
	}

	go p.blockingWait()
	p.mu.Unlock()
	return p.awaitDone(ctx, done)
}

func (p *Process) awaitDone(ctx context.Context, done chan struct{}) (*ExitStatus, error) {
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

// blockingWait performs the actual blocking wait4 for this child's pid,
// run at most once per Process — either directly by the first Wait call
// that has no cancelable ctx, or in a goroutine spawned by the first
// Wait call that does.
func (p *Process) blockingWait() {
	var ws unix.WaitStatus
	_, err := unix.Wait4(p.pid, &ws, 0, nil)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.waitErr = newError("wait", KindIO, extractErrnoValue(err), err)
		if p.waitDone != nil {
			select {
			case <-p.waitDone:
			default:
				close(p.waitDone)
			}
		}
		return
	}
	p.recordExit(ws)
}

func extractErrnoValue(err error) int {
	if errno, ok := err.(unix.Errno); ok {
		return int(errno)
	}
	return 0
}

// Kill sends sig to the child. It is a no-op, not an error, if no
// child was ever started or it has already been reaped.
func (p *Process) Kill(sig syscall.Signal) error {
	p.mu.Lock()
	pid := p.pid
	started := p.state == stateStarted
	p.mu.Unlock()
	if !started {
		return nil
	}
	if err := unix.Kill(pid, sig); err != nil {
		return p.setErr(newError("kill", KindIO, int(err.(unix.Errno)), err))
	}
	return nil
}

// Close releases all resources held by p: both ends of any pipes are
// closed, and if the child is still running a best-effort non-blocking
// reap is attempted so it does not linger as a zombie longer than
// necessary. Close never blocks waiting for the child to exit.
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
	if p.state == stateStarted {
		var ws unix.WaitStatus
		pid, err := unix.Wait4(p.pid, &ws, unix.WNOHANG, nil)
		if err == nil && pid != 0 {
			p.recordExit(ws)
		}
	}
	if p.plat.osProc != nil {
		p.plat.osProc.Release()
	}
	p.mu.Unlock()

	if len(errs) == 0 {
		return nil
	}
	return errs[0]
}
