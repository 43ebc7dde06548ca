//go:build !windows

package process

import (
	"os"
	"os/exec"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"
)

// Start launches argv[0] with argv[1:] as its arguments, wiring up
// standard streams per opts and returning a handle to the running child.
// argv must be non-empty. On launch failure (exec's target missing,
// permission denied, etc.) Start returns a non-nil error of kind
// KindLaunchFailed; no child is left running.
func Start(argv []string, opts Options) (*Process, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, newError("start", KindInvalidArgument, 0, nil)
	}

	path, err := resolvePath(argv[0])
	if err != nil {
		return nil, newError("start", KindLaunchFailed, 0, err)
	}

	files := [3]*os.File{nil, nil, nil}
	var parentEnds [3]*posixFd

	stdinR, stdinEnd, err := setupChildInput(opts.Stdin, opts.ParentNonblock)
	if err != nil {
		return nil, newError("start", KindLaunchFailed, 0, err)
	}
	files[0] = stdinR
	parentEnds[0] = stdinEnd

	stdoutW, stdoutEnd, err := setupChildOutput(opts.Stdout, os.Stdout, opts.ParentNonblock)
	if err != nil {
		closePartialSetup(files[:], parentEnds[:], opts)
		return nil, newError("start", KindLaunchFailed, 0, err)
	}
	files[1] = stdoutW
	parentEnds[1] = stdoutEnd

	stderrW, stderrEnd, err := setupChildOutput(opts.Stderr, os.Stderr, opts.ParentNonblock)
	if err != nil {
		closePartialSetup(files[:], parentEnds[:], opts)
		return nil, newError("start", KindLaunchFailed, 0, err)
	}
	files[2] = stderrW
	parentEnds[2] = stderrEnd

	attr := &os.ProcAttr{
		Dir:   opts.Dir,
		Env:   mergeEnv(opts.ClearEnv, opts.Env),
		Files: files[:],
		Sys:   sysProcAttr(opts),
	}

	proc, startErr := os.StartProcess(path, argv, attr)

	// The child's own ends of any pipes must close in the parent
	// regardless of outcome; os.StartProcess dup2's them into the child
	// before exec (or before failing to exec).
	closeChildEnds(files[:], opts)

	if startErr != nil {
		closeParentEnds(parentEnds[:])
		return nil, newError("start", KindLaunchFailed, extractErrno(startErr), startErr)
	}

	p := &Process{
		argv:  append([]string(nil), argv...),
		state: stateStarted,
		pid:   proc.Pid,
	}
	if parentEnds[0] != nil {
		p.stdin = parentEnds[0]
	}
	if parentEnds[1] != nil {
		p.stdout = parentEnds[1]
	}
	if parentEnds[2] != nil {
		p.stderr = parentEnds[2]
	}
	p.plat.osProc = proc
	return p, nil
}

func resolvePath(name string) (string, error) {
	if strings.Contains(name, "/") {
		return name, nil
	}
	return exec.LookPath(name)
}

// sysProcAttr translates the POSIX-only Options fields into a
// syscall.SysProcAttr for os.ProcAttr.Sys.
func sysProcAttr(opts Options) *syscall.SysProcAttr {
	if !opts.Setpgid {
		return nil
	}
	return &syscall.SysProcAttr{
		Setpgid: true,
		Pgid:    opts.Pgid,
	}
}

// setupChildInput builds the child's stdin file (what goes into
// ProcAttr.Files[0]) and, when the stream is a pipe, the parent-retained
// write end. For Inherit it passes the parent's own stdin through; for
// UseFile it passes the caller's file directly.
func setupChildInput(spec StreamSpec, nonblock bool) (childEnd *os.File, parent *posixFd, err error) {
	switch spec.Mode {
	case Inherit:
		return os.Stdin, nil, nil
	case UseFile:
		if spec.File == nil {
			return nil, nil, newError("start", KindInvalidArgument, 0, nil)
		}
		return spec.File, nil, nil
	case Pipe:
		r, w, err := os.Pipe()
		if err != nil {
			return nil, nil, err
		}
		if nonblock {
			if err := unix.SetNonblock(int(w.Fd()), true); err != nil {
				r.Close()
				w.Close()
				return nil, nil, err
			}
		}
		return r, &posixFd{f: w, nonblock: nonblock}, nil
	default:
		return os.Stdin, nil, nil
	}
}

// setupChildOutput mirrors setupChildInput for stdout/stderr: the child
// end is the pipe's write side, the parent retains the read side.
// inheritFrom is the parent's own os.Stdout/os.Stderr, passed through
// unchanged for Inherit mode (a nil entry in ProcAttr.Files closes the
// child's fd instead of inheriting it, so Inherit must not return nil).
func setupChildOutput(spec StreamSpec, inheritFrom *os.File, nonblock bool) (childEnd *os.File, parent *posixFd, err error) {
	switch spec.Mode {
	case Inherit:
		return inheritFrom, nil, nil
	case UseFile:
		if spec.File == nil {
			return nil, nil, newError("start", KindInvalidArgument, 0, nil)
		}
		return spec.File, nil, nil
	case Pipe:
		r, w, err := os.Pipe()
		if err != nil {
			return nil, nil, err
		}
		if nonblock {
			if err := unix.SetNonblock(int(r.Fd()), true); err != nil {
				r.Close()
				w.Close()
				return nil, nil, err
			}
		}
		return w, &posixFd{f: r, nonblock: nonblock}, nil
	default:
		return inheritFrom, nil, nil
	}
}

// closeChildEnds closes the child-side file handles that setupChild*
// opened for Pipe-mode streams, now that os.StartProcess has dup2'd
// them into the child (or failed to). Inherit/UseFile files are left
// alone since the caller (or os.Stdout/os.Stdin) still owns them.
func closeChildEnds(files []*os.File, opts Options) {
	modes := [3]StreamMode{opts.Stdin.Mode, opts.Stdout.Mode, opts.Stderr.Mode}
	for i, f := range files {
		if f == nil {
			continue
		}
		if modes[i] == Pipe {
			f.Close()
		}
	}
}

func closeParentEnds(ends []*posixFd) {
	for _, e := range ends {
		if e != nil {
			e.close()
		}
	}
}

// closePartialSetup unwinds a partially-completed stream setup: closes
// any already-opened child-side pipe files and any already-opened
// parent-retained ends.
func closePartialSetup(files []*os.File, ends []*posixFd, opts Options) {
	closeChildEnds(files, opts)
	closeParentEnds(ends)
}

// extractErrno pulls the POSIX errno out of an os.StartProcess failure,
// or 0 if none could be determined.
func extractErrno(err error) int {
	type errnoer interface{ Errno() uintptr }
	var e errnoer
	for cause := err; cause != nil; {
		if errno, ok := cause.(unix.Errno); ok {
			return int(errno)
		}
		if as, ok := cause.(errnoer); ok {
			e = as
			break
		}
		unwrapper, ok := cause.(interface{ Unwrap() error })
		if !ok {
			break
		}
		cause = unwrapper.Unwrap()
	}
	if e != nil {
		return int(e.Errno())
	}
	if errno, ok := err.(unix.Errno); ok {
		return int(errno)
	}
	return 0
}
