//go:build windows

package process

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// Start launches argv[0] with argv[1:] as its arguments, wiring up
// standard streams per opts and returning a handle to the running
// child. Ported from tinyproc::popen3::start (windows/popen3.hpp):
// build the child's inheritable standard handles, CreateProcessW with
// STARTF_USESTDHANDLES, then close the parent's copies of the
// child-side handles once they're inherited.
func Start(argv []string, opts Options) (*Process, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, newError("start", KindInvalidArgument, 0, nil)
	}

	bufSize := opts.IOBufferSize
	if bufSize <= 0 {
		bufSize = 64 * 1024
	}

	chIn, parentIn, err := setupStdHandle(opts.Stdin, windows.STD_INPUT_HANDLE, true, opts.OverlappedIO)
	if err != nil {
		return nil, newError("start", KindLaunchFailed, 0, err)
	}
	chOut, parentOut, err := setupStdHandle(opts.Stdout, windows.STD_OUTPUT_HANDLE, false, opts.OverlappedIO)
	if err != nil {
		closeHandles(chIn, parentIn)
		return nil, newError("start", KindLaunchFailed, 0, err)
	}
	chErr, parentErr, err := setupStdHandle(opts.Stderr, windows.STD_ERROR_HANDLE, false, opts.OverlappedIO)
	if err != nil {
		closeHandles(chIn, parentIn, chOut, parentOut)
		return nil, newError("start", KindLaunchFailed, 0, err)
	}

	cmdLine, err := windows.UTF16PtrFromString(buildCmdLine(argv))
	if err != nil {
		closeHandles(chIn, parentIn, chOut, parentOut, chErr, parentErr)
		return nil, newError("start", KindInvalidArgument, 0, err)
	}

	si := &windows.StartupInfo{
		Flags:     windows.STARTF_USESTDHANDLES,
		StdInput:  chIn,
		StdOutput: chOut,
		StdErr:    chErr,
	}
	si.Cb = uint32(unsafe.Sizeof(*si))
	pi := &windows.ProcessInformation{}

	// Dir/ClearEnv/Env are POSIX-only (see Options); the child always
	// inherits this process's working directory and environment here,
	// matching the Windows reference implementation, which has no
	// chdir/env fields at all.
	startErr := windows.CreateProcess(
		nil,
		cmdLine,
		nil, nil,
		true,
		0,
		nil,
		nil,
		si,
		pi,
	)

	// The parent's copies of the child-side handles are no longer
	// needed once CreateProcess has inherited them (or failed to).
	closeHandles(chIn, chOut, chErr)

	if startErr != nil {
		closeHandles(parentIn, parentOut, parentErr)
		return nil, newError("start", KindLaunchFailed, 0, startErr)
	}

	p := &Process{
		argv:  append([]string(nil), argv...),
		state: stateStarted,
		pid:   int(pi.ProcessId),
	}
	p.plat.procHandle = pi.Process
	p.plat.threadHandle = pi.Thread

	stdinStream, err := wireWriter(opts.Stdin, parentIn, opts)
	if err != nil {
		p.Close()
		return nil, newError("start", KindLaunchFailed, 0, err)
	}
	p.stdin = stdinStream

	stdoutStream, err := wireReader(opts.Stdout, parentOut, opts, bufSize)
	if err != nil {
		p.Close()
		return nil, newError("start", KindLaunchFailed, 0, err)
	}
	p.stdout = stdoutStream

	stderrStream, err := wireReader(opts.Stderr, parentErr, opts, bufSize)
	if err != nil {
		p.Close()
		return nil, newError("start", KindLaunchFailed, 0, err)
	}
	p.stderr = stderrStream

	return p, nil
}

// setupStdHandle builds the child-inheritable handle for one standard
// stream (passed to STARTUPINFO) and, for Pipe mode, the raw
// parent-side handle to wrap later in wireWriter/wireReader. isStdin
// selects INBOUND vs OUTBOUND for overlapped named pipes (stdin: parent
// writes, child reads; stdout/stderr: the reverse).
func setupStdHandle(spec StreamSpec, which uint32, isStdin bool, overlapped bool) (childEnd, parentEnd windows.Handle, err error) {
	switch spec.Mode {
	case Pipe:
		if overlapped {
			parentEnd, childEnd, err = makeNamedPipePair(!isStdin)
		} else {
			parentEnd, childEnd, err = makeAnonPipePair(!isStdin)
		}
		return childEnd, parentEnd, err
	case UseFile:
		if spec.File == nil {
			return 0, 0, newError("start", KindInvalidArgument, 0, nil)
		}
		h, err := dupInheritable(windows.Handle(spec.File.Fd()))
		return h, 0, err
	default: // Inherit
		std, err := windows.GetStdHandle(which)
		if err != nil {
			return 0, 0, err
		}
		h, err := dupInheritable(std)
		return h, 0, err
	}
}

// wireWriter wraps the parent's raw stdin handle (if Pipe mode produced
// one) into a streamWriter of the kind opts calls for. Returns a nil
// interface value for Inherit/UseFile, matching the "None" StreamEnd
// variant.
func wireWriter(spec StreamSpec, parentEnd windows.Handle, opts Options) (streamWriter, error) {
	if spec.Mode != Pipe || parentEnd == 0 {
		return nil, nil
	}
	if opts.OverlappedIO {
		return newAsyncWriter(parentEnd)
	}
	return &syncPipe{h: parentEnd, nonblock: opts.ParentNonblock}, nil
}

// wireReader mirrors wireWriter for stdout/stderr, additionally posting
// the first overlapped ReadFile when applicable so data starts
// accumulating before the caller's first Read call.
func wireReader(spec StreamSpec, parentEnd windows.Handle, opts Options, bufSize int) (streamReader, error) {
	if spec.Mode != Pipe || parentEnd == 0 {
		return nil, nil
	}
	if opts.OverlappedIO {
		r, err := newAsyncReader(parentEnd, bufSize)
		if err != nil {
			return nil, err
		}
		if err := r.postRead(); err != nil {
			return nil, err
		}
		return r, nil
	}
	return &syncPipe{h: parentEnd, nonblock: opts.ParentNonblock}, nil
}

func closeHandles(hs ...windows.Handle) {
	for _, h := range hs {
		if h != 0 {
			windows.CloseHandle(h)
		}
	}
}
