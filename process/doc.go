// Package process launches a child process with controllable redirection
// of its three standard streams and lets the parent read from, write to,
// and supervise the child.
//
// The package is deliberately low-level: it owns pipe-end lifetime, exposes
// non-blocking I/O over raw descriptors on POSIX and overlapped I/O over
// named pipes on Windows, and hands the caller the primitives (file
// descriptors on POSIX, event handles on Windows) needed to plug a Process
// into the caller's own event loop. It does not buffer lines, parse shell
// syntax, or load configuration — callers wanting that build it on top.
//
// A Process is not safe for concurrent use from multiple goroutines;
// callers serialize their own access to a given instance.
//
// Basic usage:
//
//	p, err := process.Start([]string{"sh", "-c", "cat"}, process.Options{
//		Stdin:  process.StreamSpec{Mode: process.Pipe},
//		Stdout: process.StreamSpec{Mode: process.Pipe},
//	})
//	if err != nil {
//		// err wraps a *process.Error with Kind == process.KindLaunchFailed, etc.
//	}
//	defer p.Close()
//
//	p.WriteStdin([]byte("hello\n"))
//	p.CloseStdin()
//
//	buf := make([]byte, 4096)
//	for {
//		n, err := p.ReadStdout(buf)
//		if n == 0 && err == nil {
//			break // EOF
//		}
//		// ... consume buf[:n]
//	}
//
//	status, err := p.Wait(context.Background())
package process
