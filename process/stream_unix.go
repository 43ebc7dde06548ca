//go:build !windows

package process

import (
	"os"

	"golang.org/x/sys/unix"
)

// posixFd is the parent-retained end of a pipe stream. It implements both
// streamReader and streamWriter; which methods actually get called
// depends on which field of Process holds it (stdin uses write/close,
// stdout/stderr use read/close). Blocking and non-blocking fds share this
// one type, since they differ only in how EAGAIN is translated, not in
// the syscalls used.
type posixFd struct {
	f        *os.File
	nonblock bool
}

// sysfd returns the raw descriptor. os.File.Fd switches the descriptor
// back to blocking mode, so O_NONBLOCK is restored here for non-blocking
// ends before the descriptor is handed out or used.
func (s *posixFd) sysfd() int {
	fd := int(s.f.Fd())
	if s.nonblock {
		unix.SetNonblock(fd, true)
	}
	return fd
}

func (s *posixFd) read(p []byte) (int, error) {
	if s.f == nil {
		return 0, newError("read", KindNotAvailable, 0, nil)
	}
	fd := s.sysfd()
	for {
		n, err := unix.Read(fd, p)
		if err == nil {
			return n, nil
		}
		if err == unix.EINTR {
			continue
		}
		if err == unix.EAGAIN {
			return 0, newError("read", KindWouldBlock, int(unix.EAGAIN), nil)
		}
		if errno, ok := err.(unix.Errno); ok && errno == unix.EPIPE {
			return 0, newError("read", KindBrokenPipe, int(errno), nil)
		}
		code := 0
		if errno, ok := err.(unix.Errno); ok {
			code = int(errno)
		}
		return n, newError("read", KindIO, code, err)
	}
}

func (s *posixFd) write(p []byte) (int, error) {
	if s.f == nil {
		return 0, newError("write", KindNotAvailable, 0, nil)
	}
	fd := s.sysfd()
	total := 0
	for total < len(p) {
		n, err := unix.Write(fd, p[total:])
		if n > 0 {
			total += n
		}
		if err == nil {
			if n == 0 {
				// Nothing written and no error: avoid spinning.
				return total, nil
			}
			continue
		}
		if err == unix.EINTR {
			continue
		}
		if err == unix.EAGAIN {
			if s.nonblock {
				return total, newError("write", KindWouldBlock, int(unix.EAGAIN), nil)
			}
			continue
		}
		if errno, ok := err.(unix.Errno); ok && errno == unix.EPIPE {
			return total, newError("write", KindBrokenPipe, int(errno), nil)
		}
		code := 0
		if errno, ok := err.(unix.Errno); ok {
			code = int(errno)
		}
		return total, newError("write", KindIO, code, err)
	}
	return total, nil
}

func (s *posixFd) close() error {
	if s.f == nil {
		return nil
	}
	f := s.f
	s.f = nil
	if err := f.Close(); err != nil {
		return newError("close", KindIO, 0, err)
	}
	return nil
}

// StdinFd returns the parent-retained descriptor for the child's stdin,
// or (0, false) if stdin is not a pipe (Inherit/UseFile) or has been
// closed. Callers may register this with their own poll/select loop.
func (p *Process) StdinFd() (uintptr, bool) {
	s, ok := p.stdin.(*posixFd)
	if !ok || s.f == nil {
		return 0, false
	}
	return uintptr(s.sysfd()), true
}

// StdoutFd returns the parent-retained descriptor for the child's
// stdout, or (0, false) if it is not a pipe or has been closed.
func (p *Process) StdoutFd() (uintptr, bool) {
	s, ok := p.stdout.(*posixFd)
	if !ok || s.f == nil {
		return 0, false
	}
	return uintptr(s.sysfd()), true
}

// StderrFd returns the parent-retained descriptor for the child's
// stderr, or (0, false) if it is not a pipe or has been closed.
func (p *Process) StderrFd() (uintptr, bool) {
	s, ok := p.stderr.(*posixFd)
	if !ok || s.f == nil {
		return 0, false
	}
	return uintptr(s.sysfd()), true
}
