//go:build windows

package process

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/windows"
)

var pipeSerial atomic.Uint64

// uniquePipeName returns a process-unique \\.\pipe\ name built from the
// process id and an atomic counter only; no thread id or tick count is
// part of the name.
func uniquePipeName() string {
	n := pipeSerial.Add(1)
	return fmt.Sprintf(`\\.\pipe\popen3_%d_%d`, windows.GetCurrentProcessId(), n)
}

// makeNamedPipePair creates one end of an overlapped named pipe for the
// parent (FILE_FLAG_OVERLAPPED) and an inheritable, synchronous client
// handle for the child, and connects them. When parentReads is true the
// parent's end is the read (INBOUND) side and the child's is the write
// side; otherwise it's the reverse. Ported from make_named_pipe_pair_.
func makeNamedPipePair(parentReads bool) (parentEnd windows.Handle, childEnd windows.Handle, err error) {
	name := uniquePipeName()
	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return 0, 0, err
	}

	var openMode uint32 = windows.FILE_FLAG_OVERLAPPED | windows.FILE_FLAG_FIRST_PIPE_INSTANCE
	if parentReads {
		openMode |= windows.PIPE_ACCESS_INBOUND
	} else {
		openMode |= windows.PIPE_ACCESS_OUTBOUND
	}

	server, err := windows.CreateNamedPipe(
		namePtr,
		openMode,
		windows.PIPE_TYPE_BYTE|windows.PIPE_READMODE_BYTE|windows.PIPE_WAIT,
		1,
		64*1024,
		64*1024,
		0,
		nil,
	)
	if err != nil {
		return 0, 0, err
	}

	connEvt, err := windows.CreateEvent(nil, 1, 0, nil)
	if err != nil {
		windows.CloseHandle(server)
		return 0, 0, err
	}
	defer windows.CloseHandle(connEvt)

	ov := &windows.Overlapped{HEvent: connEvt}
	connErr := windows.ConnectNamedPipe(server, ov)
	if connErr != nil && connErr != windows.ERROR_IO_PENDING && connErr != windows.ERROR_PIPE_CONNECTED {
		windows.CloseHandle(server)
		return 0, 0, connErr
	}

	sa := &windows.SecurityAttributes{
		Length:        uint32(unsafe.Sizeof(windows.SecurityAttributes{})),
		InheritHandle: 1,
	}
	desired := uint32(windows.GENERIC_READ)
	if parentReads {
		desired = windows.GENERIC_WRITE
	}
	client, err := windows.CreateFile(
		namePtr,
		desired,
		0,
		sa,
		windows.OPEN_EXISTING,
		windows.FILE_ATTRIBUTE_NORMAL,
		0,
	)
	if err != nil {
		windows.CloseHandle(server)
		return 0, 0, err
	}

	var dummy uint32
	if err := windows.GetOverlappedResult(server, ov, &dummy, true); err != nil && err != windows.ERROR_PIPE_CONNECTED {
		windows.CloseHandle(client)
		windows.CloseHandle(server)
		return 0, 0, err
	}

	// Belt and suspenders: the parent's own server handle must never be
	// inheritable, even though it wasn't created with an inheritable
	// SECURITY_ATTRIBUTES.
	windows.SetHandleInformation(server, windows.HANDLE_FLAG_INHERIT, 0)

	return server, client, nil
}

// makeAnonPipePair creates a plain (non-overlapped) anonymous pipe for
// the synchronous, non-overlapped Pipe mode: both ends inheritable by
// construction, with the parent's end immediately marked
// non-inheritable so it isn't duplicated into grandchildren. When
// parentReads is true the parent keeps the read end and the child gets
// the write end; otherwise the reverse.
func makeAnonPipePair(parentReads bool) (parentEnd windows.Handle, childEnd windows.Handle, err error) {
	sa := &windows.SecurityAttributes{
		Length:        uint32(unsafe.Sizeof(windows.SecurityAttributes{})),
		InheritHandle: 1,
	}
	var r, w windows.Handle
	if err := windows.CreatePipe(&r, &w, sa, 0); err != nil {
		return 0, 0, err
	}
	if parentReads {
		parentEnd, childEnd = r, w
	} else {
		parentEnd, childEnd = w, r
	}
	if err := windows.SetHandleInformation(parentEnd, windows.HANDLE_FLAG_INHERIT, 0); err != nil {
		windows.CloseHandle(r)
		windows.CloseHandle(w)
		return 0, 0, err
	}
	return parentEnd, childEnd, nil
}

// dupInheritable duplicates src (e.g. the parent's own stdin handle) so
// the child can inherit it, for StreamMode Inherit/UseFile. A zero
// handle is passed through unchanged, matching dup_inheritable's
// "nothing to duplicate" shortcut.
func dupInheritable(src windows.Handle) (windows.Handle, error) {
	if src == 0 || src == windows.InvalidHandle {
		return 0, nil
	}
	cur, err := windows.GetCurrentProcess()
	if err != nil {
		return 0, err
	}
	var dst windows.Handle
	if err := windows.DuplicateHandle(cur, src, cur, &dst, 0, true, windows.DUPLICATE_SAME_ACCESS); err != nil {
		return 0, err
	}
	return dst, nil
}
