package process

import "os"

// StreamMode selects how one of the child's standard streams is wired up.
type StreamMode int

const (
	// Inherit connects the stream to the parent's own stream of the same
	// name. The parent retains no StreamEnd for it.
	Inherit StreamMode = iota
	// Pipe creates a pipe (or, on Windows with Options.OverlappedIO, a
	// named pipe); the parent retains the opposite end.
	Pipe
	// UseFile redirects the stream to a file the caller already has open
	// (StreamSpec.File). The parent retains no StreamEnd for it beyond
	// the File the caller already owns.
	UseFile
)

// StreamSpec describes how to wire up one of the child's standard
// streams. File is only consulted when Mode is UseFile.
type StreamSpec struct {
	Mode StreamMode
	File *os.File
}

// Options configures Start. The zero value launches the child with all
// three streams inherited from the parent and no environment/working
// directory changes — the same default behavior as exec'ing a program
// directly from a shell.
type Options struct {
	// Stdin, Stdout, Stderr select how each standard stream is wired up.
	// The zero value of StreamSpec is Inherit.
	Stdin, Stdout, Stderr StreamSpec

	// ParentNonblock puts parent-retained pipe ends into non-blocking
	// mode (POSIX: O_NONBLOCK; Windows synchronous path: PeekNamedPipe
	// before every read). Has no effect on streams that are Inherit or
	// UseFile, or on Windows overlapped streams (which are always
	// non-blocking by construction).
	ParentNonblock bool

	// OverlappedIO selects overlapped named pipes instead of anonymous
	// pipes for Pipe-mode streams. Windows-only; ignored on POSIX.
	OverlappedIO bool

	// IOBufferSize is the per-stream overlapped read chunk size. Zero is
	// rewritten to a 64KiB default. Windows-only; ignored on POSIX.
	IOBufferSize int

	// Dir, if non-empty, is the working directory the child is started
	// in. Empty means inherit the parent's working directory.
	// POSIX-only; ignored on Windows (CreateProcess has no equivalent in
	// this engine's surface).
	Dir string

	// ClearEnv, if true, starts the child's environment empty instead of
	// inheriting the parent's; Env is then applied on top. POSIX-only.
	ClearEnv bool

	// Env is an ordered list of "KEY=VALUE" pairs applied after the
	// optional clear. Later entries win over earlier ones with the same
	// key; entries with an empty key are ignored. POSIX-only.
	Env []string

	// Setpgid, if true, makes the child call setpgid(0, Pgid) before
	// exec. Pgid == 0 makes the child its own process group leader.
	// POSIX-only.
	Setpgid bool
	Pgid    int
}
