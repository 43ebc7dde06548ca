package process

// streamReader is the read half of a StreamEnd. read follows the same
// contract as ReadStdout/ReadStderr: 0 bytes with a nil error is either
// EOF (blocking streams) or "no data right now" (Windows
// non-blocking/overlapped streams; POSIX non-blocking streams report that
// as ErrWouldBlock); a non-nil error is an *Error.
type streamReader interface {
	read(p []byte) (int, error)
	close() error
}

// streamWriter is the write half of a StreamEnd, mirroring WriteStdin's
// contract.
type streamWriter interface {
	write(p []byte) (int, error)
	close() error
}
