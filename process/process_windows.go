//go:build windows

package process

import "golang.org/x/sys/windows"

// platformState carries the Windows-only handles a Process needs beyond
// what process.go already stores: the process/thread handles from
// CreateProcess. Overlapped stream state (asyncReader/asyncWriter) lives
// on the stream values in process.go, not here.
type platformState struct {
	procHandle   windows.Handle
	threadHandle windows.Handle
}
