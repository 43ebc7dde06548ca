//go:build !windows

package process

import "os"

// platformState carries OS-specific Process fields. POSIX keeps the
// *os.Process returned by os.StartProcess so Close can Release it; Wait
// and Kill work on the pid directly. Windows instead needs process/thread
// handles (see process_windows.go).
type platformState struct {
	osProc *os.Process
}
