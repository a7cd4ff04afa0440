//go:build !linux

package cpu

import "runtime"

// Pin locks the calling goroutine to its OS thread. Core pinning is only
// available on Linux; elsewhere the thread is locked but free to migrate.
func Pin(workerID int) (release func(), err error) {
	runtime.LockOSThread()
	return runtime.UnlockOSThread, nil
}

// Supported reports whether Pin restricts threads to a core on this platform.
func Supported() bool {
	return false
}
