//go:build linux

package cpu

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// Pin locks the calling goroutine to its OS thread and restricts that thread
// to one core, chosen as workerID modulo the number of CPUs. The returned
// release func restores the thread's previous affinity and unlocks it. If the
// old mask cannot be restored the thread stays locked and exits with the
// goroutine, so no other goroutine inherits the pin.
func Pin(workerID int) (release func(), err error) {
	runtime.LockOSThread()

	var prev unix.CPUSet
	if err := unix.SchedGetaffinity(0, &prev); err != nil {
		runtime.UnlockOSThread()
		return func() {}, err
	}

	var mask unix.CPUSet
	mask.Zero()
	mask.Set(coreFor(workerID))

	if err := unix.SchedSetaffinity(0, &mask); err != nil {
		runtime.UnlockOSThread()
		return func() {}, err
	}

	return func() {
		if err := unix.SchedSetaffinity(0, &prev); err != nil {
			return
		}
		runtime.UnlockOSThread()
	}, nil
}

// Supported reports whether Pin restricts threads to a core on this platform.
func Supported() bool {
	return true
}
