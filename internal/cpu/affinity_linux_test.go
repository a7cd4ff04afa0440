//go:build linux

package cpu

import (
	"runtime"
	"testing"

	"golang.org/x/sys/unix"
)

func TestPin_RestoresAffinity(t *testing.T) {
	// hold our own lock so the goroutine stays on this thread after release
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var before unix.CPUSet
	if err := unix.SchedGetaffinity(0, &before); err != nil {
		t.Skipf("sched_getaffinity: %v", err)
	}

	core := coreFor(0)
	release, err := Pin(0)
	if err != nil {
		t.Skipf("pinning not permitted here: %v", err)
	}

	var pinned unix.CPUSet
	if err := unix.SchedGetaffinity(0, &pinned); err != nil {
		release()
		t.Fatalf("sched_getaffinity: %v", err)
	}
	if pinned.Count() != 1 || !pinned.IsSet(core) {
		t.Errorf("pinned mask has %d cores, core %d set = %v", pinned.Count(), core, pinned.IsSet(core))
	}

	release()

	var after unix.CPUSet
	if err := unix.SchedGetaffinity(0, &after); err != nil {
		t.Fatalf("sched_getaffinity: %v", err)
	}
	if after != before {
		t.Errorf("affinity not restored: %d cores before, %d after", before.Count(), after.Count())
	}
}
