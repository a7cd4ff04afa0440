// Package cpu pins worker goroutines to CPU cores for contention runs.
package cpu

import "runtime"

// coreFor maps any worker id onto a valid core index.
func coreFor(workerID int) int {
	n := runtime.NumCPU()
	id := workerID % n
	if id < 0 {
		id += n
	}
	return id
}
