//go:build linux

package sched

import "golang.org/x/sys/unix"

// pinCurrentThreadToCPU locks the calling goroutine to its current OS
// thread and restricts that thread's scheduling to a single CPU,
// mirroring the teacher's per-queue unix.SchedSetaffinity pinning in
// ioLoop: here it is the RunLoop goroutine that is pinned, one per
// scheduler instance, rather than one per hardware queue.
func pinCurrentThreadToCPU(cpu int) error {
	var mask unix.CPUSet
	mask.Zero()
	mask.Set(cpu)
	return unix.SchedSetaffinity(0, &mask)
}
