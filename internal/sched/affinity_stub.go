//go:build !linux

package sched

// pinCurrentThreadToCPU is a no-op off Linux: CPU affinity pinning has
// no portable equivalent, same as the teacher's kernelopcode_stub.go
// fallback for non-Linux builds.
func pinCurrentThreadToCPU(cpu int) error { return nil }
