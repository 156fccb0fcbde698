// Package syncx implements the kernel's IRQ-safe spin locks and the
// holder/waiter bookkeeping that feeds the deadlock watchdog's
// wait-for graph.
package syncx

import "sync"

// SpinLock is an ownership-tracked mutual exclusion lock. On real
// hardware this would additionally mask interrupts for the critical
// section; Go goroutines are never interrupt contexts, so nothing here
// masks interrupts or records that it would.
type SpinLock struct {
	id    uint64
	mu    sync.Mutex
	owner *agentRef
}

type agentRef struct {
	id uint64
}

var (
	registryMu sync.Mutex
	nextLockID uint64 = 1
	reg        = newLockRegistry()
)

func newSpinLock() *SpinLock {
	registryMu.Lock()
	id := nextLockID
	nextLockID++
	registryMu.Unlock()
	return &SpinLock{id: id}
}

// NewSpinLock constructs a lock with a process-wide unique numeric id,
// assigned at construction.
func NewSpinLock() *SpinLock {
	return newSpinLock()
}

// ID returns the lock's numeric identity, used as a graph node.
func (l *SpinLock) ID() uint64 { return l.id }

// AcquireIRQ records holder as about to wait on l, acquires the
// underlying mutex, then records holder as the owner. The ownership
// bookkeeping uses a separate non-tracking lock to avoid recursing
// into the watchdog graph it feeds.
func (l *SpinLock) AcquireIRQ(holder uint64) {
	reg.markWaiting(holder, l.id)
	l.mu.Lock()
	reg.clearWaiting(holder)
	reg.markHeld(holder, l.id)
	l.owner = &agentRef{id: holder}
}

// ReleaseIRQ releases l and clears holder ownership bookkeeping.
func (l *SpinLock) ReleaseIRQ(holder uint64) {
	l.owner = nil
	reg.clearHeld(holder, l.id)
	l.mu.Unlock()
}

// TryAcquireIRQ attempts a non-blocking acquire; on success it records
// ownership the same as AcquireIRQ.
func (l *SpinLock) TryAcquireIRQ(holder uint64) bool {
	if !l.mu.TryLock() {
		return false
	}
	reg.markHeld(holder, l.id)
	l.owner = &agentRef{id: holder}
	return true
}

// Registry exposes the process-wide lock registry for the watchdog.
func Registry() *LockRegistry { return reg }
