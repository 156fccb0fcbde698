package syncx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpinLockDistinctIDs(t *testing.T) {
	a := NewSpinLock()
	b := NewSpinLock()
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestSpinLockAcquireRelease(t *testing.T) {
	l := NewSpinLock()
	l.AcquireIRQ(1)
	l.ReleaseIRQ(1)
	assert.True(t, l.TryAcquireIRQ(2))
	l.ReleaseIRQ(2)
}

func TestFindCyclesDetectsTwoAgentDeadlock(t *testing.T) {
	// Agent 1 waits on agent 2's lock; agent 2 waits on agent 1's lock.
	graph := BuildWaitGraph([]WaitEdge{
		{Agent: 1, Holder: 2},
		{Agent: 2, Holder: 1},
	})
	cycles := FindCycles(graph)
	assert.Len(t, cycles, 1)
	assert.ElementsMatch(t, []uint64{1, 2}, cycles[0])
}

func TestFindCyclesNoFalsePositiveOnChain(t *testing.T) {
	// 1 waits on 2, 2 waits on 3: a chain, not a cycle.
	graph := BuildWaitGraph([]WaitEdge{
		{Agent: 1, Holder: 2},
		{Agent: 2, Holder: 3},
	})
	cycles := FindCycles(graph)
	assert.Empty(t, cycles)
}

func TestFindCyclesThreeAgentRing(t *testing.T) {
	graph := BuildWaitGraph([]WaitEdge{
		{Agent: 1, Holder: 2},
		{Agent: 2, Holder: 3},
		{Agent: 3, Holder: 1},
	})
	cycles := FindCycles(graph)
	assert.Len(t, cycles, 1)
	assert.ElementsMatch(t, []uint64{1, 2, 3}, cycles[0])
}

func TestLockRegistryDetectCircularWait(t *testing.T) {
	l1 := NewSpinLock()
	l2 := NewSpinLock()

	l1.AcquireIRQ(100)
	l2.AcquireIRQ(200)

	reg.markWaiting(100, l2.ID())
	reg.markWaiting(200, l1.ID())

	cycle, found := reg.DetectCircularWait()
	assert.True(t, found)
	assert.ElementsMatch(t, []uint64{100, 200}, cycle)

	reg.clearWaiting(100)
	reg.clearWaiting(200)
	l1.ReleaseIRQ(100)
	l2.ReleaseIRQ(200)
}
