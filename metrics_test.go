package sutra

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsIntents(t *testing.T) {
	m := NewMetrics()

	m.RecordIntent(true)
	m.RecordIntent(true)
	m.RecordIntent(false)
	m.RecordHandlerError()

	snap := m.Snapshot()
	assert.Equal(t, uint64(2), snap.IntentsDispatched)
	assert.Equal(t, uint64(1), snap.IntentsUnhandled)
	assert.Equal(t, uint64(1), snap.HandlerErrors)
}

func TestMetricsStrokes(t *testing.T) {
	m := NewMetrics()

	m.RecordStroke(false, false)
	m.RecordStroke(true, false)
	m.RecordStroke(false, true)

	snap := m.Snapshot()
	assert.Equal(t, uint64(3), snap.StrokesProcessed)
	assert.Equal(t, uint64(1), snap.StrokesUnknown)
	assert.Equal(t, uint64(1), snap.Corrections)
}

func TestMetricsCapabilities(t *testing.T) {
	m := NewMetrics()

	m.RecordCapabilityMint()
	m.RecordCapabilityDerive()
	m.RecordCapabilityDerive()
	m.RecordCapabilityRevoke()
	m.RecordGlobalRevoke()

	snap := m.Snapshot()
	assert.Equal(t, uint64(1), snap.CapabilitiesMinted)
	assert.Equal(t, uint64(2), snap.CapabilitiesDerived)
	assert.Equal(t, uint64(1), snap.CapabilitiesRevoked)
	assert.Equal(t, uint64(1), snap.GlobalRevokes)
}

func TestMetricsSchedulerAndWatchdog(t *testing.T) {
	m := NewMetrics()

	m.RecordContextSwitch()
	m.RecordContextSwitch()
	m.RecordAgentSpawned()
	m.RecordAgentKilled()
	m.RecordDeadlockTrip()

	snap := m.Snapshot()
	assert.Equal(t, uint64(2), snap.ContextSwitches)
	assert.Equal(t, uint64(1), snap.AgentsSpawned)
	assert.Equal(t, uint64(1), snap.AgentsKilled)
	assert.Equal(t, uint64(1), snap.DeadlocksTripped)
}

func TestMetricsUptime(t *testing.T) {
	m := NewMetrics()

	time.Sleep(10 * time.Millisecond)

	snap := m.Snapshot()
	assert.GreaterOrEqual(t, snap.UptimeNs, uint64(10*time.Millisecond))

	m.Stop()
	stopped := m.Snapshot()
	time.Sleep(5 * time.Millisecond)
	afterStop := m.Snapshot()

	assert.Equal(t, stopped.UptimeNs, afterStop.UptimeNs)
}

func TestMetricsReset(t *testing.T) {
	m := NewMetrics()

	m.RecordIntent(true)
	m.RecordStroke(false, false)
	m.RecordCapabilityMint()

	snap := m.Snapshot()
	assert.NotZero(t, snap.IntentsDispatched+snap.StrokesProcessed+snap.CapabilitiesMinted)

	m.Reset()

	snap = m.Snapshot()
	assert.Zero(t, snap.IntentsDispatched)
	assert.Zero(t, snap.StrokesProcessed)
	assert.Zero(t, snap.CapabilitiesMinted)
}

func TestObserver(t *testing.T) {
	observer := NoOpObserver{}
	observer.ObserveIntent(true)
	observer.ObserveStroke(true, false)
	observer.ObserveContextSwitch()

	m := NewMetrics()
	metricsObserver := NewMetricsObserver(m)

	metricsObserver.ObserveIntent(true)
	metricsObserver.ObserveStroke(false, true)
	metricsObserver.ObserveContextSwitch()

	snap := m.Snapshot()
	assert.Equal(t, uint64(1), snap.IntentsDispatched)
	assert.Equal(t, uint64(1), snap.StrokesProcessed)
	assert.Equal(t, uint64(1), snap.Corrections)
	assert.Equal(t, uint64(1), snap.ContextSwitches)
}
