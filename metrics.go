package sutra

import (
	"sync/atomic"
	"time"
)

// Metrics tracks the kernel's operational counters: the ambient
// observability surface every subsystem feeds into, independent of
// any single component's own internal Stats (e.g. steno.Stats).
type Metrics struct {
	// Intent dispatch
	IntentsDispatched atomic.Uint64
	IntentsUnhandled  atomic.Uint64
	HandlerErrors     atomic.Uint64

	// Stroke engine
	StrokesProcessed atomic.Uint64
	StrokesUnknown   atomic.Uint64
	Corrections      atomic.Uint64

	// Capability table
	CapabilitiesMinted  atomic.Uint64
	CapabilitiesDerived atomic.Uint64
	CapabilitiesRevoked atomic.Uint64
	GlobalRevokes       atomic.Uint64

	// Scheduler
	ContextSwitches atomic.Uint64
	AgentsSpawned    atomic.Uint64
	AgentsKilled     atomic.Uint64

	// Watchdog
	DeadlocksTripped atomic.Uint64

	// Kernel lifecycle
	StartTime atomic.Int64
	StopTime  atomic.Int64
}

// NewMetrics creates a new metrics instance with the start time set to
// now.
func NewMetrics() *Metrics {
	m := &Metrics{}
	m.StartTime.Store(time.Now().UnixNano())
	return m
}

// RecordIntent records the outcome of one submit_intent call.
func (m *Metrics) RecordIntent(handled bool) {
	if handled {
		m.IntentsDispatched.Add(1)
	} else {
		m.IntentsUnhandled.Add(1)
	}
}

// RecordHandlerError records a handler returning Error during dispatch.
func (m *Metrics) RecordHandlerError() {
	m.HandlerErrors.Add(1)
}

// RecordStroke records one stroke engine Process call's outcome.
func (m *Metrics) RecordStroke(unknown, correction bool) {
	m.StrokesProcessed.Add(1)
	if unknown {
		m.StrokesUnknown.Add(1)
	}
	if correction {
		m.Corrections.Add(1)
	}
}

// RecordCapabilityMint, RecordCapabilityDerive, RecordCapabilityRevoke,
// and RecordGlobalRevoke record capability table operations.
func (m *Metrics) RecordCapabilityMint()   { m.CapabilitiesMinted.Add(1) }
func (m *Metrics) RecordCapabilityDerive() { m.CapabilitiesDerived.Add(1) }
func (m *Metrics) RecordCapabilityRevoke() { m.CapabilitiesRevoked.Add(1) }
func (m *Metrics) RecordGlobalRevoke()     { m.GlobalRevokes.Add(1) }

// RecordContextSwitch records one Schedule() call selecting a new
// running agent.
func (m *Metrics) RecordContextSwitch() { m.ContextSwitches.Add(1) }

// RecordAgentSpawned and RecordAgentKilled track agent lifecycle.
func (m *Metrics) RecordAgentSpawned() { m.AgentsSpawned.Add(1) }
func (m *Metrics) RecordAgentKilled()  { m.AgentsKilled.Add(1) }

// RecordDeadlockTrip records one watchdog-reported circular wait.
func (m *Metrics) RecordDeadlockTrip() { m.DeadlocksTripped.Add(1) }

// Stop marks the kernel as stopped.
func (m *Metrics) Stop() {
	m.StopTime.Store(time.Now().UnixNano())
}

// MetricsSnapshot is a point-in-time, plain-value copy of Metrics.
type MetricsSnapshot struct {
	IntentsDispatched uint64
	IntentsUnhandled  uint64
	HandlerErrors     uint64

	StrokesProcessed uint64
	StrokesUnknown   uint64
	Corrections      uint64

	CapabilitiesMinted  uint64
	CapabilitiesDerived uint64
	CapabilitiesRevoked uint64
	GlobalRevokes       uint64

	ContextSwitches uint64
	AgentsSpawned   uint64
	AgentsKilled    uint64

	DeadlocksTripped uint64

	UptimeNs uint64
}

// Snapshot returns a point-in-time snapshot of the counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		IntentsDispatched:   m.IntentsDispatched.Load(),
		IntentsUnhandled:    m.IntentsUnhandled.Load(),
		HandlerErrors:       m.HandlerErrors.Load(),
		StrokesProcessed:    m.StrokesProcessed.Load(),
		StrokesUnknown:      m.StrokesUnknown.Load(),
		Corrections:         m.Corrections.Load(),
		CapabilitiesMinted:  m.CapabilitiesMinted.Load(),
		CapabilitiesDerived: m.CapabilitiesDerived.Load(),
		CapabilitiesRevoked: m.CapabilitiesRevoked.Load(),
		GlobalRevokes:       m.GlobalRevokes.Load(),
		ContextSwitches:     m.ContextSwitches.Load(),
		AgentsSpawned:       m.AgentsSpawned.Load(),
		AgentsKilled:        m.AgentsKilled.Load(),
		DeadlocksTripped:    m.DeadlocksTripped.Load(),
	}

	start := m.StartTime.Load()
	stop := m.StopTime.Load()
	if stop > 0 {
		snap.UptimeNs = uint64(stop - start)
	} else {
		snap.UptimeNs = uint64(time.Now().UnixNano() - start)
	}
	return snap
}

// Reset zeroes all counters, useful for test isolation.
func (m *Metrics) Reset() {
	m.IntentsDispatched.Store(0)
	m.IntentsUnhandled.Store(0)
	m.HandlerErrors.Store(0)
	m.StrokesProcessed.Store(0)
	m.StrokesUnknown.Store(0)
	m.Corrections.Store(0)
	m.CapabilitiesMinted.Store(0)
	m.CapabilitiesDerived.Store(0)
	m.CapabilitiesRevoked.Store(0)
	m.GlobalRevokes.Store(0)
	m.ContextSwitches.Store(0)
	m.AgentsSpawned.Store(0)
	m.AgentsKilled.Store(0)
	m.DeadlocksTripped.Store(0)
	m.StartTime.Store(time.Now().UnixNano())
	m.StopTime.Store(0)
}

// Observer allows pluggable metrics collection, mirroring the
// teacher's observer-over-atomics pattern.
type Observer interface {
	ObserveIntent(handled bool)
	ObserveStroke(unknown, correction bool)
	ObserveContextSwitch()
}

// NoOpObserver is a no-op Observer.
type NoOpObserver struct{}

func (NoOpObserver) ObserveIntent(bool)       {}
func (NoOpObserver) ObserveStroke(bool, bool) {}
func (NoOpObserver) ObserveContextSwitch()    {}

// MetricsObserver implements Observer over a Metrics instance.
type MetricsObserver struct {
	metrics *Metrics
}

// NewMetricsObserver creates an observer that records into m.
func NewMetricsObserver(m *Metrics) *MetricsObserver {
	return &MetricsObserver{metrics: m}
}

func (o *MetricsObserver) ObserveIntent(handled bool) { o.metrics.RecordIntent(handled) }
func (o *MetricsObserver) ObserveStroke(unknown, correction bool) {
	o.metrics.RecordStroke(unknown, correction)
}
func (o *MetricsObserver) ObserveContextSwitch() { o.metrics.RecordContextSwitch() }

var _ Observer = (*MetricsObserver)(nil)
var _ Observer = (*NoOpObserver)(nil)
