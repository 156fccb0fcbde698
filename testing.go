package sutra

import (
	"sync"

	"github.com/ehrlich-b/sutra-kernel/internal/capability"
	"github.com/ehrlich-b/sutra-kernel/internal/registry"
)

// MockHandler is a call-tracking registry.HandlerFunc for tests: it
// records every concept it was invoked with and returns a
// caller-configured Outcome.
type MockHandler struct {
	mu      sync.Mutex
	outcome registry.Outcome
	calls   []registry.ConceptID
}

// NewMockHandler creates a handler that always returns outcome.
func NewMockHandler(outcome registry.Outcome) *MockHandler {
	return &MockHandler{outcome: outcome}
}

// Func returns the registry.HandlerFunc to register.
func (h *MockHandler) Func() registry.HandlerFunc {
	return func(concept registry.ConceptID) registry.Outcome {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.calls = append(h.calls, concept)
		return h.outcome
	}
}

// Calls returns every concept this handler was invoked with, in order.
func (h *MockHandler) Calls() []registry.ConceptID {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]registry.ConceptID, len(h.calls))
	copy(out, h.calls)
	return out
}

// CallCount reports how many times the handler was invoked.
func (h *MockHandler) CallCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.calls)
}

// SetOutcome changes what the handler returns on subsequent calls.
func (h *MockHandler) SetOutcome(outcome registry.Outcome) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.outcome = outcome
}

// Reset clears the recorded call history.
func (h *MockHandler) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = nil
}

// AllowAllOracle is a registry.CapOracle that grants every capability
// check, for tests that don't care about gating.
func AllowAllOracle(capability.Type) bool { return true }

// DenyAllOracle is a registry.CapOracle that rejects every capability
// check.
func DenyAllOracle(capability.Type) bool { return false }

// OracleFor builds a registry.CapOracle that grants exactly the given
// set of capability types.
func OracleFor(allowed ...capability.Type) registry.CapOracle {
	set := make(map[capability.Type]bool, len(allowed))
	for _, t := range allowed {
		set[t] = true
	}
	return func(t capability.Type) bool { return set[t] }
}
