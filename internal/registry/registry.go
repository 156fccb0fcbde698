// Package registry implements the intent handler registry: priority
// ordered dispatch over concept IDs, wildcard handlers, and
// capability-gated execution.
package registry

import (
	"sort"
	"sync"

	"github.com/ehrlich-b/sutra-kernel/internal/capability"
)

// ConceptID is the kernel's opaque 64-bit dispatch key. The reserved
// all-ones value denotes "unknown"; zero is the wildcard marker.
type ConceptID uint64

// Unknown is the reserved concept emitted when a stroke or intent text
// cannot be resolved.
const Unknown ConceptID = 0xFFFFFFFFFFFFFFFF

// Wildcard is the concept value that matches every dispatch.
const Wildcard ConceptID = 0

// OutcomeKind is a handler's verdict on a dispatched concept.
type OutcomeKind int

const (
	NotHandled OutcomeKind = iota
	Handled
	Error
)

// Outcome is the result a handler returns from one invocation.
type Outcome struct {
	Kind OutcomeKind
	Code uint32 // meaningful only when Kind == Error
}

// HandlerFunc is a handler body: a direct in-kernel function. Announce
// installs nothing here; mailbox delivery to announced agents is done
// by ipc.Router outside the registry. No virtual dispatch table is
// required beyond this.
type HandlerFunc func(concept ConceptID) Outcome

// CapOracle answers whether the submitter holds a given capability type.
type CapOracle func(capability.Type) bool

type handlerEntry struct {
	concept     ConceptID
	requiredCap *capability.Type
	handler     HandlerFunc
	priority    uint8
	name        string
	seq         int
}

// Registry stores handler entries and dispatches intents against them
// in priority order.
type Registry struct {
	mu       sync.Mutex
	entries  []handlerEntry
	sorted   bool
	capacity int
	nextSeq  int
}

// New constructs a registry bounded at capacity entries.
func New(capacity int) *Registry {
	return &Registry{capacity: capacity}
}

// Register appends a handler for concept. Returns false if the registry
// is at capacity.
func (r *Registry) Register(concept ConceptID, handler HandlerFunc, name string, priority uint8, requiredCap *capability.Type) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) >= r.capacity {
		return false
	}
	r.entries = append(r.entries, handlerEntry{
		concept:     concept,
		requiredCap: requiredCap,
		handler:     handler,
		priority:    priority,
		name:        name,
		seq:         r.nextSeq,
	})
	r.nextSeq++
	r.sorted = false
	return true
}

// RegisterWildcard registers a handler considered for every dispatch.
func (r *Registry) RegisterWildcard(handler HandlerFunc, name string, priority uint8) bool {
	return r.Register(Wildcard, handler, name, priority, nil)
}

// Unregister removes the named entry. Returns true iff found.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entries {
		if e.name == name {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			r.sorted = false
			return true
		}
	}
	return false
}

// ensureSorted lazily sorts entries by descending priority, stable on
// insertion order for ties. Caller must hold r.mu.
func (r *Registry) ensureSorted() {
	if r.sorted {
		return
	}
	sort.SliceStable(r.entries, func(i, j int) bool {
		if r.entries[i].priority != r.entries[j].priority {
			return r.entries[i].priority > r.entries[j].priority
		}
		return r.entries[i].seq < r.entries[j].seq
	})
	r.sorted = true
}

// Dispatch walks entries in priority order, skipping concept mismatches
// and capability-gated entries the oracle rejects, invoking the first
// eligible handler and every subsequent NotHandled entry until one
// returns Handled or Error. Reports only whether the concept was
// handled; callers that need to distinguish an Error outcome from
// running out of eligible entries should use DispatchVerbose.
func (r *Registry) Dispatch(concept ConceptID, oracle CapOracle) bool {
	handled, _ := r.DispatchVerbose(concept, oracle)
	return handled
}

// DispatchVerbose is Dispatch, additionally reporting whether the chain
// stopped on a handler returning Error rather than finding no eligible
// handler at all.
func (r *Registry) DispatchVerbose(concept ConceptID, oracle CapOracle) (handled bool, errored bool) {
	r.mu.Lock()
	r.ensureSorted()
	entries := make([]handlerEntry, len(r.entries))
	copy(entries, r.entries)
	r.mu.Unlock()

	for _, e := range entries {
		if e.concept != Wildcard && e.concept != concept {
			continue
		}
		if e.requiredCap != nil && (oracle == nil || !oracle(*e.requiredCap)) {
			continue
		}
		switch e.handler(concept).Kind {
		case Handled:
			return true, false
		case Error:
			return false, true
		case NotHandled:
			continue
		}
	}
	return false, false
}

// Len reports the number of registered entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
