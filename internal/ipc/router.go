// Package ipc ties the handler registry and scheduler together behind
// one dispatch entry point: submit_intent tries in-kernel handlers
// first, then falls back to whichever user agent last announced
// interest in the concept.
package ipc

import (
	"sync"

	"github.com/ehrlich-b/sutra-kernel/internal/registry"
	"github.com/ehrlich-b/sutra-kernel/internal/sched"
)

// Router is the kernel's single submit_intent entry point.
type Router struct {
	reg   *registry.Registry
	sched *sched.Scheduler

	mu        sync.Mutex
	announced map[registry.ConceptID]sched.AgentID
}

// New builds a router over an already-constructed registry and
// scheduler; both are expected to be shared with the rest of the
// kernel.
func New(reg *registry.Registry, scheduler *sched.Scheduler) *Router {
	return &Router{
		reg:       reg,
		sched:     scheduler,
		announced: make(map[registry.ConceptID]sched.AgentID),
	}
}

// Announce records that agent is interested in concept. A later
// announce for the same concept replaces, rather than stacks on top
// of, an earlier one: only the most recent subscriber sees the
// fallback delivery.
func (r *Router) Announce(agent sched.AgentID, concept registry.ConceptID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.announced[concept] = agent
}

// Withdraw removes agent's announcement for concept, if it is still
// the current one. Killing an agent should call this so a stale
// announce doesn't route messages into a drained mailbox.
func (r *Router) Withdraw(agent sched.AgentID, concept registry.ConceptID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.announced[concept]; ok && cur == agent {
		delete(r.announced, concept)
	}
}

// SubmitIntent is the kernel's single dispatch entry point: it first
// gives the in-kernel handler registry a chance to service concept,
// then falls back to announcing into a subscribed user agent's
// mailbox. Reports whether the intent found a destination, and
// separately whether an in-kernel handler terminated the chain with an
// Error outcome (in which case no mailbox fallback is attempted: an
// Error is a terminal verdict, not an absence of a handler).
func (r *Router) SubmitIntent(concept registry.ConceptID, senderID sched.AgentID, payload [64]byte, oracle registry.CapOracle) (handled bool, errored bool) {
	if handled, errored := r.reg.DispatchVerbose(concept, oracle); handled || errored {
		return handled, errored
	}

	r.mu.Lock()
	agentID, ok := r.announced[concept]
	r.mu.Unlock()
	if !ok {
		return false, false
	}

	agent, ok := r.sched.Agent(agentID)
	if !ok {
		return false, false
	}

	msg := sched.Message{SenderID: senderID, Payload: payload}
	if err := agent.Mailbox.Send(msg); err != nil {
		return false, false
	}
	r.sched.Wake(agentID)
	return true, false
}
