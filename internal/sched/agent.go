// Package sched implements the preemptive round-robin scheduler and
// agent lifecycle: a pure scheduling-decision function mirroring the
// kernel's original Rust scheduler exactly, plus a thin cooperative
// goroutine/channel harness realizing it on top of Go (which, unlike a
// real AArch64 core, cannot be forcibly preempted mid-execution).
package sched

import (
	"context"
	"sync"

	"github.com/ehrlich-b/sutra-kernel/internal/capability"
)

// AgentID uniquely identifies an agent. IDs are monotonically issued
// and never reused.
type AgentID uint64

// State is the agent's scheduling state.
type State int

const (
	Ready State = iota
	Running
	Blocked
	Terminated
)

// BlockReason records why a Blocked agent is waiting.
type BlockReason int

const (
	NoReason BlockReason = iota
	ReasonMailboxEmpty
	ReasonIPCWait
)

// Context stands in for the architecture-specific saved register state;
// the real context switch is an opaque primitive outside this package's
// concern. It carries enough so the pure Schedule() decision has
// something concrete to hand back, matching the original's
// (*mut Context, *const Context) pair.
type Context struct {
	AgentID AgentID
}

// Agent is a schedulable execution context: saved context, capability
// set, and mailbox. It has no stack buffers of its own; the goroutine
// standing in for it runs on its Go stack.
type Agent struct {
	ID          AgentID
	ctx         Context
	State       State
	BlockReason BlockReason
	Caps        []capability.Capability
	Mailbox     *Mailbox
	User        bool
	UserArg     uint64

	// cooperative-harness plumbing: not part of the spec's data model,
	// just the mechanism by which a Go goroutine stands in for a
	// hardware thread of control.
	mu       *sync.Mutex // the owning Scheduler's mutex; guards State/BlockReason
	resumeCh chan context.Context
	yieldCh  chan struct{}
	killCh   chan struct{}
	killOnce sync.Once
}

func newAgent(id AgentID, user bool, arg uint64, mailboxCapacity int, mu *sync.Mutex) *Agent {
	return &Agent{
		ID:      id,
		ctx:     Context{AgentID: id},
		State:   Ready,
		User:    user,
		UserArg: arg,
		Mailbox: newMailbox(mailboxCapacity),
		mu:      mu,

		resumeCh: make(chan context.Context),
		yieldCh:  make(chan struct{}, 1),
		killCh:   make(chan struct{}),
	}
}

func (a *Agent) kill() {
	a.killOnce.Do(func() { close(a.killCh) })
}

// waitResume parks until RunLoop hands this agent its next per-quantum
// context, so an agent's entry function can select on ctx.Done() the
// way the teacher's ioLoop selects on <-ctx.Done(). ok is false once
// the agent has been killed.
func (a *Agent) waitResume() (context.Context, bool) {
	select {
	case c := <-a.resumeCh:
		return c, true
	case <-a.killCh:
		return nil, false
	}
}
