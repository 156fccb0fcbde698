package sched

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/ehrlich-b/sutra-kernel/internal/constants"
	"github.com/ehrlich-b/sutra-kernel/internal/logging"
)

// EntryFunc is the body of a spawned agent. It receives the agent handle
// (to call Yield/BlockOn at its own suspension points) and the
// per-quantum context handed to it on its most recent resume.
type EntryFunc func(a *Agent, ctx context.Context)

// UserEntryFunc is the body of a spawned user agent; it additionally
// receives the argument passed at spawn time, mirroring the original's
// trampoline which threads x21 (arg) through to entry_fn(arg).
type UserEntryFunc func(a *Agent, ctx context.Context, arg uint64)

// Scheduler is a single shared run queue, preemptive round-robin over
// Ready agents.
type Scheduler struct {
	mu              sync.Mutex
	queue           []*Agent
	agentsByID      map[AgentID]*Agent
	currentID       AgentID
	nextID          uint64
	tickInterval    time.Duration
	logger          *logging.Logger
	pinCPU          int // -1 means unpinned
	mailboxCapacity int

	onSpawn  func()
	onKill   func()
	onSwitch func()
}

// New constructs an empty scheduler with the given preemption tick.
func New(tickInterval time.Duration) *Scheduler {
	if tickInterval <= 0 {
		tickInterval = constants.DefaultTickInterval
	}
	return &Scheduler{
		agentsByID:      make(map[AgentID]*Agent),
		nextID:          1,
		tickInterval:    tickInterval,
		logger:          logging.Default(),
		pinCPU:          -1,
		mailboxCapacity: constants.MailboxCapacity,
	}
}

// SetMailboxCapacity configures the per-agent mailbox depth used for
// every agent spawned from this point on; agents already spawned keep
// whatever capacity they were given. A non-positive value restores the
// built-in default.
func (s *Scheduler) SetMailboxCapacity(capacity int) {
	s.mu.Lock()
	if capacity <= 0 {
		capacity = constants.MailboxCapacity
	}
	s.mailboxCapacity = capacity
	s.mu.Unlock()
}

// SetObservers installs callbacks fired on agent spawn, agent kill, and
// context switch, letting the owning kernel feed its Metrics without
// this package depending on the metrics type. Any of onSpawn, onKill,
// onSwitch may be nil.
func (s *Scheduler) SetObservers(onSpawn, onKill, onSwitch func()) {
	s.mu.Lock()
	s.onSpawn = onSpawn
	s.onKill = onKill
	s.onSwitch = onSwitch
	s.mu.Unlock()
}

// PinToCPU requests that RunLoop's goroutine be locked to the given CPU
// for the remainder of the scheduler's lifetime, the same affinity
// pinning the teacher applies per hardware queue. A no-op off Linux.
func (s *Scheduler) PinToCPU(cpu int) {
	s.mu.Lock()
	s.pinCPU = cpu
	s.mu.Unlock()
}

// SpawnKernel allocates a kernel agent, parked in Ready, and starts the
// goroutine that stands in for its thread of control.
func (s *Scheduler) SpawnKernel(entry EntryFunc) AgentID {
	s.mu.Lock()
	id := AgentID(s.nextID)
	s.nextID++
	a := newAgent(id, false, 0, s.mailboxCapacity, &s.mu)
	s.agentsByID[id] = a
	s.queue = append(s.queue, a)
	onSpawn := s.onSpawn
	s.mu.Unlock()
	if onSpawn != nil {
		onSpawn()
	}

	go s.run(a, func(ctx context.Context) { entry(a, ctx) })
	return id
}

// SpawnUser allocates a user agent, parked in Ready, and starts the
// goroutine that runs entry(agent, ctx, arg) on its first resume. No
// kernel or user stack buffers are allocated.
func (s *Scheduler) SpawnUser(entry UserEntryFunc, arg uint64) AgentID {
	s.mu.Lock()
	id := AgentID(s.nextID)
	s.nextID++
	a := newAgent(id, true, arg, s.mailboxCapacity, &s.mu)
	s.agentsByID[id] = a
	s.queue = append(s.queue, a)
	onSpawn := s.onSpawn
	s.mu.Unlock()
	if onSpawn != nil {
		onSpawn()
	}

	go s.run(a, func(ctx context.Context) { entry(a, ctx, arg) })
	return id
}

func (s *Scheduler) run(a *Agent, body func(ctx context.Context)) {
	ctx, ok := a.waitResume()
	if !ok {
		return
	}
	body(ctx)

	s.mu.Lock()
	a.State = Terminated
	s.mu.Unlock()
	select {
	case a.yieldCh <- struct{}{}:
	default:
	}
}

// Schedule is the pure scheduling decision: it mutates only the queue
// and per-agent state, takes no lock itself beyond the scheduler's own
// (mirroring the original's SpinLock-guarded Scheduler), and performs no
// I/O. It is directly unit-testable by sequential calls, exactly as the
// original's test_scheduler_round_robin exercises it.
func (s *Scheduler) Schedule() (prev *Context, next *Context, ok bool) {
	s.mu.Lock()
	prev, next, ok = s.scheduleLocked()
	onSwitch := s.onSwitch
	s.mu.Unlock()
	if ok && onSwitch != nil {
		onSwitch()
	}
	return prev, next, ok
}

func (s *Scheduler) scheduleLocked() (prev *Context, next *Context, ok bool) {
	if len(s.queue) == 0 {
		return nil, nil, false
	}

	// Rotate the head: Running -> Ready and pushed to back; Terminated is
	// dropped; Blocked is pushed back unchanged. A Ready head means
	// nothing was running (e.g. the first decision), so it stays in
	// front and the scan below picks it first.
	head := s.queue[0]
	rest := s.queue[1:]
	switch head.State {
	case Running:
		head.State = Ready
		s.queue = append(append([]*Agent{}, rest...), head)
	case Terminated:
		s.queue = append([]*Agent{}, rest...)
	case Ready:
	default:
		s.queue = append(append([]*Agent{}, rest...), head)
	}

	// Scan for the first Ready agent, rotating candidates we reject to
	// the back, same as the original's bounded retry loop.
	n := len(s.queue)
	for i := 0; i < n; i++ {
		cand := s.queue[0]
		s.queue = s.queue[1:]
		if cand.State == Ready {
			cand.State = Running
			s.currentID = cand.ID
			s.queue = append([]*Agent{cand}, s.queue...)

			nextCtx := &s.queue[0].ctx
			var prevCtx *Context
			if len(s.queue) > 1 {
				prevCtx = &s.queue[len(s.queue)-1].ctx
			} else {
				prevCtx = &s.queue[0].ctx
			}
			return prevCtx, nextCtx, true
		}
		s.queue = append(s.queue, cand)
	}
	return nil, nil, false
}

// Yield hands control back to the scheduler: the calling agent's
// goroutine blocks until it is next resumed. The actual Ready->Running
// bookkeeping happens in Schedule, called by the driving RunLoop.
func (a *Agent) Yield() (context.Context, bool) {
	select {
	case a.yieldCh <- struct{}{}:
	case <-a.killCh:
		return nil, false
	}
	return a.waitResume()
}

// BlockOn transitions the calling agent to Blocked with reason and
// parks until Wake (or Kill) resumes it.
func (a *Agent) BlockOn(reason BlockReason) (context.Context, bool) {
	a.mu.Lock()
	a.State = Blocked
	a.BlockReason = reason
	a.mu.Unlock()
	select {
	case a.yieldCh <- struct{}{}:
	case <-a.killCh:
		return nil, false
	}
	return a.waitResume()
}

// Wake transitions a Blocked agent to Ready. No-op if the agent is not
// Blocked (already resolved, or terminated).
func (s *Scheduler) Wake(id AgentID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.agentsByID[id]; ok && a.State == Blocked {
		a.State = Ready
		a.BlockReason = NoReason
	}
}

// Kill marks agentID Terminated and unblocks its goroutine; resources
// are reclaimed on the next Schedule pass.
func (s *Scheduler) Kill(id AgentID) {
	s.mu.Lock()
	a, ok := s.agentsByID[id]
	onKill := s.onKill
	if ok {
		a.State = Terminated
		delete(s.agentsByID, id)
	}
	s.mu.Unlock()
	if ok {
		a.Mailbox.Drain()
		a.kill()
		if onKill != nil {
			onKill()
		}
	}
}

// Agent looks up a spawned agent by id.
func (s *Scheduler) Agent(id AgentID) (*Agent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.agentsByID[id]
	return a, ok
}

// Current returns the currently-running agent id, if any.
func (s *Scheduler) Current() AgentID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentID
}

// ReadyCount reports |{agents in state Ready}|, exposed for invariant
// checks.
func (s *Scheduler) ReadyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, a := range s.queue {
		if a.State == Ready {
			n++
		}
	}
	return n
}

// RunLoop drives the cooperative harness: each iteration asks Schedule
// for the next agent and hands it a fresh per-quantum context (mirroring
// the teacher's ctx.Done()-gated ioLoop), then waits for that agent to
// reach its next suspension point. Go cannot forcibly reclaim control
// from a goroutine that never yields, so well-behaved entry functions
// must call Yield/BlockOn (or return) promptly; RunLoop enforces the
// decision/rotation side of preemption, not true interruption.
func (s *Scheduler) RunLoop(ctx context.Context) {
	s.mu.Lock()
	pin := s.pinCPU
	s.mu.Unlock()
	if pin >= 0 {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		if err := pinCurrentThreadToCPU(pin); err != nil {
			s.logger.Warn("sched: cpu affinity pin failed", "cpu", pin, "err", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		prev, next, ok := s.Schedule()
		_ = prev
		if !ok {
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.tickInterval):
			}
			continue
		}

		s.mu.Lock()
		agent := s.agentsByID[next.AgentID]
		s.mu.Unlock()
		if agent == nil {
			continue
		}

		quantumCtx, cancel := context.WithTimeout(ctx, s.tickInterval)
		select {
		case agent.resumeCh <- quantumCtx:
		case <-ctx.Done():
			cancel()
			return
		}

		select {
		case <-agent.yieldCh:
		case <-ctx.Done():
			cancel()
			return
		}
		cancel()
	}
}
