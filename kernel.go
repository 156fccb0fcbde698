// Package sutra is the top-level API for a capability-based
// microkernel: minting and revoking capabilities, registering intent
// handlers, scheduling agents, and resolving steno strokes into
// dispatched intents.
package sutra

import (
	"context"

	"github.com/ehrlich-b/sutra-kernel/internal/capability"
	"github.com/ehrlich-b/sutra-kernel/internal/config"
	"github.com/ehrlich-b/sutra-kernel/internal/ipc"
	"github.com/ehrlich-b/sutra-kernel/internal/logging"
	"github.com/ehrlich-b/sutra-kernel/internal/registry"
	"github.com/ehrlich-b/sutra-kernel/internal/sched"
	"github.com/ehrlich-b/sutra-kernel/internal/steno"
	"github.com/ehrlich-b/sutra-kernel/internal/syncx"
	"github.com/ehrlich-b/sutra-kernel/internal/watchdog"
)

// AgentID re-exports the scheduler's agent identifier for public API
// signatures.
type AgentID = sched.AgentID

// Kernel is the assembled core: the capability table, handler
// registry, scheduler, IPC router, stroke engine, and deadlock
// watchdog wired together, mirroring the shape of the teacher's
// backend.go::CreateAndServe as the single construction point for a
// running instance.
type Kernel struct {
	Caps     *capability.Table
	Registry *registry.Registry
	Sched    *sched.Scheduler
	Router   *ipc.Router
	Steno    *steno.Engine
	Locks    *syncx.LockRegistry
	Watchdog *watchdog.Watchdog
	Metrics  *Metrics

	boot   *config.Boot
	logger *logging.Logger
	cancel context.CancelFunc
}

// Boot constructs a Kernel from boot configuration, wiring every
// subsystem's capacity and timing knob from cfg. Pass config.Default()
// for built-in defaults.
func Boot(cfg *config.Boot) *Kernel {
	if cfg == nil {
		cfg = config.Default()
	}

	caps := capability.NewTableWithCapacity(cfg.Kernel.CapabilityTableCapacity)
	reg := registry.New(cfg.Kernel.HandlerTableCapacity)
	scheduler := sched.New(cfg.TickInterval())
	scheduler.SetMailboxCapacity(cfg.Kernel.MailboxCapacity)
	router := ipc.New(reg, scheduler)
	metrics := NewMetrics()
	scheduler.SetObservers(metrics.RecordAgentSpawned, metrics.RecordAgentKilled, metrics.RecordContextSwitch)
	engine := steno.NewEngineWithHistoryCapacity(cfg.Kernel.HistorySize)
	engine.Init()

	locks := syncx.Registry()
	onTrip := func(trip watchdog.Trip) {
		metrics.RecordDeadlockTrip()
		scheduler.Kill(sched.AgentID(trip.Victim))
	}
	wd := watchdog.New(locks, cfg.WatchdogPollInterval(), cfg.WatchdogPollInterval()*10, onTrip)

	return &Kernel{
		Caps:     caps,
		Registry: reg,
		Sched:    scheduler,
		Router:   router,
		Steno:    engine,
		Locks:    locks,
		Watchdog: wd,
		Metrics:  metrics,
		boot:     cfg,
		logger:   logging.Default(),
	}
}

// Run starts the scheduler's cooperative run loop and the deadlock
// watchdog's poll loop, both bound to ctx. It returns once both have
// been started; callers cancel ctx (or call Stop) to shut the kernel
// down.
func (k *Kernel) Run(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	k.cancel = cancel
	go k.Sched.RunLoop(runCtx)
	go k.Watchdog.Run(runCtx)
	k.logger.Info("kernel: booted", "tick_ms", k.boot.Kernel.TickIntervalMS)
}

// Stop cancels the kernel's run loops and records the stop time in
// Metrics.
func (k *Kernel) Stop() {
	if k.cancel != nil {
		k.cancel()
	}
	k.Metrics.Stop()
}

// MintRoot mints a root capability and records the mint in Metrics.
func (k *Kernel) MintRoot(typ capability.Type, resource, size uint64, perms capability.Permission) capability.Capability {
	k.Metrics.RecordCapabilityMint()
	return k.Caps.MintRoot(typ, resource, size, perms)
}

// Derive derives a child capability and records the derivation.
func (k *Kernel) Derive(parent capability.Capability, requested capability.Permission) (capability.Capability, error) {
	cap, err := k.Caps.Derive(parent, requested)
	if err == nil {
		k.Metrics.RecordCapabilityDerive()
	}
	return cap, err
}

// Revoke revokes a capability (and its descendants) and records the
// revocation.
func (k *Kernel) Revoke(cap capability.Capability) bool {
	ok := k.Caps.Revoke(cap)
	if ok {
		k.Metrics.RecordCapabilityRevoke()
	}
	return ok
}

// GlobalRevoke bumps the table generation, invalidating every
// outstanding capability at once, and records the event.
func (k *Kernel) GlobalRevoke() {
	k.Caps.GlobalRevoke()
	k.Metrics.RecordGlobalRevoke()
}

// ProcessStroke feeds one stroke through the stroke engine and, if it
// resolved to an intent, submits that intent through the router.
func (k *Kernel) ProcessStroke(stroke steno.Stroke, senderID AgentID, payload [64]byte, oracle registry.CapOracle) (steno.Intent, bool) {
	intent, ok := k.Steno.Process(stroke)
	k.Metrics.RecordStroke(ok && intent.Concept == steno.Unknown, stroke.IsCorrection())
	if !ok {
		return intent, false
	}
	handled, errored := k.Router.SubmitIntent(registry.ConceptID(intent.Concept), senderID, payload, oracle)
	if errored {
		k.Metrics.RecordHandlerError()
	}
	k.Metrics.RecordIntent(handled)
	return intent, true
}
