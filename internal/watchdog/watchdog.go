// Package watchdog periodically walks the lock registry's wait-for
// graph looking for circular waits, rate-limiting how often it reports
// (and acts on) the same victim so a persistent deadlock doesn't flood
// the log or repeatedly kill the same agent before the rest of the
// kernel has a chance to react to the first trip.
package watchdog

import (
	"context"
	"time"

	"github.com/ehrlich-b/sutra-kernel/internal/constants"
	"github.com/ehrlich-b/sutra-kernel/internal/logging"
	"github.com/ehrlich-b/sutra-kernel/internal/syncx"
	"github.com/joeycumines/go-catrate"
)

// Trip describes one detected deadlock, named by the agent chosen as
// the victim for recovery (the lowest-id member of the cycle, for
// determinism).
type Trip struct {
	Victim uint64
	Cycle  []uint64
}

// VictimHandler is invoked on each rate-permitted trip.
type VictimHandler func(Trip)

// Watchdog polls a lock registry on an interval and reports circular
// waits through a rate limiter keyed by victim agent id, so the same
// victim is not re-reported faster than the configured window allows.
type Watchdog struct {
	registry *syncx.LockRegistry
	limiter  *catrate.Limiter
	interval time.Duration
	onTrip   VictimHandler
	logger   *logging.Logger
}

// New builds a watchdog polling registry every interval, reporting a
// given victim at most once per window via catrate.
func New(registry *syncx.LockRegistry, interval, window time.Duration, onTrip VictimHandler) *Watchdog {
	if interval <= 0 {
		interval = constants.DefaultWatchdogPollInterval
	}
	if window <= 0 {
		window = constants.DefaultWatchdogTripWindow
	}
	return &Watchdog{
		registry: registry,
		limiter:  catrate.NewLimiter(map[time.Duration]int{window: 1}),
		interval: interval,
		onTrip:   onTrip,
		logger:   logging.Default(),
	}
}

// Run polls until ctx is cancelled.
func (w *Watchdog) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.poll()
		}
	}
}

func (w *Watchdog) poll() {
	cycle, found := w.registry.DetectCircularWait()
	if !found {
		return
	}

	victim := cycle[0]
	for _, a := range cycle[1:] {
		if a < victim {
			victim = a
		}
	}

	if _, allowed := w.limiter.Allow(victim); !allowed {
		return
	}

	w.logger.Warn("watchdog: circular wait detected", "victim", victim, "cycle", cycle)
	if w.onTrip != nil {
		w.onTrip(Trip{Victim: victim, Cycle: cycle})
	}
}
