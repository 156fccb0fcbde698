package watchdog

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ehrlich-b/sutra-kernel/internal/syncx"
	"github.com/stretchr/testify/assert"
)

func TestWatchdogTripsOnCircularWait(t *testing.T) {
	l1 := syncx.NewSpinLock()
	l2 := syncx.NewSpinLock()
	l1.AcquireIRQ(10)
	l2.AcquireIRQ(20)

	// Agent 10 now tries to acquire l2 (held by 20) and agent 20 tries
	// to acquire l1 (held by 10): a genuine circular wait, each
	// goroutine blocking inside AcquireIRQ exactly as a real blocked
	// agent would, registering itself in the wait-for graph before
	// parking.
	go l1.AcquireIRQ(20)
	go l2.AcquireIRQ(10)

	registry := syncx.Registry()

	var mu sync.Mutex
	var trips []Trip
	wd := New(registry, 5*time.Millisecond, time.Minute, func(trip Trip) {
		mu.Lock()
		trips = append(trips, trip)
		mu.Unlock()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	go wd.Run(ctx)

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.NotEmpty(t, trips)
	assert.ElementsMatch(t, []uint64{10, 20}, trips[0].Cycle)
}
