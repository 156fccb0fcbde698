package sutra

import (
	"context"
	"testing"
	"time"

	"github.com/ehrlich-b/sutra-kernel/internal/capability"
	"github.com/ehrlich-b/sutra-kernel/internal/config"
	"github.com/ehrlich-b/sutra-kernel/internal/registry"
	"github.com/ehrlich-b/sutra-kernel/internal/steno"
	"github.com/stretchr/testify/assert"
)

func TestBootWiresSubsystems(t *testing.T) {
	k := Boot(config.Default())
	assert.NotNil(t, k.Caps)
	assert.NotNil(t, k.Registry)
	assert.NotNil(t, k.Sched)
	assert.NotNil(t, k.Router)
	assert.NotNil(t, k.Steno)
	assert.NotNil(t, k.Watchdog)
	assert.NotNil(t, k.Metrics)
}

func TestKernelCapabilityLifecycleRecordsMetrics(t *testing.T) {
	k := Boot(config.Default())

	root := k.MintRoot(capability.TypeIntent, 0x42, 0, capability.PermAll)
	assert.Equal(t, uint64(1), k.Metrics.Snapshot().CapabilitiesMinted)

	child, err := k.Derive(root, capability.PermRead)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), k.Metrics.Snapshot().CapabilitiesDerived)

	assert.True(t, k.Revoke(root))
	assert.Equal(t, uint64(1), k.Metrics.Snapshot().CapabilitiesRevoked)
	assert.False(t, k.Caps.Validate(child))

	k.GlobalRevoke()
	assert.Equal(t, uint64(1), k.Metrics.Snapshot().GlobalRevokes)
}

func TestKernelProcessStrokeDispatchesToHandler(t *testing.T) {
	k := Boot(config.Default())

	mh := NewMockHandler(registry.Outcome{Kind: registry.Handled})
	sysType := capability.TypeSystem
	ok := k.Registry.Register(registry.ConceptID(steno.ConceptHelp), mh.Func(), "help", 100, &sysType)
	assert.True(t, ok)

	stroke := steno.StrokeFromSteno("PH-FPL")
	_, resolved := k.ProcessStroke(stroke, 0, [64]byte{}, OracleFor(capability.TypeSystem))
	assert.True(t, resolved)
	assert.Equal(t, 1, mh.CallCount())
	assert.Equal(t, uint64(1), k.Metrics.Snapshot().IntentsDispatched)
}

func TestKernelRunAndStop(t *testing.T) {
	k := Boot(config.Default())
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	k.Run(ctx)
	k.Stop()
	assert.NotZero(t, k.Metrics.Snapshot().UptimeNs)
}
