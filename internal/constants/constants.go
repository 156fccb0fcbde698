package constants

import "time"

// Scheduler/timing constants.
//
// The preemption tick drives the scheduler's round-robin rotation the same
// way a hardware timer interrupt does on real AArch64; in this realization
// it drives a per-quantum context deadline handed to each running agent.
const (
	// DefaultTickInterval is the default scheduler preemption quantum.
	DefaultTickInterval = 10 * time.Millisecond

	// KernelStackSize is a nominal kernel-stack size per agent; the
	// scheduler allocates no stack buffers and does not read it.
	KernelStackSize = 16 * 1024

	// UserStackSize is a nominal user-stack size per user agent; the
	// scheduler allocates no stack buffers and does not read it.
	UserStackSize = 16 * 1024
)

// Capability table constants.
const (
	// DefaultCapabilityTableCapacity bounds outstanding capability entries.
	DefaultCapabilityTableCapacity = 4096
)

// Handler registry constants.
const (
	// DefaultHandlerTableCapacity bounds registered handler entries (fixed,
	// per the spec's "fixed bound, e.g., 128").
	DefaultHandlerTableCapacity = 128
)

// IPC constants.
const (
	// MailboxCapacity is the bounded per-agent mailbox depth (M).
	MailboxCapacity = 16

	// MessagePayloadSize is the fixed message payload size in bytes (B).
	MessagePayloadSize = 64
)

// Stroke engine constants.
const (
	// HistorySize is the default ring-buffer history capacity.
	HistorySize = 64

	// MaxPendingSequence bounds the multi-stroke pending sequence.
	MaxPendingSequence = 8

	// MaxDictionaryEntries bounds the steno dictionary.
	MaxDictionaryEntries = 1024
)

// Watchdog constants.
const (
	// DefaultWatchdogPollInterval is how often the deadlock watchdog polls
	// the wait-for graph.
	DefaultWatchdogPollInterval = 50 * time.Millisecond

	// DefaultWatchdogTripWindow bounds how often the watchdog may re-fire
	// a report for the same victim agent id.
	DefaultWatchdogTripWindow = time.Second
)
