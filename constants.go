package sutra

import "github.com/ehrlich-b/sutra-kernel/internal/constants"

// Re-exported tuning constants for the public API.
const (
	DefaultTickInterval            = constants.DefaultTickInterval
	DefaultCapabilityTableCapacity = constants.DefaultCapabilityTableCapacity
	DefaultHandlerTableCapacity    = constants.DefaultHandlerTableCapacity
	MailboxCapacity                = constants.MailboxCapacity
	MessagePayloadSize             = constants.MessagePayloadSize
	HistorySize                    = constants.HistorySize
	MaxPendingSequence             = constants.MaxPendingSequence
)
