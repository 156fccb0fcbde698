package sutra

import (
	"errors"
	"fmt"
)

// KernelError represents a structured kernel error with context and a
// typed code drawn from the error kinds the core surfaces.
type KernelError struct {
	Op      string    // Operation that failed (e.g., "Derive", "Dispatch", "Send")
	AgentID AgentID   // Agent involved (0 if not applicable)
	Code    ErrorCode // High-level error category
	Msg     string    // Human-readable message
	Inner   error     // Wrapped error
}

// Error implements the error interface.
func (e *KernelError) Error() string {
	var parts []string

	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}
	if e.AgentID != 0 {
		parts = append(parts, fmt.Sprintf("agent=%d", e.AgentID))
	}

	msg := e.Msg
	if msg == "" {
		msg = string(e.Code)
	}

	if len(parts) > 0 {
		return fmt.Sprintf("sutra: %s (%s)", msg, parts[0])
	}
	return fmt.Sprintf("sutra: %s", msg)
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *KernelError) Unwrap() error {
	return e.Inner
}

// Is provides errors.Is support, comparing by Code.
func (e *KernelError) Is(target error) bool {
	if target == nil {
		return false
	}
	if te, ok := target.(*KernelError); ok {
		return e.Code == te.Code
	}
	return false
}

// ErrorCode represents the high-level error categories the core surfaces.
type ErrorCode string

const (
	ErrCodeNoCapability    ErrorCode = "no capability"
	ErrCodePermissionDenied ErrorCode = "permission denied"
	ErrCodeRevoked         ErrorCode = "revoked"
	ErrCodeNoSuchTarget    ErrorCode = "no such target"
	ErrCodeMailboxFull     ErrorCode = "mailbox full"
	ErrCodeOutOfSlots      ErrorCode = "out of slots"
	ErrCodeParseUnknown    ErrorCode = "parse unknown"
	ErrCodeDispatchError   ErrorCode = "dispatch error"
	ErrCodeNotImplemented  ErrorCode = "not implemented"
)

// NewError creates a new structured error.
func NewError(op string, code ErrorCode, msg string) *KernelError {
	return &KernelError{Op: op, Code: code, Msg: msg}
}

// NewAgentError creates a new agent-specific error.
func NewAgentError(op string, agentID AgentID, code ErrorCode, msg string) *KernelError {
	return &KernelError{Op: op, AgentID: agentID, Code: code, Msg: msg}
}

// WrapError wraps an existing error with kernel context.
func WrapError(op string, inner error) *KernelError {
	if inner == nil {
		return nil
	}
	if ke, ok := inner.(*KernelError); ok {
		return &KernelError{Op: op, AgentID: ke.AgentID, Code: ke.Code, Msg: ke.Msg, Inner: ke.Inner}
	}
	return &KernelError{Op: op, Code: ErrCodeDispatchError, Msg: inner.Error(), Inner: inner}
}

// IsCode checks if an error matches a specific error code.
func IsCode(err error, code ErrorCode) bool {
	var ke *KernelError
	if errors.As(err, &ke) {
		return ke.Code == code
	}
	return false
}

// invariantViolation halts the offending core. Reserved for internal
// bookkeeping corruption (e.g. ready queue corruption); never reached
// on caller-induced errors.
func invariantViolation(what string) {
	panic("sutra: invariant violation: " + what)
}
