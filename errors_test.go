package sutra

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStructuredError(t *testing.T) {
	err := NewError("Derive", ErrCodeOutOfSlots, "capability table full")

	assert.Equal(t, "Derive", err.Op)
	assert.Equal(t, ErrCodeOutOfSlots, err.Code)
	assert.Equal(t, "sutra: capability table full (op=Derive)", err.Error())
}

func TestAgentError(t *testing.T) {
	err := NewAgentError("Send", AgentID(42), ErrCodeNoSuchTarget, "agent unknown")

	assert.Equal(t, AgentID(42), err.AgentID)
	assert.Equal(t, "sutra: agent unknown (op=Send)", err.Error())
}

func TestWrapError(t *testing.T) {
	inner := NewError("Dispatch", ErrCodeDispatchError, "handler failed")
	wrapped := WrapError("SubmitIntent", inner)

	assert.Equal(t, ErrCodeDispatchError, wrapped.Code)
	assert.Equal(t, "SubmitIntent", wrapped.Op)
}

func TestWrapErrorNil(t *testing.T) {
	assert.Nil(t, WrapError("SubmitIntent", nil))
}

func TestIsCode(t *testing.T) {
	err := NewError("Validate", ErrCodeRevoked, "capability revoked")

	assert.True(t, IsCode(err, ErrCodeRevoked))
	assert.False(t, IsCode(err, ErrCodeNoCapability))
	assert.False(t, IsCode(nil, ErrCodeRevoked))
}

func TestKernelErrorIs(t *testing.T) {
	a := NewError("Op1", ErrCodeMailboxFull, "full")
	b := NewError("Op2", ErrCodeMailboxFull, "also full")

	assert.True(t, a.Is(b))
}
