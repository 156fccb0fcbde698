package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	b := Default()
	assert.Equal(t, 10, b.Kernel.TickIntervalMS)
	assert.Equal(t, "info", b.Kernel.LogLevel)
}

func TestLoadBytesOverridesDefaults(t *testing.T) {
	data := `
[kernel]
tickintervalms = 20
loglevel = debug
`
	b, err := LoadBytes([]byte(data))
	assert.NoError(t, err)
	assert.Equal(t, 20, b.Kernel.TickIntervalMS)
	assert.Equal(t, "debug", b.Kernel.LogLevel)
	assert.Equal(t, 4096, b.Kernel.CapabilityTableCapacity)
}

func TestLoadBytesTooLarge(t *testing.T) {
	huge := make([]byte, maxConfigSize+1)
	_, err := LoadBytes(huge)
	assert.ErrorIs(t, err, ErrConfigFileTooLarge)
}
