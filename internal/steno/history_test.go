package steno

import (
	"testing"

	"github.com/ehrlich-b/sutra-kernel/internal/constants"
	"github.com/stretchr/testify/assert"
)

func TestHistoryPushAt(t *testing.T) {
	h := NewHistory()
	h.Push(Stroke(1), nil, 1)
	h.Push(Stroke(2), nil, 2)

	last, ok := h.Last()
	assert.True(t, ok)
	assert.Equal(t, Stroke(2), last.Stroke)

	e, ok := h.At(1)
	assert.True(t, ok)
	assert.Equal(t, Stroke(1), e.Stroke)
}

func TestHistoryUndoRedo(t *testing.T) {
	h := NewHistory()
	h.Push(Stroke(1), nil, 1)
	h.Push(Stroke(2), nil, 2)

	undone, ok := h.Undo()
	assert.True(t, ok)
	assert.Equal(t, Stroke(2), undone.Stroke)
	assert.Equal(t, 1, h.UndoCount())

	redone, ok := h.Redo()
	assert.True(t, ok)
	assert.Equal(t, Stroke(2), redone.Stroke)
	assert.Equal(t, 0, h.UndoCount())

	_, ok = h.Redo()
	assert.False(t, ok)
}

func TestHistoryWrapsAtCapacity(t *testing.T) {
	h := NewHistory()
	for i := 0; i < 100; i++ {
		h.Push(Stroke(i), nil, uint64(i))
	}
	assert.Equal(t, constants.HistorySize, h.Len())

	e, ok := h.At(63)
	assert.True(t, ok)
	assert.Equal(t, Stroke(36), e.Stroke)
}

func TestHistoryPushResetsUndoCursor(t *testing.T) {
	h := NewHistory()
	h.Push(Stroke(1), nil, 1)
	h.Push(Stroke(2), nil, 2)
	h.Undo()
	h.Push(Stroke(3), nil, 3)

	_, ok := h.Redo()
	assert.False(t, ok)
}
