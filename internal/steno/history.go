package steno

import "github.com/ehrlich-b/sutra-kernel/internal/constants"

// HistoryEntry records one processed stroke for undo/redo and
// multi-stroke context.
type HistoryEntry struct {
	Stroke    Stroke
	ConceptID *ConceptID
	Timestamp uint64
	Undone    bool
}

// History is a fixed-capacity ring buffer of stroke history with an
// undo cursor for multi-step undo/redo.
type History struct {
	entries    []HistoryEntry
	head       int
	count      int
	undoCursor int
}

// NewHistory constructs an empty history buffer at the built-in default
// capacity.
func NewHistory() *History {
	return NewHistoryWithCapacity(constants.HistorySize)
}

// NewHistoryWithCapacity constructs an empty history buffer holding up
// to capacity entries; a non-positive capacity falls back to the
// built-in default.
func NewHistoryWithCapacity(capacity int) *History {
	if capacity <= 0 {
		capacity = constants.HistorySize
	}
	return &History{entries: make([]HistoryEntry, capacity)}
}

func (h *History) cap() int { return len(h.entries) }

// Push records a new stroke, resetting the undo cursor.
func (h *History) Push(stroke Stroke, concept *ConceptID, timestamp uint64) {
	h.entries[h.head] = HistoryEntry{Stroke: stroke, ConceptID: concept, Timestamp: timestamp}
	h.head = (h.head + 1) % h.cap()
	if h.count < h.cap() {
		h.count++
	}
	h.undoCursor = 0
}

// Last returns the most recently pushed entry.
func (h *History) Last() (HistoryEntry, bool) {
	if h.count == 0 {
		return HistoryEntry{}, false
	}
	idx := (h.head + h.cap() - 1) % h.cap()
	return h.entries[idx], true
}

// At returns the entry offset positions back from the most recent
// (0 = most recent). ok is false once offset reaches the stored count.
func (h *History) At(offset int) (HistoryEntry, bool) {
	if offset < 0 || offset >= h.count {
		return HistoryEntry{}, false
	}
	idx := (h.head + h.cap() - 1 - offset) % h.cap()
	return h.entries[idx], true
}

// Undo marks the most recent non-undone entry as undone and advances
// the cursor past it.
func (h *History) Undo() (HistoryEntry, bool) {
	for offset := h.undoCursor; offset < h.count; offset++ {
		idx := (h.head + h.cap() - 1 - offset) % h.cap()
		if !h.entries[idx].Undone {
			h.entries[idx].Undone = true
			h.undoCursor = offset + 1
			return h.entries[idx], true
		}
	}
	return HistoryEntry{}, false
}

// Redo clears the undone flag on the most recently undone entry.
func (h *History) Redo() (HistoryEntry, bool) {
	if h.undoCursor == 0 {
		return HistoryEntry{}, false
	}
	for offset := h.undoCursor - 1; offset >= 0; offset-- {
		idx := (h.head + h.cap() - 1 - offset) % h.cap()
		if h.entries[idx].Undone {
			h.entries[idx].Undone = false
			h.undoCursor = offset
			return h.entries[idx], true
		}
	}
	return HistoryEntry{}, false
}

// Len reports the number of stored entries.
func (h *History) Len() int { return h.count }

// IsEmpty reports whether the history holds no entries.
func (h *History) IsEmpty() bool { return h.count == 0 }

// UndoCount reports how many stored entries are currently undone.
func (h *History) UndoCount() int {
	n := 0
	for i := 0; i < h.count; i++ {
		idx := (h.head + h.cap() - 1 - i) % h.cap()
		if h.entries[idx].Undone {
			n++
		}
	}
	return n
}

// Clear empties the history.
func (h *History) Clear() {
	h.head, h.count, h.undoCursor = 0, 0, 0
}

// Recent returns up to max entries, most recent first.
func (h *History) Recent(max int) []HistoryEntry {
	if max > h.count {
		max = h.count
	}
	out := make([]HistoryEntry, max)
	for i := 0; i < max; i++ {
		out[i], _ = h.At(i)
	}
	return out
}
