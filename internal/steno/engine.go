package steno

import "github.com/ehrlich-b/sutra-kernel/internal/constants"

// State is the engine's processing state.
type State int

const (
	Ready State = iota
	Pending
	ErrorState
)

// Stats tracks lifetime engine counters.
type Stats struct {
	StrokesProcessed uint64
	IntentsMatched   uint64
	Corrections      uint64
	Unrecognized     uint64
}

// Engine is the stroke processor: strokes flow in, intents flow out.
type Engine struct {
	dict       *Dictionary
	multi      *MultiDictionary
	pending    *Sequence
	history    *History
	state      State
	lastStroke *Stroke
	stats      Stats
	clock      uint64
}

// NewEngine constructs an engine with empty dictionaries; call Init to
// install the default command set.
func NewEngine() *Engine {
	return NewEngineWithHistoryCapacity(constants.HistorySize)
}

// NewEngineWithHistoryCapacity constructs an engine whose undo/redo
// history ring buffer holds historyCapacity entries; call Init to
// install the default command set.
func NewEngineWithHistoryCapacity(historyCapacity int) *Engine {
	return &Engine{
		dict:    NewDictionary(),
		multi:   NewMultiDictionary(),
		pending: NewSequence(),
		history: NewHistoryWithCapacity(historyCapacity),
		state:   Ready,
	}
}

// Init installs the default dictionary and multi-stroke index.
func (e *Engine) Init() {
	e.dict.InitDefaults()
	e.multi.InitDefaults()
	e.state = Ready
}

// Process resolves one stroke, returning the intent it (or the
// completed pending sequence) produces, if any.
func (e *Engine) Process(stroke Stroke) (Intent, bool) {
	e.stats.StrokesProcessed++
	e.lastStroke = &stroke
	e.clock++

	if stroke.IsCorrection() {
		return e.handleCorrection()
	}

	if intent, ok := e.dict.StrokeToIntent(stroke); ok {
		e.stats.IntentsMatched++
		e.pending.Clear()
		e.state = Ready
		concept := intent.Concept
		e.history.Push(stroke, &concept, e.clock)
		return intent, true
	}

	e.pending.Push(stroke)

	if intent, ok := e.multi.Lookup(e.pending.Strokes()); ok {
		e.stats.IntentsMatched++
		resolved := Intent{Concept: intent.Concept, Confidence: 1.0, Name: intent.Name}
		e.pending.Clear()
		e.state = Ready
		concept := resolved.Concept
		e.history.Push(stroke, &concept, e.clock)
		return resolved, true
	}

	if e.pending.Len() >= 2 {
		e.stats.Unrecognized++
		e.pending.Clear()
		e.state = Ready
		e.history.Push(stroke, nil, e.clock)
		return Intent{Concept: Unknown, Confidence: 0.0}, true
	}

	e.state = Pending
	e.history.Push(stroke, nil, e.clock)
	return Intent{}, false
}

// ProcessRaw is Process over raw stroke bits.
func (e *Engine) ProcessRaw(bits uint32) (Intent, bool) {
	return e.Process(FromRaw(bits))
}

// handleCorrection pops one pending stroke if the buffer is non-empty;
// only when the buffer was already empty does it emit UNDO. This is a
// deliberate divergence from the original engine (which always emits
// UNDO regardless of a pop), following the distilled "pop... otherwise
// emit UNDO" wording literally.
func (e *Engine) handleCorrection() (Intent, bool) {
	e.stats.Corrections++

	if !e.pending.IsEmpty() {
		e.pending.Pop()
		if e.pending.IsEmpty() {
			e.state = Ready
		} else {
			e.state = Pending
		}
		return Intent{}, false
	}

	e.history.Undo()
	return Intent{Concept: ConceptUndo, Confidence: 1.0, Name: "UNDO"}, true
}

// State returns the engine's current processing state.
func (e *Engine) State() State { return e.state }

// LastStroke returns the most recently processed stroke, if any.
func (e *Engine) LastStroke() (Stroke, bool) {
	if e.lastStroke == nil {
		return EMPTY, false
	}
	return *e.lastStroke, true
}

// Stats returns a snapshot of the lifetime counters.
func (e *Engine) Stats() Stats { return e.stats }

// ResetStats zeroes the lifetime counters.
func (e *Engine) ResetStats() { e.stats = Stats{} }

// Dictionary exposes the single-stroke dictionary for custom entries.
func (e *Engine) Dictionary() *Dictionary { return e.dict }

// MultiDictionary exposes the multi-stroke index for custom briefs.
func (e *Engine) MultiDictionary() *MultiDictionary { return e.multi }

// History exposes the ring-buffer history for undo/redo queries beyond
// the correction-stroke path.
func (e *Engine) History() *History { return e.history }

// Undo explicitly marks the most recent non-undone history entry,
// independent of a correction stroke arriving.
func (e *Engine) Undo() (HistoryEntry, bool) {
	return e.history.Undo()
}

// Redo clears the most recently undone history entry.
func (e *Engine) Redo() (HistoryEntry, bool) {
	return e.history.Redo()
}
