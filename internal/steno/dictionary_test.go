package steno

import (
	"testing"

	"github.com/ehrlich-b/sutra-kernel/internal/constants"
	"github.com/stretchr/testify/assert"
)

func TestDictionaryLookupHit(t *testing.T) {
	d := NewDictionary()
	d.InitDefaults()

	s := StrokeFromSteno("STAT")
	intent, ok := d.StrokeToIntent(s)
	assert.True(t, ok)
	assert.Equal(t, ConceptStatus, intent.Concept)
	assert.Equal(t, float32(1.0), intent.Confidence)
}

func TestDictionaryLookupMiss(t *testing.T) {
	d := NewDictionary()
	d.InitDefaults()
	_, ok := d.StrokeToIntent(StrokeFromSteno("ZZZZZ"))
	assert.False(t, ok)
}

func TestDictionaryBoundedCapacity(t *testing.T) {
	d := &Dictionary{}
	for i := 0; i < constants.MaxDictionaryEntries+5; i++ {
		d.AddEntry(DictEntry{Stroke: Stroke(i + 1), Concept: ConceptID(i)})
	}
	assert.Equal(t, constants.MaxDictionaryEntries, d.Len())
}

func TestMultiDictionaryLookup(t *testing.T) {
	m := NewMultiDictionary()
	m.InitDefaults()

	seq := []Stroke{StrokeFromSteno("RAOE"), StrokeFromSteno("PWOOT")}
	entry, ok := m.Lookup(seq)
	assert.True(t, ok)
	assert.Equal(t, ConceptReboot, entry.Concept)
}

func TestMultiDictionaryHasPrefix(t *testing.T) {
	m := NewMultiDictionary()
	m.InitDefaults()
	seq := []Stroke{StrokeFromSteno("RAOE")}
	assert.True(t, m.HasPrefix(seq))
}

func TestSequencePushPopBound(t *testing.T) {
	s := NewSequence()
	for i := 0; i < 8; i++ {
		assert.True(t, s.Push(Stroke(i+1)))
	}
	assert.False(t, s.Push(Stroke(99)))
	assert.Equal(t, 8, s.Len())

	last, ok := s.Pop()
	assert.True(t, ok)
	assert.Equal(t, Stroke(8), last)
	assert.Equal(t, 7, s.Len())
}
