package interval

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseInterval(t *testing.T) {
	iv, err := ParseInterval("1,100+150")
	assert.NoError(t, err)
	assert.EqualValues(t, 1100, iv.Start())
	assert.EqualValues(t, 1249, iv.End())

	iv, err = ParseInterval("-")
	assert.NoError(t, err)
	assert.EqualValues(t, 1, iv.Start())
	assert.EqualValues(t, math.MaxInt32, iv.End())

	iv, err = ParseInterval("42")
	assert.NoError(t, err)
	assert.EqualValues(t, 42, iv.Start())
	assert.EqualValues(t, 42, iv.End())

	_, err = ParseInterval("abc")
	assert.Error(t, err)
}

func TestParseSeqInterval(t *testing.T) {
	si, err := ParseSeqInterval(":50-80")
	assert.NoError(t, err)
	assert.Equal(t, "", si.Name)
	assert.EqualValues(t, 50, si.Start())
	assert.EqualValues(t, 80, si.End())

	si, err = ParseSeqInterval("chr1:1000-2000")
	assert.NoError(t, err)
	assert.Equal(t, "chr1", si.Name)
	assert.EqualValues(t, 1000, si.Start())
	assert.EqualValues(t, 2000, si.End())
}

func TestOverlaps(t *testing.T) {
	assert.True(t, Overlaps(NewInterval(5, 10), NewInterval(9, 15)))
	assert.False(t, Overlaps(NewInterval(5, 10), NewInterval(10, 15)))
}

func TestMultimapIntersectingRange(t *testing.T) {
	m := NewMultimap[string]()
	spans := []struct {
		zstart, zlimit int32
		label          string
	}{
		{16, 22, "a"}, {8, 10, "b"}, {15, 24, "c"}, {5, 9, "d"}, {25, 31, "e"},
		{17, 20, "f"}, {19, 21, "g"}, {6, 11, "h"}, {26, 27, "i"}, {1, 4, "j"},
	}
	for _, s := range spans {
		m.Insert(NewSeqInterval("chr1", s.zstart, s.zlimit), s.label)
	}

	query := NewSeqInterval("chr1", 12, 20)
	got := map[string]bool{}
	for c := m.IntersectingRange(query); !c.Done(); c.Next() {
		got[c.Value()] = true
	}
	assert.Equal(t, map[string]bool{"a": true, "c": true, "f": true, "g": true}, got)
}

func TestMultimapNoMatchForUnknownSequence(t *testing.T) {
	m := NewMultimap[int]()
	m.Insert(NewSeqInterval("chr1", 0, 10), 1)
	c := m.IntersectingRange(NewSeqInterval("chr2", 0, 10))
	assert.True(t, c.Done())
}
