package sam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefNameFallsBackToCindexRegistry(t *testing.T) {
	h := NewHeader()
	defer h.Close()
	require.NoError(t, h.Add("@SQ\tSN:chr1\tLN:1000", AddAuto))

	r := GetFromFreePool()
	defer PutInFreePool(r)
	r.Cindex = h.Cindex()
	r.RefID = 0
	r.MateRefID = 0

	assert.Equal(t, "chr1", r.RefName(nil))
	assert.Equal(t, "chr1", r.MateRefName(nil))

	// An explicit header argument still takes precedence.
	other := NewHeader()
	defer other.Close()
	assert.Equal(t, "*", r.RefName(other))
}

func TestRefNameWithNoRegisteredCollection(t *testing.T) {
	r := GetFromFreePool()
	defer PutInFreePool(r)
	r.Cindex = 0
	r.RefID = 3

	assert.Equal(t, "*", r.RefName(nil))
}
