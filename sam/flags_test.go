package sam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagsRoundTripSymbolicAndHex(t *testing.T) {
	for x := 0; x <= 0x7ff; x++ {
		f := Flags(x)

		symbolic := f.Format(FlagString)
		got, err := ParseFlags(symbolic)
		require.NoErrorf(t, err, "ParseFlags(%q) for x=%#x", symbolic, x)
		assert.EqualValuesf(t, x, got, "symbolic round trip for x=%#x (%q)", x, symbolic)

		hex := f.Format(FlagHex)
		got, err = ParseFlags(hex)
		require.NoErrorf(t, err, "ParseFlags(%q) for x=%#x", hex, x)
		assert.EqualValuesf(t, x, got, "hex round trip for x=%#x (%q)", x, hex)
	}
}

func TestFormatFlagsSymbolicPreservesUnpairedBits(t *testing.T) {
	// ProperPair set without Paired used to be masked away entirely,
	// rendering "" and making the value unrecoverable.
	f := ProperPair
	s := f.Format(FlagString)
	assert.NotEmpty(t, s)
	got, err := ParseFlags(s)
	require.NoError(t, err)
	assert.Equal(t, f, got)
}

func TestParseFlagsNamed(t *testing.T) {
	f, err := ParseFlags("PAIRED|READ1")
	require.NoError(t, err)
	assert.Equal(t, Paired|Read1, f)
}

func TestParseFlagsSigned(t *testing.T) {
	f, err := ParseFlags("+PAIRED+READ1-READ1")
	require.NoError(t, err)
	assert.Equal(t, Paired, f)
}
