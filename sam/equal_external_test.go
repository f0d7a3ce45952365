package sam_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jmarshall/cansam-sub000/htstestutil"
	"github.com/jmarshall/cansam-sub000/sam"
)

// This lives in the sam_test package (rather than sam) so it can import
// htstestutil, which itself depends on sam.
func TestCloneEqualsOriginal(t *testing.T) {
	h := sam.NewHeader()
	defer h.Close()
	require.NoError(t, h.Add("@SQ\tSN:chr1\tLN:1000", sam.AddAuto))

	rec := sam.GetFromFreePool()
	defer sam.PutInFreePool(rec)
	rec.Name = "read1"
	rec.Cindex = h.Cindex()
	rec.RefID = 0
	rec.Pos = 99
	rec.MapQ = 30
	cigar, err := sam.ParseCigar([]byte("4M"))
	require.NoError(t, err)
	rec.Cigar = cigar
	rec.Flags = sam.Paired | sam.Read1
	rec.MateRefID = -1
	rec.MatePos = -1
	rec.Seq = sam.NewSeq([]byte("ATGC"))
	rec.Qual = []byte{30, 30, 30, 30}
	aux, err := sam.NewAux(sam.NewTag("NM"), 1)
	require.NoError(t, err)
	rec.AuxFields = sam.AuxFields{aux}

	clone := rec.Clone()
	htstestutil.AssertRecordsEqual(t, rec, clone)

	clone.Pos = 100
	require.NotEqual(t, rec.Pos, clone.Pos, "Clone must not alias the original")
}
