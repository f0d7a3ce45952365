package bam

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jmarshall/cansam-sub000/htstestutil"
	"github.com/jmarshall/cansam-sub000/sam"
)

func newTestHeader(t *testing.T) *sam.Header {
	t.Helper()
	h := sam.NewHeader()
	assert.NoError(t, h.Add("@SQ\tSN:chr1\tLN:1000", sam.AddAuto))
	return h
}

func TestWriteReadRoundTrip(t *testing.T) {
	h := newTestHeader(t)

	var buf bytes.Buffer
	w, err := NewWriter(&buf, h, 1)
	assert.NoError(t, err)

	rec := sam.GetFromFreePool()
	defer sam.PutInFreePool(rec)
	rec.Name = "read1"
	rec.Cindex = h.Cindex()
	rec.RefID = 0
	rec.Pos = 99
	rec.MapQ = 30
	cigar, err := sam.ParseCigar([]byte("4M"))
	assert.NoError(t, err)
	rec.Cigar = cigar
	rec.Flags = 0
	rec.MateRefID = -1
	rec.MatePos = -1
	rec.TempLen = 0
	rec.Seq = sam.NewSeq([]byte("ATGC"))
	rec.Qual = []byte{30, 30, 30, 30}
	aux, err := sam.NewAux(sam.NewTag("NM"), 1)
	assert.NoError(t, err)
	rec.AuxFields = sam.AuxFields{aux}

	assert.NoError(t, w.Write(rec))
	assert.NoError(t, w.Close())

	r, err := NewReader(&buf, 1)
	assert.NoError(t, err)
	defer r.Close()

	gotRefs := r.Header().Refs()
	assert.Len(t, gotRefs, 1)
	assert.Equal(t, "chr1", gotRefs[0].Name())

	got, err := r.Read()
	assert.NoError(t, err)
	defer sam.PutInFreePool(got)

	// r.Header() decoded a fresh *sam.Header from the BAM header block, so
	// got carries a different registry slot than rec even though both
	// describe the same reference set; align it before the field-by-field
	// comparison below, which is about record content, not collection
	// identity.
	got.Cindex = rec.Cindex
	htstestutil.AssertRecordsEqual(t, rec, got)

	_, err = r.Read()
	assert.Equal(t, io.EOF, err)
}
