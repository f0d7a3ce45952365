package stream

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmarshall/cansam-sub000/sam"
)

func newTestHeader(t *testing.T) *sam.Header {
	t.Helper()
	h := sam.NewHeader()
	require.NoError(t, h.Add("@SQ\tSN:chr1\tLN:1000", sam.AddAuto))
	return h
}

func newTestRecord(t *testing.T, h *sam.Header) *sam.Record {
	t.Helper()
	rec := sam.GetFromFreePool()
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
	rec.TempLen = 0
	rec.Seq = sam.NewSeq([]byte("ATGC"))
	rec.Qual = []byte{30, 30, 30, 30}
	aux, err := sam.NewAux(sam.NewTag("NM"), 1)
	require.NoError(t, err)
	rec.AuxFields = sam.AuxFields{aux}
	return rec
}

func roundTrip(t *testing.T, mode Format) {
	t.Helper()
	h := newTestHeader(t)
	rec := newTestRecord(t, h)
	defer sam.PutInFreePool(rec)

	var buf bytes.Buffer
	out := NewOutput(&buf, mode)
	require.NoError(t, out.WriteHeader(h))
	require.NoError(t, out.Write(rec))
	require.NoError(t, out.Close())

	in, err := NewInput(&buf)
	require.NoError(t, err)
	assert.Equal(t, mode, in.Format())
	defer in.Close()

	gotHeader, err := in.Header()
	require.NoError(t, err)
	refs := gotHeader.Refs()
	require.Len(t, refs, 1)
	assert.Equal(t, "chr1", refs[0].Name())

	got, err := in.Read()
	require.NoError(t, err)
	assert.Equal(t, StateOK, in.State())
	assert.Equal(t, "read1", got.Name)
	assert.EqualValues(t, 0, got.RefID)
	assert.EqualValues(t, 99, got.Pos)
	assert.Equal(t, "4M", got.Cigar.String())
	assert.Equal(t, "ATGC", got.Seq.String())
	v, ok := got.IntAux(sam.NewTag("NM"))
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	sam.PutInFreePool(got)

	_, err = in.Read()
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, StateEOF, in.State())
}

func TestRoundTripSAM(t *testing.T)   { roundTrip(t, ModeSAM) }
func TestRoundTripSAMGZ(t *testing.T) { roundTrip(t, ModeSAMGZ) }
func TestRoundTripBAM(t *testing.T)   { roundTrip(t, ModeBAM) }

func TestExtension(t *testing.T) {
	assert.Equal(t, ModeBAM, Extension("reads.bam"))
	assert.Equal(t, ModeBAM, Extension("reads.BAM"))
	assert.Equal(t, ModeSAMGZ, Extension("reads.sam.gz"))
	assert.Equal(t, ModeSAMGZ, Extension("reads.SAM.GZ"))
	assert.Equal(t, ModeSAM, Extension("reads.sam"))
	assert.Equal(t, ModeSAM, Extension("reads"))
}

func TestReadBeforeHeaderFails(t *testing.T) {
	h := newTestHeader(t)
	rec := newTestRecord(t, h)
	defer sam.PutInFreePool(rec)

	var buf bytes.Buffer
	out := NewOutput(&buf, ModeSAM)
	require.NoError(t, out.WriteHeader(h))
	require.NoError(t, out.Write(rec))
	require.NoError(t, out.Close())

	in, err := NewInput(&buf)
	require.NoError(t, err)
	defer in.Close()

	_, err = in.Read()
	assert.Equal(t, ErrHeaderNotRead, err)
}

func TestClosedInputRejectsOperations(t *testing.T) {
	in, err := NewInput(bytes.NewReader(nil))
	require.NoError(t, err)
	require.NoError(t, in.Close())

	_, err = in.Header()
	assert.Equal(t, ErrClosed, err)
	_, err = in.Read()
	assert.Equal(t, ErrClosed, err)
	assert.Equal(t, ErrClosed, in.Close())
}

func TestClosedOutputRejectsOperations(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutput(&buf, ModeSAM)
	require.NoError(t, out.Close())

	h := sam.NewHeader()
	assert.Equal(t, ErrClosed, out.WriteHeader(h))
	assert.Equal(t, ErrClosed, out.Close())
}

func TestWriteBeforeHeaderFails(t *testing.T) {
	h := newTestHeader(t)
	rec := newTestRecord(t, h)
	defer sam.PutInFreePool(rec)

	var buf bytes.Buffer
	out := NewOutput(&buf, ModeSAM)
	assert.Equal(t, ErrHeaderNotRead, out.Write(rec))
}

func TestDetectFormatPlainSAM(t *testing.T) {
	in, err := NewInput(bytes.NewBufferString("@HD\tVN:1.5\n"))
	require.NoError(t, err)
	assert.Equal(t, ModeSAM, in.Format())
}
