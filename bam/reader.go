// Package bam implements the BAM binary alignment format: the BGZF-framed,
// binary-encoded counterpart of SAM text.
package bam

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/jmarshall/cansam-sub000/bgzf"
	"github.com/jmarshall/cansam-sub000/internal/lebin"
	"github.com/jmarshall/cansam-sub000/sam"
)

const maxRecordSize = 0xffffff

// Omit controls how much of a record Reader.Read decodes, letting callers
// that only need coordinates skip the cost of parsing sequence, quality, or
// aux data. The read name is always decoded.
type Omit int

const (
	OmitNone           Omit = iota // decode the whole record
	OmitAuxTags                    // skip aux field parsing
	OmitVariableLength             // skip sequence, quality, and aux data
)

// Reader decodes a BGZF-framed BAM byte stream into sam.Records.
type Reader struct {
	r    *bgzf.Reader
	h    *sam.Header
	c    *bgzf.Chunk
	omit Omit

	lastChunk bgzf.Chunk
	sizeBuf   [4]byte
}

// NewReader returns a Reader over r, decoding the BAM header immediately.
// concurrency is forwarded to bgzf.NewReader.
func NewReader(r io.Reader, concurrency int) (*Reader, error) {
	bg, err := bgzf.NewReader(r, concurrency)
	if err != nil {
		return nil, err
	}
	h, err := DecodeHeader(bg)
	if err != nil {
		return nil, err
	}
	br := &Reader{r: bg, h: h}
	br.lastChunk.End = bg.LastChunk().End
	return br, nil
}

// Header returns the Header decoded when br was constructed.
func (br *Reader) Header() *sam.Header { return br.h }

// SetOmit controls how much of each subsequent record is decoded.
func (br *Reader) SetOmit(o Omit) { br.omit = o }

func vOffset(o bgzf.Offset) int64 { return o.File<<16 | int64(o.Block) }

// SetChunk restricts subsequent reads to c, seeking to its start. A nil c
// clears any restriction.
func (br *Reader) SetChunk(c *bgzf.Chunk) error {
	if c != nil {
		if err := br.r.Seek(c.Begin); err != nil {
			return err
		}
		br.lastChunk.End = c.Begin
	}
	br.c = c
	return nil
}

// LastChunk returns the bgzf.Chunk spanned by the most recent successful
// Read.
func (br *Reader) LastChunk() bgzf.Chunk { return br.lastChunk }

// Close releases the underlying BGZF reader.
func (br *Reader) Close() error { return br.r.Close() }

// Read decodes and returns the next record, drawing its *sam.Record from
// the package-wide free pool (see sam.GetFromFreePool).
func (br *Reader) Read() (*sam.Record, error) {
	if br.c != nil && vOffset(br.r.LastChunk().End) >= vOffset(br.c.End) {
		return nil, io.EOF
	}

	buf := bufPool.Get().([]byte)
	if err := br.readAlignment(&buf); err != nil {
		bufPool.Put(buf)
		return nil, err
	}
	rec, err := br.unmarshal(buf)
	bufPool.Put(buf)
	return rec, err
}

func (br *Reader) readAlignment(buf *[]byte) error {
	tx := br.r.Begin()
	n, err := io.ReadFull(br.r, br.sizeBuf[:])
	defer func() { br.lastChunk = bgzf.Chunk{Begin: tx, End: br.r.Begin()} }()
	if err != nil {
		return err
	}
	if n != 4 {
		return errors.New("bam: invalid record: short block size")
	}
	size := int(lebin.Uint32(br.sizeBuf[:]))
	if size > maxRecordSize {
		return errors.New("bam: record too large")
	}
	resizeScratch(buf, size)
	nn, err := io.ReadFull(br.r, *buf)
	if err != nil {
		return err
	}
	if nn != size {
		return errors.New("bam: truncated record")
	}
	return nil
}

func (br *Reader) unmarshal(b []byte) (*sam.Record, error) {
	if len(b) < 32 {
		return nil, errors.New("bam: record too short")
	}
	rec := sam.GetFromFreePool()
	rec.Cindex = br.h.Cindex()

	refID := int32(binary.LittleEndian.Uint32(b))
	rec.Pos = int32(binary.LittleEndian.Uint32(b[4:]))
	nLen := int(b[8])
	rec.MapQ = b[9]
	nCigar := int(binary.LittleEndian.Uint16(b[12:]))
	rec.Flags = sam.Flags(binary.LittleEndian.Uint16(b[14:]))
	lSeq := int(binary.LittleEndian.Uint32(b[16:]))
	nextRefID := int32(binary.LittleEndian.Uint32(b[20:]))
	rec.MatePos = int32(binary.LittleEndian.Uint32(b[24:]))
	rec.TempLen = int32(binary.LittleEndian.Uint32(b[28:]))

	pos := 32
	if len(b) < pos+nLen {
		return nil, errors.New("bam: truncated record name")
	}
	rec.Name = string(b[pos : pos+nLen-1]) // drop trailing NUL
	pos += nLen

	if len(b) < pos+nCigar*4 {
		return nil, errors.New("bam: truncated cigar")
	}
	rec.Cigar = make(sam.Cigar, nCigar)
	for i := 0; i < nCigar; i++ {
		rec.Cigar[i] = sam.CigarOp(binary.LittleEndian.Uint32(b[pos+i*4:]))
	}
	pos += nCigar * 4

	refs := int32(len(br.h.Refs()))
	rec.RefID = -1
	if refID != -1 {
		if refID < -1 || refID >= refs {
			return nil, errors.New("bam: reference id out of range")
		}
		rec.RefID = refID
	}
	rec.MateRefID = -1
	if nextRefID != -1 {
		if nextRefID < -1 || nextRefID >= refs {
			return nil, errors.New("bam: mate reference id out of range")
		}
		rec.MateRefID = nextRefID
	}

	if br.omit >= OmitVariableLength {
		return rec, nil
	}

	nDoubletBytes := (lSeq + 1) >> 1
	if len(b) < pos+nDoubletBytes+lSeq {
		return nil, errors.New("bam: truncated sequence/quality")
	}
	rec.Seq = sam.Seq{Length: lSeq, Seq: bytesToDoublets(b[pos : pos+nDoubletBytes])}
	pos += nDoubletBytes
	rec.Qual = append([]byte(nil), b[pos:pos+lSeq]...)
	pos += lSeq

	if br.omit >= OmitAuxTags {
		return rec, nil
	}

	af, err := parseAux(b[pos:])
	if err != nil {
		return nil, err
	}
	rec.AuxFields = af

	return rec, nil
}

func bytesToDoublets(b []byte) []sam.Doublet {
	d := make([]sam.Doublet, len(b))
	for i, x := range b {
		d[i] = sam.Doublet(x)
	}
	return d
}
