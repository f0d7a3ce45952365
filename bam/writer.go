package bam

import (
	"encoding/binary"
	"io"

	"github.com/jmarshall/cansam-sub000/bgzf"
	"github.com/jmarshall/cansam-sub000/sam"
)

// Writer encodes sam.Records as a BGZF-framed BAM byte stream.
type Writer struct {
	w *bgzf.Writer
	h *sam.Header

	buf []byte
}

// NewWriter returns a Writer over w, immediately encoding h as the BAM
// header block. concurrency is forwarded to bgzf.NewWriter.
func NewWriter(w io.Writer, h *sam.Header, concurrency int) (*Writer, error) {
	bw := bgzf.NewWriter(w, concurrency)
	if err := EncodeHeader(bw, h); err != nil {
		return nil, err
	}
	return &Writer{w: bw, h: h}, nil
}

// Write encodes and emits one record.
func (bw *Writer) Write(r *sam.Record) error {
	bw.buf = bw.buf[:0]

	nameBytes := append([]byte(r.Name), 0)
	cigarBytes := make([]byte, 4*len(r.Cigar))
	for i, op := range r.Cigar {
		binary.LittleEndian.PutUint32(cigarBytes[i*4:], uint32(op))
	}
	seqBytes := doubletsToBytes(r.Seq.Seq)
	auxBytes := buildAux(r.AuxFields)

	body := make([]byte, 0, 32+len(nameBytes)+len(cigarBytes)+len(seqBytes)+len(r.Qual)+len(auxBytes))
	var fixed [32]byte
	binary.LittleEndian.PutUint32(fixed[0:], uint32(r.RefID))
	binary.LittleEndian.PutUint32(fixed[4:], uint32(r.Pos))
	fixed[8] = byte(len(nameBytes))
	fixed[9] = r.MapQ
	binary.LittleEndian.PutUint16(fixed[10:], uint16(r.Bin()))
	binary.LittleEndian.PutUint16(fixed[12:], uint16(len(r.Cigar)))
	binary.LittleEndian.PutUint16(fixed[14:], uint16(r.Flags))
	binary.LittleEndian.PutUint32(fixed[16:], uint32(r.Seq.Length))
	binary.LittleEndian.PutUint32(fixed[20:], uint32(r.MateRefID))
	binary.LittleEndian.PutUint32(fixed[24:], uint32(r.MatePos))
	binary.LittleEndian.PutUint32(fixed[28:], uint32(r.TempLen))

	body = append(body, fixed[:]...)
	body = append(body, nameBytes...)
	body = append(body, cigarBytes...)
	body = append(body, seqBytes...)
	body = append(body, r.Qual...)
	body = append(body, auxBytes...)

	var blockSize [4]byte
	binary.LittleEndian.PutUint32(blockSize[:], uint32(len(body)))
	if _, err := bw.w.Write(blockSize[:]); err != nil {
		return err
	}
	_, err := bw.w.Write(body)
	return err
}

// Flush forces any buffered BGZF block to be emitted.
func (bw *Writer) Flush() error { return bw.w.Flush() }

// Close flushes remaining data and writes the terminating BGZF EOF block.
func (bw *Writer) Close() error { return bw.w.Close() }

func doubletsToBytes(d []sam.Doublet) []byte {
	b := make([]byte, len(d))
	for i, x := range d {
		b[i] = byte(x)
	}
	return b
}
