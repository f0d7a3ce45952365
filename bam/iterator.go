package bam

import (
	"io"

	"github.com/jmarshall/cansam-sub000/bgzf"
	"github.com/jmarshall/cansam-sub000/sam"
)

// Iterator wraps a Reader to provide a convenient loop interface for
// reading BAM data, optionally restricted to a set of previously observed
// chunks (e.g. a saved genomic-interval scan). Successive calls to Next
// step through the records of the underlying Reader; iteration stops
// unrecoverably at EOF or the first error.
type Iterator struct {
	r      *Reader
	chunks []bgzf.Chunk

	rec *sam.Record
	err error
}

// NewIterator returns an Iterator over r, limiting reads to the given
// chunks. A nil or empty chunks reads sequentially to the end of the
// stream.
func NewIterator(r *Reader, chunks []bgzf.Chunk) (*Iterator, error) {
	if len(chunks) == 0 {
		return &Iterator{r: r}, nil
	}
	if err := r.SetChunk(&chunks[0]); err != nil {
		return nil, err
	}
	return &Iterator{r: r, chunks: chunks[1:]}, nil
}

// Next advances the iterator, making the next record available via
// Record. It returns false at end of input or on error.
func (it *Iterator) Next() bool {
	if it.err != nil {
		return false
	}
	it.rec, it.err = it.r.Read()
	if len(it.chunks) != 0 && it.err == io.EOF {
		it.err = it.r.SetChunk(&it.chunks[0])
		it.chunks = it.chunks[1:]
		return it.Next()
	}
	return it.err == nil
}

// Error returns the first non-EOF error encountered during iteration.
func (it *Iterator) Error() error {
	if it.err == io.EOF {
		return nil
	}
	return it.err
}

// Record returns the most recent record read by Next.
func (it *Iterator) Record() *sam.Record { return it.rec }

// Close releases the underlying Reader.
func (it *Iterator) Close() error {
	it.r.SetChunk(nil)
	return it.Error()
}
