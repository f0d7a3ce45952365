package stream

import (
	"bufio"
	"compress/gzip"
	"io"

	"github.com/pkg/errors"

	"github.com/jmarshall/cansam-sub000/bam"
	"github.com/jmarshall/cansam-sub000/internal/linebuf"
	"github.com/jmarshall/cansam-sub000/internal/rawfile"
	"github.com/jmarshall/cansam-sub000/sam"
)

// Input reads SAM text, gzip-wrapped SAM text, or BAM binary records
// through one uniform API, choosing the codec from the first bytes seen
// (see detectFormat) rather than requiring the caller to name it.
type Input struct {
	format Format
	closed bool
	state  State

	rawFile *rawfile.File
	path    string

	// SAM/SAM.gz path.
	textSrc io.Reader
	gz      *gzip.Reader
	buf     *linebuf.Buffer
	fields  []int
	pending []byte
	hasPend bool

	// BAM path.
	bam *bam.Reader

	h          *sam.Header
	headerRead bool
}

// Open opens path and wraps it in an Input, sniffing its format from its
// leading bytes.
func Open(path string) (*Input, error) {
	f, err := rawfile.Open(path, rawfile.ModeRead, 0)
	if err != nil {
		return nil, err
	}
	in, err := newInput(bufio.NewReaderSize(f, 16))
	if err != nil {
		f.Close()
		return nil, err
	}
	in.rawFile = f
	in.path = path
	return in, nil
}

// NewInput wraps an already-open reader, sniffing its format from its
// leading bytes.
func NewInput(r io.Reader) (*Input, error) {
	return newInput(bufio.NewReaderSize(r, 16))
}

func newInput(br *bufio.Reader) (*Input, error) {
	peek, _ := br.Peek(16)
	format := detectFormat(peek)
	in := &Input{format: format}
	switch format {
	case ModeBAM:
		bamReader, err := bam.NewReader(br, 1)
		if err != nil {
			return nil, classify(err)
		}
		in.bam = bamReader
		in.h = bamReader.Header()
		in.headerRead = true
	case ModeSAMGZ:
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, classify(err)
		}
		in.gz = gz
		in.textSrc = gz
		in.buf = linebuf.New()
	default:
		in.textSrc = br
		in.buf = linebuf.New()
	}
	return in, nil
}

// Format reports which codec this Input settled on.
func (in *Input) Format() Format { return in.format }

// Header returns the collection header, reading and parsing the leading
// '@'-lines of a SAM/SAM.gz stream (or decoding the BAM header block) on
// first call. Subsequent calls return the cached value.
func (in *Input) Header() (*sam.Header, error) {
	if in.closed {
		return nil, ErrClosed
	}
	if in.headerRead {
		return in.h, nil
	}
	in.h = sam.NewHeader()
	for {
		line, err := in.buf.GetLine(in.textSrc, &in.fields)
		if err != nil {
			in.state = stateFor(classify(err))
			if err == io.EOF {
				in.headerRead = true
				return in.h, nil
			}
			return nil, classify(err)
		}
		if len(line) == 0 || line[0] != '@' {
			in.pending = append(in.pending[:0], line...)
			in.hasPend = true
			in.headerRead = true
			return in.h, nil
		}
		if err := in.h.Add(string(line), sam.AddAuto); err != nil {
			wrapped := &FormatError{Err: errors.Wrapf(err, "for %q", in.path)}
			in.state = StateFail
			return nil, wrapped
		}
	}
}

// Read decodes and returns the next record, drawing it from the package-
// wide free pool (sam.GetFromFreePool) on the SAM/SAM.gz path and from
// bam.Reader's own pool use on the BAM path.
func (in *Input) Read() (*sam.Record, error) {
	if in.closed {
		return nil, ErrClosed
	}
	if !in.headerRead {
		return nil, ErrHeaderNotRead
	}

	if in.format == ModeBAM {
		rec, err := in.bam.Read()
		in.state = stateFor(classify(err))
		if err != nil {
			return nil, classify(err)
		}
		return rec, nil
	}

	var line []byte
	if in.hasPend {
		line = in.pending
		in.hasPend = false
	} else {
		var err error
		line, err = in.buf.GetLine(in.textSrc, &in.fields)
		if err != nil {
			in.state = stateFor(classify(err))
			return nil, classify(err)
		}
	}

	rec := sam.GetFromFreePool()
	if err := rec.UnmarshalSAM(in.h, line); err != nil {
		sam.PutInFreePool(rec)
		wrapped := &FormatError{Err: errors.Wrapf(err, "for %q", in.path)}
		in.state = StateFail
		return nil, wrapped
	}
	in.state = StateOK
	return rec, nil
}

// State reports the three-way classification of the most recent Header or
// Read call.
func (in *Input) State() State { return in.state }

// Reset returns State to StateOK. It does not rewind any already-consumed
// bytes, and it does not clear end-of-file inside the underlying codec:
// once a Read has returned io.EOF, later Reads return io.EOF again even if
// the source has since gained more data.
func (in *Input) Reset() {
	in.state = StateOK
}

// Close releases the underlying reader, closing the file or gzip member it
// owns.
func (in *Input) Close() error {
	if in.closed {
		return ErrClosed
	}
	in.closed = true
	var err error
	if in.bam != nil {
		err = in.bam.Close()
	} else if in.gz != nil {
		err = in.gz.Close()
	}
	if in.rawFile != nil {
		if cerr := in.rawFile.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
