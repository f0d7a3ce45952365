package stream

import (
	"compress/gzip"
	"io"

	"github.com/pkg/errors"

	"github.com/jmarshall/cansam-sub000/bam"
	"github.com/jmarshall/cansam-sub000/internal/rawfile"
	"github.com/jmarshall/cansam-sub000/sam"
)

// Output writes SAM text, gzip-wrapped SAM text, or BAM binary records
// through one uniform API, selecting the codec from Mode.
type Output struct {
	Mode Format

	// FlagFormat controls how the FLAG column is rendered on the SAM/SAM.gz
	// path; it is ignored for BAM. The zero value is sam.FlagDecimal.
	FlagFormat sam.FlagFormat

	closed        bool
	headerWritten bool
	state         State
	path          string

	w       io.Writer
	rawFile *rawfile.File
	gz      *gzip.Writer
	bam     *bam.Writer

	h *sam.Header
}

// Create opens path for writing, choosing Mode from its extension (see
// Extension).
func Create(path string) (*Output, error) {
	f, err := rawfile.Open(path, rawfile.ModeWrite, 0644)
	if err != nil {
		return nil, err
	}
	out := NewOutput(f, Extension(path))
	out.rawFile = f
	out.path = path
	return out, nil
}

// NewOutput wraps an already-open writer, using mode to select the codec.
func NewOutput(w io.Writer, mode Format) *Output {
	return &Output{Mode: mode, w: w}
}

// WriteHeader writes h as the collection header, selecting and wiring up
// the underlying codec. It must be called exactly once, before any Write.
func (out *Output) WriteHeader(h *sam.Header) error {
	if out.closed {
		return ErrClosed
	}
	if out.headerWritten {
		return errors.New("stream: header already written")
	}
	out.h = h
	switch out.Mode {
	case ModeBAM:
		bw, err := bam.NewWriter(out.w, h, 1)
		if err != nil {
			out.state = StateFail
			return classify(err)
		}
		out.bam = bw
	case ModeSAMGZ:
		out.gz = gzip.NewWriter(out.w)
		if _, err := io.WriteString(out.gz, h.String()); err != nil {
			out.state = stateFor(classify(err))
			return classify(err)
		}
	default:
		if _, err := io.WriteString(out.w, h.String()); err != nil {
			out.state = stateFor(classify(err))
			return classify(err)
		}
	}
	out.headerWritten = true
	out.state = StateOK
	return nil
}

// Write encodes and emits one record.
func (out *Output) Write(r *sam.Record) error {
	if out.closed {
		return ErrClosed
	}
	if !out.headerWritten {
		return ErrHeaderNotRead
	}

	if out.Mode == ModeBAM {
		err := out.bam.Write(r)
		out.state = stateFor(classify(err))
		return classify(err)
	}

	line, err := r.MarshalSAM(out.h, out.FlagFormat)
	if err != nil {
		out.state = StateFail
		return &FormatError{Err: errors.Wrapf(err, "for %q", out.path)}
	}
	line = append(line, '\n')

	dst := out.w
	if out.Mode == ModeSAMGZ {
		dst = out.gz
	}
	_, werr := dst.Write(line)
	out.state = stateFor(classify(werr))
	return classify(werr)
}

// Flush forces any buffered output to the underlying writer.
func (out *Output) Flush() error {
	if out.closed {
		return ErrClosed
	}
	switch out.Mode {
	case ModeBAM:
		return classify(out.bam.Flush())
	case ModeSAMGZ:
		return classify(out.gz.Flush())
	default:
		return nil
	}
}

// State reports the three-way classification of the most recent
// WriteHeader, Write, or Flush call.
func (out *Output) State() State { return out.state }

// Close flushes and releases the underlying writer.
func (out *Output) Close() error {
	if out.closed {
		return ErrClosed
	}
	out.closed = true
	var err error
	switch {
	case out.bam != nil:
		err = out.bam.Close()
	case out.gz != nil:
		err = out.gz.Close()
	}
	if out.rawFile != nil {
		if cerr := out.rawFile.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
