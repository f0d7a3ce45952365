package stream

import (
	"io"

	"github.com/pkg/errors"

	"github.com/jmarshall/cansam-sub000/internal/rawfile"
)

// ErrClosed is returned by any Input/Output operation attempted after
// Close.
var ErrClosed = errors.New("stream: use of closed stream")

// ErrHeaderNotRead is returned by Read/Write when no header has been
// consumed or supplied yet.
var ErrHeaderNotRead = errors.New("stream: header has not been read")

// FormatError wraps a malformed-input condition encountered while decoding
// SAM text, gzip, or BAM binary data.
type FormatError struct {
	Err error
}

func (e *FormatError) Error() string { return e.Err.Error() }
func (e *FormatError) Unwrap() error { return e.Err }

// SystemError is a wrapper for an I/O failure that did not arrive as a
// *rawfile.SysError. classify never constructs one (such failures are
// reported as *FormatError); stateFor maps a SystemError found in an error
// chain to StateBad.
type SystemError struct {
	Err error
}

func (e *SystemError) Error() string { return e.Err.Error() }
func (e *SystemError) Unwrap() error { return e.Err }

// State is the three-way read/write outcome classification described for
// Input.State/Output.State, alongside the ordinary Go error returned by
// Read/Write/Close.
type State int

const (
	StateOK State = iota
	StateEOF
	StateFail
	StateBad
)

// classify turns a raw error from a codec or the underlying source into
// the stream error taxonomy: io.EOF passes through unchanged, a
// *rawfile.SysError passes through unchanged, and anything else is wrapped
// as a FormatError (the codecs only ever return bad-format errors of their
// own, so the default lands there rather than as a SystemError).
func classify(err error) error {
	if err == nil {
		return nil
	}
	if err == io.EOF {
		return io.EOF
	}
	var sysErr *rawfile.SysError
	if errors.As(err, &sysErr) {
		return sysErr
	}
	return &FormatError{Err: err}
}

func stateFor(err error) State {
	switch {
	case err == nil:
		return StateOK
	case err == io.EOF:
		return StateEOF
	default:
		var sysErr *rawfile.SysError
		var sysWrap *SystemError
		if errors.As(err, &sysErr) || errors.As(err, &sysWrap) {
			return StateBad
		}
		return StateFail
	}
}
