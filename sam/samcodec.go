package sam

import (
	"bytes"
	"strconv"

	"github.com/pkg/errors"
)

// UnmarshalSAM parses one tab-delimited SAM alignment line into r, using h
// to resolve RNAME/RNEXT against registered references. A nil h is
// accepted, and then RefID/MateRefID are left at -1; with a non-nil h, a
// name other than "*" that is not one of its references is an error.
func (r *Record) UnmarshalSAM(h *Header, line []byte) error {
	f := bytes.Split(line, []byte{'\t'})
	if len(f) < 11 {
		return errors.Wrapf(ErrBadFormat, "sam: missing fields, have %d want >= 11", len(f))
	}
	*r = Record{Name: string(f[0]), bin: binUnknown}
	if h != nil {
		r.Cindex = h.cindex
	}

	flags, err := ParseFlags(string(f[1]))
	if err != nil {
		return errors.Wrap(err, "sam: failed to parse flags")
	}
	r.Flags = flags

	r.RefID, err = refIDForName(h, string(f[2]))
	if err != nil {
		return errors.Wrap(err, "sam: failed to assign reference")
	}
	if bytes.Equal(f[2], []byte{'='}) {
		return errors.Wrap(ErrBadFormat, "sam: RNAME must not be '='")
	}

	pos, err := strconv.Atoi(string(f[3]))
	if err != nil {
		return errors.Wrap(err, "sam: failed to parse position")
	}
	r.Pos = int32(pos - 1)

	mapQ, err := strconv.ParseUint(string(f[4]), 10, 8)
	if err != nil {
		return errors.Wrap(err, "sam: failed to parse mapping quality")
	}
	r.MapQ = byte(mapQ)

	r.Cigar, err = ParseCigar(f[5])
	if err != nil {
		return errors.Wrap(err, "sam: failed to parse cigar")
	}

	if bytes.Equal(f[6], []byte{'='}) || bytes.Equal(f[2], f[6]) {
		r.MateRefID = r.RefID
	} else {
		r.MateRefID, err = refIDForName(h, string(f[6]))
		if err != nil {
			return errors.Wrap(err, "sam: failed to assign mate reference")
		}
	}

	matePos, err := strconv.Atoi(string(f[7]))
	if err != nil {
		return errors.Wrap(err, "sam: failed to parse mate position")
	}
	r.MatePos = int32(matePos - 1)

	tempLen, err := strconv.Atoi(string(f[8]))
	if err != nil {
		return errors.Wrap(err, "sam: failed to parse template length")
	}
	r.TempLen = int32(tempLen)

	if !bytes.Equal(f[9], []byte{'*'}) {
		r.Seq, err = NewSeqStrict(f[9])
		if err != nil {
			return errors.Wrap(err, "sam: failed to parse sequence")
		}
		if !r.Cigar.IsValid(r.Seq.Length) {
			return errors.Wrap(ErrBadFormat, "sam: sequence/cigar length mismatch")
		}
	}

	if !bytes.Equal(f[10], []byte{'*'}) {
		r.Qual = append([]byte(nil), f[10]...)
		for i := range r.Qual {
			r.Qual[i] -= 33
		}
	} else if r.Seq.Length != 0 {
		r.Qual = make([]byte, r.Seq.Length)
		for i := range r.Qual {
			r.Qual[i] = 0xff
		}
	}
	if len(r.Qual) != 0 && len(r.Qual) != r.Seq.Length {
		return errors.Wrap(ErrBadFormat, "sam: sequence/quality length mismatch")
	}

	for _, auxField := range f[11:] {
		a, err := ParseAux(auxField)
		if err != nil {
			return err
		}
		r.AuxFields = append(r.AuxFields, a)
	}
	return nil
}

func refIDForName(h *Header, name string) (int32, error) {
	if name == "*" {
		return -1, nil
	}
	if h == nil {
		return -1, nil
	}
	ref, ok := h.RefByName(name)
	if !ok {
		return -1, errors.Errorf("sam: no reference with name %q", name)
	}
	return ref.ID(), nil
}

// MarshalSAM formats r as one tab-delimited SAM line (no trailing
// newline), rendering FLAG in the given format and resolving reference
// names through h (nil renders every reference as "*").
func (r *Record) MarshalSAM(h *Header, format FlagFormat) ([]byte, error) {
	if r.Qual != nil && len(r.Qual) != r.Seq.Length {
		return nil, errors.Wrap(ErrBadFormat, "sam: sequence/quality length mismatch")
	}
	var buf bytes.Buffer
	buf.WriteString(r.Name)
	buf.WriteByte('\t')
	buf.WriteString(r.Flags.Format(format))
	buf.WriteByte('\t')
	buf.WriteString(r.RefName(h))
	buf.WriteByte('\t')
	buf.WriteString(strconv.Itoa(int(r.Pos) + 1))
	buf.WriteByte('\t')
	buf.WriteString(strconv.Itoa(int(r.MapQ)))
	buf.WriteByte('\t')
	buf.WriteString(r.Cigar.String())
	buf.WriteByte('\t')
	buf.WriteString(formatMateRefName(r, h))
	buf.WriteByte('\t')
	buf.WriteString(strconv.Itoa(int(r.MatePos) + 1))
	buf.WriteByte('\t')
	buf.WriteString(strconv.Itoa(int(r.TempLen)))
	buf.WriteByte('\t')
	buf.Write(formatSeq(r.Seq))
	buf.WriteByte('\t')
	buf.Write(formatQual(r.Qual))
	for _, a := range r.AuxFields {
		buf.WriteByte('\t')
		buf.WriteString(a.String())
	}
	return buf.Bytes(), nil
}

func formatMateRefName(r *Record, h *Header) string {
	if r.MateRefID == -1 {
		return "*"
	}
	if r.MateRefID == r.RefID {
		return "="
	}
	return r.MateRefName(h)
}

func formatSeq(s Seq) []byte {
	if s.Length == 0 {
		return []byte{'*'}
	}
	return s.Expand()
}

func formatQual(q []byte) []byte {
	for _, v := range q {
		if v != 0xff {
			a := make([]byte, len(q))
			for i, p := range q {
				a[i] = p + 33
			}
			return a
		}
	}
	return []byte{'*'}
}
