package sam

import "bytes"

// Equal reports whether r and other carry identical field values.
func (r *Record) Equal(other *Record) bool {
	return r.Name == other.Name &&
		r.Cindex == other.Cindex &&
		r.RefID == other.RefID &&
		r.Pos == other.Pos &&
		r.MapQ == other.MapQ &&
		r.Cigar.Equal(other.Cigar) &&
		r.Flags == other.Flags &&
		r.MateRefID == other.MateRefID &&
		r.MatePos == other.MatePos &&
		r.TempLen == other.TempLen &&
		r.Seq.Equal(other.Seq) &&
		bytes.Equal(r.Qual, other.Qual) &&
		r.AuxFields.Equal(other.AuxFields)
}

// Equal reports whether s and other encode the same sequence.
func (s Seq) Equal(other Seq) bool {
	if s.Length != other.Length {
		return false
	}
	for i := range s.Seq {
		if s.Seq[i] != other.Seq[i] {
			return false
		}
	}
	return true
}

// Equal reports whether s and other are the same sequence of CigarOps.
func (s Cigar) Equal(other Cigar) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Equal reports whether s and other carry the same aux fields in the same
// order.
func (s AuxFields) Equal(other AuxFields) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if !bytes.Equal(s[i], other[i]) {
			return false
		}
	}
	return true
}
