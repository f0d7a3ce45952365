package sam

import (
	"hash/fnv"

	"github.com/pkg/errors"

	"github.com/jmarshall/cansam-sub000/internal/binning"
)

const binUnknown = 0xFFFF

// Record is one SAM/BAM alignment record. Unlike the teacher's direct
// *Reference pointer, reference resolution goes through Cindex+RefID (the
// collection-index/rindex pair) so a Record can be read, pooled, and
// reused independently of which *Header produced it.
type Record struct {
	Name      string
	Cindex    int32 // owning collection's registry slot, 0 if detached
	RefID     int32 // rindex into the collection named by Cindex, -1 if unmapped
	Pos       int32 // 0-based
	MapQ      byte
	Cigar     Cigar
	Flags     Flags
	MateRefID int32
	MatePos   int32
	TempLen   int32
	Seq       Seq
	Qual      []byte
	AuxFields AuxFields

	bin   uint16
	order uint64 // last LessByCoordinate key; not set by this package
}

// NewRecord validates and builds a Record from its constituent fields.
func NewRecord(name string, h *Header, refID int32, pos int32, mapQ byte, cigar Cigar, mateRefID, matePos, tempLen int32, seq, qual []byte, aux []Aux) (*Record, error) {
	if len(name) == 0 || len(name) > 254 {
		return nil, errors.Wrap(ErrBadFormat, "sam: name absent or too long")
	}
	if !validPos(int(pos)) || !validPos(int(matePos)) {
		return nil, errors.Wrap(ErrBadFormat, "sam: position out of range")
	}
	if refID < -1 || (h != nil && int(refID) >= len(h.refs)) {
		return nil, errors.Wrap(ErrBadFormat, "sam: invalid reference id")
	}
	if mateRefID < -1 || (h != nil && int(mateRefID) >= len(h.refs)) {
		return nil, errors.Wrap(ErrBadFormat, "sam: invalid mate reference id")
	}
	if refID == -1 && pos != -1 {
		return nil, errors.Wrap(ErrBadFormat, "sam: position set without reference")
	}
	if mateRefID == -1 && matePos != -1 {
		return nil, errors.Wrap(ErrBadFormat, "sam: mate position set without mate reference")
	}
	if qual != nil && len(qual) != len(seq) {
		return nil, errors.Wrap(ErrBadFormat, "sam: sequence/quality length mismatch")
	}
	r := &Record{
		Name:      name,
		RefID:     refID,
		Pos:       pos,
		MapQ:      mapQ,
		Cigar:     cigar,
		MateRefID: mateRefID,
		MatePos:   matePos,
		TempLen:   tempLen,
		Seq:       NewSeq(seq),
		Qual:      qual,
		AuxFields: aux,
		bin:       binUnknown,
	}
	if h != nil {
		r.Cindex = h.cindex
	}
	return r, nil
}

func validPos(p int) bool { return p >= -1 }

// IsValidRecord reports whether r's flags are internally consistent with
// its reference/mate-reference placement and its CIGAR/Seq/Qual lengths.
func IsValidRecord(r *Record) bool {
	if r.RefID == -1 && r.Flags&Unmapped == 0 {
		return false
	}
	if r.Flags&Paired != 0 && r.MateRefID == -1 && r.Flags&MateUnmapped == 0 {
		return false
	}
	if r.Flags&(Unmapped|ProperPair) == Unmapped|ProperPair {
		return false
	}
	if r.Flags&(Paired|MateUnmapped|ProperPair) == Paired|MateUnmapped|ProperPair {
		return false
	}
	if len(r.Qual) != 0 && r.Seq.Length != len(r.Qual) {
		return false
	}
	if r.Seq.Length != 0 && !r.Cigar.IsValid(r.Seq.Length) {
		return false
	}
	return true
}

// Tag returns the first Aux field whose tag matches.
func (r *Record) Tag(tag Tag) (Aux, bool) { return r.AuxFields.Find(tag) }

// IntAux returns the integer value of the first Aux field matching tag, and
// whether one was found and carried an integer subtype.
func (r *Record) IntAux(tag Tag) (int, bool) { return auxIntValue(r.AuxFields, tag) }

// invalidateBin clears the cached bin. Flags, Pos and Cigar are plain
// fields, so assigning them does not call it; a cached bin stays in place
// until invalidateBin or Sync runs.
func (r *Record) invalidateBin() { r.bin = binUnknown }

// Start returns the lower-coordinate end of the alignment (0-based).
func (r *Record) Start() int { return int(r.Pos) }

// End returns the highest reference-consuming coordinate of the alignment.
func (r *Record) End() int {
	pos := int(r.Pos)
	end := pos
	for _, co := range r.Cigar {
		pos += co.Len() * co.Type().Consumes().Reference
		if pos > end {
			end = pos
		}
	}
	return end
}

// Len returns the reference span of the alignment.
func (r *Record) Len() int { return r.End() - r.Start() }

// Bin returns the UCSC-style bin of the record, computing and caching it
// on first use.
func (r *Record) Bin() int {
	if r.bin != binUnknown {
		return int(r.bin)
	}
	b := r.computeBin()
	if b >= 0 && b <= 0xFFFE {
		r.bin = uint16(b)
	}
	return b
}

// Sync recomputes and caches the bin unconditionally, analogous to the
// teacher's Bin() recomputation after a field mutation.
func (r *Record) Sync() {
	r.bin = uint16(r.computeBin())
}

func (r *Record) computeBin() int {
	if r.Flags&Unmapped != 0 {
		return binning.MaxBin
	}
	end := r.End()
	if !binning.IsValidIndexPos(int(r.Pos)) || !binning.IsValidIndexPos(end) {
		return -1
	}
	return binning.BinFor(int(r.Pos), end)
}

// Strand returns +1 for forward alignments, -1 for reverse.
func (r *Record) Strand() int8 {
	if r.Flags&Reverse != 0 {
		return -1
	}
	return 1
}

// RefName resolves the record's reference name against h, falling back to
// the collection registered under r.Cindex when h is nil (this is the
// cindex-based resolution the record's pool-friendly design exists for;
// see Header.Cindex), or "*" if unmapped or no collection can be found.
func (r *Record) RefName(h *Header) string {
	if h == nil {
		h = HeaderForCindex(r.Cindex)
	}
	if h == nil || r.RefID == -1 {
		return "*"
	}
	ref, ok := h.RefByID(r.RefID)
	if !ok {
		return "*"
	}
	return ref.Name()
}

// MateRefName resolves the record's mate reference name against h, falling
// back to the collection registered under r.Cindex when h is nil.
func (r *Record) MateRefName(h *Header) string {
	if h == nil {
		h = HeaderForCindex(r.Cindex)
	}
	if h == nil || r.MateRefID == -1 {
		return "*"
	}
	ref, ok := h.RefByID(r.MateRefID)
	if !ok {
		return "*"
	}
	return ref.Name()
}

// Clone returns a deep copy of r; every slice field gets its own backing
// array.
func (r *Record) Clone() *Record {
	c := *r
	if r.Cigar != nil {
		c.Cigar = append(Cigar(nil), r.Cigar...)
	}
	if r.Seq.Seq != nil {
		c.Seq.Seq = append([]Doublet(nil), r.Seq.Seq...)
	}
	if r.Qual != nil {
		c.Qual = append([]byte(nil), r.Qual...)
	}
	if r.AuxFields != nil {
		c.AuxFields = make(AuxFields, len(r.AuxFields))
		for i, a := range r.AuxFields {
			c.AuxFields[i] = append(Aux(nil), a...)
		}
	}
	return &c
}

// Swap exchanges the contents of r and other without deep-copying backing
// arrays.
func (r *Record) Swap(other *Record) { *r, *other = *other, *r }

// LessByCoordinate orders records by (RefID, Pos, Name), sorting
// RefID == -1 (unmapped) last. Its final comparison is on the unexported
// order field, which this package never sets, so records equal on those
// three keys compare as equal and their relative order is not defined.
func (r *Record) LessByCoordinate(other *Record) bool {
	ri, oi := r.RefID, other.RefID
	if ri == -1 {
		ri = 1<<31 - 1
	}
	if oi == -1 {
		oi = 1<<31 - 1
	}
	if ri != oi {
		return ri < oi
	}
	if r.Pos != other.Pos {
		return r.Pos < other.Pos
	}
	if r.Name != other.Name {
		return r.Name < other.Name
	}
	return r.order < other.order
}

// LessByName orders records lexicographically by Name.
func (r *Record) LessByName(other *Record) bool { return r.Name < other.Name }

// EqualByName reports whether r and other share the same Name.
func (r *Record) EqualByName(other *Record) bool { return r.Name == other.Name }

// HashName returns an FNV-1a hash of r.Name, useful for partitioning
// records by read name (e.g. the groupbyname front-end).
func (r *Record) HashName() uint64 {
	h := fnv.New64a()
	h.Write([]byte(r.Name))
	return h.Sum64()
}
