package sam

import "github.com/pkg/errors"

// SeqBase is one nybble-encoded nucleotide base.
type SeqBase byte

const (
	BaseEquals SeqBase = 0x0
	BaseA      SeqBase = 0x1
	BaseC      SeqBase = 0x2
	BaseM      SeqBase = 0x3
	BaseG      SeqBase = 0x4
	BaseR      SeqBase = 0x5
	BaseS      SeqBase = 0x6
	BaseV      SeqBase = 0x7
	BaseT      SeqBase = 0x8
	BaseW      SeqBase = 0x9
	BaseY      SeqBase = 0xa
	BaseH      SeqBase = 0xb
	BaseK      SeqBase = 0xc
	BaseD      SeqBase = 0xd
	BaseB      SeqBase = 0xe
	BaseN      SeqBase = 0xf

	NumSeqBaseTypes = 16
)

// n16TableRev maps a nybble value back to its ASCII base letter.
var n16TableRev = [16]byte{'=', 'A', 'C', 'M', 'G', 'R', 'S', 'V', 'T', 'W', 'Y', 'H', 'K', 'D', 'B', 'N'}

// n16Table maps an ASCII byte (upper or lower case) to its nybble value.
// Unrecognised bytes fold to N (0xf), matching the teacher's NewSeq.
var n16Table = func() [256]SeqBase {
	var t [256]SeqBase
	for i := range t {
		t[i] = BaseN
	}
	set := func(c byte, v SeqBase) {
		t[c] = v
		if c >= 'A' && c <= 'Z' {
			t[c-'A'+'a'] = v
		}
	}
	set('=', BaseEquals)
	set('A', BaseA)
	set('C', BaseC)
	set('M', BaseM)
	set('G', BaseG)
	set('R', BaseR)
	set('S', BaseS)
	set('V', BaseV)
	set('T', BaseT)
	set('W', BaseW)
	set('Y', BaseY)
	set('H', BaseH)
	set('K', BaseK)
	set('D', BaseD)
	set('B', BaseB)
	set('N', BaseN)
	return t
}()

// CharToSeqBase converts an ASCII base letter to its SeqBase value.
func CharToSeqBase(c byte) SeqBase { return n16Table[c] }

// Char returns the canonical upper-case ASCII letter for b.
func (b SeqBase) Char() byte { return n16TableRev[b&0xf] }

func (b SeqBase) String() string { return string(b.Char()) }

// Doublet packs two SeqBase nybbles, high nybble first, matching BAM's wire
// layout.
type Doublet byte

// Seq is a packed nucleotide sequence.
type Seq struct {
	Length int
	Seq    []Doublet
}

// NewSeq builds a Seq from ASCII bases, folding unrecognised bytes to N.
func NewSeq(s []byte) Seq {
	return Seq{Length: len(s), Seq: contract(s)}
}

// NewSeqStrict is like NewSeq but returns an error wrapping ErrBadFormat if
// s contains a byte that is not one of the sixteen recognised base codes:
// '=' (same as reference) or one of the fifteen IUPAC letters, in either
// case.
func NewSeqStrict(s []byte) (Seq, error) {
	for _, c := range s {
		if !isKnownBaseChar(c) {
			return Seq{}, errors.Wrapf(ErrBadFormat, "sam: unrecognised sequence character %q", c)
		}
	}
	return Seq{Length: len(s), Seq: contract(s)}, nil
}

func isKnownBaseChar(c byte) bool {
	switch c {
	case '=', 'A', 'a', 'C', 'c', 'M', 'm', 'G', 'g', 'R', 'r', 'S', 's',
		'V', 'v', 'T', 't', 'W', 'w', 'Y', 'y', 'H', 'h', 'K', 'k',
		'D', 'd', 'B', 'b', 'N', 'n':
		return true
	}
	return false
}

func contract(s []byte) []Doublet {
	ns := make([]Doublet, (len(s)+1)>>1)
	var hi Doublet
	for i, c := range s {
		if i&1 == 0 {
			hi = Doublet(n16Table[c]) << 4
		} else {
			ns[i>>1] = hi | Doublet(n16Table[c])
		}
	}
	if len(s)&1 != 0 {
		ns[len(ns)-1] = hi
	}
	return ns
}

// Expand returns the upper-case ASCII expansion of ns.
func (ns Seq) Expand() []byte {
	s := make([]byte, ns.Length)
	for i := range s {
		if i&1 == 0 {
			s[i] = n16TableRev[ns.Seq[i>>1]>>4]
		} else {
			s[i] = n16TableRev[ns.Seq[i>>1]&0xf]
		}
	}
	return s
}

func (ns Seq) String() string { return string(ns.Expand()) }
