package sam

import (
	"bytes"
	"strconv"

	"github.com/pkg/errors"
)

// CigarOpType is one of the nine CIGAR operation letters.
type CigarOpType byte

const (
	CigarMatch CigarOpType = iota
	CigarInsertion
	CigarDeletion
	CigarSkipped
	CigarSoftClipped
	CigarHardClipped
	CigarPadded
	CigarEqual
	CigarMismatch
	cigarOpTypeCount
)

var cigarOpLetters = [cigarOpTypeCount]byte{'M', 'I', 'D', 'N', 'S', 'H', 'P', '=', 'X'}

func (t CigarOpType) String() string {
	if t >= cigarOpTypeCount {
		return "?"
	}
	return string(cigarOpLetters[t])
}

// Consumption describes whether a CIGAR operation advances the reference
// coordinate, the query coordinate, or both.
type Consumption struct {
	Query     int
	Reference int
}

var cigarConsumes = [cigarOpTypeCount]Consumption{
	CigarMatch:       {Query: 1, Reference: 1},
	CigarInsertion:   {Query: 1, Reference: 0},
	CigarDeletion:    {Query: 0, Reference: 1},
	CigarSkipped:     {Query: 0, Reference: 1},
	CigarSoftClipped: {Query: 1, Reference: 0},
	CigarHardClipped: {Query: 0, Reference: 0},
	CigarPadded:      {Query: 0, Reference: 0},
	CigarEqual:       {Query: 1, Reference: 1},
	CigarMismatch:    {Query: 1, Reference: 1},
}

// Consumes returns the reference/query consumption of op.
func (t CigarOpType) Consumes() Consumption { return cigarConsumes[t] }

// CigarOp is one packed (length, operation) unit: the low 4 bits hold the
// operation code, the remaining 28 bits hold the length, matching BAM's
// wire representation directly.
type CigarOp uint32

// NewCigarOp builds a CigarOp from a type and length.
func NewCigarOp(t CigarOpType, length int) CigarOp {
	return CigarOp(uint32(length)<<4 | uint32(t))
}

// Type returns the operation code of the op.
func (c CigarOp) Type() CigarOpType { return CigarOpType(c & 0xf) }

// Len returns the length of the op.
func (c CigarOp) Len() int { return int(c >> 4) }

func (c CigarOp) String() string {
	return strconv.Itoa(c.Len()) + c.Type().String()
}

// Cigar is an ordered sequence of CigarOps.
type Cigar []CigarOp

func (c Cigar) String() string {
	if len(c) == 0 {
		return "*"
	}
	var buf bytes.Buffer
	for _, op := range c {
		buf.WriteString(op.String())
	}
	return buf.String()
}

// Span returns the total reference-consuming length of c.
func (c Cigar) Span() int {
	n := 0
	for _, op := range c {
		n += op.Len() * op.Type().Consumes().Reference
	}
	return n
}

// QueryLen returns the total query-consuming length of c.
func (c Cigar) QueryLen() int {
	n := 0
	for _, op := range c {
		n += op.Len() * op.Type().Consumes().Query
	}
	return n
}

// IsValid reports whether the query-consuming length of c equals seqLen, as
// required whenever both a non-empty Cigar and a non-empty Seq are present.
func (c Cigar) IsValid(seqLen int) bool {
	if len(c) == 0 {
		return true
	}
	return c.QueryLen() == seqLen
}

var cigarOpForLetter = func() [256]int8 {
	var a [256]int8
	for i := range a {
		a[i] = -1
	}
	for t, l := range cigarOpLetters {
		a[l] = int8(t)
	}
	return a
}()

// ParseCigar parses a CIGAR string (e.g. "35M1I64M" or "*").
func ParseCigar(b []byte) (Cigar, error) {
	if len(b) == 0 || (len(b) == 1 && b[0] == '*') {
		return nil, nil
	}
	var c Cigar
	i := 0
	for i < len(b) {
		start := i
		for i < len(b) && b[i] >= '0' && b[i] <= '9' {
			i++
		}
		if i == start {
			return nil, errors.Errorf("sam: invalid cigar string %q", b)
		}
		length, err := strconv.Atoi(string(b[start:i]))
		if err != nil {
			return nil, errors.Wrapf(err, "sam: invalid cigar length in %q", b)
		}
		if i >= len(b) {
			return nil, errors.Errorf("sam: truncated cigar string %q", b)
		}
		t := cigarOpForLetter[b[i]]
		if t < 0 {
			return nil, errors.Errorf("sam: unrecognised cigar operation %q in %q", b[i], b)
		}
		c = append(c, NewCigarOp(CigarOpType(t), length))
		i++
	}
	return c, nil
}
