// Package interval provides half-open genomic intervals, parsing of their
// "[START][-END]"/"[START]+[LENGTH]"/"NAME:START-END" text forms, and an
// augmented interval tree for answering overlap queries.
package interval

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrBadFormat is wrapped by every interval text-parsing error.
var ErrBadFormat = errors.New("interval: bad format")

// Interval is a zero-based, half-open range [Zstart, Zlimit) within an
// unspecified sequence.
type Interval struct {
	Zstart int32
	Zlimit int32
}

// NewInterval builds an Interval from zero-based half-open bounds.
func NewInterval(zstart, zlimit int32) Interval { return Interval{Zstart: zstart, Zlimit: zlimit} }

// Start returns the 1-based, inclusive start coordinate.
func (i Interval) Start() int32 { return i.Zstart + 1 }

// End returns the 1-based, inclusive end coordinate.
func (i Interval) End() int32 { return i.Zlimit }

// Zend returns the zero-based, inclusive end coordinate.
func (i Interval) Zend() int32 { return i.Zlimit - 1 }

// Length returns the number of positions spanned.
func (i Interval) Length() int32 { return i.Zlimit - i.Zstart }

// Less orders intervals by start coordinate, matching the tree's sort key.
func (i Interval) Less(other Interval) bool { return i.Zstart < other.Zstart }

// String renders the interval in 1-based "START-END" form.
func (i Interval) String() string {
	return strconv.Itoa(int(i.Start())) + "-" + strconv.Itoa(int(i.End()))
}

// Overlaps reports whether a and b share at least one position.
func Overlaps(a, b Interval) bool {
	return a.Zstart < b.Zlimit && b.Zstart < a.Zlimit
}

// SeqInterval is an Interval qualified by the name of the sequence it is
// within.
type SeqInterval struct {
	Name string
	Interval
}

// NewSeqInterval builds a SeqInterval from zero-based half-open bounds.
func NewSeqInterval(name string, zstart, zlimit int32) SeqInterval {
	return SeqInterval{Name: name, Interval: NewInterval(zstart, zlimit)}
}

// String renders the seqinterval in "NAME:START-END" form.
func (i SeqInterval) String() string { return i.Name + ":" + i.Interval.String() }

// parseNumeral scans an unsigned decimal numeral starting at s, tolerating
// embedded commas as thousands separators, and returns the parsed value
// along with the unconsumed remainder. If no digits are present, it
// returns defaultValue and the input unchanged.
func parseNumeral(s string, defaultValue int64) (int64, string) {
	orig := s
	var value int64
	for len(s) > 0 {
		c := s[0]
		if c >= '0' && c <= '9' {
			value = 10*value + int64(c-'0')
			s = s[1:]
		} else if c == ',' {
			s = s[1:]
		} else {
			break
		}
	}
	if s == orig {
		return defaultValue, s
	}
	return value, s
}

// ParseInterval parses the "[START]", "[START]-[END]", or
// "[START]+[LENGTH]" text forms, with 1-based coordinates in the input.
func ParseInterval(text string) (Interval, error) {
	var i Interval
	start, rest := parseNumeral(text, 1)
	i.Zstart = int32(start - 1)

	if len(rest) == 0 {
		i.Zlimit = i.Zstart + 1
		return i, nil
	}

	switch rest[0] {
	case '-':
		end, tail := parseNumeral(rest[1:], math.MaxInt32)
		i.Zlimit = int32(end)
		rest = tail
	case '+':
		length, tail := parseNumeral(rest[1:], 0)
		i.Zlimit = i.Zstart + int32(length)
		rest = tail
	default:
		// leave rest as-is; the non-empty check below will reject it
	}

	if len(rest) != 0 {
		return Interval{}, errors.Wrapf(ErrBadFormat, "invalid interval value %q", text)
	}
	return i, nil
}

// ParseSeqInterval parses the "[NAME]:[START]-[END]"-style text form; the
// name may be empty, and the remainder is parsed as with ParseInterval.
func ParseSeqInterval(text string) (SeqInterval, error) {
	colon := strings.LastIndexByte(text, ':')
	var name, rest string
	if colon < 0 {
		name, rest = text, "-"
	} else {
		name, rest = text[:colon], text[colon+1:]
	}
	iv, err := ParseInterval(rest)
	if err != nil {
		return SeqInterval{}, errors.Wrapf(ErrBadFormat, "invalid seqinterval value %q", text)
	}
	return SeqInterval{Name: name, Interval: iv}, nil
}
