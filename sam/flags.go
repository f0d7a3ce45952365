package sam

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Flags is the 12-bit SAM alignment flag bitmask.
type Flags uint16

const (
	Paired Flags = 1 << iota
	ProperPair
	Unmapped
	MateUnmapped
	Reverse
	MateReverse
	Read1
	Read2
	Secondary
	QCFail
	Duplicate
	Supplementary
)

var flagNames = [...]struct {
	bit  Flags
	name string
}{
	{Paired, "PAIRED"},
	{ProperPair, "PROPER_PAIR"},
	{Unmapped, "UNMAPPED"},
	{MateUnmapped, "MATE_UNMAPPED"},
	{Reverse, "REVERSE"},
	{MateReverse, "MATE_REVERSE"},
	{Read1, "READ1"},
	{Read2, "READ2"},
	{Secondary, "SECONDARY"},
	{QCFail, "QC_FAIL"},
	{Duplicate, "DUPLICATE"},
	{Supplementary, "SUPPLEMENTARY"},
}

// flagLetters gives the compact single-character symbol for each flag bit,
// in bit order, matching the teacher's "pPuUrR12sfdS" convention.
const flagLetters = "pPuUrR12sfdS"

// String renders f using the compact single-letter form, one character per
// set bit in bit order. Every bit gets a letter regardless of whether
// Paired is set, so the rendering is lossless and ParseFlags inverts it
// exactly; a display layer wanting to hide paired-dependent letters for an
// unpaired read is free to mask f itself before calling String.
func (f Flags) String() string {
	return formatFlagsSymbolic(f)
}

func formatFlagsSymbolic(f Flags) string {
	b := make([]byte, 0, len(flagLetters))
	for i, c := range flagLetters {
		if f&(1<<uint(i)) != 0 {
			b = append(b, byte(c))
		}
	}
	return string(b)
}

// FlagFormat selects the textual rendering MarshalSAM uses for the FLAG
// field.
type FlagFormat int

const (
	FlagDecimal FlagFormat = iota
	FlagOctal
	FlagHex
	FlagString
)

// Format renders f according to format.
func (f Flags) Format(format FlagFormat) string {
	switch format {
	case FlagDecimal:
		return strconv.FormatUint(uint64(f), 10)
	case FlagOctal:
		return "0" + strconv.FormatUint(uint64(f), 8)
	case FlagHex:
		return "0x" + strconv.FormatUint(uint64(f), 16)
	case FlagString:
		return formatFlagsSymbolic(f)
	default:
		return strconv.FormatUint(uint64(f), 10)
	}
}

// ParseFlags parses s as a flag value. It accepts plain decimal, a leading
// "0" for octal, a leading "0x"/"0X" for hex, the symbolic letter form
// ("pPuUrR12sfdS" subset, in any order), the full symbolic name list
// joined with '|' or ',' (e.g. "PAIRED|READ1"), and a signed accumulation
// form "+NAME-NAME..." / "+0x1-0x40" applied against a base of 0.
func ParseFlags(s string) (Flags, error) {
	if s == "" {
		return 0, errors.New("sam: empty flag string")
	}
	switch {
	case s[0] == '+' || s[0] == '-':
		return parseSignedFlags(s)
	case isDigitOrSign(s):
		v, err := strconv.ParseUint(s, 0, 16)
		if err != nil {
			return 0, errors.Wrapf(err, "sam: invalid numeric flags %q", s)
		}
		return Flags(v), nil
	case strings.ContainsAny(s, "|,"):
		return parseNamedFlags(strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' }))
	default:
		return parseSymbolicFlags(s)
	}
}

func isDigitOrSign(s string) bool {
	for _, c := range s {
		if (c < '0' || c > '9') && c != 'x' && c != 'X' &&
			!(c >= 'a' && c <= 'f') && !(c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}

func parseSymbolicFlags(s string) (Flags, error) {
	var f Flags
	for _, c := range s {
		idx := strings.IndexRune(flagLetters, c)
		if idx < 0 {
			return 0, errors.Errorf("sam: unrecognised flag letter %q", c)
		}
		f |= 1 << uint(idx)
	}
	return f, nil
}

func parseNamedFlags(names []string) (Flags, error) {
	var f Flags
	for _, name := range names {
		name = strings.TrimSpace(name)
		bit, err := flagBitForName(name)
		if err != nil {
			return 0, err
		}
		f |= bit
	}
	return f, nil
}

func flagBitForName(name string) (Flags, error) {
	for _, fn := range flagNames {
		if fn.name == name {
			return fn.bit, nil
		}
	}
	if v, err := strconv.ParseUint(name, 0, 16); err == nil {
		return Flags(v), nil
	}
	return 0, errors.Errorf("sam: unrecognised flag name %q", name)
}

// parseSignedFlags implements the "+X-Y" accumulation form: every token
// introduced by '+' is OR-ed in, every token introduced by '-' is masked
// out of the accumulated result, processed left to right starting from a
// base value of zero.
func parseSignedFlags(s string) (Flags, error) {
	var result Flags
	i := 0
	for i < len(s) {
		sign := s[i]
		i++
		start := i
		for i < len(s) && s[i] != '+' && s[i] != '-' {
			i++
		}
		token := s[start:i]
		if token == "" {
			return 0, errors.Errorf("sam: empty token in signed flag string %q", s)
		}
		bit, err := flagBitForName(token)
		if err != nil {
			// Fall back to treating the token as a symbolic-letter run.
			bit, err = parseSymbolicFlags(token)
			if err != nil {
				return 0, err
			}
		}
		if sign == '+' {
			result |= bit
		} else {
			result &^= bit
		}
	}
	return result, nil
}
