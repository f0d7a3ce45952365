package sam

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"

	"github.com/pkg/errors"
)

// Aux is one tagged auxiliary field: the first two bytes are the tag, the
// third byte is the type code, and the remainder is the type-specific
// payload, exactly as laid out on the BAM wire.
type Aux []byte

// Tag returns the two-character tag of a.
func (a Aux) Tag() Tag { return Tag{a[0], a[1]} }

// Type returns the one-byte type code of a.
func (a Aux) Type() byte { return a[2] }

func (a Aux) matches(tag Tag) bool { return a[0] == tag[0] && a[1] == tag[1] }

// Value returns the decoded Go value carried by a: a string for Z, the
// hex-decoded []byte for H, an int64 for the integer subtypes, a float64
// for f, a byte for A, and the raw encoded []byte (subtype, count and
// elements) for B.
func (a Aux) Value() interface{} {
	switch a.Type() {
	case 'A':
		return a[3]
	case 'c':
		return int64(int8(a[3]))
	case 'C':
		return int64(a[3])
	case 's':
		return int64(int16(binary.LittleEndian.Uint16(a[3:])))
	case 'S':
		return int64(binary.LittleEndian.Uint16(a[3:]))
	case 'i':
		return int64(int32(binary.LittleEndian.Uint32(a[3:])))
	case 'I':
		return int64(binary.LittleEndian.Uint32(a[3:]))
	case 'f':
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(a[3:])))
	case 'Z':
		return string(a[3:])
	case 'H':
		dst := make([]byte, hex.DecodedLen(len(a)-3))
		hex.Decode(dst, a[3:])
		return dst
	case 'B':
		return a[3:]
	default:
		return nil
	}
}

func (a Aux) String() string {
	switch a.Type() {
	case 'A':
		return fmt.Sprintf("%s:A:%c", a.Tag(), a[3])
	case 'c', 'C', 's', 'S', 'i', 'I':
		return fmt.Sprintf("%s:i:%d", a.Tag(), a.Value())
	case 'f':
		return fmt.Sprintf("%s:f:%v", a.Tag(), a.Value())
	case 'Z':
		return fmt.Sprintf("%s:Z:%s", a.Tag(), a.Value())
	case 'H':
		return fmt.Sprintf("%s:H:%X", a.Tag(), a.Value())
	case 'B':
		return fmt.Sprintf("%s:B:%s", a.Tag(), formatAuxArray(a))
	default:
		return fmt.Sprintf("%s:?:%v", a.Tag(), []byte(a))
	}
}

func formatAuxArray(a Aux) string {
	sub := a[3]
	var buf bytes.Buffer
	buf.WriteByte(sub)
	payload := a[8:]
	size := auxArrayElemSize(sub)
	for off := 0; off+size <= len(payload); off += size {
		buf.WriteByte(',')
		fmt.Fprintf(&buf, "%v", decodeAuxArrayElem(sub, payload[off:off+size]))
	}
	return buf.String()
}

func auxArrayElemSize(sub byte) int {
	switch sub {
	case 'c', 'C':
		return 1
	case 's', 'S':
		return 2
	case 'i', 'I', 'f':
		return 4
	default:
		return 1
	}
}

func decodeAuxArrayElem(sub byte, b []byte) interface{} {
	switch sub {
	case 'c':
		return int8(b[0])
	case 'C':
		return b[0]
	case 's':
		return int16(binary.LittleEndian.Uint16(b))
	case 'S':
		return binary.LittleEndian.Uint16(b)
	case 'i':
		return int32(binary.LittleEndian.Uint32(b))
	case 'I':
		return binary.LittleEndian.Uint32(b)
	case 'f':
		return math.Float32frombits(binary.LittleEndian.Uint32(b))
	default:
		return nil
	}
}

// NewAux builds an Aux from a tag and a Go value. Supported value types:
// byte (A), string (Z), []byte (H, hex-encoded), int/int8/int16/int32/
// int64/uint/.../uint64 (minimal-width integer subtype), float32/float64
// (f).
func NewAux(tag Tag, v interface{}) (Aux, error) {
	switch val := v.(type) {
	case byte:
		return Aux(append([]byte{tag[0], tag[1], 'A', val})), nil
	case string:
		a := make(Aux, 0, 3+len(val))
		a = append(a, tag[0], tag[1], 'Z')
		a = append(a, val...)
		return a, nil
	case []byte:
		enc := make([]byte, hex.EncodedLen(len(val)))
		hex.Encode(enc, val)
		a := make(Aux, 0, 3+len(enc))
		a = append(a, tag[0], tag[1], 'H')
		a = append(a, enc...)
		return a, nil
	case float32:
		a := make(Aux, 7)
		a[0], a[1], a[2] = tag[0], tag[1], 'f'
		binary.LittleEndian.PutUint32(a[3:], math.Float32bits(val))
		return a, nil
	case float64:
		return NewAux(tag, float32(val))
	default:
		i, ok := toInt64(v)
		if !ok {
			return nil, errors.Errorf("sam: unsupported aux value type %T", v)
		}
		return newIntAux(tag, i), nil
	}
}

func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	default:
		return 0, false
	}
}

// newIntAux picks the narrowest signed/unsigned integer subtype that can
// represent i, matching common SAM-writer minimisation behaviour.
func newIntAux(tag Tag, i int64) Aux {
	switch {
	case i >= 0 && i <= math.MaxUint8:
		a := make(Aux, 4)
		a[0], a[1], a[2] = tag[0], tag[1], 'C'
		a[3] = byte(i)
		return a
	case i >= math.MinInt8 && i < 0:
		a := make(Aux, 4)
		a[0], a[1], a[2] = tag[0], tag[1], 'c'
		a[3] = byte(int8(i))
		return a
	case i >= 0 && i <= math.MaxUint16:
		a := make(Aux, 5)
		a[0], a[1], a[2] = tag[0], tag[1], 'S'
		binary.LittleEndian.PutUint16(a[3:], uint16(i))
		return a
	case i >= math.MinInt16 && i < 0:
		a := make(Aux, 5)
		a[0], a[1], a[2] = tag[0], tag[1], 's'
		binary.LittleEndian.PutUint16(a[3:], uint16(int16(i)))
		return a
	case i >= 0 && i <= math.MaxUint32:
		a := make(Aux, 7)
		a[0], a[1], a[2] = tag[0], tag[1], 'I'
		binary.LittleEndian.PutUint32(a[3:], uint32(i))
		return a
	default:
		a := make(Aux, 7)
		a[0], a[1], a[2] = tag[0], tag[1], 'i'
		binary.LittleEndian.PutUint32(a[3:], uint32(int32(i)))
		return a
	}
}

// ParseAux parses one "TAG:TYPE:value" SAM-text aux field.
func ParseAux(b []byte) (Aux, error) {
	if len(b) < 5 || b[2] != ':' || b[4] != ':' {
		return nil, errors.Errorf("sam: malformed aux field %q", b)
	}
	tag := Tag{b[0], b[1]}
	typ := b[3]
	val := b[5:]
	switch typ {
	case 'A':
		if len(val) != 1 {
			return nil, errors.Errorf("sam: malformed A aux field %q", b)
		}
		return NewAux(tag, val[0])
	case 'i':
		n, err := strconv.ParseInt(string(val), 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "sam: malformed integer aux field %q", b)
		}
		return NewAux(tag, n)
	case 'f':
		f, err := strconv.ParseFloat(string(val), 32)
		if err != nil {
			return nil, errors.Wrapf(err, "sam: malformed float aux field %q", b)
		}
		return NewAux(tag, float32(f))
	case 'Z':
		return NewAux(tag, string(val))
	case 'H':
		dst := make([]byte, hex.DecodedLen(len(val)))
		if _, err := hex.Decode(dst, val); err != nil {
			return nil, errors.Wrapf(err, "sam: malformed hex aux field %q", b)
		}
		return NewAux(tag, dst)
	case 'B':
		return parseAuxArray(tag, val)
	default:
		return nil, errors.Errorf("sam: unrecognised aux type %q in %q", typ, b)
	}
}

func parseAuxArray(tag Tag, val []byte) (Aux, error) {
	if len(val) == 0 {
		return nil, errors.New("sam: empty B aux array")
	}
	sub := val[0]
	fields := bytes.Split(val[1:], []byte{','})
	if len(fields) == 1 && len(fields[0]) == 0 {
		fields = nil
	}
	size := auxArrayElemSize(sub)
	a := make(Aux, 8+size*len(fields))
	a[0], a[1], a[2] = tag[0], tag[1], 'B'
	a[3] = sub
	binary.LittleEndian.PutUint32(a[4:8], uint32(len(fields)))
	for i, f := range fields {
		off := 8 + i*size
		switch sub {
		case 'c':
			n, err := strconv.ParseInt(string(f), 10, 8)
			if err != nil {
				return nil, err
			}
			a[off] = byte(int8(n))
		case 'C':
			n, err := strconv.ParseUint(string(f), 10, 8)
			if err != nil {
				return nil, err
			}
			a[off] = byte(n)
		case 's':
			n, err := strconv.ParseInt(string(f), 10, 16)
			if err != nil {
				return nil, err
			}
			binary.LittleEndian.PutUint16(a[off:], uint16(int16(n)))
		case 'S':
			n, err := strconv.ParseUint(string(f), 10, 16)
			if err != nil {
				return nil, err
			}
			binary.LittleEndian.PutUint16(a[off:], uint16(n))
		case 'i':
			n, err := strconv.ParseInt(string(f), 10, 32)
			if err != nil {
				return nil, err
			}
			binary.LittleEndian.PutUint32(a[off:], uint32(int32(n)))
		case 'I':
			n, err := strconv.ParseUint(string(f), 10, 32)
			if err != nil {
				return nil, err
			}
			binary.LittleEndian.PutUint32(a[off:], uint32(n))
		case 'f':
			n, err := strconv.ParseFloat(string(f), 32)
			if err != nil {
				return nil, err
			}
			binary.LittleEndian.PutUint32(a[off:], math.Float32bits(float32(n)))
		default:
			return nil, errors.Errorf("sam: unrecognised B aux subtype %q", sub)
		}
	}
	return a, nil
}

// AuxFields is an ordered collection of Aux values, as carried by a Record.
type AuxFields []Aux

// Find returns the first field whose tag matches, and whether one was
// found.
func (af AuxFields) Find(tag Tag) (Aux, bool) {
	for _, a := range af {
		if a.matches(tag) {
			return a, true
		}
	}
	return nil, false
}

// GetUnique returns the field matching tag, an error if more than one
// field matches, or (nil, nil) if none do.
func (af AuxFields) GetUnique(tag Tag) (Aux, error) {
	var found Aux
	count := 0
	for _, a := range af {
		if a.matches(tag) {
			found = a
			count++
		}
	}
	if count > 1 {
		return nil, errors.Errorf("sam: tag %s appears %d times", tag, count)
	}
	return found, nil
}

// SetAux finds the first field matching tag and replaces its value, or
// appends a new field if none matches.
func (af *AuxFields) SetAux(tag Tag, v interface{}) error {
	a, err := NewAux(tag, v)
	if err != nil {
		return err
	}
	for i, existing := range *af {
		if existing.matches(tag) {
			(*af)[i] = a
			return nil
		}
	}
	*af = append(*af, a)
	return nil
}

// PushBack appends a field unconditionally, even if tag already occurs.
func (af *AuxFields) PushBack(a Aux) {
	*af = append(*af, a)
}

// Insert inserts a field at index i, shifting later fields up by one.
func (af *AuxFields) Insert(i int, a Aux) {
	*af = append(*af, nil)
	copy((*af)[i+1:], (*af)[i:])
	(*af)[i] = a
}

// RemoveAt removes the field at index i.
func (af *AuxFields) RemoveAt(i int) {
	*af = append((*af)[:i], (*af)[i+1:]...)
}

// RemoveRange removes the fields in [i, j).
func (af *AuxFields) RemoveRange(i, j int) {
	*af = append((*af)[:i], (*af)[j:]...)
}

// Clear empties the collection.
func (af *AuxFields) Clear() { *af = (*af)[:0] }

func (af AuxFields) String() string {
	var buf bytes.Buffer
	for i, a := range af {
		if i > 0 {
			buf.WriteByte('\t')
		}
		buf.WriteString(a.String())
	}
	return buf.String()
}

func auxIntValue(af AuxFields, tag Tag) (int, bool) {
	a, ok := af.Find(tag)
	if !ok {
		return 0, false
	}
	v, ok := a.Value().(int64)
	if !ok {
		return 0, false
	}
	return int(v), true
}
