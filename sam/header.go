package sam

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrBadFormat is the sentinel wrapped by every malformed-input error
// raised while parsing SAM/BAM text or binary data.
var ErrBadFormat = errors.New("sam: bad format")

// HeaderLine is a single '@XY' header line: an ordered set of tag/value
// fields plus their two-character type code. Each mutator calls self.sync
// afterwards so that derived types (Reference, ReadGroup) can refresh
// their cached fields.
type HeaderLine struct {
	typ    string
	fields []headerField
	self   derivable
}

type headerField struct {
	tag   string
	value string
}

// derivable lets Reference/ReadGroup refresh name/length/id caches
// whenever their underlying fields change, mirroring the virtual sync()
// hook overridden in the teacher's C++ ancestor.
type derivable interface {
	sync() error
}

// NewHeaderLine parses one '@XY\tTAG:value\t...' line into a HeaderLine.
func NewHeaderLine(line string) (*HeaderLine, error) {
	if len(line) < 3 || line[0] != '@' {
		return nil, errors.Wrapf(ErrBadFormat, "header line %q lacks '@' type prefix", line)
	}
	h := &HeaderLine{typ: line[1:3]}
	if len(line) > 3 {
		if line[3] != '\t' {
			return nil, errors.Wrapf(ErrBadFormat, "header line %q malformed after type", line)
		}
		for _, field := range strings.Split(line[4:], "\t") {
			idx := strings.IndexByte(field, ':')
			if idx < 0 {
				return nil, errors.Wrapf(ErrBadFormat, "header field %q missing ':'", field)
			}
			h.fields = append(h.fields, headerField{tag: field[:idx], value: field[idx+1:]})
		}
	}
	h.self = h
	return h, nil
}

func (h *HeaderLine) sync() error { return nil }

// Type returns the two-character type code (e.g. "SQ", "RG", "HD").
func (h *HeaderLine) Type() string { return h.typ }

// TypeEquals reports whether this header's type code equals t.
func (h *HeaderLine) TypeEquals(t string) bool { return h.typ == t }

// Find returns the value of the first field with the given tag.
func (h *HeaderLine) Find(tag string) (string, bool) {
	for _, f := range h.fields {
		if f.tag == tag {
			return f.value, true
		}
	}
	return "", false
}

// FieldString returns the value of tag, or an error if absent.
func (h *HeaderLine) FieldString(tag string) (string, error) {
	v, ok := h.Find(tag)
	if !ok {
		return "", errors.Wrapf(ErrBadFormat, "header field %q not found in %q", tag, h.String())
	}
	return v, nil
}

// FieldStringDefault returns the value of tag, or def if absent.
func (h *HeaderLine) FieldStringDefault(tag, def string) string {
	v, ok := h.Find(tag)
	if !ok {
		return def
	}
	return v
}

// FieldInt returns the value of tag parsed as an integer.
func (h *HeaderLine) FieldInt(tag string) (int, error) {
	v, err := h.FieldString(tag)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrapf(ErrBadFormat, "header field %q=%q is not an integer", tag, v)
	}
	return n, nil
}

// SetField updates tag's value, or appends a new field if tag is absent.
func (h *HeaderLine) SetField(tag, value string) error {
	for i, f := range h.fields {
		if f.tag == tag {
			h.fields[i].value = value
			return h.self.sync()
		}
	}
	h.fields = append(h.fields, headerField{tag: tag, value: value})
	return h.self.sync()
}

// PushBack appends a new field unconditionally.
func (h *HeaderLine) PushBack(tag, value string) error {
	h.fields = append(h.fields, headerField{tag: tag, value: value})
	return h.self.sync()
}

// Erase removes the field at index i.
func (h *HeaderLine) Erase(i int) error {
	h.fields = append(h.fields[:i], h.fields[i+1:]...)
	return h.self.sync()
}

// Insert inserts a field at index i.
func (h *HeaderLine) Insert(i int, tag, value string) error {
	h.fields = append(h.fields, headerField{})
	copy(h.fields[i+1:], h.fields[i:])
	h.fields[i] = headerField{tag: tag, value: value}
	return h.self.sync()
}

// Replace substitutes the field at index i.
func (h *HeaderLine) Replace(i int, tag, value string) error {
	h.fields[i] = headerField{tag: tag, value: value}
	return h.self.sync()
}

// String renders the header as its canonical tab-delimited text.
func (h *HeaderLine) String() string {
	var b strings.Builder
	b.WriteByte('@')
	b.WriteString(h.typ)
	for _, f := range h.fields {
		b.WriteByte('\t')
		b.WriteString(f.tag)
		b.WriteByte(':')
		b.WriteString(f.value)
	}
	return b.String()
}
