package sam

import (
	"strconv"

	"github.com/pkg/errors"
)

// unmappedRefID is the sentinel reference ID used for "*", matching the
// spec's convention that unmapped references carry id == -1.
const unmappedRefID = -1

// Reference is an '@SQ' header line with cached name/length/id fields kept
// in sync with the underlying tagged fields.
type Reference struct {
	*HeaderLine
	name   string
	length int32
	id     int32
}

// unmappedReference is the shared, read-only sentinel returned for "*" and
// id -1. It is never mutated.
var unmappedReference = &Reference{name: "*", id: unmappedRefID}

// NewReference builds a new '@SQ' Reference with the given name and
// length, to be assigned an id when added to a Header.
func NewReference(name string, length int32) (*Reference, error) {
	if name == "" || name == "*" {
		return nil, errors.Wrapf(ErrBadFormat, "invalid reference name %q", name)
	}
	hl, err := NewHeaderLine("@SQ\tSN:" + name + "\tLN:" + strconv.Itoa(int(length)))
	if err != nil {
		return nil, err
	}
	r := &Reference{HeaderLine: hl, id: unmappedRefID}
	hl.self = r
	if err := r.sync(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Reference) sync() error {
	if err := r.HeaderLine.sync(); err != nil {
		return err
	}
	name, err := r.FieldString("SN")
	if err != nil {
		return err
	}
	length, err := r.FieldInt("LN")
	if err != nil {
		return err
	}
	r.name = name
	r.length = int32(length)
	return nil
}

// Name returns the reference's name, or "*" for the unmapped sentinel.
func (r *Reference) Name() string {
	if r == nil {
		return "*"
	}
	return r.name
}

// Length returns the reference's declared length.
func (r *Reference) Length() int32 { return r.length }

// ID returns the reference's collection-assigned index, or -1 for the
// unmapped sentinel or an unattached reference.
func (r *Reference) ID() int32 {
	if r == nil {
		return unmappedRefID
	}
	return r.id
}
