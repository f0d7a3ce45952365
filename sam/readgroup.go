package sam

import "github.com/pkg/errors"

// ReadGroup is an '@RG' header line with a cached id field.
type ReadGroup struct {
	*HeaderLine
	id string
}

// NewReadGroup builds a new '@RG' ReadGroup with the given id.
func NewReadGroup(id string) (*ReadGroup, error) {
	if id == "" {
		return nil, errors.Wrap(ErrBadFormat, "read group id must not be empty")
	}
	hl, err := NewHeaderLine("@RG\tID:" + id)
	if err != nil {
		return nil, err
	}
	rg := &ReadGroup{HeaderLine: hl}
	hl.self = rg
	if err := rg.sync(); err != nil {
		return nil, err
	}
	return rg, nil
}

func (rg *ReadGroup) sync() error {
	if err := rg.HeaderLine.sync(); err != nil {
		return err
	}
	id, err := rg.FieldString("ID")
	if err != nil {
		return err
	}
	rg.id = id
	return nil
}

// ID returns the read group's identifier.
func (rg *ReadGroup) ID() string { return rg.id }

// Sample returns the "SM" field, or "" if absent.
func (rg *ReadGroup) Sample() string { return rg.FieldStringDefault("SM", "") }

// Library returns the "LB" field, or "" if absent.
func (rg *ReadGroup) Library() string { return rg.FieldStringDefault("LB", "") }

// Description returns the "DS" field, or "" if absent.
func (rg *ReadGroup) Description() string { return rg.FieldStringDefault("DS", "") }

// PlatformUnit returns the "PU" field, or "" if absent.
func (rg *ReadGroup) PlatformUnit() string { return rg.FieldStringDefault("PU", "") }
