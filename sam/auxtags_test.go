package sam

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	diTag = Tag{'D', 'I'}
	dsTag = Tag{'D', 'S'}
)

func TestGetUnique(t *testing.T) {
	r := GetFromFreePool()
	defer PutInFreePool(r)

	// Case 1: no Aux fields, expect (nil, nil).
	r.AuxFields = AuxFields{}
	tag, err := r.AuxFields.GetUnique(diTag)
	assert.NoError(t, err)
	assert.Nil(t, tag)

	// Case 2: tag appears once.
	newAux, err := NewAux(diTag, "1")
	assert.NoError(t, err)
	r.AuxFields = append(r.AuxFields, newAux)
	newAux, err = NewAux(dsTag, 2)
	assert.NoError(t, err)
	r.AuxFields = append(r.AuxFields, newAux)

	tag, err = r.AuxFields.GetUnique(diTag)
	assert.NoError(t, err)
	assert.NotNil(t, tag)

	// Case 3: tag appears multiple times.
	newAux, err = NewAux(diTag, "3")
	assert.NoError(t, err)
	r.AuxFields = append(r.AuxFields, newAux)
	newAux, err = NewAux(dsTag, 4)
	assert.NoError(t, err)
	r.AuxFields = append(r.AuxFields, newAux)

	_, err = r.AuxFields.GetUnique(diTag)
	assert.Error(t, err)
}

func TestAuxFieldsMutation(t *testing.T) {
	di, err := NewAux(diTag, "1")
	assert.NoError(t, err)
	ds, err := NewAux(dsTag, 2)
	assert.NoError(t, err)
	xs, err := NewAux(Tag{'X', 'S'}, "mid")
	assert.NoError(t, err)

	var af AuxFields
	af.PushBack(di)
	af.PushBack(ds)
	assert.Equal(t, AuxFields{di, ds}, af)

	af.Insert(1, xs)
	assert.Equal(t, AuxFields{di, xs, ds}, af)

	af.RemoveRange(0, 2)
	assert.Equal(t, AuxFields{ds}, af)

	af.Clear()
	assert.Empty(t, af)
}
