// Package htstestutil provides small test-only comparison helpers shared by
// the sam and bam test suites.
package htstestutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jmarshall/cansam-sub000/sam"
)

// AssertRecordsEqual fails the test unless want and got carry identical
// field values, per sam.Record.Equal. Using Equal rather than a raw
// reflect.DeepEqual comparison lets callers compare records whose unexported
// bin cache or backing-array identity happen to differ despite representing
// the same alignment.
func AssertRecordsEqual(t *testing.T, want, got *sam.Record) bool {
	t.Helper()
	return assert.Truef(t, want.Equal(got), "records differ:\n want=%+v\n  got=%+v", want, got)
}
