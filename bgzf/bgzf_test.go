package bgzf

import (
	"bytes"
	"io"
	"testing"

	check "gopkg.in/check.v1"
)

func Test(t *testing.T) { check.TestingT(t) }

type S struct{}

var _ = check.Suite(&S{})

func (s *S) TestRoundTrip(c *check.C) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 1)
	payload := bytes.Repeat([]byte("acgtACGT"), 20000) // forces >1 block
	_, err := w.Write(payload)
	c.Assert(err, check.IsNil)
	c.Assert(w.Close(), check.IsNil)

	r, err := NewReader(&buf, 1)
	c.Assert(err, check.IsNil)
	got, err := io.ReadAll(r)
	c.Assert(err, check.IsNil)
	c.Assert(got, check.DeepEquals, payload)
}

func (s *S) TestConcatenatedBlocks(c *check.C) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 1)
	_, err := w.Write([]byte("first block\n"))
	c.Assert(err, check.IsNil)
	c.Assert(w.Flush(), check.IsNil)
	_, err = w.Write([]byte("second block\n"))
	c.Assert(err, check.IsNil)
	c.Assert(w.Close(), check.IsNil)

	r, err := NewReader(&buf, 1)
	c.Assert(err, check.IsNil)
	got, err := io.ReadAll(r)
	c.Assert(err, check.IsNil)
	c.Assert(string(got), check.Equals, "first block\nsecond block\n")
}

func (s *S) TestBadMagic(c *check.C) {
	bad := bytes.Repeat([]byte{0}, blockHeaderLen)
	r, err := NewReader(bytes.NewReader(bad), 1)
	c.Assert(err, check.IsNil)
	_, err = r.Read(make([]byte, 1))
	c.Assert(err, check.NotNil)
}

func (s *S) TestLastChunkAdvances(c *check.C) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 1)
	_, err := w.Write([]byte("hello world"))
	c.Assert(err, check.IsNil)
	c.Assert(w.Close(), check.IsNil)

	r, err := NewReader(&buf, 1)
	c.Assert(err, check.IsNil)
	p := make([]byte, 5)
	n, err := r.Read(p)
	c.Assert(err, check.IsNil)
	c.Assert(n, check.Equals, 5)
	chunk := r.LastChunk()
	c.Assert(chunk.Begin.File, check.Equals, int64(0))
	c.Assert(chunk.End.Block, check.Equals, uint16(5))
}
