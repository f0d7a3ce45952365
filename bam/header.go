package bam

import (
	"bytes"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/jmarshall/cansam-sub000/internal/lebin"
	"github.com/jmarshall/cansam-sub000/sam"
)

var bamMagic = [4]byte{'B', 'A', 'M', 1}

// DecodeHeader reads the "BAM\1" magic, header text, and reference-sequence
// dictionary from r and returns the resulting *sam.Header. The reference
// dictionary's name/length pairs are cross-checked against (and take
// precedence for ordering over) any @SQ lines already present in the text,
// since the binary list is BAM's canonical source of truth for rindex
// assignment.
func DecodeHeader(r io.Reader) (*sam.Header, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, errors.Wrap(err, "bam: reading magic")
	}
	if magic != bamMagic {
		return nil, errors.Wrap(sam.ErrBadFormat, "bam: missing BAM magic")
	}

	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, errors.Wrap(err, "bam: reading header text length")
	}
	lText := int(lebin.Uint32(lenBuf[:]))
	text := make([]byte, lText)
	if _, err := io.ReadFull(r, text); err != nil {
		return nil, errors.Wrap(err, "bam: reading header text")
	}

	h := sam.NewHeader()
	for _, line := range strings.Split(strings.TrimRight(string(text), "\n"), "\n") {
		if line == "" {
			continue
		}
		if err := h.Add(line, sam.AddAuto); err != nil {
			return nil, err
		}
	}

	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, errors.Wrap(err, "bam: reading n_ref")
	}
	nRef := int(lebin.Uint32(lenBuf[:]))
	for i := 0; i < nRef; i++ {
		if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
			return nil, errors.Wrap(err, "bam: reading l_name")
		}
		lName := int(lebin.Uint32(lenBuf[:]))
		nameBuf := make([]byte, lName)
		if _, err := io.ReadFull(r, nameBuf); err != nil {
			return nil, errors.Wrap(err, "bam: reading ref name")
		}
		name := string(bytes.TrimRight(nameBuf, "\x00"))

		if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
			return nil, errors.Wrap(err, "bam: reading l_ref")
		}
		length := int32(lebin.Uint32(lenBuf[:]))

		if ref, ok := h.RefByName(name); ok && ref != nil {
			if ref.Length() != length {
				return nil, errors.Wrapf(sam.ErrBadFormat, "bam: reference %q length mismatch between text and binary dictionary", name)
			}
			continue
		}
		ref, err := sam.NewReference(name, length)
		if err != nil {
			return nil, err
		}
		if err := h.AddReference(ref); err != nil {
			return nil, err
		}
	}

	return h, nil
}

// EncodeHeader writes h to w in BAM binary form: magic, header text, and
// the reference-sequence dictionary.
func EncodeHeader(w io.Writer, h *sam.Header) error {
	if _, err := w.Write(bamMagic[:]); err != nil {
		return err
	}
	text := h.String()
	var lenBuf [4]byte
	lebin.PutUint32(lenBuf[:], uint32(len(text)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	if _, err := io.WriteString(w, text); err != nil {
		return err
	}

	refs := h.Refs()
	lebin.PutUint32(lenBuf[:], uint32(len(refs)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	for _, ref := range refs {
		name := ref.Name()
		lebin.PutUint32(lenBuf[:], uint32(len(name)+1))
		if _, err := w.Write(lenBuf[:]); err != nil {
			return err
		}
		if _, err := io.WriteString(w, name); err != nil {
			return err
		}
		if _, err := w.Write([]byte{0}); err != nil {
			return err
		}
		lebin.PutUint32(lenBuf[:], uint32(ref.Length()))
		if _, err := w.Write(lenBuf[:]); err != nil {
			return err
		}
	}
	return nil
}
