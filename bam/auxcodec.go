package bam

import (
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"

	"github.com/jmarshall/cansam-sub000/sam"
)

// jumps maps a BAM aux type code to the fixed payload size of its value, or
// a negative sentinel for variable-length types ('Z', 'H' are
// null-terminated; 'B' carries its own length prefix).
var jumps = [256]int{
	'A': 1,
	'c': 1, 'C': 1,
	's': 2, 'S': 2,
	'i': 4, 'I': 4,
	'f': 4,
	'Z': -1,
	'H': -1,
	'B': -1,
}

var errCorruptAux = errors.New("bam: corrupt aux field")

// parseAux splits a record's trailing binary aux blob into independently
// sliced sam.Aux fields, each backed by its own copy of the relevant bytes
// (see DESIGN.md for why this module favours owned slices over the
// teacher's shared-arena aliasing).
func parseAux(blob []byte) (sam.AuxFields, error) {
	var af sam.AuxFields
	for i := 0; i+2 < len(blob); {
		t := blob[i+2]
		switch j := jumps[t]; {
		case j > 0:
			j += 3
			if i+j > len(blob) {
				return nil, errCorruptAux
			}
			af = append(af, append(sam.Aux(nil), blob[i:i+j]...))
			i += j
		case j < 0:
			switch t {
			case 'Z', 'H':
				end := i
				for end < len(blob) && blob[end] != 0 {
					end++
				}
				if end >= len(blob) {
					return nil, errCorruptAux
				}
				af = append(af, append(sam.Aux(nil), blob[i:end]...))
				i = end + 1
			case 'B':
				if i+8 > len(blob) {
					return nil, errCorruptAux
				}
				length := int(binary.LittleEndian.Uint32(blob[i+4 : i+8]))
				elemSize := jumps[blob[i+3]]
				if elemSize <= 0 {
					return nil, errCorruptAux
				}
				end := i + 8 + length*elemSize
				if end > len(blob) {
					return nil, errCorruptAux
				}
				af = append(af, append(sam.Aux(nil), blob[i:end]...))
				i = end
			default:
				return nil, errors.Wrapf(errCorruptAux, "unrecognised aux type %q", t)
			}
		default:
			return nil, fmt.Errorf("bam: unrecognised aux type %q", t)
		}
	}
	return af, nil
}

// buildAux serialises af back into its concatenated binary wire form,
// appending the NUL terminator BAM expects after 'Z'/'H' payloads.
func buildAux(af sam.AuxFields) []byte {
	var buf []byte
	for _, a := range af {
		buf = append(buf, []byte(a)...)
		switch a.Type() {
		case 'Z', 'H':
			buf = append(buf, 0)
		}
	}
	return buf
}
