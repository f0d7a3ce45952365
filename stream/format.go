// Package stream provides format-sniffing Input/Output facades over the sam
// and bam codecs: callers open a path or wrap a reader/writer without
// naming a format up front, and the first few bytes (or the file
// extension, for Output) decide whether SAM text, gzip-wrapped SAM text,
// or BAM binary is in play.
package stream

import "strings"

// Format identifies which of the three wire representations a stream uses.
type Format int

const (
	ModeSAM Format = iota
	ModeSAMGZ
	ModeBAM
)

func (f Format) String() string {
	switch f {
	case ModeSAM:
		return "SAM"
	case ModeSAMGZ:
		return "SAM.gz"
	case ModeBAM:
		return "BAM"
	default:
		return "unknown"
	}
}

var bgzfExtra = [6]byte{0x06, 0x00, 0x42, 0x43, 0x02, 0x00}

// detectFormat inspects up to the first 16 bytes of a stream and classifies
// it. Fewer than 16 bytes is never mistaken for BAM (BGZF's extra-field
// signature requires all of them); anything opening with the gzip magic but
// missing that signature is gzip-wrapped SAM; everything else is read as
// plain SAM text.
func detectFormat(peek []byte) Format {
	if len(peek) < 2 || peek[0] != 0x1f || peek[1] != 0x8b {
		return ModeSAM
	}
	if len(peek) >= 16 && [6]byte{peek[10], peek[11], peek[12], peek[13], peek[14], peek[15]} == bgzfExtra {
		return ModeBAM
	}
	return ModeSAMGZ
}

// Extension maps a file path's suffix to the Format a writer should use,
// matching case-insensitively so "reads.BAM" and "reads.bam" agree.
func Extension(path string) Format {
	switch {
	case hasSuffixFold(path, ".bam"):
		return ModeBAM
	case hasSuffixFold(path, ".sam.gz"):
		return ModeSAMGZ
	default:
		return ModeSAM
	}
}

func hasSuffixFold(s, suffix string) bool {
	if len(s) < len(suffix) {
		return false
	}
	return strings.EqualFold(s[len(s)-len(suffix):], suffix)
}
