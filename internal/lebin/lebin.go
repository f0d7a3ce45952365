// Package lebin centralizes little-endian binary access for the wire
// formats used throughout this module (BAM records, BGZF block headers).
package lebin

import (
	"encoding/binary"
	"math"
)

// Uint16 reads a little-endian uint16 from the first two bytes of b.
func Uint16(b []byte) uint16 { return binary.LittleEndian.Uint16(b) }

// Uint32 reads a little-endian uint32 from the first four bytes of b.
func Uint32(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }

// Int16 reads a little-endian signed int16 from the first two bytes of b.
func Int16(b []byte) int16 { return int16(binary.LittleEndian.Uint16(b)) }

// Int32 reads a little-endian signed int32 from the first four bytes of b.
func Int32(b []byte) int32 { return int32(binary.LittleEndian.Uint32(b)) }

// PutUint16 writes v as little-endian into the first two bytes of b.
func PutUint16(b []byte, v uint16) { binary.LittleEndian.PutUint16(b, v) }

// PutUint32 writes v as little-endian into the first four bytes of b.
func PutUint32(b []byte, v uint32) { binary.LittleEndian.PutUint32(b, v) }

// PutInt16 writes v as little-endian into the first two bytes of b.
func PutInt16(b []byte, v int16) { binary.LittleEndian.PutUint16(b, uint16(v)) }

// PutInt32 writes v as little-endian into the first four bytes of b.
func PutInt32(b []byte, v int32) { binary.LittleEndian.PutUint32(b, uint32(v)) }

// Float32 reads a little-endian IEEE-754 float32 from the first four bytes of b.
func Float32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

// PutFloat32 writes v as little-endian IEEE-754 into the first four bytes of b.
func PutFloat32(b []byte, v float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
}
