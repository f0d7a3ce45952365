package lebin

import "testing"

func TestRoundTripIntegers(t *testing.T) {
	var b [4]byte

	PutUint16(b[:2], 0xbeef)
	if got := Uint16(b[:2]); got != 0xbeef {
		t.Errorf("Uint16 = %#x, want %#x", got, 0xbeef)
	}

	PutInt16(b[:2], -1)
	if got := Int16(b[:2]); got != -1 {
		t.Errorf("Int16 = %d, want -1", got)
	}

	PutUint32(b[:], 0xdeadbeef)
	if got := Uint32(b[:]); got != 0xdeadbeef {
		t.Errorf("Uint32 = %#x, want %#x", got, 0xdeadbeef)
	}

	PutInt32(b[:], -12345)
	if got := Int32(b[:]); got != -12345 {
		t.Errorf("Int32 = %d, want -12345", got)
	}
}

func TestRoundTripFloat32(t *testing.T) {
	var b [4]byte
	PutFloat32(b[:], 3.5)
	if got := Float32(b[:]); got != 3.5 {
		t.Errorf("Float32 = %v, want 3.5", got)
	}
}

func TestLittleEndianByteOrder(t *testing.T) {
	var b [4]byte
	PutUint32(b[:], 0x01020304)
	want := [4]byte{0x04, 0x03, 0x02, 0x01}
	if b != want {
		t.Errorf("PutUint32 wrote %x, want %x", b, want)
	}
}
