package binning

import "testing"

func TestIsValidIndexPos(t *testing.T) {
	cases := []struct {
		pos  int
		want bool
	}{
		{-1, false},
		{0, true},
		{(1 << 29) - 1, true},
		{1 << 29, false},
	}
	for _, c := range cases {
		if got := IsValidIndexPos(c.pos); got != c.want {
			t.Errorf("IsValidIndexPos(%d) = %v, want %v", c.pos, got, c.want)
		}
	}
}

func TestBinForSmallInterval(t *testing.T) {
	// An interval entirely within one 16Kbp leaf bucket sits at the
	// finest level, offset by which bucket it falls in.
	got := BinFor(100, 200)
	want := ((1<<15)-1)/7 + (100 >> 14)
	if got != want {
		t.Errorf("BinFor(100, 200) = %d, want %d", got, want)
	}
}

func TestBinForWholeChromosome(t *testing.T) {
	// An interval spanning enough of the genome to miss every level
	// narrower than the top falls back to bin 0.
	got := BinFor(0, 1<<28)
	if got != 0 {
		t.Errorf("BinFor(0, 1<<28) = %d, want 0", got)
	}
}

func TestBinForCrossesLeafBoundary(t *testing.T) {
	// An interval straddling a 16Kbp boundary is promoted to the next
	// coarser level rather than staying at the leaf level.
	leaf := BinFor(100, 200)
	straddling := BinFor((1<<14)-50, (1<<14)+50)
	if straddling == leaf {
		t.Errorf("BinFor should promote a boundary-straddling interval to a coarser bin")
	}
}
