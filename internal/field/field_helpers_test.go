package field

import (
	"testing"

	"rensa_sim/internal/shared"
)

// fiveChainRows cascades exactly five times and clears the board.
var fiveChainRows = []string{
	".R....",
	".R....",
	".G....",
	".G....",
	".Y....",
	"RYR...",
	"GBG...",
	"YBY...",
	"BRB...",
	"RRR...",
}

func mustField(t *testing.T, rows ...string) Field {
	t.Helper()
	f, err := FromRows(rows...)
	if err != nil {
		t.Fatalf("build field: %v", err)
	}
	return f
}

func checkHeights(t *testing.T, f *Field) {
	t.Helper()
	for x := 1; x <= shared.Width; x++ {
		want := 0
		for y := shared.Height; y >= 1; y-- {
			if f.Color(x, y) != shared.Empty {
				want = y
				break
			}
		}
		if got := f.Height(x); got != want {
			t.Fatalf("column %d: cached height %d, actual %d\n%s", x, got, want, f.String())
		}
	}
}

func cells(coords ...[2]int) Bits {
	var b Bits
	for _, c := range coords {
		b = b.Set(c[0], c[1])
	}
	return b
}
