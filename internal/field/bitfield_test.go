package field

import (
	"testing"

	"rensa_sim/internal/shared"
)

func TestNewBitFieldSentinels(t *testing.T) {
	bf := NewBitField()
	for y := 0; y < shared.MapHeight; y++ {
		if bf.ColorAt(0, y) != shared.Wall || bf.ColorAt(shared.MapWidth-1, y) != shared.Wall {
			t.Fatalf("side wall missing at row %d", y)
		}
	}
	for x := 1; x <= shared.Width; x++ {
		for _, y := range []int{0, 14, 15} {
			if bf.ColorAt(x, y) != shared.Wall {
				t.Fatalf("expected wall at (%d,%d), got %s", x, y, bf.ColorAt(x, y))
			}
		}
		for y := 1; y <= shared.Height; y++ {
			if bf.ColorAt(x, y) != shared.Empty {
				t.Fatalf("expected empty at (%d,%d)", x, y)
			}
		}
	}
	if bf.ColorAt(-1, 3) != shared.Wall || bf.ColorAt(3, 99) != shared.Wall {
		t.Fatalf("out-of-frame reads must be wall")
	}
}

func TestSetColorIgnoresSentinels(t *testing.T) {
	bf := NewBitField()
	before := bf
	bf.SetColor(0, 3, shared.Red)
	bf.SetColor(3, 0, shared.Empty)
	bf.SetColor(3, 14, shared.Blue)
	if bf != before {
		t.Fatalf("sentinel write changed the planes")
	}
}

func TestSetColorRoundTrip(t *testing.T) {
	bf := NewBitField()
	for _, c := range []shared.Color{shared.Ojama, shared.Red, shared.Blue, shared.Yellow, shared.Green, shared.Empty} {
		bf.SetColor(4, 7, c)
		if got := bf.ColorAt(4, 7); got != c {
			t.Fatalf("wrote %s, read %s", c, got)
		}
		if bf.ColorAt(4, 8) != shared.Empty || bf.ColorAt(4, 6) != shared.Empty {
			t.Fatalf("neighbours disturbed by writing %s", c)
		}
	}
}

func TestMatchMaskSkipsHiddenRow(t *testing.T) {
	bf := NewBitField()
	bf.SetColor(1, 13, shared.Red)
	bf.SetColor(2, 12, shared.Red)
	if got := bf.MatchMask(shared.Red); got != BitAt(2, 12) {
		t.Fatalf("unexpected match mask\n%s", got)
	}
	if got := bf.ColorMask(shared.Red); got != cells([2]int{1, 13}, [2]int{2, 12}) {
		t.Fatalf("unexpected color mask\n%s", got)
	}
	if !bf.MatchMask(shared.Blue).IsEmpty() {
		t.Fatalf("blue mask should be empty")
	}
}

func TestDropAllReturnsMaxDrop(t *testing.T) {
	bf := NewBitField()
	bf.SetColor(1, 2, shared.Blue)
	bf.SetColor(1, 3, shared.Yellow)
	bf.SetColor(2, 4, shared.Green)
	vacated := cells([2]int{1, 1}, [2]int{2, 1}, [2]int{2, 2}, [2]int{2, 3})

	if got := bf.DropAll(vacated); got != 3 {
		t.Fatalf("expected max drop 3, got %d", got)
	}
	want := map[[2]int]shared.Color{
		{1, 1}: shared.Blue,
		{1, 2}: shared.Yellow,
		{1, 3}: shared.Empty,
		{2, 1}: shared.Green,
		{2, 4}: shared.Empty,
		{1, 0}: shared.Wall,
		{2, 14}: shared.Wall,
	}
	for pos, c := range want {
		if got := bf.ColorAt(pos[0], pos[1]); got != c {
			t.Fatalf("(%d,%d): got %s, want %s", pos[0], pos[1], got, c)
		}
	}
}

func TestDropAllWithoutGapIsNoop(t *testing.T) {
	bf := NewBitField()
	bf.SetColor(1, 1, shared.Red)
	bf.SetColor(1, 2, shared.Blue)
	before := bf
	if got := bf.DropAll(BitAt(1, 3)); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if got := bf.DropAll(Bits{}); got != 0 {
		t.Fatalf("expected 0 for empty mask, got %d", got)
	}
	if bf != before {
		t.Fatalf("board changed without a gap")
	}
}

func TestBitFieldForceDrop(t *testing.T) {
	bf := NewBitField()
	bf.SetColor(1, 5, shared.Red)
	bf.SetColor(3, 2, shared.Blue)
	bf.SetColor(3, 4, shared.Yellow)
	if got := bf.ForceDrop(); got != 4 {
		t.Fatalf("expected max drop 4, got %d", got)
	}
	if bf.ColorAt(1, 1) != shared.Red || bf.ColorAt(1, 5) != shared.Empty {
		t.Fatalf("column 1 did not settle")
	}
	if bf.ColorAt(3, 1) != shared.Blue || bf.ColorAt(3, 2) != shared.Yellow || bf.ColorAt(3, 3) != shared.Empty {
		t.Fatalf("column 3 did not settle")
	}
	if got := bf.ForceDrop(); got != 0 {
		t.Fatalf("settled board dropped %d more rows", got)
	}
}

func TestHiddenRowPieceFalls(t *testing.T) {
	bf := NewBitField()
	bf.SetColor(5, 13, shared.Green)
	if got := bf.ForceDrop(); got != 12 {
		t.Fatalf("expected 12 rows, got %d", got)
	}
	if bf.ColorAt(5, 1) != shared.Green {
		t.Fatalf("hidden row piece did not reach the floor")
	}
	var h [shared.MapWidth]int
	bf.CalculateHeights(&h)
	if h[5] != 1 || h[0] != 0 || h[shared.MapWidth-1] != 0 {
		t.Fatalf("unexpected heights %v", h)
	}
}
