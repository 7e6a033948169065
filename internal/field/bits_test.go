package field

import (
	"testing"

	"rensa_sim/internal/shared"
)

func TestBitsShifts(t *testing.T) {
	b := BitAt(3, 5)
	if got := b.Up(); got != BitAt(3, 6) {
		t.Fatalf("up: got\n%s", got)
	}
	if got := b.Down(); got != BitAt(3, 4) {
		t.Fatalf("down: got\n%s", got)
	}
	if got := b.Left(); got != BitAt(2, 5) {
		t.Fatalf("left: got\n%s", got)
	}
	if got := b.Right(); got != BitAt(4, 5) {
		t.Fatalf("right: got\n%s", got)
	}
}

func TestBitsPopLowestOrder(t *testing.T) {
	b := cells([2]int{4, 1}, [2]int{2, 7}, [2]int{2, 3})
	var order []Bits
	for rest := b; !rest.IsEmpty(); {
		var one Bits
		one, rest = rest.PopLowest()
		order = append(order, one)
	}
	want := []Bits{BitAt(2, 3), BitAt(2, 7), BitAt(4, 1)}
	if len(order) != len(want) {
		t.Fatalf("expected %d cells, got %d", len(want), len(order))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("cell %d: got\n%s", i, order[i])
		}
	}
	if b.PopCount() != 3 {
		t.Fatalf("PopLowest must not consume the receiver")
	}
}

func TestBitsIterateCells(t *testing.T) {
	b := cells([2]int{1, 1}, [2]int{6, 12})
	var got [][2]int
	b.IterateCells(func(x, y int) { got = append(got, [2]int{x, y}) })
	if len(got) != 2 || got[0] != [2]int{1, 1} || got[1] != [2]int{6, 12} {
		t.Fatalf("unexpected cells %v", got)
	}
}

func TestExpandStaysInside(t *testing.T) {
	within := cells([2]int{1, 1}, [2]int{2, 1}, [2]int{2, 2}, [2]int{4, 1})
	g := BitAt(1, 1).Expand(within)
	if g != cells([2]int{1, 1}, [2]int{2, 1}, [2]int{2, 2}) {
		t.Fatalf("unexpected expansion\n%s", g)
	}
	if BitAt(3, 3).Expand(within) != (Bits{}) {
		t.Fatalf("seed outside mask must expand to nothing")
	}
}

func TestVanishingSeeds(t *testing.T) {
	tests := []struct {
		name   string
		rows   []string
		vanish bool
	}{
		{"line of three", []string{"RRR..."}, false},
		{"line of four", []string{"RRRR.."}, true},
		{"square", []string{"RR....", "RR...."}, true},
		{"tee", []string{".R....", "RRR..."}, true},
		{"ell of three", []string{"R.....", "RR...."}, false},
		{"skew", []string{".RR...", "RR...."}, true},
		{"three and two", []string{"....R.", "RRR.R."}, false},
		{"diagonal touch", []string{"R.....", ".RRR.."}, false},
		{"vertical four", []string{"R.....", "R.....", "R.....", "R....."}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := mustField(t, tt.rows...)
			mask := f.bf.MatchMask(shared.Red)
			seeds := VanishingSeeds(mask)
			if got := !seeds.IsEmpty(); got != tt.vanish {
				t.Fatalf("vanish = %v, want %v\nseeds:\n%s", got, tt.vanish, seeds)
			}
			if seeds.AndNot(mask) != (Bits{}) {
				t.Fatalf("seeds escaped the mask")
			}
			if tt.vanish {
				seed, _ := seeds.PopLowest()
				if _, n := ExpandGroup(seed, mask); n < 4 {
					t.Fatalf("seed expanded to %d cells", n)
				}
			}
		})
	}
}
