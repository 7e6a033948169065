package score

import "testing"

func TestRensaBonusCoefFloor(t *testing.T) {
	if got := RensaBonusCoef(0, 0, 0); got != 1 {
		t.Fatalf("expected floor of 1, got %d", got)
	}
	if got := RensaBonusCoef(8, 2, 3); got != 13 {
		t.Fatalf("expected 13, got %d", got)
	}
}

func TestStepScore(t *testing.T) {
	tests := []struct {
		name                        string
		chain, erased, long, colors int
		want                        int
	}{
		{"single four", 1, 4, 0, 1, 40},
		{"second chain four", 2, 4, 0, 1, 320},
		{"five group first chain", 1, 5, 2, 1, 100},
		{"two colors first chain", 1, 8, 0, 2, 240},
		{"fifth chain", 5, 4, 0, 1, 2560},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StepScore(tt.chain, tt.erased, tt.long, tt.colors); got != tt.want {
				t.Fatalf("StepScore = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTablesClamp(t *testing.T) {
	if ChainBonus(19) != 512 || ChainBonus(40) != 512 {
		t.Fatalf("chain bonus should saturate at 512")
	}
	if LongBonus(4) != 0 || LongBonus(11) != 10 || LongBonus(30) != 10 {
		t.Fatalf("unexpected long bonus values")
	}
	if ColorBonus(1) != 0 || ColorBonus(5) != 24 || ColorBonus(9) != 24 {
		t.Fatalf("unexpected color bonus values")
	}
	if FramesToDropFast(0) != 0 || FramesToDropFast(1) != 10 || FramesToDropFast(99) != 36 {
		t.Fatalf("unexpected drop frame values")
	}
}

func TestFrameTables(t *testing.T) {
	tests := []struct {
		name string
		fn   func(int) int
		in   int
		want int
	}{
		{"fall none", FramesToDrop, 0, 0},
		{"fall one", FramesToDrop, 1, 19},
		{"fall board", FramesToDrop, 13, 52},
		{"fall clamps", FramesToDrop, 20, 54},
		{"fall negative", FramesToDrop, -3, 0},
		{"stay", FramesToMoveHorizontally, 0, 0},
		{"shift two", FramesToMoveHorizontally, 2, 8},
		{"shift three", FramesToMoveHorizontally, 3, 10},
		{"shift clamps", FramesToMoveHorizontally, 9, 14},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.in); got != tt.want {
				t.Fatalf("got %d, want %d", got, tt.want)
			}
		})
	}
}
