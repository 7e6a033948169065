// Package field implements the packed puyo board, its chain resolver and the
// trackers that observe it.
package field

import (
	"fmt"

	"rensa_sim/internal/shared"
)

// Field is a BitField with a per-column height cache. It holds no pointers, so a
// plain assignment yields an independent board and == compares boards.
type Field struct {
	bf      BitField
	heights [shared.MapWidth]int
}

// NewField returns an empty field.
func NewField() Field {
	return Field{bf: NewBitField()}
}

// FromBitField wraps bf and computes its heights.
func FromBitField(bf BitField) Field {
	f := Field{bf: bf}
	f.bf.CalculateHeights(&f.heights)
	return f
}

func (f *Field) BitField() BitField { return f.bf }

func (f *Field) Color(x, y int) shared.Color { return f.bf.ColorAt(x, y) }

// Height returns the topmost non-empty row of column x, 0 if it is empty.
func (f *Field) Height(x int) int { return f.heights[x] }

func validColumn(x int) bool { return x >= 1 && x <= shared.Width }

// placeable reports whether c may be dropped as a piece.
func placeable(c shared.Color) bool {
	return c.IsValid() && c != shared.Empty && c != shared.Wall
}

// Place stacks one or two pieces on column x, bottom piece first. It fails and
// leaves the field untouched when the column would rise above maxHeight.
func (f *Field) Place(x, maxHeight int, colors ...shared.Color) bool {
	if !validColumn(x) || len(colors) == 0 || len(colors) > 2 {
		return false
	}
	if maxHeight > shared.Height {
		maxHeight = shared.Height
	}
	if f.heights[x]+len(colors) > maxHeight {
		return false
	}
	for _, c := range colors {
		if !placeable(c) {
			return false
		}
	}
	for _, c := range colors {
		f.heights[x]++
		f.bf.SetColor(x, f.heights[x], c)
	}
	return true
}

// DropPuyoOn places a single piece on column x.
func (f *Field) DropPuyoOn(x int, c shared.Color) bool {
	return f.Place(x, shared.Height, c)
}

// RemoveTop removes the topmost piece of column x. The column must not be empty.
func (f *Field) RemoveTop(x int) {
	h := f.heights[x]
	if h < 1 {
		panic(fmt.Sprintf("field: RemoveTop on empty column %d", x))
	}
	f.bf.SetColor(x, h, shared.Empty)
	f.heights[x] = laneHeight(f.bf.Occupied()[x])
}

// ForceDrop settles floating pieces once without resolving chains.
func (f *Field) ForceDrop() {
	f.bf.ForceDrop()
	f.bf.CalculateHeights(&f.heights)
}

// Simulate resolves the whole cascade.
func (f *Field) Simulate() RensaResult {
	return f.SimulateFrom(1, NopTracker{})
}

// SimulateWith resolves the whole cascade reporting every step to tracker.
func (f *Field) SimulateWith(tracker Tracker) RensaResult {
	return f.SimulateFrom(1, tracker)
}

// SimulateFrom resolves the cascade numbering the first step initialChain.
func (f *Field) SimulateFrom(initialChain int, tracker Tracker) RensaResult {
	res := f.bf.Simulate(initialChain, tracker)
	f.bf.CalculateHeights(&f.heights)
	return res
}

// SimulateFast resolves the cascade reporting only the chain count and score.
func (f *Field) SimulateFast() (chains, score int) {
	chains, score = f.bf.SimulateFast()
	f.bf.CalculateHeights(&f.heights)
	return chains, score
}

// VanishDrop runs a single chain step numbered chain.
func (f *Field) VanishDrop(chain int, tracker Tracker) StepResult {
	if tracker == nil {
		tracker = NopTracker{}
	}
	coef, _ := tracker.(StepCoefObserver)
	res := f.bf.vanishDrop(chain, tracker, coef)
	f.bf.CalculateHeights(&f.heights)
	return res
}

func (f *Field) RensaWillOccur() bool { return f.bf.RensaWillOccur() }

// ErasingMask returns the cells the next step would erase without erasing them.
func (f *Field) ErasingMask() Bits { return f.bf.ErasingMask() }

// IgnitionMask is ErasingMask without the ojama.
func (f *Field) IgnitionMask() Bits { return f.bf.IgnitionMask() }

// IsZenkeshi reports an empty board. Only meaningful once everything has settled.
func (f *Field) IsZenkeshi() bool { return f.bf.Occupied().IsEmpty() }

// CountPuyos counts every piece, ojama included.
func (f *Field) CountPuyos() int { return f.bf.Occupied().PopCount() }

// CountColorPuyos counts pieces of normal colors.
func (f *Field) CountColorPuyos() int {
	n := 0
	for _, c := range shared.NormalColors {
		n += f.bf.ColorMask(c).PopCount()
	}
	return n
}

func (f *Field) CountColor(c shared.Color) int { return f.bf.ColorMask(c).PopCount() }

// CountConnected returns the size of the same-color group containing (x, y)
// within the matching area, 0 for cells outside it.
func (f *Field) CountConnected(x, y int) int {
	if !isPlayable(x, y) || y > shared.VisibleHeight {
		return 0
	}
	mask := f.bf.MatchMask(f.bf.ColorAt(x, y))
	_, n := ExpandGroup(BitAt(x, y), mask)
	return n
}

// Equal reports whether both fields hold the same cells and heights.
func (f *Field) Equal(o *Field) bool { return *f == *o }

func (f *Field) String() string {
	g := f.ToGrid()
	return g.String()
}
