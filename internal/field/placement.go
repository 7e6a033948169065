package field

import (
	"fmt"
	"strings"

	"rensa_sim/internal/score"
	"rensa_sim/internal/shared"
)

// Decision selects where a pair lands: X is the axis column and R the rotation of
// the child around the axis (0 above, 1 right, 2 below, 3 left).
type Decision struct {
	X int `json:"x"`
	R int `json:"r"`
}

func (d Decision) IsValid() bool {
	if !validColumn(d.X) {
		return false
	}
	switch d.R {
	case 0, 2:
		return true
	case 1:
		return d.X < shared.Width
	case 3:
		return d.X > 1
	default:
		return false
	}
}

func (d Decision) AxisX() int { return d.X }

func (d Decision) ChildX() int {
	switch d.R {
	case 1:
		return d.X + 1
	case 3:
		return d.X - 1
	default:
		return d.X
	}
}

func (d Decision) String() string { return fmt.Sprintf("%d-%d", d.X, d.R) }

// Kumipuyo is a falling pair.
type Kumipuyo struct {
	Axis  shared.Color `json:"axis"`
	Child shared.Color `json:"child"`
}

// DropKumipuyo lands k according to d. Nothing changes when d is invalid or a
// column would overflow.
func (f *Field) DropKumipuyo(d Decision, k Kumipuyo) bool {
	if !d.IsValid() {
		return false
	}
	switch d.R {
	case 0:
		return f.Place(d.X, shared.Height, k.Axis, k.Child)
	case 2:
		return f.Place(d.X, shared.Height, k.Child, k.Axis)
	}
	ax, cx := d.AxisX(), d.ChildX()
	if f.heights[ax] >= shared.Height || f.heights[cx] >= shared.Height {
		return false
	}
	if !f.Place(ax, shared.Height, k.Axis) {
		return false
	}
	if !f.Place(cx, shared.Height, k.Child) {
		f.RemoveTop(ax)
		return false
	}
	return true
}

// IsChigiriDecision reports whether a horizontal pair would land on columns of
// different heights and split.
func (f *Field) IsChigiriDecision(d Decision) bool {
	if !d.IsValid() || d.R == 0 || d.R == 2 {
		return false
	}
	return f.heights[d.AxisX()] != f.heights[d.ChildX()]
}

// FramesToDropNext estimates the frames from spawn until a pair placed with d has
// grounded, split half included. The field is not changed. Invalid decisions
// cost 0.
func (f *Field) FramesToDropNext(d Decision) int {
	if !d.IsValid() {
		return 0
	}
	ax, cx := d.AxisX(), d.ChildX()
	shift := ax - SpawnColumn
	if shift < 0 {
		shift = -shift
	}
	frames := score.FramesToMoveHorizontally(shift)

	switch d.R {
	case 0:
		frames += score.FramesToDropFast(shared.VisibleHeight-f.heights[ax]) + score.FramesGrounding
	case 2:
		// the child sits below the axis, one row closer to the stack
		frames += score.FramesToDropFast(shared.VisibleHeight-f.heights[ax]-1) + score.FramesGrounding
	default:
		lo, hi := f.heights[ax], f.heights[cx]
		if lo > hi {
			lo, hi = hi, lo
		}
		frames += score.FramesToDropFast(shared.VisibleHeight-hi) + score.FramesGrounding
		if lo != hi {
			frames += score.FramesToDrop(hi-lo) + score.FramesGrounding
		}
	}
	return frames
}

// FallOjama drops lines rows of ojama onto every column, stopping columns at the
// top of the board, and returns the frames the fall takes. Ojama falls from
// above the hidden row. Nothing happens for lines <= 0 or when no column has room.
func (f *Field) FallOjama(lines int) int {
	if lines <= 0 {
		return 0
	}
	maxFall := 0
	for x := 1; x <= shared.Width; x++ {
		h := f.heights[x]
		if h >= shared.Height {
			continue
		}
		maxFall = max(maxFall, shared.Height-h)
		for i := 0; i < lines && h < shared.Height; i++ {
			h++
			f.bf.SetColor(x, h, shared.Ojama)
		}
	}
	f.bf.CalculateHeights(&f.heights)
	if maxFall == 0 {
		return 0
	}
	return score.FramesToDrop(maxFall) + score.FramesGrounding
}

// MaxColumnPuyos bounds a ColumnPuyoList.
const MaxColumnPuyos = 8

type ColumnPuyo struct {
	X     int          `json:"x"`
	Color shared.Color `json:"color"`
}

// ColumnPuyoList is a short list of pieces to drop, one entry per piece.
type ColumnPuyoList struct {
	size  int
	puyos [MaxColumnPuyos]ColumnPuyo
}

// Add appends a piece; false when the list is full or x is not a column.
func (l *ColumnPuyoList) Add(x int, c shared.Color) bool {
	if l.size >= MaxColumnPuyos || !validColumn(x) {
		return false
	}
	l.puyos[l.size] = ColumnPuyo{X: x, Color: c}
	l.size++
	return true
}

func (l *ColumnPuyoList) RemoveLast() {
	if l.size > 0 {
		l.size--
	}
}

func (l *ColumnPuyoList) Len() int { return l.size }

func (l *ColumnPuyoList) Items() []ColumnPuyo { return l.puyos[:l.size] }

func (l *ColumnPuyoList) String() string {
	parts := make([]string, 0, l.size)
	for _, p := range l.Items() {
		parts = append(parts, fmt.Sprintf("%d%c", p.X, p.Color.Rune()))
	}
	return strings.Join(parts, " ")
}

// DropPuyoList drops every piece of l in order. Capacity is checked for all
// columns first, so on failure the field is unchanged.
func (f *Field) DropPuyoList(l *ColumnPuyoList, maxHeight int) bool {
	if maxHeight > shared.Height {
		maxHeight = shared.Height
	}
	var add [shared.MapWidth]int
	for _, p := range l.Items() {
		if !placeable(p.Color) {
			return false
		}
		add[p.X]++
	}
	for x := 1; x <= shared.Width; x++ {
		if f.heights[x]+add[x] > maxHeight {
			return false
		}
	}
	for _, p := range l.Items() {
		f.heights[p.X]++
		f.bf.SetColor(p.X, f.heights[p.X], p.Color)
	}
	return true
}
