package field

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"rensa_sim/internal/shared"
)

// Grid is the plain, sentinel-free form of a board. Grid[y-1][x-1] is cell (x, y),
// so Grid[0] is the bottom row.
type Grid [shared.Height][shared.Width]shared.Color

func (g *Grid) At(x, y int) shared.Color { return g[y-1][x-1] }

func (g *Grid) Set(x, y int, c shared.Color) { g[y-1][x-1] = c }

// ParseRows reads rows given top first, aligned to the bottom of the board. Each
// row holds exactly Width characters.
func ParseRows(rows ...string) (Grid, error) {
	var g Grid
	if len(rows) > shared.Height {
		return g, fmt.Errorf("%w: %d rows, at most %d", ErrMalformedGrid, len(rows), shared.Height)
	}
	for i, row := range rows {
		if n := utf8.RuneCountInString(row); n != shared.Width {
			return g, fmt.Errorf("%w: row %d has %d cells, want %d", ErrMalformedGrid, i, n, shared.Width)
		}
		y := len(rows) - i
		x := 1
		for _, r := range row {
			c, ok := shared.ParseColor(r)
			if !ok || c == shared.Wall {
				return g, fmt.Errorf("%w: %q at row %d", ErrUnknownColor, r, i)
			}
			g.Set(x, y, c)
			x++
		}
	}
	return g, nil
}

// Rows prints the grid top first, starting at the highest non-empty row.
func (g *Grid) Rows() []string {
	top := 0
	for y := shared.Height; y >= 1; y-- {
		if g[y-1] != ([shared.Width]shared.Color{}) {
			top = y
			break
		}
	}
	rows := make([]string, 0, top)
	for y := top; y >= 1; y-- {
		var sb strings.Builder
		for x := 1; x <= shared.Width; x++ {
			sb.WriteRune(g.At(x, y).Rune())
		}
		rows = append(rows, sb.String())
	}
	return rows
}

func (g *Grid) String() string { return strings.Join(g.Rows(), "\n") }

// FromGrid builds a field holding exactly the cells of g; nothing is dropped.
// Wall cells and values outside the declared colors are a caller error and are
// written as empty.
func FromGrid(g Grid) Field {
	bf := NewBitField()
	for y := 1; y <= shared.Height; y++ {
		for x := 1; x <= shared.Width; x++ {
			if c := g.At(x, y); c.IsValid() && c != shared.Wall {
				bf.SetColor(x, y, c)
			}
		}
	}
	return FromBitField(bf)
}

// FromGridWithDrop builds a field from g and lets floating pieces fall.
func FromGridWithDrop(g Grid) Field {
	f := FromGrid(g)
	f.ForceDrop()
	return f
}

// FromRows is ParseRows followed by FromGrid.
func FromRows(rows ...string) (Field, error) {
	g, err := ParseRows(rows...)
	if err != nil {
		return Field{}, err
	}
	return FromGrid(g), nil
}

// ToGrid returns the plain form of the playable area.
func (f *Field) ToGrid() Grid {
	var g Grid
	for y := 1; y <= shared.Height; y++ {
		for x := 1; x <= shared.Width; x++ {
			g.Set(x, y, f.bf.ColorAt(x, y))
		}
	}
	return g
}
