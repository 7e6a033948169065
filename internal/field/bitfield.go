// path: internal/field/bitfield.go
package field

import (
	"math/bits"

	"rensa_sim/internal/shared"
)

// BitField stores a board as three bit planes. The color of a cell is the 3-bit
// number whose bit i is taken from plane i. Sentinel cells hold Wall.
type BitField struct {
	m [3]Bits
}

// NewBitField returns an empty board with its sentinel frame in place.
func NewBitField() BitField {
	var bf BitField
	bf.fill(wallMask, shared.Wall)
	return bf
}

func isPlayable(x, y int) bool {
	return x >= 1 && x <= shared.Width && y >= 1 && y <= shared.Height
}

func (bf *BitField) fill(mask Bits, c shared.Color) {
	for i := range bf.m {
		if c&(1<<uint(i)) != 0 {
			bf.m[i] = bf.m[i].Or(mask)
		} else {
			bf.m[i] = bf.m[i].AndNot(mask)
		}
	}
}

// ColorAt decodes (x, y). Coordinates outside the frame read as Wall.
func (bf *BitField) ColorAt(x, y int) shared.Color {
	if x < 0 || x >= shared.MapWidth || y < 0 || y >= shared.MapHeight {
		return shared.Wall
	}
	s := uint(y)
	c := (bf.m[0][x] >> s & 1) | (bf.m[1][x]>>s&1)<<1 | (bf.m[2][x]>>s&1)<<2
	return shared.Color(c)
}

// SetColor encodes c at (x, y). Heights are not touched. Writes outside the
// playable area are ignored so the sentinel frame stays intact.
func (bf *BitField) SetColor(x, y int, c shared.Color) {
	if !isPlayable(x, y) {
		return
	}
	bit := uint16(1) << uint(y)
	for i := range bf.m {
		if c&(1<<uint(i)) != 0 {
			bf.m[i][x] |= bit
		} else {
			bf.m[i][x] &^= bit
		}
	}
}

// codeMask returns the cells inside area whose plane code equals c.
func (bf *BitField) codeMask(c shared.Color, area Bits) Bits {
	out := area
	for i := range bf.m {
		if c&(1<<uint(i)) != 0 {
			out = out.And(bf.m[i])
		} else {
			out = out.AndNot(bf.m[i])
		}
	}
	return out
}

// MatchMask returns the cells holding c that take part in matching.
func (bf *BitField) MatchMask(c shared.Color) Bits {
	return bf.codeMask(c, visibleMask)
}

// ColorMask returns every playable cell holding c, the hidden row included.
func (bf *BitField) ColorMask(c shared.Color) Bits {
	return bf.codeMask(c, playableMask)
}

// Occupied returns the non-empty playable cells.
func (bf *BitField) Occupied() Bits {
	return bf.m[0].Or(bf.m[1]).Or(bf.m[2]).And(playableMask)
}

// Erase clears the playable cells in mask.
func (bf *BitField) Erase(mask Bits) {
	mask = mask.And(playableMask)
	for i := range bf.m {
		bf.m[i] = bf.m[i].AndNot(mask)
	}
}

// DropAll closes the gaps marked in vacated, which must already be empty. All
// columns move in lock-step, one pass per vacated row from the top down. The
// result is the largest number of rows any piece fell; when it is 0 the planes
// are left untouched.
func (bf *BitField) DropAll(vacated Bits) int {
	vacated = vacated.And(playableMask)
	survivors := bf.Occupied().AndNot(vacated)

	maxDrop := 0
	for x := 1; x <= shared.Width; x++ {
		if vacated[x] == 0 || survivors[x] == 0 {
			continue
		}
		top := bits.Len16(survivors[x]) - 1
		below := vacated[x] & (uint16(1)<<uint(top) - 1)
		if d := bits.OnesCount16(below); d > maxDrop {
			maxDrop = d
		}
	}
	if maxDrop == 0 {
		return 0
	}

	whole := vacated.HorizontalOr()
	maxY := bits.Len16(whole) - 1
	minY := bits.TrailingZeros16(whole)

	for y := maxY; y >= minY; y-- {
		line := uint16(1) << uint(y)
		below := line - 1
		above := playableLane &^ (line<<1 - 1)
		for x := 1; x <= shared.Width; x++ {
			if vacated[x]&line == 0 {
				continue
			}
			for i := range bf.m {
				v := bf.m[i][x]
				bf.m[i][x] = v&^playableLane | v&below | (v&above)>>1
			}
		}
	}
	return maxDrop
}

// gaps returns the empty playable cells that have a piece somewhere above them.
func (bf *BitField) gaps() Bits {
	occ := bf.Occupied()
	var g Bits
	for x := 1; x <= shared.Width; x++ {
		if occ[x] == 0 {
			continue
		}
		top := bits.Len16(occ[x]) - 1
		g[x] = ^occ[x] & playableLane & (uint16(1)<<uint(top) - 1)
	}
	return g
}

// ForceDrop lets every floating piece fall once without resolving chains.
func (bf *BitField) ForceDrop() int {
	return bf.DropAll(bf.gaps())
}

// CalculateHeights writes the topmost non-empty row of each playable column.
func (bf *BitField) CalculateHeights(heights *[shared.MapWidth]int) {
	occ := bf.Occupied()
	for x := range heights {
		heights[x] = laneHeight(occ[x])
	}
}

func laneHeight(lane uint16) int {
	lane &= playableLane
	if lane == 0 {
		return 0
	}
	return bits.Len16(lane) - 1
}
