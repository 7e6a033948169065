// path: internal/field/bits.go
package field

import (
	"math/bits"
	"strings"

	"rensa_sim/internal/shared"
)

// Bits is a cell mask over the whole frame: one 16-bit lane per column, bit y of
// lane x is cell (x, y).
type Bits [shared.MapWidth]uint16

const (
	playableLane uint16 = (1<<(shared.Height+1) - 1) &^ 1
	visibleLane  uint16 = (1<<(shared.VisibleHeight+1) - 1) &^ 1
	sentinelLane uint16 = ^playableLane
)

var (
	playableMask = laneMask(playableLane)
	visibleMask  = laneMask(visibleLane)
	wallMask     = func() Bits {
		var b Bits
		for x := range b {
			if x == 0 || x == shared.MapWidth-1 {
				b[x] = 0xFFFF
			} else {
				b[x] = sentinelLane
			}
		}
		return b
	}()
)

func laneMask(lane uint16) Bits {
	var b Bits
	for x := 1; x <= shared.Width; x++ {
		b[x] = lane
	}
	return b
}

// BitAt returns a mask holding only (x, y).
func BitAt(x, y int) Bits {
	var b Bits
	b[x] = 1 << uint(y)
	return b
}

func (b Bits) Get(x, y int) bool { return b[x]&(1<<uint(y)) != 0 }

func (b Bits) Set(x, y int) Bits {
	b[x] |= 1 << uint(y)
	return b
}

func (b Bits) Unset(x, y int) Bits {
	b[x] &^= 1 << uint(y)
	return b
}

func (b Bits) And(o Bits) Bits {
	for x := range b {
		b[x] &= o[x]
	}
	return b
}

func (b Bits) Or(o Bits) Bits {
	for x := range b {
		b[x] |= o[x]
	}
	return b
}

func (b Bits) AndNot(o Bits) Bits {
	for x := range b {
		b[x] &^= o[x]
	}
	return b
}

func (b Bits) IsEmpty() bool {
	var acc uint16
	for _, lane := range b {
		acc |= lane
	}
	return acc == 0
}

func (b Bits) PopCount() int {
	n := 0
	for _, lane := range b {
		n += bits.OnesCount16(lane)
	}
	return n
}

// Up moves every cell one row up.
func (b Bits) Up() Bits {
	for x := range b {
		b[x] <<= 1
	}
	return b
}

// Down moves every cell one row down.
func (b Bits) Down() Bits {
	for x := range b {
		b[x] >>= 1
	}
	return b
}

// Left moves every cell one column to the left.
func (b Bits) Left() Bits {
	var out Bits
	copy(out[:], b[1:])
	return out
}

// Right moves every cell one column to the right.
func (b Bits) Right() Bits {
	var out Bits
	copy(out[1:], b[:shared.MapWidth-1])
	return out
}

// Expand1 grows b by one step in the four directions, limited to within.
func (b Bits) Expand1(within Bits) Bits {
	out := b
	up, down, left, right := b.Up(), b.Down(), b.Left(), b.Right()
	for x := range out {
		out[x] = (out[x] | up[x] | down[x] | left[x] | right[x]) & within[x]
	}
	return out
}

// Expand floods b to its 4-connected extent inside within.
func (b Bits) Expand(within Bits) Bits {
	cur := b.And(within)
	for {
		next := cur.Expand1(within)
		if next == cur {
			return cur
		}
		cur = next
	}
}

// Masked restricts b to the cells that take part in matching.
func (b Bits) Masked() Bits { return b.And(visibleMask) }

// HorizontalOr folds all lanes into one.
func (b Bits) HorizontalOr() uint16 {
	var acc uint16
	for _, lane := range b {
		acc |= lane
	}
	return acc
}

// PopLowest splits off the lowest set cell (lowest column first, then lowest row).
func (b Bits) PopLowest() (Bits, Bits) {
	for x, lane := range b {
		if lane == 0 {
			continue
		}
		low := lane & -lane
		var one Bits
		one[x] = low
		b[x] ^= low
		return one, b
	}
	return Bits{}, Bits{}
}

// IterateCells calls fn with the coordinates of every set cell.
func (b Bits) IterateCells(fn func(x, y int)) {
	for x, lane := range b {
		for lane != 0 {
			fn(x, bits.TrailingZeros16(lane))
			lane &= lane - 1
		}
	}
}

// String renders the playable area top row first, '1' for set cells.
func (b Bits) String() string {
	var sb strings.Builder
	for y := shared.Height; y >= 1; y-- {
		for x := 1; x <= shared.Width; x++ {
			if b.Get(x, y) {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('.')
			}
		}
		if y > 1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// VanishingSeeds returns cells of mask that certainly belong to a 4-connected group
// of four or more: a cell with three neighbours in mask, or a cell with two
// neighbours that touches another such cell. Every such group holds at least one seed.
func VanishingSeeds(mask Bits) Bits {
	u := mask.And(mask.Down())
	d := mask.And(mask.Up())
	l := mask.And(mask.Right())
	r := mask.And(mask.Left())

	var threes, twos Bits
	for x := range mask {
		udAnd, udOr := u[x]&d[x], u[x]|d[x]
		lrAnd, lrOr := l[x]&r[x], l[x]|r[x]
		threes[x] = udAnd&lrOr | lrAnd&udOr
		twos[x] = udAnd | lrAnd | udOr&lrOr
	}

	near := twos.Up().Or(twos.Down()).Or(twos.Left()).Or(twos.Right())
	return threes.Or(twos.And(near))
}

// ExpandGroup floods seed to its full group in mask and reports its size.
func ExpandGroup(seed, mask Bits) (Bits, int) {
	g := seed.Expand(mask)
	return g, g.PopCount()
}
