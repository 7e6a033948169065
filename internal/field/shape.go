package field

import "rensa_sim/internal/shared"

// SpawnColumn is where a new pair enters the board.
const SpawnColumn = 3

// RidgeHeight is how far column x stands above its taller neighbour, 0 unless it
// is higher than every neighbour. Edge columns compare with their only neighbour.
func (f *Field) RidgeHeight(x int) int {
	if !validColumn(x) {
		return 0
	}
	h := f.heights[x]
	ridge := h
	if x > 1 {
		ridge = min(ridge, h-f.heights[x-1])
	}
	if x < shared.Width {
		ridge = min(ridge, h-f.heights[x+1])
	}
	return max(ridge, 0)
}

// ValleyDepth is how far column x sits below its lower neighbour, 0 unless it is
// lower than every neighbour. Edge columns compare with their only neighbour.
func (f *Field) ValleyDepth(x int) int {
	if !validColumn(x) {
		return 0
	}
	h := f.heights[x]
	depth := shared.Height
	if x > 1 {
		depth = min(depth, f.heights[x-1]-h)
	}
	if x < shared.Width {
		depth = min(depth, f.heights[x+1]-h)
	}
	return max(depth, 0)
}

func (f *Field) emptyVisible() Bits {
	return playableMask.AndNot(f.bf.Occupied()).Masked()
}

// reachable floods the empty visible cells connected to the spawn cell.
func (f *Field) reachable() Bits {
	empty := f.emptyVisible()
	return BitAt(SpawnColumn, shared.VisibleHeight).Expand(empty)
}

// CountReachableSpaces counts empty visible cells a pair can get to from spawn.
func (f *Field) CountReachableSpaces() int { return f.reachable().PopCount() }

// CountUnreachableSpaces counts empty visible cells cut off from spawn.
func (f *Field) CountUnreachableSpaces() int {
	return f.emptyVisible().AndNot(f.reachable()).PopCount()
}

// CountConnection counts visible colored groups of exactly two cells and groups of
// three or more.
func (f *Field) CountConnection() (twos, threes int) {
	for _, c := range shared.NormalColors {
		mask := f.bf.ColorMask(c).Masked()
		for !mask.IsEmpty() {
			seed, _ := mask.PopLowest()
			group, n := ExpandGroup(seed, mask)
			switch {
			case n == 2:
				twos++
			case n >= 3:
				threes++
			}
			mask = mask.AndNot(group)
		}
	}
	return twos, threes
}

// IsConnected reports whether the colored cell (x, y) touches a cell of the same
// color inside the matching area.
func (f *Field) IsConnected(x, y int) bool {
	if !isPlayable(x, y) || y > shared.VisibleHeight {
		return false
	}
	c := f.bf.ColorAt(x, y)
	if !c.IsNormal() {
		return false
	}
	return BitAt(x, y).Expand1(f.bf.MatchMask(c)).PopCount() > 1
}

// HasEmptyNeighbor reports an empty playable cell next to (x, y).
func (f *Field) HasEmptyNeighbor(x, y int) bool {
	if !isPlayable(x, y) {
		return false
	}
	empty := playableMask.AndNot(f.bf.Occupied())
	cell := BitAt(x, y)
	return !cell.Expand1(empty).AndNot(cell).IsEmpty()
}

// CountConnectedMax4 is CountConnected capped at 4. It only looks three steps
// away from (x, y), which is enough to tell a group that will vanish.
func (f *Field) CountConnectedMax4(x, y int) int {
	if !isPlayable(x, y) || y > shared.VisibleHeight {
		return 0
	}
	mask := f.bf.MatchMask(f.bf.ColorAt(x, y))
	g := BitAt(x, y).And(mask)
	for i := 0; i < 3; i++ {
		g = g.Expand1(mask)
	}
	return min(g.PopCount(), 4)
}
